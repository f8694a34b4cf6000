package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskmanager-api/internal/database/dbtest"
	"github.com/redmonkez12/taskmanager-api/internal/user"
)

func ptr[T any](v T) *T { return &v }

func newUser(t *testing.T, db *bun.DB, email string) int64 {
	t.Helper()
	u, err := user.NewRepository(db).Create(context.Background(), email, "hash", "Test User")
	require.NoError(t, err)
	return u.ID
}

func mustCreate(t *testing.T, repo *Repository, ownerID int64, title string, p Priority) *Task {
	t.Helper()
	created, err := repo.Create(context.Background(), ownerID, NewTask{Title: title, Priority: p})
	require.NoError(t, err)
	return created
}

func titles(tasks []*Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewRepository(db)
	owner := newUser(t, db, "a@example.com")

	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, owner, NewTask{
		Title:       "Write report",
		Description: ptr("quarterly"),
		Priority:    PriorityHigh,
		DueDate:     &due,
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, StatusTodo, created.Status)
	assert.Equal(t, PriorityHigh, created.Priority)
	assert.Equal(t, owner, created.UserID)
	require.NotNil(t, created.DueDate)
	assert.True(t, due.Equal(*created.DueDate))

	fetched, err := repo.GetByID(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "quarterly", *fetched.Description)
	require.NotNil(t, fetched.DueDate)
	assert.True(t, due.Equal(*fetched.DueDate))
}

func TestRepository_CreateUnknownOwner(t *testing.T) {
	repo := NewRepository(dbtest.New(t))

	_, err := repo.Create(context.Background(), 999, NewTask{Title: "x", Priority: PriorityLow})
	assert.ErrorIs(t, err, ErrInvalidOwner)
}

func TestRepository_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewRepository(db)
	alice := newUser(t, db, "alice@example.com")
	bob := newUser(t, db, "bob@example.com")

	task := mustCreate(t, repo, alice, "Alice's task", PriorityLow)

	_, err := repo.GetByID(ctx, task.ID, bob)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(ctx, task.ID, bob, Patch{Title: ptr("hijacked")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, task.ID, bob), ErrNotFound)

	bobs, err := repo.List(ctx, bob, Filter{})
	require.NoError(t, err)
	assert.Empty(t, bobs)

	found, err := repo.Search(ctx, bob, "alice")
	require.NoError(t, err)
	assert.Empty(t, found)

	still, err := repo.GetByID(ctx, task.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice's task", still.Title)
}

func TestRepository_ListFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewRepository(db)
	owner := newUser(t, db, "a@example.com")

	first := mustCreate(t, repo, owner, "first", PriorityLow)
	mustCreate(t, repo, owner, "second", PriorityHigh)
	third := mustCreate(t, repo, owner, "third", PriorityLow)
	mustCreate(t, repo, owner, "fourth", PriorityUrgent)

	done := StatusDone
	_, err := repo.Update(ctx, first.ID, owner, Patch{Status: &done})
	require.NoError(t, err)
	_, err = repo.Update(ctx, third.ID, owner, Patch{Status: &done})
	require.NoError(t, err)

	all, err := repo.List(ctx, owner, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"fourth", "third", "second", "first"}, titles(all))

	onlyDone, err := repo.List(ctx, owner, Filter{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "first"}, titles(onlyDone))
	for _, task := range onlyDone {
		assert.Equal(t, StatusDone, task.Status)
	}

	low := PriorityLow
	doneLow, err := repo.List(ctx, owner, Filter{Status: &done, Priority: &low})
	require.NoError(t, err)
	assert.Len(t, doneLow, 2)

	page, err := repo.List(ctx, owner, Filter{Limit: ptr(2), Offset: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second"}, titles(page))

	tail, err := repo.List(ctx, owner, Filter{Offset: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, titles(tail))

	unbounded, err := repo.List(ctx, owner, Filter{Limit: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, titles(all), titles(unbounded), "zero limit means no limit")

	skipped, err := repo.List(ctx, owner, Filter{Limit: ptr(0), Offset: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, titles(skipped))
}

func TestRepository_Search(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewRepository(db)
	owner := newUser(t, db, "a@example.com")

	mustCreate(t, repo, owner, "Buy MILK", PriorityLow)
	_, err := repo.Create(ctx, owner, NewTask{Title: "Groceries", Description: ptr("eggs and milk"), Priority: PriorityMedium})
	require.NoError(t, err)
	mustCreate(t, repo, owner, "100% done_ish", PriorityLow)
	mustCreate(t, repo, owner, "Unrelated", PriorityLow)

	tests := []struct {
		term string
		want []string
	}{
		{"milk", []string{"Groceries", "Buy MILK"}},
		{"EGGS", []string{"Groceries"}},
		{"%", []string{"100% done_ish"}},
		{"_", []string{"100% done_ish"}},
		{"nothing here", []string{}},
		{"", []string{"Unrelated", "100% done_ish", "Groceries", "Buy MILK"}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := repo.Search(ctx, owner, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestRepository_SearchFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewRepository(db)
	owner := newUser(t, db, "a@example.com")

	mustCreate(t, repo, owner, "Über Report", PriorityLow)
	_, err := repo.Create(ctx, owner, NewTask{Title: "Trip", Description: ptr("Straße nach ÉVIAN"), Priority: PriorityLow})
	require.NoError(t, err)
	mustCreate(t, repo, owner, "uber eats", PriorityLow)

	tests := []struct {
		term string
		want []string
	}{
		{"Über", []string{"Über Report"}},
		{"über", []string{"Über Report"}},
		{"ÜBER REPORT", []string{"Über Report"}},
		{"uber", []string{"uber eats"}},
		{"évian", []string{"Trip"}},
		{"STRASSE", []string{}},
		{"straße", []string{"Trip"}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := repo.Search(ctx, owner, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewRepository(db)
	owner := newUser(t, db, "a@example.com")

	due := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	created, err := repo.Create(ctx, owner, NewTask{Title: "draft", Priority: PriorityLow, DueDate: &due})
	require.NoError(t, err)

	urgent := PriorityUrgent
	updated, err := repo.Update(ctx, created.ID, owner, Patch{Title: ptr("final"), Priority: &urgent})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, PriorityUrgent, updated.Priority)
	assert.Equal(t, StatusTodo, updated.Status, "untouched fields stay")
	require.NotNil(t, updated.DueDate)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	cleared, err := repo.Update(ctx, created.ID, owner, Patch{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)

	_, err = repo.Update(ctx, 12345, owner, Patch{Title: ptr("nope")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_CountByStatus(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewRepository(db)
	owner := newUser(t, db, "a@example.com")
	other := newUser(t, db, "b@example.com")

	for i := 0; i < 3; i++ {
		mustCreate(t, repo, owner, "todo", PriorityLow)
	}
	doneTask := mustCreate(t, repo, owner, "done", PriorityLow)
	_, err := repo.Update(ctx, doneTask.ID, owner, Patch{Status: ptr(StatusDone)})
	require.NoError(t, err)
	mustCreate(t, repo, other, "someone else's", PriorityLow)

	counts, err := repo.CountByStatus(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, map[Status]int{StatusTodo: 3, StatusDone: 1}, counts)
}

func TestRepository_CascadeOnUserDelete(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewRepository(db)
	owner := newUser(t, db, "a@example.com")

	a := mustCreate(t, repo, owner, "a", PriorityLow)
	b := mustCreate(t, repo, owner, "b", PriorityLow)

	require.NoError(t, user.NewRepository(db).Delete(ctx, owner))

	list, err := repo.List(ctx, owner, Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, id := range []int64{a.ID, b.ID} {
		_, err := repo.GetByID(ctx, id, owner)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}
