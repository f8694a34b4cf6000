package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/taskmanager-api/internal/apperror"
	"github.com/redmonkez12/taskmanager-api/internal/database/dbtest"
)

// spyStore fails the test if anything reaches storage.
type spyStore struct {
	Store
	t *testing.T
}

func (s spyStore) Update(context.Context, int64, int64, Patch) (*Task, error) {
	s.t.Fatal("storage must not be touched")
	return nil, nil
}

func (s spyStore) GetByID(context.Context, int64, int64) (*Task, error) {
	s.t.Fatal("storage must not be touched")
	return nil, nil
}

func TestService_UpdateEmptyPatchSkipsStorage(t *testing.T) {
	for _, enforce := range []bool{false, true} {
		svc := NewService(spyStore{t: t}, enforce)

		_, err := svc.Update(context.Background(), 1, 1, Patch{})
		assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
		assert.Equal(t, apperror.Validation, apperror.KindOf(err))
	}
}

func TestService_GetByIDAbsentIsNil(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	svc := NewService(NewRepository(db), false)
	alice := newUser(t, db, "alice@example.com")
	bob := newUser(t, db, "bob@example.com")

	created, err := svc.Create(ctx, alice, NewTask{Title: "mine", Priority: PriorityMedium})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID, bob)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.GetByID(ctx, 424242, alice)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.GetByID(ctx, created.ID, alice)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "mine", got.Title)
}

func TestService_UpdateAndDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	svc := NewService(NewRepository(db), false)
	owner := newUser(t, db, "a@example.com")

	_, err := svc.Update(ctx, 77, owner, Patch{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Task not found or access denied", apperror.MessageOf(err))

	err = svc.Delete(ctx, 77, owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_AnyTransitionByDefault(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	svc := NewService(NewRepository(db), false)
	owner := newUser(t, db, "a@example.com")

	created, err := svc.Create(ctx, owner, NewTask{Title: "t", Priority: PriorityLow})
	require.NoError(t, err)

	for _, s := range []Status{StatusDone, StatusTodo, StatusCancelled, StatusInProgress, StatusTodo} {
		updated, err := svc.Update(ctx, created.ID, owner, Patch{Status: ptr(s)})
		require.NoError(t, err)
		assert.Equal(t, s, updated.Status)
	}
}

func TestService_EnforcedTransitions(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	svc := NewService(NewRepository(db), true)
	owner := newUser(t, db, "a@example.com")

	created, err := svc.Create(ctx, owner, NewTask{Title: "t", Priority: PriorityLow})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, owner, Patch{Status: ptr(StatusDone)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, owner, Patch{Status: ptr(StatusCancelled)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "Cannot change status from done to cancelled", apperror.MessageOf(err))

	reopened, err := svc.Update(ctx, created.ID, owner, Patch{Status: ptr(StatusInProgress)})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, reopened.Status)

	_, err = svc.Update(ctx, 999, owner, Patch{Status: ptr(StatusDone)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusTodo, StatusInProgress, true},
		{StatusTodo, StatusDone, true},
		{StatusInProgress, StatusTodo, true},
		{StatusDone, StatusInProgress, true},
		{StatusDone, StatusTodo, false},
		{StatusCancelled, StatusTodo, true},
		{StatusCancelled, StatusDone, false},
		{StatusDone, StatusDone, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	svc := NewService(NewRepository(db), false)
	owner := newUser(t, db, "a@example.com")

	empty, err := svc.Stats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, empty)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, owner, NewTask{Title: "todo", Priority: PriorityLow})
		require.NoError(t, err)
	}
	done, err := svc.Create(ctx, owner, NewTask{Title: "done", Priority: PriorityLow})
	require.NoError(t, err)
	_, err = svc.Update(ctx, done.ID, owner, Patch{Status: ptr(StatusDone)})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, &Stats{Total: 4, Todo: 3, InProgress: 0, Done: 1, Cancelled: 0}, stats)
}

type brokenStore struct {
	Store
}

func (brokenStore) CountByStatus(context.Context, int64) (map[Status]int, error) {
	return nil, errors.New("disk on fire")
}

func (brokenStore) GetByID(context.Context, int64, int64) (*Task, error) {
	return nil, errors.New("disk on fire")
}

func TestService_StorageErrorsPropagate(t *testing.T) {
	svc := NewService(brokenStore{}, false)

	_, err := svc.Stats(context.Background(), 1)
	assert.Equal(t, apperror.Internal, apperror.KindOf(err))

	_, err = svc.GetByID(context.Background(), 1, 1)
	assert.Error(t, err)
}
