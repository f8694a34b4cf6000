package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/taskmanager-api/internal/database"
	"github.com/redmonkez12/taskmanager-api/internal/database/dbtest"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	applied, err := database.Migrate(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, applied, "second run should apply nothing")
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	now := time.Now().UTC()
	first := &database.User{Email: "a@example.com", PasswordHash: "x", Name: "A", CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(first).Returning("id").Exec(ctx)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	dup := &database.User{Email: "a@example.com", PasswordHash: "y", Name: "B", CreatedAt: now, UpdatedAt: now}
	_, err = db.NewInsert().Model(dup).Exec(ctx)
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsForeignKeyViolation(err))
}

func TestIsForeignKeyViolation(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	now := time.Now().UTC()
	orphan := &database.Task{
		Title: "orphan", Status: "todo", Priority: "low", UserID: 999,
		CreatedAt: now, UpdatedAt: now,
	}
	_, err := db.NewInsert().Model(orphan).Exec(ctx)
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))
}

func TestCascadeDelete(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	now := time.Now().UTC()
	u := &database.User{Email: "owner@example.com", PasswordHash: "x", Name: "Owner", CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(u).Returning("id").Exec(ctx)
	require.NoError(t, err)

	tk := &database.Task{Title: "t", Status: "todo", Priority: "high", UserID: u.ID, CreatedAt: now, UpdatedAt: now}
	_, err = db.NewInsert().Model(tk).Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewDelete().Model((*database.User)(nil)).Where("id = ?", u.ID).Exec(ctx)
	require.NoError(t, err)

	count, err := db.NewSelect().Model((*database.Task)(nil)).Where("user_id = ?", u.ID).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCheckConstraintRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	now := time.Now().UTC()
	u := &database.User{Email: "c@example.com", PasswordHash: "x", Name: "C", CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(u).Returning("id").Exec(ctx)
	require.NoError(t, err)

	tk := &database.Task{Title: "t", Status: "archived", Priority: "high", UserID: u.ID, CreatedAt: now, UpdatedAt: now}
	_, err = db.NewInsert().Model(tk).Exec(ctx)
	assert.Error(t, err)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open("mysql", "")
	assert.ErrorContains(t, err, "unsupported")
}
