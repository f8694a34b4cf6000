package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/redmonkez12/taskmanager-api/internal/apperror"
	"github.com/redmonkez12/taskmanager-api/internal/database"
)

var (
	ErrNotFound     = apperror.New(apperror.NotFound, "Task not found or access denied")
	ErrInvalidOwner = apperror.New(apperror.Validation, "Invalid reference to related resource")
)

// Repository handles task persistence. Every statement is scoped to
// the owning user.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a task with status todo and returns the stored row.
func (r *Repository) Create(ctx context.Context, ownerID int64, in NewTask) (*Task, error) {
	now := time.Now().UTC()
	row := &database.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      string(StatusTodo),
		Priority:    string(in.Priority),
		DueDate:     utcPtr(in.DueDate),
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, ErrInvalidOwner
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return mapDBTaskToModel(row), nil
}

// List returns the owner's tasks, newest first, narrowed by f.
func (r *Repository) List(ctx context.Context, ownerID int64, f Filter) ([]*Task, error) {
	var rows []database.Task
	q := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", ownerID)

	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", string(*f.Priority))
	}

	q = q.OrderExpr("created_at DESC, id DESC")

	// A zero limit means no limit
	hasLimit := f.Limit != nil && *f.Limit > 0
	if hasLimit {
		q = q.Limit(*f.Limit)
	}
	if f.Offset != nil && *f.Offset > 0 {
		// SQLite has no OFFSET without LIMIT
		if !hasLimit {
			q = q.Limit(math.MaxInt32)
		}
		q = q.Offset(*f.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return mapDBTasksToModel(rows), nil
}

// Search matches term case-insensitively against title or description.
// An empty term matches every task of the owner.
func (r *Repository) Search(ctx context.Context, ownerID int64, term string) ([]*Task, error) {
	pattern := "%" + escapeLike(term) + "%"

	// Both sides go through the database's own case folding
	titleMatch := "LOWER(title) LIKE LOWER(?) ESCAPE '!'"
	descriptionMatch := "LOWER(COALESCE(description, '')) LIKE LOWER(?) ESCAPE '!'"
	if r.db.Dialect().Name() == dialect.PG {
		titleMatch = "title ILIKE ? ESCAPE '!'"
		descriptionMatch = "COALESCE(description, '') ILIKE ? ESCAPE '!'"
	}

	var rows []database.Task
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", ownerID).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where(titleMatch, pattern).
				WhereOr(descriptionMatch, pattern)
		}).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}

	return mapDBTasksToModel(rows), nil
}

// GetByID returns ErrNotFound when the task is missing or owned by someone else.
func (r *Repository) GetByID(ctx context.Context, id, ownerID int64) (*Task, error) {
	row := new(database.Task)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return mapDBTaskToModel(row), nil
}

// Update applies the set fields of p and stamps updated_at.
func (r *Repository) Update(ctx context.Context, id, ownerID int64, p Patch) (*Task, error) {
	q := r.db.NewUpdate().
		Model((*database.Task)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("user_id = ?", ownerID)

	if p.Title != nil {
		q = q.Set("title = ?", *p.Title)
	}
	if p.Description != nil {
		q = q.Set("description = ?", *p.Description)
	}
	if p.Status != nil {
		q = q.Set("status = ?", string(*p.Status))
	}
	if p.Priority != nil {
		q = q.Set("priority = ?", string(*p.Priority))
	}
	switch {
	case p.ClearDueDate:
		q = q.Set("due_date = NULL")
	case p.DueDate != nil:
		q = q.Set("due_date = ?", p.DueDate.UTC())
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id, ownerID)
}

// Delete removes a task owned by ownerID.
func (r *Repository) Delete(ctx context.Context, id, ownerID int64) error {
	result, err := r.db.NewDelete().
		Model((*database.Task)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type statusCount struct {
	Status string `bun:"status"`
	Count  int    `bun:"count"`
}

// CountByStatus groups the owner's tasks by status. Statuses without
// tasks are absent from the map.
func (r *Repository) CountByStatus(ctx context.Context, ownerID int64) (map[Status]int, error) {
	var rows []statusCount

	err := r.db.NewSelect().
		Model((*database.Task)(nil)).
		Column("status").
		ColumnExpr("COUNT(*) AS count").
		Where("user_id = ?", ownerID).
		Group("status").
		Scan(ctx, &rows)

	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	counts := make(map[Status]int, len(rows))
	for _, row := range rows {
		counts[Status(row.Status)] = row.Count
	}

	return counts, nil
}

// escapeLike escapes LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func mapDBTaskToModel(row *database.Task) *Task {
	return &Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      Status(row.Status),
		Priority:    Priority(row.Priority),
		DueDate:     utcPtr(row.DueDate),
		UserID:      row.UserID,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

// mapDBTasksToModel never returns nil so empty lists encode as [].
func mapDBTasksToModel(rows []database.Task) []*Task {
	tasks := make([]*Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, mapDBTaskToModel(&rows[i]))
	}
	return tasks
}
