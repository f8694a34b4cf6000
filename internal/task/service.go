package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/redmonkez12/taskmanager-api/internal/apperror"
)

var (
	ErrNoFieldsToUpdate  = apperror.New(apperror.Validation, "No fields to update")
	ErrInvalidTransition = apperror.New(apperror.Validation, "Invalid status transition")
)

// Store is the persistence the service works against.
type Store interface {
	Create(ctx context.Context, ownerID int64, in NewTask) (*Task, error)
	List(ctx context.Context, ownerID int64, f Filter) ([]*Task, error)
	Search(ctx context.Context, ownerID int64, term string) ([]*Task, error)
	GetByID(ctx context.Context, id, ownerID int64) (*Task, error)
	Update(ctx context.Context, id, ownerID int64, p Patch) (*Task, error)
	Delete(ctx context.Context, id, ownerID int64) error
	CountByStatus(ctx context.Context, ownerID int64) (map[Status]int, error)
}

// Service implements owner-scoped task operations.
type Service struct {
	store              Store
	enforceTransitions bool
}

// NewService builds the task service. With enforceTransitions set,
// status updates must follow CanTransition.
func NewService(store Store, enforceTransitions bool) *Service {
	return &Service{store: store, enforceTransitions: enforceTransitions}
}

func (s *Service) Create(ctx context.Context, ownerID int64, in NewTask) (*Task, error) {
	return s.store.Create(ctx, ownerID, in)
}

func (s *Service) List(ctx context.Context, ownerID int64, f Filter) ([]*Task, error) {
	return s.store.List(ctx, ownerID, f)
}

func (s *Service) Search(ctx context.Context, ownerID int64, term string) ([]*Task, error) {
	return s.store.Search(ctx, ownerID, term)
}

// GetByID returns nil without an error when the task does not exist or
// belongs to another user.
func (s *Service) GetByID(ctx context.Context, id, ownerID int64) (*Task, error) {
	t, err := s.store.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// Update applies a partial change. An empty patch is rejected before
// storage is touched.
func (s *Service) Update(ctx context.Context, id, ownerID int64, p Patch) (*Task, error) {
	if p.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	if s.enforceTransitions && p.Status != nil {
		current, err := s.store.GetByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		if !CanTransition(current.Status, *p.Status) {
			return nil, apperror.Wrap(
				apperror.Validation,
				fmt.Sprintf("Cannot change status from %s to %s", current.Status, *p.Status),
				ErrInvalidTransition,
			)
		}
	}

	return s.store.Update(ctx, id, ownerID, p)
}

func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	return s.store.Delete(ctx, id, ownerID)
}

// Stats returns per-status counts with zeroes for unused statuses.
func (s *Service) Stats(ctx context.Context, ownerID int64) (*Stats, error) {
	counts, err := s.store.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Todo:       counts[StatusTodo],
		InProgress: counts[StatusInProgress],
		Done:       counts[StatusDone],
		Cancelled:  counts[StatusCancelled],
	}
	stats.Total = stats.Todo + stats.InProgress + stats.Done + stats.Cancelled

	return stats, nil
}
