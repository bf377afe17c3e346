package queries

import (
	"context"

	"resihub/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotVisible = errs.New("booking not visible to this resident")

type BookingQueries interface {
	GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*BookingView, error)
	ListByResident(ctx context.Context, residentID uuid.UUID, limit int) ([]*BookingListItem, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByResident(ctx context.Context, residentID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.ResidentID != actor {
		return nil, ErrBookingNotVisible
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByResident(ctx context.Context, residentID uuid.UUID, limit int) ([]*BookingListItem, error) {
	if limit <= 0 {
		limit = 50
	}
	return q.repo.ListByResident(ctx, residentID, int32(limit))
}
