package queries

import (
	"context"

	"resihub/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrPaymentNotVisible = errs.New("payment not visible to this resident")

type PaymentQueries interface {
	GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*PaymentView, error)
}

type PaymentViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
}

type paymentQueriesImpl struct {
	repo PaymentViewRepo
}

func NewPaymentQueries(repo PaymentViewRepo) PaymentQueries {
	return &paymentQueriesImpl{repo: repo}
}

func (q *paymentQueriesImpl) GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*PaymentView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.PayerID != actor {
		return nil, ErrPaymentNotVisible
	}
	return view, nil
}
