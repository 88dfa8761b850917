package queries

import (
	"context"

	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	defaultPage  int32 = 1
	defaultLimit int32 = 25
	maxLimit     int32 = 100
)

type CompanyQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CompanyView, error)
	List(ctx context.Context, params ListCompaniesParams) ([]*CompanyView, error)
}

type CompanyReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CompanyView, error)
	List(ctx context.Context, limit, offset int32, sort string) ([]*CompanyView, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type companyQueriesImpl struct {
	store CompanyReadStore
}

func NewCompanyQueries(store CompanyReadStore) CompanyQueries {
	return &companyQueriesImpl{store: store}
}

func (q *companyQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CompanyView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCompanyNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *companyQueriesImpl) List(ctx context.Context, params ListCompaniesParams) ([]*CompanyView, error) {
	page := params.Page
	if page < 1 {
		page = defaultPage
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := (page - 1) * limit

	views, err := q.store.List(ctx, limit, offset, params.Sort)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return views, nil
}
