//go:build unit || e2e

package fake

import (
	"context"
	"sort"

	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/usecase/queries"
	"jobfair-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// CompanyStore adapts the in-memory state to the company read-side
// interface; its FindByID signature differs from the booking one, so it
// lives on a wrapper type.
type CompanyStore struct {
	s *Store
}

func (s *Store) CompanyReads() *CompanyStore {
	return &CompanyStore{s: s}
}

func (r *CompanyStore) FindByID(_ context.Context, id uuid.UUID) (*queries.CompanyView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.Companies[id]
	if !ok {
		return nil, infra.WrapRepoErr("company not found", nil, infra.KindNotFound)
	}
	return &queries.CompanyView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Address:     c.Address,
		Tel:         c.Tel,
		Website:     c.Website,
	}, nil
}

func (r *CompanyStore) List(_ context.Context, limit, offset int32, _ string) ([]*queries.CompanyView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	views := make([]*queries.CompanyView, 0, len(r.s.Companies))
	for _, c := range r.s.Companies {
		views = append(views, &queries.CompanyView{
			ID:      c.ID,
			Name:    c.Name,
			Address: c.Address,
			Tel:     c.Tel,
			Website: c.Website,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })

	if int(offset) >= len(views) {
		return []*queries.CompanyView{}, nil
	}
	views = views[offset:]
	if int(limit) < len(views) {
		views = views[:limit]
	}
	return views, nil
}

func (r *CompanyStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.s.Exists(ctx, id)
}

// UserStore adapts the in-memory state to the user read-side interface.
type UserStore struct {
	s *Store
}

func (s *Store) UserReads() *UserStore {
	return &UserStore{s: s}
}

func (r *UserStore) FindByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.Users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return userView(u), nil
}

func (r *UserStore) FindByEmail(_ context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.Users {
		if u.Email == email {
			return userView(u), r.s.PasswordHashes[u.ID], nil
		}
	}
	return nil, "", infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
}

func userView(u *shared.UserSnapshot) *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Tel:      u.Tel,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}
