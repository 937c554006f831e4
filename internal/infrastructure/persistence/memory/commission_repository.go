// Package memory is a process-local CommissionRepository used for
// development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

// CommissionRepository keeps commission documents in a map. Every read
// and write goes through Clone so callers never share update slices.
type CommissionRepository struct {
	mu   sync.RWMutex
	data map[domain.CommissionID]*domain.Commission
}

func NewCommissionRepository() *CommissionRepository {
	return &CommissionRepository{data: make(map[domain.CommissionID]*domain.Commission)}
}

func (r *CommissionRepository) GetByID(ctx context.Context, id domain.CommissionID) (*domain.Commission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (r *CommissionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Commission, error) {
	return r.filter(func(c *domain.Commission) bool { return c.OwnerID == ownerID }), nil
}

func (r *CommissionRepository) List(ctx context.Context) ([]*domain.Commission, error) {
	return r.filter(func(*domain.Commission) bool { return true }), nil
}

func (r *CommissionRepository) filter(keep func(*domain.Commission) bool) []*domain.Commission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Commission, 0, len(r.data))
	for _, c := range r.data {
		if keep(c) {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *CommissionRepository) Create(ctx context.Context, c *domain.Commission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[c.ID]; ok {
		return domerrors.ErrConflict
	}
	r.data[c.ID] = c.Clone()
	return nil
}

func (r *CommissionRepository) Replace(ctx context.Context, id domain.CommissionID, description string, status domain.Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return domerrors.ErrCommissionNotFound
	}
	c.Description = description
	c.Status = status
	c.UpdatedAt = updatedAt.UTC()
	c.Version++
	return nil
}

func (r *CommissionRepository) Delete(ctx context.Context, id domain.CommissionID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return false, nil
	}
	delete(r.data, id)
	return true, nil
}

func (r *CommissionRepository) AppendUpdate(ctx context.Context, id domain.CommissionID, u domain.Update, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return domerrors.ErrCommissionNotFound
	}
	if err := c.AppendUpdate(u, at); err != nil {
		return err
	}
	// the stored copy must not alias the caller's image pointer
	if u.Image != nil {
		img := *u.Image
		c.Updates[len(c.Updates)-1].Image = &img
	}
	c.Version++
	return nil
}

func (r *CommissionRepository) Save(ctx context.Context, c *domain.Commission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.data[c.ID]
	if !ok {
		return domerrors.ErrCommissionNotFound
	}
	if stored.Version != c.Version {
		return domerrors.ErrConflict
	}
	c.Version++
	r.data[c.ID] = c.Clone()
	return nil
}

func (r *CommissionRepository) Ping(ctx context.Context) error { return nil }

var _ ports.CommissionRepository = (*CommissionRepository)(nil)
