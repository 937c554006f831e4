package commission

import (
	"context"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

// DeleteUpdateInput addresses one update of one commission.
type DeleteUpdateInput struct {
	CommissionID string
	Ref          domain.UpdateRef
}

// DeleteUpdate removes one update and schedules its image for removal.
type DeleteUpdate struct {
	repo     ports.CommissionRepository
	locker   ports.DocumentLocker
	enqueuer ports.TaskEnqueuer
	clock    Clock
}

// NewDeleteUpdate builds the use case.
func NewDeleteUpdate(repo ports.CommissionRepository, locker ports.DocumentLocker, enqueuer ports.TaskEnqueuer, clock Clock) *DeleteUpdate {
	clock, _ = defaults(clock, nil)
	return &DeleteUpdate{repo: repo, locker: locker, enqueuer: enqueuer, clock: clock}
}

// Execute removes the update and returns it. Later updates shift down by one.
func (uc *DeleteUpdate) Execute(ctx context.Context, input DeleteUpdateInput) (*domain.Update, error) {
	id, err := domain.ParseCommissionID(input.CommissionID)
	if err != nil {
		return nil, err
	}
	unlock := uc.locker.Lock(id.String())
	defer unlock()

	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domerrors.ErrCommissionNotFound
	}
	index, err := c.Resolve(input.Ref)
	if err != nil {
		return nil, err
	}
	removed, err := c.RemoveUpdateAt(index, uc.clock())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	if removed.Image != nil {
		// best-effort; orphans are also caught by the retention sweep
		_ = uc.enqueuer.EnqueueImageCleanup(ctx, []string{*removed.Image})
	}
	return &removed, nil
}
