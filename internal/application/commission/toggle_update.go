package commission

import (
	"context"
	"fmt"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

// ToggleField names the boolean flag flipped by ToggleUpdate.
type ToggleField int

const (
	// ToggleVisible flips whether the owner sees the update.
	ToggleVisible ToggleField = iota
	// TogglePercent flips whether the owner sees the update's percent.
	TogglePercent
)

// ToggleUpdateInput addresses one update of one commission.
type ToggleUpdateInput struct {
	CommissionID string
	Ref          domain.UpdateRef
	Field        ToggleField
}

// ToggleUpdate flips a flag of one update under the document lock.
type ToggleUpdate struct {
	repo     ports.CommissionRepository
	locker   ports.DocumentLocker
	enqueuer ports.TaskEnqueuer
	clock    Clock
}

// NewToggleUpdate builds the use case.
func NewToggleUpdate(repo ports.CommissionRepository, locker ports.DocumentLocker, enqueuer ports.TaskEnqueuer, clock Clock) *ToggleUpdate {
	clock, _ = defaults(clock, nil)
	return &ToggleUpdate{repo: repo, locker: locker, enqueuer: enqueuer, clock: clock}
}

// Execute flips the flag and returns the update after the change.
func (uc *ToggleUpdate) Execute(ctx context.Context, input ToggleUpdateInput) (*domain.Update, error) {
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
	now := uc.clock()
	switch input.Field {
	case ToggleVisible:
		err = c.ToggleVisibility(index, now)
	case TogglePercent:
		err = c.TogglePercentVisibility(index, now)
	default:
		err = fmt.Errorf("unknown toggle field %d", input.Field)
	}
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	u := c.Updates[index]
	if input.Field == ToggleVisible && u.Visible {
		notifyVisible(ctx, uc.enqueuer, c.OwnerID, id, u)
	}
	return &u, nil
}
