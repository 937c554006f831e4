package commission

import (
	"context"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

// EditCommissionInput is the admin edit form; both fields are replaced.
type EditCommissionInput struct {
	ID          string
	Description string
	Status      string
}

// EditCommission replaces description and status of an existing commission.
type EditCommission struct {
	repo  ports.CommissionRepository
	clock Clock
}

// NewEditCommission builds the use case.
func NewEditCommission(repo ports.CommissionRepository, clock Clock) *EditCommission {
	clock, _ = defaults(clock, nil)
	return &EditCommission{repo: repo, clock: clock}
}

// Execute applies the edit and returns the edited commission.
func (uc *EditCommission) Execute(ctx context.Context, input EditCommissionInput) (*domain.Commission, error) {
	id, err := domain.ParseCommissionID(input.ID)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domerrors.ErrCommissionNotFound
	}
	if err := c.Edit(input.Description, status, uc.clock()); err != nil {
		return nil, err
	}
	if err := uc.repo.Replace(ctx, id, c.Description, c.Status, c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}
