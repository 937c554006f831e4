package commission

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
)

// OwnerCommission is the end-user view of one commission: visible updates only.
type OwnerCommission struct {
	ID          domain.CommissionID
	Description string
	Status      domain.Status
	CreatedAt   time.Time
	Updates     []domain.VisibleUpdate
}

// ListCommissions serves the dashboard and the admin listing.
type ListCommissions struct {
	repo ports.CommissionRepository
}

// NewListCommissions builds the use case.
func NewListCommissions(repo ports.CommissionRepository) *ListCommissions {
	return &ListCommissions{repo: repo}
}

// ForOwner returns the owner's commissions with the visible projection applied.
func (uc *ListCommissions) ForOwner(ctx context.Context, ownerID string) ([]OwnerCommission, error) {
	list, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]OwnerCommission, 0, len(list))
	for _, c := range list {
		out = append(out, OwnerCommission{
			ID:          c.ID,
			Description: c.Description,
			Status:      c.Status,
			CreatedAt:   c.CreatedAt,
			Updates:     c.VisibleProjection(),
		})
	}
	return out, nil
}

// All returns every commission with full update lists. Callers must gate
// this behind the admin check.
func (uc *ListCommissions) All(ctx context.Context) ([]*domain.Commission, error) {
	return uc.repo.List(ctx)
}
