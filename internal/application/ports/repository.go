package ports

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
)

// CommissionRepository defines persistence for commission documents.
//
// GetByID returns (nil, nil) when the commission does not exist. Replace,
// AppendUpdate and Save report domerrors.ErrCommissionNotFound for unknown
// ids. Save is optimistic: it succeeds only when the stored version equals
// c.Version, then increments c.Version; a stale save returns
// domerrors.ErrConflict and writes nothing.
type CommissionRepository interface {
	GetByID(ctx context.Context, id domain.CommissionID) (*domain.Commission, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Commission, error)
	List(ctx context.Context) ([]*domain.Commission, error)
	Create(ctx context.Context, c *domain.Commission) error
	Replace(ctx context.Context, id domain.CommissionID, description string, status domain.Status, updatedAt time.Time) error
	// Delete reports whether a document was removed (false = already absent).
	Delete(ctx context.Context, id domain.CommissionID) (bool, error)
	// AppendUpdate pushes u onto the update list atomically in the store.
	AppendUpdate(ctx context.Context, id domain.CommissionID, u domain.Update, at time.Time) error
	Save(ctx context.Context, c *domain.Commission) error
	Ping(ctx context.Context) error
}
