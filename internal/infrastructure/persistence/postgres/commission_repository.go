package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/persistence/db"
)

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS commissions (
	id          UUID PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	description TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL,
	updates     JSONB NOT NULL DEFAULT '[]'::jsonb,
	version     BIGINT NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS commissions_owner_idx ON commissions (owner_id, created_at)`

	selectColumns = `SELECT id, owner_id, description, status, created_at, updated_at, updates, version FROM commissions`

	getByIDSQL     = selectColumns + ` WHERE id = $1`
	listByOwnerSQL = selectColumns + ` WHERE owner_id = $1 ORDER BY created_at, id`
	listSQL        = selectColumns + ` ORDER BY created_at, id`
	insertSQL      = `INSERT INTO commissions (id, owner_id, description, status, created_at, updated_at, updates, version) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	replaceSQL     = `UPDATE commissions SET description = $2, status = $3, updated_at = $4, version = version + 1 WHERE id = $1`
	deleteSQL      = `DELETE FROM commissions WHERE id = $1`
	appendSQL      = `UPDATE commissions SET updates = updates || $2::jsonb, updated_at = $3, version = version + 1 WHERE id = $1`
	saveSQL        = `UPDATE commissions SET description = $2, status = $3, updated_at = $4, updates = $5, version = version + 1 WHERE id = $1 AND version = $6`
	existsSQL      = `SELECT EXISTS (SELECT 1 FROM commissions WHERE id = $1)`

	uniqueViolation = "23505"
)

// CommissionRepository stores each commission as a row whose update list
// lives in a JSONB column.
type CommissionRepository struct {
	pool *pgxpool.Pool
}

func NewCommissionRepository(pool *pgxpool.Pool) *CommissionRepository {
	return &CommissionRepository{pool: pool}
}

// EnsureSchema creates the table and index when missing.
func (r *CommissionRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schemaSQL)
	return err
}

func (r *CommissionRepository) GetByID(ctx context.Context, id domain.CommissionID) (*domain.Commission, error) {
	c, err := scanCommission(r.pool.QueryRow(ctx, getByIDSQL, id.UUID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CommissionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Commission, error) {
	return r.query(ctx, listByOwnerSQL, ownerID)
}

func (r *CommissionRepository) List(ctx context.Context) ([]*domain.Commission, error) {
	return r.query(ctx, listSQL)
}

func (r *CommissionRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Commission, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CommissionRepository) Create(ctx context.Context, c *domain.Commission) error {
	doc := db.FromCommission(c)
	updates, err := json.Marshal(doc.Updates)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, insertSQL, c.ID.UUID, doc.OwnerID, doc.Description, doc.Status, doc.CreatedAt, doc.UpdatedAt, updates, doc.Version)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domerrors.ErrConflict
	}
	return err
}

func (r *CommissionRepository) Replace(ctx context.Context, id domain.CommissionID, description string, status domain.Status, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, replaceSQL, id.UUID, description, string(status), updatedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrCommissionNotFound
	}
	return nil
}

func (r *CommissionRepository) Delete(ctx context.Context, id domain.CommissionID) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteSQL, id.UUID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CommissionRepository) AppendUpdate(ctx context.Context, id domain.CommissionID, u domain.Update, at time.Time) error {
	entry, err := json.Marshal([]db.UpdateDocument{db.FromUpdate(u)})
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, appendSQL, id.UUID, entry, at.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrCommissionNotFound
	}
	return nil
}

func (r *CommissionRepository) Save(ctx context.Context, c *domain.Commission) error {
	doc := db.FromCommission(c)
	updates, err := json.Marshal(doc.Updates)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, saveSQL, c.ID.UUID, doc.Description, doc.Status, doc.UpdatedAt, updates, c.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, existsSQL, c.ID.UUID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domerrors.ErrCommissionNotFound
		}
		return domerrors.ErrConflict
	}
	c.Version++
	return nil
}

func (r *CommissionRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanCommission(row pgx.Row) (*domain.Commission, error) {
	var (
		doc     db.CommissionDocument
		id      uuid.UUID
		updates []byte
	)
	if err := row.Scan(&id, &doc.OwnerID, &doc.Description, &doc.Status, &doc.CreatedAt, &doc.UpdatedAt, &updates, &doc.Version); err != nil {
		return nil, err
	}
	doc.ID = id.String()
	if err := json.Unmarshal(updates, &doc.Updates); err != nil {
		return nil, err
	}
	return doc.ToDomain()
}

var _ ports.CommissionRepository = (*CommissionRepository)(nil)
