// Package db holds the stored shape of a commission document, shared by the
// MongoDB collection and the Postgres JSONB column.
package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
)

// CommissionDocument is one commission as persisted.
type CommissionDocument struct {
	ID          string           `bson:"_id" json:"id"`
	OwnerID     string           `bson:"owner_id" json:"owner_id"`
	Description string           `bson:"description" json:"description"`
	Status      string           `bson:"status" json:"status"`
	CreatedAt   time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `bson:"updated_at" json:"updated_at"`
	Updates     []UpdateDocument `bson:"updates" json:"updates"`
	Version     int64            `bson:"version" json:"version"`
}

// UpdateDocument is one entry of the ordered update list.
type UpdateDocument struct {
	ID              string    `bson:"id" json:"id"`
	Text            string    `bson:"text" json:"text"`
	Date            time.Time `bson:"date" json:"date"`
	Visible         bool      `bson:"visible" json:"visible"`
	ProgressPercent int       `bson:"progress_percent" json:"progress_percent"`
	ShowPercent     bool      `bson:"show_percent" json:"show_percent"`
	Image           *string   `bson:"image,omitempty" json:"image,omitempty"`
}

// FromCommission converts a domain commission to its stored form.
func FromCommission(c *domain.Commission) CommissionDocument {
	doc := CommissionDocument{
		ID:          c.ID.String(),
		OwnerID:     c.OwnerID,
		Description: c.Description,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
		Updates:     make([]UpdateDocument, 0, len(c.Updates)),
		Version:     c.Version,
	}
	for _, u := range c.Updates {
		doc.Updates = append(doc.Updates, FromUpdate(u))
	}
	return doc
}

// FromUpdate converts one update to its stored form.
func FromUpdate(u domain.Update) UpdateDocument {
	doc := UpdateDocument{
		ID:              u.ID.String(),
		Text:            u.Text,
		Date:            u.Date.UTC(),
		Visible:         u.Visible,
		ProgressPercent: u.ProgressPercent,
		ShowPercent:     u.ShowPercent,
	}
	if u.Image != nil {
		img := *u.Image
		doc.Image = &img
	}
	return doc
}

// ToDomain converts a stored document back. Updates written before stable
// ids existed get a deterministic id derived from the commission id and
// position so references stay valid across reads.
func (d CommissionDocument) ToDomain() (*domain.Commission, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("commission %q: %w", d.ID, err)
	}
	c := &domain.Commission{
		ID:          domain.NewCommissionID(id),
		OwnerID:     d.OwnerID,
		Description: d.Description,
		Status:      domain.Status(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
		Updates:     make([]domain.Update, 0, len(d.Updates)),
		Version:     d.Version,
	}
	if parsed, err := domain.ParseStatus(d.Status); err == nil {
		c.Status = parsed
	}
	for i, u := range d.Updates {
		uid, err := uuid.Parse(u.ID)
		if err != nil {
			uid = uuid.NewSHA1(id, []byte(fmt.Sprintf("update-%d", i)))
		}
		c.Updates = append(c.Updates, domain.Update{
			ID:              domain.NewUpdateID(uid),
			Text:            u.Text,
			Date:            u.Date.UTC(),
			Visible:         u.Visible,
			ProgressPercent: domain.ClampPercent(u.ProgressPercent),
			ShowPercent:     u.ShowPercent,
			Image:           u.Image,
		})
	}
	return c, nil
}
