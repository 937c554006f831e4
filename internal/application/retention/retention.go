// Package retention removes uploaded images no commission references.
package retention

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
)

// RunPruneOrphanedImages removes files under the uploads root that are older
// than olderThan and referenced by no update. Call periodically.
// olderThan <= 0 is a no-op.
func RunPruneOrphanedImages(ctx context.Context, repo ports.CommissionRepository, images ports.ImageStore, olderThan time.Duration, now time.Time) (removed int, err error) {
	if olderThan <= 0 {
		return 0, nil
	}
	stored, err := images.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(stored) == 0 {
		return 0, nil
	}
	commissions, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}
	inUse := make(map[string]struct{})
	for _, c := range commissions {
		for _, ref := range c.ImagePaths() {
			inUse[ref] = struct{}{}
		}
	}
	threshold := now.Add(-olderThan)
	for _, img := range stored {
		if _, ok := inUse[img.Ref]; ok || !img.ModTime.Before(threshold) {
			continue
		}
		if e := images.Remove(ctx, img.Ref); e != nil {
			return removed, e // stop on first error
		}
		removed++
	}
	return removed, nil
}
