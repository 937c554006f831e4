package commission

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/persistence/memory"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// countingRepo records writes so tests can assert that rejected input
// never reaches the store.
type countingRepo struct {
	*memory.CommissionRepository
	mu     sync.Mutex
	writes int
}

func newCountingRepo() *countingRepo {
	return &countingRepo{CommissionRepository: memory.NewCommissionRepository()}
}

func (r *countingRepo) count() {
	r.mu.Lock()
	r.writes++
	r.mu.Unlock()
}

func (r *countingRepo) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *countingRepo) Create(ctx context.Context, c *domain.Commission) error {
	r.count()
	return r.CommissionRepository.Create(ctx, c)
}

func (r *countingRepo) Replace(ctx context.Context, id domain.CommissionID, description string, status domain.Status, at time.Time) error {
	r.count()
	return r.CommissionRepository.Replace(ctx, id, description, status, at)
}

func (r *countingRepo) Delete(ctx context.Context, id domain.CommissionID) (bool, error) {
	r.count()
	return r.CommissionRepository.Delete(ctx, id)
}

func (r *countingRepo) AppendUpdate(ctx context.Context, id domain.CommissionID, u domain.Update, at time.Time) error {
	r.count()
	return r.CommissionRepository.AppendUpdate(ctx, id, u, at)
}

func (r *countingRepo) Save(ctx context.Context, c *domain.Commission) error {
	r.count()
	return r.CommissionRepository.Save(ctx, c)
}

// fakeImages accepts .png names only.
type fakeImages struct {
	mu      sync.Mutex
	saved   []string
	removed []string
}

func (f *fakeImages) Save(ctx context.Context, up ports.ImageUpload) (string, error) {
	if !strings.HasSuffix(up.Filename, ".png") {
		return "", domerrors.ErrUnsupportedImage
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := "/uploads/1-" + up.Filename
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeImages) Remove(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ref)
	return nil
}

func (f *fakeImages) List(ctx context.Context) ([]ports.StoredImage, error) { return nil, nil }

type fakeEnqueuer struct {
	mu       sync.Mutex
	cleanups [][]string
	events   []ports.AuditEvent
	err      error
}

func (f *fakeEnqueuer) EnqueueImageCleanup(ctx context.Context, refs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleanups = append(f.cleanups, refs)
	return f.err
}

func (f *fakeEnqueuer) EnqueueWebhook(ctx context.Context, event ports.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type noopLocker struct{}

func (noopLocker) Lock(string) func() { return func() {} }

var errStore = errors.New("store unavailable")

// failingAppendRepo fails every AppendUpdate after the commission was found.
type failingAppendRepo struct {
	*memory.CommissionRepository
}

func (r failingAppendRepo) AppendUpdate(context.Context, domain.CommissionID, domain.Update, time.Time) error {
	return errStore
}

func seedCommission(t testing.TB, repo ports.CommissionRepository, owner string) *domain.Commission {
	t.Helper()
	uc := NewCreateCommission(repo, fixedClock, uuid.New)
	c, err := uc.Execute(context.Background(), CreateCommissionInput{OwnerID: owner, Description: "Portrait"})
	if err != nil {
		t.Fatalf("CreateCommission.Execute() error = %v", err)
	}
	return c
}
