package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Identity is the signed-in caller as reported by the identity provider.
type Identity struct {
	ID            string
	Username      string
	Discriminator string
}

// DisplayName renders username#discriminator; new-style accounts report
// discriminator "0" and are shown by username alone.
func (i Identity) DisplayName() string {
	if i.Discriminator == "" || i.Discriminator == "0" {
		return i.Username
	}
	return i.Username + "#" + i.Discriminator
}

// AdminSet is the configured collection of administrator identity ids.
type AdminSet struct {
	ids map[string]struct{}
}

// NewAdminSet validates ids and builds the set. Ids must be non-empty and
// contain digits only (identity-provider snowflakes).
func NewAdminSet(ids ...string) (AdminSet, error) {
	set := AdminSet{ids: make(map[string]struct{}, len(ids))}
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if strings.IndexFunc(id, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return AdminSet{}, fmt.Errorf("admin id %q must be numeric", id)
		}
		set.ids[id] = struct{}{}
	}
	return set, nil
}

// IsAdmin reports whether identity belongs to the administrator set.
// A nil identity (anonymous caller) is never an admin.
func (s AdminSet) IsAdmin(identity *Identity) bool {
	if identity == nil || identity.ID == "" {
		return false
	}
	_, ok := s.ids[identity.ID]
	return ok
}

// Len returns the number of administrators.
func (s AdminSet) Len() int { return len(s.ids) }

// IDs returns the administrator ids, sorted.
func (s AdminSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
