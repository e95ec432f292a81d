package domain

import (
	"time"

	"github.com/google/uuid"
)

// InstituteRoleName is the role every institute-privileged entry point is
// gated on. The institute owner is seeded into it at creation.
const InstituteRoleName = "institute"

// Role is an institute-scoped named set of principal addresses. Privileged
// operations check the caller against the membership of a role looked up by
// name; the role is a capability map, not a global table.
type Role struct {
	ID          uuid.UUID `json:"id"`
	InstituteID uuid.UUID `json:"institute_id"`
	Name        string    `json:"name"`
	Members     []Address `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRole creates a role scoped to the given institute with the given
// initial members. Role names are unique per institute; the store enforces
// that.
func NewRole(instituteID uuid.UUID, name string, members ...Address) (*Role, error) {
	if instituteID == uuid.Nil {
		return nil, ErrEmptyID
	}
	if name == "" {
		return nil, ErrEmptyRoleName
	}

	now := time.Now().UTC()
	r := &Role{
		ID:          uuid.New(),
		InstituteID: instituteID,
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, m := range members {
		if m.IsZero() {
			return nil, ErrEmptyOwner
		}
		r.Members = append(r.Members, m)
	}
	return r, nil
}

// HasMember reports whether addr holds this role.
func (r *Role) HasMember(addr Address) bool {
	for _, m := range r.Members {
		if m == addr {
			return true
		}
	}
	return false
}

// AddMember adds addr to the role. Adding an existing member is a no-op.
func (r *Role) AddMember(addr Address) error {
	if addr.IsZero() {
		return ErrEmptyOwner
	}
	if r.HasMember(addr) {
		return nil
	}
	r.Members = append(r.Members, addr)
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveMember removes addr from the role. Removing an absent member is a
// no-op.
func (r *Role) RemoveMember(addr Address) {
	for i, m := range r.Members {
		if m == addr {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			r.UpdatedAt = time.Now().UTC()
			return
		}
	}
}
