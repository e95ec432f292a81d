package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewRole(t *testing.T) {
	t.Parallel()

	r, err := NewRole(uuid.New(), InstituteRoleName, "owner-addr")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !r.HasMember("owner-addr") {
		t.Error("Expected initial member to hold the role")
	}
	if r.HasMember("stranger") {
		t.Error("Expected stranger not to hold the role")
	}

	_, err = NewRole(uuid.New(), "")
	if !errors.Is(err, ErrEmptyRoleName) {
		t.Errorf("Expected ErrEmptyRoleName, got %v", err)
	}
	_, err = NewRole(uuid.Nil, InstituteRoleName)
	if !errors.Is(err, ErrEmptyID) {
		t.Errorf("Expected ErrEmptyID, got %v", err)
	}
}

func TestRoleMembership(t *testing.T) {
	t.Parallel()

	r, err := NewRole(uuid.New(), "registrar")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := r.AddMember("alice"); err != nil {
		t.Fatalf("Expected add to succeed, got %v", err)
	}
	// Re-adding is a no-op.
	if err := r.AddMember("alice"); err != nil {
		t.Fatalf("Expected duplicate add to be a no-op, got %v", err)
	}
	if len(r.Members) != 1 {
		t.Errorf("Expected 1 member, got %d", len(r.Members))
	}

	r.RemoveMember("alice")
	if r.HasMember("alice") {
		t.Error("Expected alice removed")
	}
	// Removing an absent member is a no-op.
	r.RemoveMember("alice")

	if err := r.AddMember(""); !errors.Is(err, ErrEmptyOwner) {
		t.Errorf("Expected ErrEmptyOwner, got %v", err)
	}
}
