package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewGrantRequest(t *testing.T) {
	t.Parallel()

	instituteID := uuid.New()
	studentID := uuid.New()

	g, err := NewGrantRequest(instituteID, studentID, 200, "textbooks and housing")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if g.Approved {
		t.Error("Expected new request to be unapproved")
	}

	_, err = NewGrantRequest(instituteID, studentID, 0, "textbooks")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
	_, err = NewGrantRequest(instituteID, studentID, -200, "textbooks")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
	_, err = NewGrantRequest(instituteID, studentID, 200, "")
	if !errors.Is(err, ErrEmptyReason) {
		t.Errorf("Expected ErrEmptyReason, got %v", err)
	}
	_, err = NewGrantRequest(uuid.Nil, studentID, 200, "textbooks")
	if !errors.Is(err, ErrEmptyID) {
		t.Errorf("Expected ErrEmptyID, got %v", err)
	}
}

func TestGrantRequestApproveOnce(t *testing.T) {
	t.Parallel()

	g, err := NewGrantRequest(uuid.New(), uuid.New(), 200, "textbooks")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := g.Approve(); err != nil {
		t.Fatalf("Expected first approval to succeed, got %v", err)
	}
	if !g.Approved {
		t.Error("Expected request to be approved")
	}

	if err := g.Approve(); !errors.Is(err, ErrGrantAlreadyApproved) {
		t.Errorf("Expected ErrGrantAlreadyApproved, got %v", err)
	}
}

func TestNewGrantApproval(t *testing.T) {
	t.Parallel()

	a, err := NewGrantApproval(uuid.New(), "approver-addr", 180, "partial award")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if a.AmountApproved != 180 {
		t.Errorf("Expected amount 180, got %d", a.AmountApproved)
	}

	_, err = NewGrantApproval(uuid.Nil, "approver-addr", 180, "partial award")
	if !errors.Is(err, ErrEmptyID) {
		t.Errorf("Expected ErrEmptyID, got %v", err)
	}
	_, err = NewGrantApproval(uuid.New(), "", 180, "partial award")
	if !errors.Is(err, ErrEmptyOwner) {
		t.Errorf("Expected ErrEmptyOwner, got %v", err)
	}
	_, err = NewGrantApproval(uuid.New(), "approver-addr", 0, "partial award")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}
