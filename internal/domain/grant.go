package domain

import (
	"time"

	"github.com/google/uuid"
)

// GrantRequest is a student's request for a need-based grant from an
// institute. It starts unapproved; Approve flips the flag exactly once.
// Rejection has no state of its own - an unapproved request simply stays
// pending.
type GrantRequest struct {
	ID              uuid.UUID `json:"id"`
	InstituteID     uuid.UUID `json:"institute_id"`
	StudentID       uuid.UUID `json:"student_id"`
	AmountRequested Amount    `json:"amount_requested"`
	Reason          string    `json:"reason"`
	Approved        bool      `json:"approved"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewGrantRequest creates a pending grant request against a student.
func NewGrantRequest(instituteID, studentID uuid.UUID, amountRequested Amount, reason string) (*GrantRequest, error) {
	if instituteID == uuid.Nil || studentID == uuid.Nil {
		return nil, ErrEmptyID
	}
	if !amountRequested.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if reason == "" {
		return nil, ErrEmptyReason
	}

	now := time.Now().UTC()
	return &GrantRequest{
		ID:              uuid.New(),
		InstituteID:     instituteID,
		StudentID:       studentID,
		AmountRequested: amountRequested,
		Reason:          reason,
		Approved:        false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Approve marks the request approved. A second approval attempt fails with
// ErrGrantAlreadyApproved and changes nothing.
func (g *GrantRequest) Approve() error {
	if g.Approved {
		return ErrGrantAlreadyApproved
	}
	g.Approved = true
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// GrantApproval is the append-only audit record of a grant approval: who
// approved which request, for how much, and why. Exactly one per approval.
type GrantApproval struct {
	ID             uuid.UUID `json:"id"`
	GrantRequestID uuid.UUID `json:"grant_request_id"`
	ApprovedBy     Address   `json:"approved_by"`
	AmountApproved Amount    `json:"amount_approved"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewGrantApproval creates the audit record for an approval.
func NewGrantApproval(grantRequestID uuid.UUID, approvedBy Address, amountApproved Amount, reason string) (*GrantApproval, error) {
	if grantRequestID == uuid.Nil {
		return nil, ErrEmptyID
	}
	if approvedBy.IsZero() {
		return nil, ErrEmptyOwner
	}
	if !amountApproved.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &GrantApproval{
		ID:             uuid.New(),
		GrantRequestID: grantRequestID,
		ApprovedBy:     approvedBy,
		AmountApproved: amountApproved,
		Reason:         reason,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
