package domain

import (
	"time"

	"github.com/google/uuid"
)

// Institute is the aggregate root of the registrar. It owns courses,
// enrollments, grant requests, and roles, charges a fixed fee per
// enrollment, and carries a fund balance that enrollment fees credit and
// grant approvals or withdrawals debit.
type Institute struct {
	ID        uuid.UUID `json:"id"`
	Owner     Address   `json:"owner"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Fees      Amount    `json:"fees"`
	Balance   Amount    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewInstitute creates a new Institute owned by the given address.
// The owner is the creator and never changes. Returns an error if
// validation fails; the balance always starts at zero.
func NewInstitute(owner Address, name, email, phone string, fees Amount) (*Institute, error) {
	now := time.Now().UTC()
	inst := &Institute{
		ID:        uuid.New(),
		Owner:     owner,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Fees:      fees,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := inst.Validate(); err != nil {
		return nil, err
	}

	return inst, nil
}

// Validate checks that the Institute has valid data.
func (i *Institute) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyID
	}
	if i.Owner.IsZero() {
		return ErrEmptyOwner
	}
	if i.Name == "" {
		return ErrEmptyName
	}
	if i.Email == "" {
		return ErrEmptyEmail
	}
	if !i.Fees.IsPositive() {
		return ErrInvalidFees
	}
	if i.Balance < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsOwnedBy reports whether caller is the institute's owner.
func (i *Institute) IsOwnedBy(caller Address) bool {
	return i.Owner == caller
}

// Credit increases the institute's balance by amount.
// Returns ErrInvalidAmount if amount is not positive.
func (i *Institute) Credit(amount Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	i.Balance += amount
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// Debit decreases the institute's balance by amount. The balance is left
// unchanged if amount is not positive or exceeds the current balance.
func (i *Institute) Debit(amount Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if i.Balance < amount {
		return ErrInsufficientBalance
	}
	i.Balance -= amount
	i.UpdatedAt = time.Now().UTC()
	return nil
}
