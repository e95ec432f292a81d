package domain

import (
	"time"

	"github.com/google/uuid"
)

// Student represents a student account. Students stand alone rather than
// belonging to an institute: one student may request enrollment at many
// institutes. The balance starts at zero and is funded by the owner.
type Student struct {
	ID          uuid.UUID `json:"id"`
	Owner       Address   `json:"owner"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	HomeAddress string    `json:"home_address"`
	Balance     Amount    `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewStudent creates a new Student owned by the given address.
// All contact fields are required.
func NewStudent(owner Address, name, email, homeAddress string) (*Student, error) {
	now := time.Now().UTC()
	s := &Student{
		ID:          uuid.New(),
		Owner:       owner,
		Name:        name,
		Email:       email,
		HomeAddress: homeAddress,
		Balance:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks that the Student has valid data.
func (s *Student) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptyID
	}
	if s.Owner.IsZero() {
		return ErrEmptyOwner
	}
	if s.Name == "" {
		return ErrEmptyName
	}
	if s.Email == "" {
		return ErrEmptyEmail
	}
	if s.HomeAddress == "" {
		return ErrEmptyAddress
	}
	if s.Balance < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsOwnedBy reports whether caller is the student's owner.
func (s *Student) IsOwnedBy(caller Address) bool {
	return s.Owner == caller
}

// Credit increases the student's balance by amount.
// Returns ErrInvalidAmount if amount is not positive.
func (s *Student) Credit(amount Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	s.Balance += amount
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Debit decreases the student's balance by amount. The balance is left
// unchanged if amount is not positive or exceeds the current balance.
func (s *Student) Debit(amount Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if s.Balance < amount {
		return ErrInsufficientBalance
	}
	s.Balance -= amount
	s.UpdatedAt = time.Now().UTC()
	return nil
}
