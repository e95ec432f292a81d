package domain

import (
	"errors"
	"testing"
)

func TestNewStudent(t *testing.T) {
	t.Parallel()

	s, err := NewStudent("student-addr", "Ada Mwangi", "ada@example.com", "42 Hill Road")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if s.Balance != 0 {
		t.Errorf("Expected zero starting balance, got %d", s.Balance)
	}
	if s.Owner != "student-addr" {
		t.Errorf("Expected owner %q, got %q", "student-addr", s.Owner)
	}

	// Every contact field is required.
	cases := []struct {
		name        string
		owner       Address
		studentName string
		email       string
		home        string
		want        error
	}{
		{"missing owner", "", "Ada Mwangi", "ada@example.com", "42 Hill Road", ErrEmptyOwner},
		{"missing name", "student-addr", "", "ada@example.com", "42 Hill Road", ErrEmptyName},
		{"missing email", "student-addr", "Ada Mwangi", "", "42 Hill Road", ErrEmptyEmail},
		{"missing home address", "student-addr", "Ada Mwangi", "ada@example.com", "", ErrEmptyAddress},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewStudent(tc.owner, tc.studentName, tc.email, tc.home)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
			if !IsInvalidInput(err) {
				t.Errorf("Expected invalid-input class, got %v", err)
			}
		})
	}
}

func TestStudentCreditDebit(t *testing.T) {
	t.Parallel()

	s, err := NewStudent("student-addr", "Ada Mwangi", "ada@example.com", "42 Hill Road")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := s.Debit(1); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("Expected ErrInsufficientBalance on empty account, got %v", err)
	}

	if err := s.Credit(50); err != nil {
		t.Fatalf("Expected credit to succeed, got %v", err)
	}
	if err := s.Credit(50); err != nil {
		t.Fatalf("Expected credit to succeed, got %v", err)
	}
	if s.Balance != 100 {
		t.Errorf("Expected balance 100, got %d", s.Balance)
	}

	if err := s.Debit(100); err != nil {
		t.Fatalf("Expected debit to succeed, got %v", err)
	}
	if s.Balance != 0 {
		t.Errorf("Expected balance 0, got %d", s.Balance)
	}
}
