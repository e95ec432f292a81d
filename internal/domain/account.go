package domain

// Address is the opaque principal identity issued by the hosting platform's
// identity layer. The registrar never verifies an address cryptographically;
// it only compares addresses against record ownership and role membership.
type Address string

// IsZero reports whether the address is empty.
func (a Address) IsZero() bool {
	return a == ""
}

// String returns the raw address text.
func (a Address) String() string {
	return string(a)
}

// Amount is a monetary amount in whole currency units. Balances are always
// non-negative; an Amount used as a transfer size must be positive.
type Amount int64

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}
