package auth

import "errors"

// ErrUnauthorized indicates the caller does not hold the role a gated
// operation requires. It covers both a missing role and a caller that is
// not among the role's members; callers cannot distinguish the two.
var ErrUnauthorized = errors.New("caller is not authorized")
