package registry

import "errors"

// Sentinel errors for the registry surface. Handlers map these to HTTP codes;
// any write that returns one of these leaves state untouched.
var (
	ErrAuthorization    = errors.New("caller lacks the required role")
	ErrDuplicateID      = errors.New("certificate id already issued")
	ErrNotFound         = errors.New("not found")
	ErrInvalidRecipient = errors.New("invalid recipient address")
	ErrLengthMismatch   = errors.New("batch input lengths do not match")
	ErrSoulbound        = errors.New("certificates are soulbound and cannot be transferred")
	ErrUnknownRole      = errors.New("unknown role")
)
