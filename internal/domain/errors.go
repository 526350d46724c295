package domain

import "errors"

// Kind classifies an error by who is at fault and how it surfaces to a caller.
type Kind int

const (
	KindUpstream Kind = iota
	KindValidation
	KindAuth
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	default:
		return "upstream"
	}
}

// Error is a caller-facing failure with a stable message.
type Error struct {
	Kind    Kind
	Message string
	// Cause links a more specific error to a general one so both match errors.Is.
	Cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of the outermost *Error in err's chain.
// Anything unclassified is an upstream failure.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUpstream
}

// Credential errors
var (
	ErrDuplicateEmail      = NewError(KindConflict, "Email already registered")
	ErrInvalidCredentials  = NewError(KindAuth, "Invalid credentials")
	ErrInvalidToken        = NewError(KindAuth, "Invalid token")
	ErrInvalidRefreshToken = NewError(KindAuth, "Invalid refresh token")
	ErrUnauthorized        = NewError(KindAuth, "Unauthorized")
	ErrPasswordTooLong     = NewError(KindValidation, "Password must be at most 72 bytes")
)

// Wallet errors
var (
	ErrWalletExists        = NewError(KindConflict, "Wallet already exists")
	ErrWalletImported      = &Error{Kind: KindConflict, Message: "Wallet already imported", Cause: ErrWalletExists}
	ErrMissingWalletFields = NewError(KindValidation, "Address and private key are required")
	ErrAddressMismatch     = NewError(KindValidation, "Address doesn't match private key")
	ErrInvalidPrivateKey   = NewError(KindValidation, "Invalid private key")
	ErrAddressRequired     = NewError(KindValidation, "Wallet address is required")
	ErrInvalidAddress      = NewError(KindValidation, "Invalid Ethereum address")
)
