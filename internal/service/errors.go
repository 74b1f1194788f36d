package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. The HTTP layer maps each kind to one
// status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuth
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the error type returned by every service method.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

var (
	ErrInvoicePaid        = &Error{Kind: KindConflict, Message: "invoice is paid and can no longer be changed"}
	ErrCustomerInUse      = &Error{Kind: KindConflict, Message: "customer has invoices and cannot be deleted"}
	ErrProductInUse       = &Error{Kind: KindConflict, Message: "product is used by invoices and cannot be deleted"}
	ErrProfileExists      = &Error{Kind: KindConflict, Message: "business profile already exists"}
	ErrLastAdmin          = &Error{Kind: KindConflict, Message: "cannot remove the last admin"}
	ErrSelfDelete         = &Error{Kind: KindValidation, Message: "cannot delete your own account"}
	ErrInvalidCredentials = &Error{Kind: KindAuth, Message: "invalid username or password"}
	ErrAccountLocked      = &Error{Kind: KindAuth, Message: "account is temporarily locked, try again later"}
	ErrWrongPassword      = &Error{Kind: KindValidation, Message: "old password is incorrect"}
)

func validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func conflict(msg string, err error) error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func internal(op string, err error) error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}
