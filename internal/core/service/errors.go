package service

import (
	"errors"

	"github.com/martijn/clientreg/internal/core/domain"
	"github.com/martijn/clientreg/internal/core/validation"
)

// IsNotFound reports whether err means the requested client does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrClientNotFound)
}

// AsRejection extracts the validation rejection carried by err, if any.
func AsRejection(err error) (*validation.Rejection, bool) {
	var rej *validation.Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
