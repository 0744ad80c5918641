// Package dsperr holds the sentinel errors shared by the signal
// reconstruction packages.
package dsperr

import "errors"

// ErrInvalidParameter is returned when an input violates a documented
// precondition of a reconstruction stage.
var ErrInvalidParameter = errors.New("invalid parameter")
