package credential

import "errors"

var (
	// ErrAccessDenied is the single outcome for every authorization
	// failure, including operations addressing credentials that do not
	// exist: a denied caller must not learn whether the document is real.
	ErrAccessDenied = errors.New("access denied")

	ErrNotFound   = errors.New("credential not found")
	ErrValidation = errors.New("invalid input")
)
