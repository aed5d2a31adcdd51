package notification

import "errors"

var (
	ErrNotFound      = errors.New("notification not found")
	ErrAlertNotFound = errors.New("security alert not found")
)
