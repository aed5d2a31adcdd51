package credential

import (
	"fmt"
	"strings"
)

const (
	DefaultPageSize = 30
	MaxPageSize     = 100

	maxIDLen      = 100
	maxTitleLen   = 200
	maxSiteURLLen = 500
	maxEmailLen   = 100
)

// patternMetachars are rejected in filter input outright: filters are fed
// into engine-side pattern matching and must stay literal.
const patternMetachars = `${}[]()\|^*+?`

// Query selects credentials visible to a user. String filters are prefix
// matches; all of them are always combined with owner-or-shared-with
// scoping by the repository.
type Query struct {
	ID       string
	Title    string
	SiteURL  string
	EmailID  string
	Page     int
	PageSize int
}

// Validate rejects filter input that exceeds length limits or contains
// pattern metacharacters.
func (q Query) Validate() error {
	checks := []struct {
		name  string
		value string
		max   int
	}{
		{"id", q.ID, maxIDLen},
		{"title", q.Title, maxTitleLen},
		{"site_url", q.SiteURL, maxSiteURLLen},
		{"email_id", q.EmailID, maxEmailLen},
	}

	for _, c := range checks {
		if c.value == "" {
			continue
		}
		if len(c.value) > c.max {
			return fmt.Errorf("%w: %s filter exceeds %d characters", ErrValidation, c.name, c.max)
		}
		if strings.ContainsAny(c.value, patternMetachars) {
			return fmt.Errorf("%w: %s filter contains invalid characters", ErrValidation, c.name)
		}
	}
	return nil
}

// Normalize clamps pagination: pageSize to [1,100] with a default of 30,
// page to >=1 with a default of 1.
func (q Query) Normalize() Query {
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// Offset is the number of rows to skip for the current page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// EscapeLike escapes LIKE wildcards so filter input matches literally.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
