package leakcheck

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// ErrUnavailable means the breach data source could not be reached or
// answered with a server error. Callers must treat it as "unknown", never
// as "not leaked".
var ErrUnavailable = errors.New("breach data source unavailable")

type Servicer interface {
	IsPasswordLeaked(ctx context.Context, password string) (bool, int, error)
	GetBreachedSites(ctx context.Context, email string) ([]Breach, error)
}

// Breach describes one breach an account appeared in.
type Breach struct {
	Name       string `json:"Name"`
	Title      string `json:"Title,omitempty"`
	Domain     string `json:"Domain,omitempty"`
	BreachDate string `json:"BreachDate,omitempty"`
}

// Checker queries the k-anonymity range API for passwords and the breach
// account API for emails. Only the first five characters of the SHA-1 hash
// ever leave the process.
type Checker struct {
	rangeURL  string
	breachURL string
	apiKey    string
	client    *http.Client
	log       *slog.Logger
}

func NewChecker(rangeURL, breachURL, apiKey string, timeout time.Duration, log *slog.Logger) *Checker {
	return &Checker{
		rangeURL:  strings.TrimRight(rangeURL, "/"),
		breachURL: strings.TrimRight(breachURL, "/"),
		apiKey:    apiKey,
		client:    &http.Client{Timeout: timeout},
		log:       log.With("component", "leak_checker"),
	}
}

// IsPasswordLeaked reports whether the password appears in known breach
// corpora and how many times it was seen there.
func (c *Checker) IsPasswordLeaked(ctx context.Context, password string) (bool, int, error) {
	sum := sha1.Sum([]byte(password))
	digest := strings.ToUpper(fmt.Sprintf("%x", sum))
	prefix, suffix := digest[:5], digest[5:]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rangeURL+"/range/"+prefix, nil)
	if err != nil {
		return false, 0, fmt.Errorf("build range request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, 0, fmt.Errorf("%w: range query returned status %d", ErrUnavailable, resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		candidate, countText, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if strings.EqualFold(candidate, suffix) {
			count := 0
			fmt.Sscanf(strings.TrimSpace(countText), "%d", &count)
			return true, count, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return false, 0, nil
}

// GetBreachedSites lists the breaches the email address appears in. A 404
// from the source means the account is clean.
func (c *Checker) GetBreachedSites(ctx context.Context, email string) ([]Breach, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.breachURL+"/breachedaccount/"+email+"?truncateResponse=false", nil)
	if err != nil {
		return nil, fmt.Errorf("build breach request: %w", err)
	}
	req.Header.Set("hibp-api-key", c.apiKey)
	req.Header.Set("User-Agent", "passvault")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return []Breach{}, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: breach query returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var breaches []Breach
	if err := json.NewDecoder(resp.Body).Decode(&breaches); err != nil {
		return nil, fmt.Errorf("decode breach response: %w", err)
	}
	return breaches, nil
}
