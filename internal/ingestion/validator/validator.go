// Package validator checks feed addresses before they reach the pipeline.
package validator

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const maxAddressLength = 2048

// ValidationError holds one message per rejected input, keyed by position.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// FeedAddress reports why raw is not a fetchable feed address, or nil.
func FeedAddress(raw string) error {
	if raw == "" {
		return fmt.Errorf("address is required")
	}
	if len(raw) > maxAddressLength {
		return fmt.Errorf("address must be at most %d characters", maxAddressLength)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed address: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("address has no host")
	}
	return nil
}

// FeedAddresses trims each line and keeps the valid addresses in order.
// Blank lines and lines starting with # are ignored. Rejected lines are
// reported in the returned ValidationError, keyed by 1-based line number;
// it is nil when every non-ignored line was valid.
func FeedAddresses(lines []string) ([]string, *ValidationError) {
	valid := make([]string, 0, len(lines))
	errs := make(map[string]string)
	for i, line := range lines {
		addr := strings.TrimSpace(line)
		if addr == "" || strings.HasPrefix(addr, "#") {
			continue
		}
		if err := FeedAddress(addr); err != nil {
			errs[fmt.Sprintf("line %d", i+1)] = err.Error()
			continue
		}
		valid = append(valid, addr)
	}
	if len(errs) > 0 {
		return valid, &ValidationError{Fields: errs}
	}
	return valid, nil
}
