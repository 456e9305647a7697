package mockservices

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var ErrInvalidFault = errors.New("invalid fault")

// ParseFault reads "path=status" or "path=drop", optionally suffixed with "xN" to limit
// the fault to N requests, e.g. "booking/flight=dropx2".
func ParseFault(raw string) (string, Fault, error) {
	path, rule, ok := strings.Cut(raw, "=")
	path = strings.Trim(strings.TrimSpace(path), "/")

	if !ok || path == "" || rule == "" {
		return "", Fault{}, fmt.Errorf("%w: %q", ErrInvalidFault, raw)
	}

	if !slices.Contains(Paths, path) {
		return "", Fault{}, fmt.Errorf("%w: unknown path %q", ErrInvalidFault, path)
	}

	var fault Fault

	if kind, times, found := strings.Cut(rule, "x"); found {
		n, err := strconv.Atoi(times)
		if err != nil || n < 1 {
			return "", Fault{}, fmt.Errorf("%w: bad count in %q", ErrInvalidFault, raw)
		}

		fault.Times = n
		rule = kind
	}

	if rule == "drop" {
		fault.Drop = true

		return path, fault, nil
	}

	status, err := strconv.Atoi(rule)
	if err != nil || status < 100 || status > 599 {
		return "", Fault{}, fmt.Errorf("%w: bad status in %q", ErrInvalidFault, raw)
	}

	fault.Status = status

	return path, fault, nil
}
