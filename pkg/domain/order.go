package domain

import (
	"fmt"
	"strings"
)

// Order is the direction applied by a sort.
type Order int

const (
	// Ascending sorts smallest first.
	Ascending Order = iota
	// Descending sorts largest first.
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseOrder parses "asc"/"ascending"/"desc"/"descending".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown order %q: %w", s, ErrInvalidArgument)
}
