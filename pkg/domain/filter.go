package domain

import "fmt"

// FilterQuery identifies one active filter of a scope. Two queries are the same
// filter iff both fields are equal.
type FilterQuery struct {
	Query string `json:"query"`
	Flags int    `json:"flags"`
}

func (q FilterQuery) String() string {
	return fmt.Sprintf("%q/%d", q.Query, q.Flags)
}
