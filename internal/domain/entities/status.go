package entities

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusWontDo     Status = "WONT_DO"
)

// Statuses lists every ticket status in board order. Anything that needs
// one entry per status (listing buckets, validation) iterates this.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone, StatusWontDo}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		names := make([]string, len(Statuses))
		for i, known := range Statuses {
			names[i] = string(known)
		}
		return "", fmt.Errorf("%q is not a valid status, expected one of %s", s, strings.Join(names, ", "))
	}
	return status, nil
}

// GroupByStatus buckets items by status. Every status has a non-nil bucket,
// so empty buckets still serialize as [].
func GroupByStatus[T any](items []T, statusOf func(T) Status) map[Status][]T {
	groups := make(map[Status][]T, len(Statuses))
	for _, s := range Statuses {
		groups[s] = make([]T, 0)
	}
	for _, item := range items {
		s := statusOf(item)
		groups[s] = append(groups[s], item)
	}
	return groups
}
