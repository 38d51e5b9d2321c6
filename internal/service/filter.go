package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ds124wfegd/campus-events/internal/entity"
)

type SortMode string

const (
	SortNone     SortMode = ""
	SortDateAsc  SortMode = "date-asc"
	SortDateDesc SortMode = "date-desc"
)

// DefaultCatalogSort is applied when the client does not send a sort value.
const DefaultCatalogSort = SortDateAsc

func ParseSortMode(s string) (SortMode, error) {
	switch mode := SortMode(strings.TrimSpace(s)); mode {
	case SortNone, SortDateAsc, SortDateDesc:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", entity.ErrInvalidSort, s)
	}
}

// EventQuery selects and orders events.
type EventQuery struct {
	Search   string          `json:"search"`
	Category entity.Category `json:"category"`
	Sort     SortMode        `json:"sort"`
}

// Matches reports whether e passes the text and category filters.
func (q EventQuery) Matches(e *entity.Event) bool {
	if q.Category != "" && e.Category != q.Category {
		return false
	}
	if q.Search == "" {
		return true
	}
	term := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(e.Title), term) ||
		strings.Contains(strings.ToLower(e.Description), term)
}

// FilterEvents returns the matching events in the requested order. The input
// is not modified.
func FilterEvents(events []entity.Event, q EventQuery) []entity.Event {
	out := make([]entity.Event, 0, len(events))
	for i := range events {
		if q.Matches(&events[i]) {
			out = append(out, events[i])
		}
	}
	sortByDate(out, func(e entity.Event) entity.Date { return e.Date }, q.Sort)
	return out
}

func filterRSVPEvents(events []*entity.RSVPEvent, q EventQuery) []*entity.RSVPEvent {
	out := make([]*entity.RSVPEvent, 0, len(events))
	for _, ev := range events {
		if q.Matches(&ev.Event) {
			out = append(out, ev)
		}
	}
	sortByDate(out, func(e *entity.RSVPEvent) entity.Date { return e.Date }, q.Sort)
	return out
}

// sortByDate is stable: events on the same date keep their relative order.
func sortByDate[T any](items []T, dateOf func(T) entity.Date, mode SortMode) {
	switch mode {
	case SortDateAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return dateOf(items[i]).Before(dateOf(items[j]).Time)
		})
	case SortDateDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return dateOf(items[i]).After(dateOf(items[j]).Time)
		})
	}
}
