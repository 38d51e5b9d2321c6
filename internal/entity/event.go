package entity

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategorySports   Category = "Sports"
	CategoryAcademic Category = "Academic"
	CategorySocial   Category = "Social"
)

// Categories is the fixed label set used for filtering.
var Categories = []Category{CategorySports, CategoryAcademic, CategorySocial}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts an empty value, which selects every category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if c == "" || c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

type Event struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Date        Date     `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

func (e *Event) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("%w: event id must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: event %d has no title", ErrInvalidInput, e.ID)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: event %d has no date", ErrInvalidInput, e.ID)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: event %d has category %q", ErrInvalidCategory, e.ID, e.Category)
	}
	return nil
}

// RSVPEvent is an event with registration counters.
type RSVPEvent struct {
	Event
	Capacity  int `json:"capacity"`
	RSVPCount int `json:"rsvp_count"`
}

// NewRSVPEvent checks 0 <= count <= capacity and capacity > 0.
func NewRSVPEvent(e Event, capacity, count int) (*RSVPEvent, error) {
	ev := &RSVPEvent{Event: e, Capacity: capacity, RSVPCount: count}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

func (e *RSVPEvent) Validate() error {
	if err := e.Event.Validate(); err != nil {
		return err
	}
	if e.Capacity <= 0 {
		return fmt.Errorf("%w: event %d capacity %d must be positive", ErrInvalidCapacity, e.ID, e.Capacity)
	}
	if e.RSVPCount < 0 || e.RSVPCount > e.Capacity {
		return fmt.Errorf("%w: event %d rsvp count %d outside [0, %d]", ErrInvalidCapacity, e.ID, e.RSVPCount, e.Capacity)
	}
	return nil
}

func (e *RSVPEvent) IsFull() bool {
	return e.RSVPCount >= e.Capacity
}

func (e *RSVPEvent) SpotsLeft() int {
	if e.IsFull() {
		return 0
	}
	return e.Capacity - e.RSVPCount
}

func (e *RSVPEvent) Clone() *RSVPEvent {
	c := *e
	return &c
}
