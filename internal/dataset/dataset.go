// Package dataset loads the fixed campus event list every session starts from.
package dataset

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/ds124wfegd/campus-events/internal/entity"

	"gopkg.in/yaml.v3"
)

//go:embed events.yaml
var defaultFixture []byte

type eventRecord struct {
	ID          int64  `yaml:"id"`
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	Time        string `yaml:"time"`
	Location    string `yaml:"location"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Capacity    int    `yaml:"capacity"`
	RSVPCount   int    `yaml:"rsvp_count"`
}

type fixture struct {
	Events    []eventRecord `yaml:"events"`
	Reminders struct {
		RSVPd     []int64 `yaml:"rsvpd"`
		Cancelled []int64 `yaml:"cancelled"`
	} `yaml:"reminders"`
}

// Dataset is immutable after Load; accessors hand out copies.
type Dataset struct {
	events    []*entity.RSVPEvent
	rsvpd     []int64
	cancelled []int64
}

// Load reads the fixture at path, or the embedded one when path is empty.
func Load(path string) (*Dataset, error) {
	data := defaultFixture
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
		}
		data = raw
	}
	return Parse(data)
}

func Parse(data []byte) (*Dataset, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	ds := &Dataset{}
	seen := make(map[int64]bool, len(f.Events))
	for _, rec := range f.Events {
		date, err := entity.ParseDate(rec.Date)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", rec.ID, err)
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("%w: %d", entity.ErrDuplicateEvent, rec.ID)
		}
		seen[rec.ID] = true

		ev, err := entity.NewRSVPEvent(entity.Event{
			ID:          rec.ID,
			Title:       rec.Title,
			Date:        date,
			Time:        rec.Time,
			Location:    rec.Location,
			Category:    entity.Category(rec.Category),
			Description: rec.Description,
		}, rec.Capacity, rec.RSVPCount)
		if err != nil {
			return nil, err
		}
		ds.events = append(ds.events, ev)
	}

	for _, id := range append(append([]int64{}, f.Reminders.RSVPd...), f.Reminders.Cancelled...) {
		if !seen[id] {
			return nil, fmt.Errorf("reminder list references %w: %d", entity.ErrEventNotFound, id)
		}
	}
	ds.rsvpd = f.Reminders.RSVPd
	ds.cancelled = f.Reminders.Cancelled

	return ds, nil
}

// Events returns the catalog view of the dataset in insertion order.
func (d *Dataset) Events() []entity.Event {
	out := make([]entity.Event, 0, len(d.events))
	for _, ev := range d.events {
		out = append(out, ev.Event)
	}
	return out
}

// RSVPEvents returns fresh counters for a new session.
func (d *Dataset) RSVPEvents() []*entity.RSVPEvent {
	out := make([]*entity.RSVPEvent, 0, len(d.events))
	for _, ev := range d.events {
		out = append(out, ev.Clone())
	}
	return out
}

// RSVPd returns the events the reminders view treats as already joined.
func (d *Dataset) RSVPd() []entity.Event {
	return d.lookup(d.rsvpd)
}

func (d *Dataset) Cancelled() []entity.Event {
	return d.lookup(d.cancelled)
}

func (d *Dataset) lookup(ids []int64) []entity.Event {
	out := make([]entity.Event, 0, len(ids))
	for _, id := range ids {
		for _, ev := range d.events {
			if ev.ID == id {
				out = append(out, ev.Event)
				break
			}
		}
	}
	return out
}
