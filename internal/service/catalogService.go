package service

import (
	"context"
	"fmt"

	"github.com/ds124wfegd/campus-events/internal/entity"
)

// EventList is one render of the catalog. Empty results carry a message
// instead of silence.
type EventList struct {
	Events  []entity.Event `json:"events"`
	Total   int            `json:"total"`
	Empty   bool           `json:"empty"`
	Message string         `json:"message,omitempty"`
	Query   EventQuery     `json:"query"`
}

type catalogService struct {
	events []entity.Event
}

// NewCatalogService serves a fixed event list.
func NewCatalogService(events []entity.Event) CatalogService {
	return &catalogService{events: append([]entity.Event(nil), events...)}
}

func (s *catalogService) ListEvents(_ context.Context, query EventQuery) (*EventList, error) {
	category, err := entity.ParseCategory(string(query.Category))
	if err != nil {
		return nil, err
	}
	sortMode, err := ParseSortMode(string(query.Sort))
	if err != nil {
		return nil, err
	}
	query.Category, query.Sort = category, sortMode

	events := FilterEvents(s.events, query)
	list := &EventList{
		Events: events,
		Total:  len(events),
		Query:  query,
	}
	if len(events) == 0 {
		list.Empty = true
		list.Message = EmptyListMessage
	}
	return list, nil
}

func (s *catalogService) GetEvent(_ context.Context, id int64) (*entity.Event, error) {
	for i := range s.events {
		if s.events[i].ID == id {
			ev := s.events[i]
			return &ev, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", entity.ErrEventNotFound, id)
}

func (s *catalogService) Categories() []entity.Category {
	return append([]entity.Category(nil), entity.Categories...)
}
