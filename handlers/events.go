// ABOUTME: Event tools
// ABOUTME: Implements get_events and get_upcoming_events
package handlers

import (
	"context"
)

type GetEventsInput struct {
	Limit  int `json:"limit,omitempty" jsonschema:"Maximum number of events to return (default 25)" validate:"gte=1,lte=1000"`
	Offset int `json:"offset,omitempty" jsonschema:"Number of events to skip (default 0)" validate:"gte=0"`
}

type GetUpcomingEventsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of events to return (default 10)" validate:"gte=1,lte=1000"`
}

func (r *Registry) eventTools() []Tool {
	return []Tool{
		newTool("get_events", "Get a list of events from CiviCRM",
			GetEventsInput{Limit: defaultLimit},
			r.getEvents,
			withDefault("limit", defaultLimit), withRange("limit", 1, maxLimit),
			withDefault("offset", 0), withMinimum("offset", 0)),
		newTool("get_upcoming_events", "Get upcoming active events from CiviCRM",
			GetUpcomingEventsInput{Limit: defaultUpcomingLimit},
			r.getUpcomingEvents,
			withDefault("limit", defaultUpcomingLimit), withRange("limit", 1, maxLimit)),
	}
}

func (r *Registry) getEvents(ctx context.Context, in GetEventsInput) Result {
	events, err := r.crm.GetEvents(ctx, in.Limit, in.Offset)
	if err != nil {
		return Failure(err)
	}
	return List(events)
}

func (r *Registry) getUpcomingEvents(ctx context.Context, in GetUpcomingEventsInput) Result {
	events, err := r.crm.GetUpcomingEvents(ctx, in.Limit)
	if err != nil {
		return Failure(err)
	}
	return List(events)
}
