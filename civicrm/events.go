// ABOUTME: Event operations: paged listing and upcoming active events
// ABOUTME: Event type codes are resolved through the event_type option group
package civicrm

import (
	"context"
	"fmt"

	"github.com/harperreed/civibridge/models"
)

var eventFields = []string{
	"id", "title", "event_type_id", "start_date", "end_date", "max_participants", "is_active",
}

func (c *Client) GetEvents(ctx context.Context, limit, offset int) ([]models.Event, error) {
	events, err := c.enrichedEvents(ctx, NewQuery(eventFields...).Paginate(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	return events, nil
}

// GetUpcomingEvents returns active events starting today or later.
func (c *Client) GetUpcomingEvents(ctx context.Context, limit int) ([]models.Event, error) {
	q := NewQuery(eventFields...).
		Filter(Gte("start_date", c.today()), Eq("is_active", true)).
		Paginate(limit, 0)
	events, err := c.enrichedEvents(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming events: %w", err)
	}
	return events, nil
}

func (c *Client) enrichedEvents(ctx context.Context, q Query) ([]models.Event, error) {
	events, err := fetch[models.Event](ctx, c, "Event", q)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}

	types, err := c.optionLabels(ctx, groupEventType)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].EventType = types.label(events[i].EventTypeID)
	}
	return events, nil
}
