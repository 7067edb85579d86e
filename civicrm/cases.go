// ABOUTME: Case operations: listing, lookup by id, cases of a contact, case contacts and activities
// ABOUTME: Case type and status codes are joined in from CaseType and the case_status option group
package civicrm

import (
	"context"
	"fmt"

	"github.com/harperreed/civibridge/models"
	"golang.org/x/sync/errgroup"
)

var caseFields = []string{
	"id", "case_type_id", "subject", "status_id", "priority_id", "start_date", "end_date",
	"created_date", "modified_date", "details", "is_deleted",
}

var activityFields = []string{
	"id", "activity_type_id", "subject", "details", "activity_date_time", "status_id",
	"priority_id", "source_contact_id", "target_contact_id", "assignee_contact_id",
	"created_date", "modified_date",
}

// caseContactLookups bounds concurrent contact fetches in GetCaseContacts.
const caseContactLookups = 4

func notDeleted() Filter {
	return Eq("is_deleted", false)
}

// GetCases lists non-deleted cases.
func (c *Client) GetCases(ctx context.Context, limit, offset int, filter CaseFilter) ([]models.Case, error) {
	q := NewQuery(caseFields...).Filter(notDeleted())
	if filter.Status != "" {
		q = q.Filter(Eq("status_id", filter.Status))
	}
	if filter.StartedOnOrAfter != "" {
		q = q.Filter(Gte("start_date", filter.StartedOnOrAfter))
	}

	cases, err := fetch[models.Case](ctx, c, "Case", q.Paginate(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to get cases: %w", err)
	}
	if err := c.enrichCases(ctx, cases, false); err != nil {
		return nil, fmt.Errorf("failed to enrich cases: %w", err)
	}
	return cases, nil
}

// GetCaseByID fetches a case by exact id, deleted or not. Returns nil when
// there is no such case.
func (c *Client) GetCaseByID(ctx context.Context, id int64) (*models.Case, error) {
	q := NewQuery(caseFields...).Filter(Eq("id", id)).Paginate(1, 0)
	cases, err := fetch[models.Case](ctx, c, "Case", q)
	if err != nil {
		return nil, fmt.Errorf("failed to get case %d: %w", id, err)
	}

	var found []models.Case
	for _, cs := range cases {
		if int64(cs.ID) == id {
			found = append(found, cs)
			break
		}
	}
	if len(found) == 0 {
		return nil, nil
	}
	if err := c.enrichCases(ctx, found, true); err != nil {
		return nil, fmt.Errorf("failed to enrich case %d: %w", id, err)
	}
	return &found[0], nil
}

// GetCasesByContact returns the non-deleted cases a contact is a client of.
func (c *Client) GetCasesByContact(ctx context.Context, contactID int64) ([]models.Case, error) {
	q := NewQuery("case_id", "contact_id").Filter(Eq("contact_id", contactID))
	joins, err := fetch[caseContactRow](ctx, c, "CaseContact", q)
	if err != nil {
		return nil, fmt.Errorf("failed to get case links for contact %d: %w", contactID, err)
	}

	ids := make([]models.ID, len(joins))
	for i, j := range joins {
		ids[i] = j.CaseID
	}
	cases, err := c.casesByIDs(ctx, distinct(ids...))
	if err != nil {
		return nil, fmt.Errorf("failed to get cases for contact %d: %w", contactID, err)
	}
	return cases, nil
}

// casesByIDs fetches and enriches non-deleted cases. No ids means no query.
func (c *Client) casesByIDs(ctx context.Context, ids []int64) ([]models.Case, error) {
	if len(ids) == 0 {
		return []models.Case{}, nil
	}
	q := NewQuery(caseFields...).Filter(In("id", int64sToAny(ids)...), notDeleted())
	cases, err := fetch[models.Case](ctx, c, "Case", q)
	if err != nil {
		return nil, err
	}
	if err := c.enrichCases(ctx, cases, false); err != nil {
		return nil, err
	}
	return cases, nil
}

// enrichCases fills CaseType and Status. With targeted set, only the codes
// present in cases are looked up; otherwise the full tables are read.
func (c *Client) enrichCases(ctx context.Context, cases []models.Case, targeted bool) error {
	if len(cases) == 0 {
		return nil
	}

	var typeIDs, statusIDs []int64
	if targeted {
		types := make([]models.ID, len(cases))
		statuses := make([]models.ID, len(cases))
		for i, cs := range cases {
			types[i] = cs.CaseTypeID
			statuses[i] = cs.StatusID
		}
		typeIDs = distinct(types...)
		statusIDs = distinct(statuses...)
	}

	var typeLabels, statusLabels labels
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if targeted && len(typeIDs) == 0 {
			typeLabels = labels{}
			return nil
		}
		var err error
		typeLabels, err = c.caseTypeLabels(gctx, typeIDs...)
		return err
	})
	g.Go(func() error {
		if targeted && len(statusIDs) == 0 {
			statusLabels = labels{}
			return nil
		}
		var err error
		statusLabels, err = c.optionLabels(gctx, groupCaseStatus, statusIDs...)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range cases {
		cases[i].CaseType = typeLabels.label(cases[i].CaseTypeID)
		cases[i].Status = statusLabels.label(cases[i].StatusID)
	}
	return nil
}

// GetCaseContacts lists the clients of a case with their display names.
func (c *Client) GetCaseContacts(ctx context.Context, caseID int64) ([]models.CaseContact, error) {
	q := NewQuery("case_id", "contact_id").Filter(Eq("case_id", caseID))
	joins, err := fetch[caseContactRow](ctx, c, "CaseContact", q)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts for case %d: %w", caseID, err)
	}

	out := make([]models.CaseContact, len(joins))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(caseContactLookups)
	for i, join := range joins {
		g.Go(func() error {
			contact, err := c.GetContact(gctx, int64(join.ContactID))
			if err != nil {
				return err
			}
			cc := models.CaseContact{
				CaseID:           join.CaseID,
				ContactID:        join.ContactID,
				RelationshipType: "Client",
				ContactName:      models.UnknownLabel,
			}
			if contact != nil {
				cc.ContactName = contact.DisplayName
				cc.ContactEmail = contact.Email
			}
			out[i] = cc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve contacts for case %d: %w", caseID, err)
	}
	return out, nil
}

// GetCaseActivities lists activities filed on a case.
func (c *Client) GetCaseActivities(ctx context.Context, caseID int64, limit int) ([]models.Activity, error) {
	q := NewQuery(activityFields...).Filter(Eq("case_id", caseID)).Paginate(limit, 0)
	activities, err := fetch[models.Activity](ctx, c, "Activity", q)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities for case %d: %w", caseID, err)
	}
	if len(activities) == 0 {
		return activities, nil
	}

	var types, statuses labels
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		types, err = c.optionLabels(gctx, groupActivityType)
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = c.optionLabels(gctx, groupActivityStatus)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to enrich activities for case %d: %w", caseID, err)
	}

	for i := range activities {
		activities[i].ActivityType = types.label(activities[i].ActivityTypeID)
		activities[i].Status = statuses.label(activities[i].StatusID)
	}
	return activities, nil
}
