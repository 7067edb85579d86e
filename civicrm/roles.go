// ABOUTME: Case role resolution for clients, case coordinators and case managers
// ABOUTME: Staff roles go through active Relationship rows, then re-fetch the authoritative cases
package civicrm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harperreed/civibridge/models"
)

// relationshipScan is the number of role relationships read per contact.
const relationshipScan = 25

// GetCasesByRole resolves the cases contactID takes part in as role.
// Cases reached through a staff relationship carry the client from the
// relationship's B side.
func (c *Client) GetCasesByRole(ctx context.Context, contactID int64, role models.RoleType) ([]models.Case, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if role == models.RoleClient {
		return c.GetCasesByContact(ctx, contactID)
	}

	typeID, err := c.relationshipTypeID(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve relationship type for %s: %w", role, err)
	}

	q := NewQuery("*", "contact_id_b.sort_name", "case_id.subject").
		Filter(
			Eq("relationship_type_id", typeID),
			Eq("contact_id_a", contactID),
			Eq("is_active", true),
		).
		Paginate(relationshipScan, 0)
	rels, err := fetch[models.Relationship](ctx, c, "Relationship", q)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s relationships for contact %d: %w", role, contactID, err)
	}

	clients := make(map[int64]models.Relationship, len(rels))
	caseIDs := make([]models.ID, 0, len(rels))
	for _, rel := range rels {
		if rel.CaseID == nil || *rel.CaseID == 0 {
			continue
		}
		id := int64(*rel.CaseID)
		if _, ok := clients[id]; !ok {
			clients[id] = rel
		}
		caseIDs = append(caseIDs, *rel.CaseID)
	}

	cases, err := c.casesByIDs(ctx, distinct(caseIDs...))
	if err != nil {
		return nil, fmt.Errorf("failed to get %s cases for contact %d: %w", role, contactID, err)
	}
	for i := range cases {
		rel, ok := clients[int64(cases[i].ID)]
		if !ok {
			continue
		}
		clientID := rel.ContactIDB
		cases[i].ClientID = &clientID
		cases[i].ClientName = rel.ContactBSortName
	}
	return cases, nil
}

// GetOpenCasesByCoordinator returns coordinator cases whose status is the
// configured open status.
func (c *Client) GetOpenCasesByCoordinator(ctx context.Context, coordinatorID int64) ([]models.Case, error) {
	cases, err := c.GetCasesByRole(ctx, coordinatorID, models.RoleCaseCoordinator)
	if err != nil {
		return nil, err
	}
	open := make([]models.Case, 0, len(cases))
	for _, cs := range cases {
		if int64(cs.StatusID) == c.cfg.Roles.OpenStatusID {
			open = append(open, cs)
		}
	}
	return open, nil
}

// relationshipTypeID returns the configured code for role, or with dynamic
// resolution enabled, the id of the RelationshipType whose label_a_b
// matches. An empty registry answer falls back to the configured code.
func (c *Client) relationshipTypeID(ctx context.Context, role models.RoleType) (int64, error) {
	code, label := c.cfg.Roles.CoordinatorTypeID, c.cfg.Roles.CoordinatorLabel
	if role == models.RoleCaseManager {
		code, label = c.cfg.Roles.ManagerTypeID, c.cfg.Roles.ManagerLabel
	}
	if !c.cfg.Roles.ResolveDynamically || label == "" {
		return code, nil
	}

	q := NewQuery("id", "label_a_b").Filter(Eq("label_a_b", label)).Paginate(1, 0)
	rows, err := fetch[relationshipTypeRow](ctx, c, "RelationshipType", q)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || rows[0].ID == 0 {
		c.log(ctx).Warn("relationship type not found, using configured code",
			slog.String("label", label),
			slog.Int64("code", code),
		)
		return code, nil
	}
	return int64(rows[0].ID), nil
}
