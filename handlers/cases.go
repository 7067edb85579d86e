// ABOUTME: Case management tools, including role-based lookups for the calling user
// ABOUTME: get_my_cases_as_coordinator resolves the caller's contact from the session email
package handlers

import (
	"context"

	"github.com/harperreed/civibridge/civicrm"
	"github.com/harperreed/civibridge/models"
	"github.com/harperreed/civibridge/session"
)

type GetCasesInput struct {
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum number of cases to return (default 25)" validate:"gte=1,lte=1000"`
	Offset       int    `json:"offset,omitempty" jsonschema:"Number of cases to skip (default 0)" validate:"gte=0"`
	StatusFilter string `json:"status_filter,omitempty" jsonschema:"Filter by case status ID (e.g. 1 for Open, 2 for Closed)" validate:"omitempty,numeric"`
	DateFilter   string `json:"date_filter,omitempty" jsonschema:"Only cases starting on or after this date (YYYY-MM-DD)" validate:"omitempty,datetime=2006-01-02"`
}

type CaseIDInput struct {
	CaseID models.ID `json:"case_id" jsonschema:"Case ID" validate:"gt=0"`
}

type GetCasesByRoleInput struct {
	ContactID models.ID       `json:"contact_id" jsonschema:"Contact ID" validate:"gt=0"`
	RoleType  models.RoleType `json:"role_type" jsonschema:"Role the contact plays on the cases" validate:"required,oneof=client case_coordinator case_manager"`
}

type GetCaseActivitiesInput struct {
	CaseID models.ID `json:"case_id" jsonschema:"Case ID" validate:"gt=0"`
	Limit  int       `json:"limit,omitempty" jsonschema:"Maximum number of activities to return (default 25)" validate:"gte=1,lte=1000"`
}

type CoordinatorIDInput struct {
	CoordinatorID models.ID `json:"coordinator_id" jsonschema:"Coordinator contact ID" validate:"gt=0"`
}

func (r *Registry) caseTools() []Tool {
	roles := []any{string(models.RoleClient), string(models.RoleCaseCoordinator), string(models.RoleCaseManager)}

	return []Tool{
		newTool("get_cases", "Get a list of cases/projects from CiviCRM",
			GetCasesInput{Limit: defaultLimit},
			r.getCases,
			withDefault("limit", defaultLimit), withRange("limit", 1, maxLimit),
			withDefault("offset", 0), withMinimum("offset", 0),
			withFormat("date_filter", "date")),
		newTool("get_case_by_id", "Get detailed information about a specific case",
			CaseIDInput{},
			r.getCaseByID,
			withMinimum("case_id", 1)),
		newTool("get_cases_by_contact", "Get cases where a contact is the client",
			ContactIDInput{},
			r.getCasesByContact,
			withMinimum("contact_id", 1)),
		newTool("get_cases_by_role",
			"Get cases by role relationship (client, case_coordinator, case_manager) for a contact",
			GetCasesByRoleInput{},
			r.getCasesByRole,
			withMinimum("contact_id", 1), withEnum("role_type", roles...)),
		newTool("get_case_contacts", "Get contacts associated with a specific case",
			CaseIDInput{},
			r.getCaseContacts,
			withMinimum("case_id", 1)),
		newTool("get_case_activities", "Get activities/service requests for a specific case",
			GetCaseActivitiesInput{Limit: defaultLimit},
			r.getCaseActivities,
			withMinimum("case_id", 1),
			withDefault("limit", defaultLimit), withRange("limit", 1, maxLimit)),
		newTool("get_open_cases_by_coordinator", "Get open cases for a specific case coordinator",
			CoordinatorIDInput{},
			r.getOpenCasesByCoordinator,
			withMinimum("coordinator_id", 1)),
		newTool("get_my_cases_as_coordinator",
			"Get cases where the current logged-in user is the Case Coordinator - automatically finds user by session email",
			NoInput{},
			r.getMyCasesAsCoordinator),
	}
}

func (r *Registry) getCases(ctx context.Context, in GetCasesInput) Result {
	cases, err := r.crm.GetCases(ctx, in.Limit, in.Offset, civicrm.CaseFilter{
		Status:           in.StatusFilter,
		StartedOnOrAfter: in.DateFilter,
	})
	if err != nil {
		return Failure(err)
	}
	return List(cases)
}

func (r *Registry) getCaseByID(ctx context.Context, in CaseIDInput) Result {
	cs, err := r.crm.GetCaseByID(ctx, int64(in.CaseID))
	if err != nil {
		return Failure(err)
	}
	return Success(cs)
}

func (r *Registry) getCasesByContact(ctx context.Context, in ContactIDInput) Result {
	cases, err := r.crm.GetCasesByContact(ctx, int64(in.ContactID))
	if err != nil {
		return Failure(err)
	}
	return List(cases).With("contact_id", in.ContactID)
}

func (r *Registry) getCasesByRole(ctx context.Context, in GetCasesByRoleInput) Result {
	cases, err := r.crm.GetCasesByRole(ctx, int64(in.ContactID), in.RoleType)
	if err != nil {
		return Failure(err)
	}
	return List(cases).
		With("contact_id", in.ContactID).
		With("role_type", in.RoleType)
}

func (r *Registry) getCaseContacts(ctx context.Context, in CaseIDInput) Result {
	contacts, err := r.crm.GetCaseContacts(ctx, int64(in.CaseID))
	if err != nil {
		return Failure(err)
	}
	return List(contacts)
}

func (r *Registry) getCaseActivities(ctx context.Context, in GetCaseActivitiesInput) Result {
	activities, err := r.crm.GetCaseActivities(ctx, int64(in.CaseID), in.Limit)
	if err != nil {
		return Failure(err)
	}
	return List(activities)
}

func (r *Registry) getOpenCasesByCoordinator(ctx context.Context, in CoordinatorIDInput) Result {
	cases, err := r.crm.GetOpenCasesByCoordinator(ctx, int64(in.CoordinatorID))
	if err != nil {
		return Failure(err)
	}
	return List(cases)
}

func (r *Registry) getMyCasesAsCoordinator(ctx context.Context, _ NoInput) Result {
	id, ok := session.FromContext(ctx)
	if !ok || id.Email == "" {
		return Failuref("User not logged in or email not available in session")
	}

	contact, err := r.crm.FindContactByEmail(ctx, id.Email)
	if err != nil {
		return Failure(err)
	}
	if contact == nil {
		return Failuref("No CiviCRM contact found for email: " + id.Email)
	}

	cases, err := r.crm.GetCasesByRole(ctx, int64(contact.ID), models.RoleCaseCoordinator)
	if err != nil {
		return Failure(err)
	}
	return List(cases).
		With("user_email", id.Email).
		With("contact_id", contact.ID).
		With("contact_name", contact.DisplayName)
}
