// ABOUTME: CRM interface consumed by every binding, plus wire row types for api4 records
// ABOUTME: Row types carry api4 column names; operations convert them into models
package civicrm

import (
	"context"

	"github.com/harperreed/civibridge/models"
)

// CaseFilter narrows GetCases. Status is a case status value; StartedOnOrAfter
// is a YYYY-MM-DD date. Empty fields add no filter.
type CaseFilter struct {
	Status           string
	StartedOnOrAfter string
}

// CRM is the read-only query surface over CiviCRM.
type CRM interface {
	GetContacts(ctx context.Context, limit, offset int) ([]models.Contact, error)
	SearchContacts(ctx context.Context, query string, limit int) ([]models.Contact, error)
	GetContact(ctx context.Context, id int64) (*models.Contact, error)
	FindContactByEmail(ctx context.Context, email string) (*models.Contact, error)

	GetContributions(ctx context.Context, limit, offset int) ([]models.Contribution, error)
	GetContributionsByContact(ctx context.Context, contactID int64) ([]models.Contribution, error)
	GetContributionStats(ctx context.Context) (*models.ContributionStats, error)

	GetEvents(ctx context.Context, limit, offset int) ([]models.Event, error)
	GetUpcomingEvents(ctx context.Context, limit int) ([]models.Event, error)

	GetCases(ctx context.Context, limit, offset int, filter CaseFilter) ([]models.Case, error)
	GetCaseByID(ctx context.Context, id int64) (*models.Case, error)
	GetCasesByContact(ctx context.Context, contactID int64) ([]models.Case, error)
	GetCasesByRole(ctx context.Context, contactID int64, role models.RoleType) ([]models.Case, error)
	GetCaseContacts(ctx context.Context, caseID int64) ([]models.CaseContact, error)
	GetCaseActivities(ctx context.Context, caseID int64, limit int) ([]models.Activity, error)
	GetOpenCasesByCoordinator(ctx context.Context, coordinatorID int64) ([]models.Case, error)

	GetOverallStats(ctx context.Context) (*models.OverallStats, error)
}

var _ CRM = (*Client)(nil)

type contactRow struct {
	ID               models.ID `json:"id"`
	ContactType      string    `json:"contact_type"`
	DisplayName      string    `json:"display_name"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email_primary.email"`
	Phone            string    `json:"phone_primary.phone"`
	OrganizationName string    `json:"organization_name"`
	CreatedDate      string    `json:"created_date"`
	ModifiedDate     string    `json:"modified_date"`
}

func (r contactRow) toModel() models.Contact {
	return models.Contact{
		ID:               r.ID,
		ContactType:      r.ContactType,
		DisplayName:      r.DisplayName,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		OrganizationName: r.OrganizationName,
		CreatedDate:      r.CreatedDate,
		ModifiedDate:     r.ModifiedDate,
	}
}

// optionValueRow keeps value as text: some option groups use non-numeric values.
type optionValueRow struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type caseTypeRow struct {
	ID    models.ID `json:"id"`
	Title string    `json:"title"`
}

type financialTypeRow struct {
	ID   models.ID `json:"id"`
	Name string    `json:"name"`
}

type relationshipTypeRow struct {
	ID      models.ID `json:"id"`
	LabelAB string    `json:"label_a_b"`
}

type caseContactRow struct {
	CaseID    models.ID `json:"case_id"`
	ContactID models.ID `json:"contact_id"`
}

type idRow struct {
	ID models.ID `json:"id"`
}
