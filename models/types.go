// ABOUTME: Data models for CiviCRM entities projected through the api4 query engine
// ABOUTME: Defines Contact, Contribution, Event, Case, CaseContact, Relationship, Activity and stats
package models

type Contact struct {
	ID               ID     `json:"id"`
	ContactType      string `json:"contact_type,omitempty"`
	DisplayName      string `json:"display_name"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
	CreatedDate      string `json:"created_date,omitempty"`
	ModifiedDate     string `json:"modified_date,omitempty"`
}

type Contribution struct {
	ID                   ID     `json:"id"`
	ContactID            ID     `json:"contact_id"`
	TotalAmount          Amount `json:"total_amount"`
	Currency             string `json:"currency,omitempty"`
	ContributionStatusID ID     `json:"contribution_status_id"`
	ContributionStatus   string `json:"contribution_status"`
	ReceiveDate          string `json:"receive_date,omitempty"`
	Source               string `json:"source,omitempty"`
	FinancialTypeID      ID     `json:"financial_type_id,omitempty"`
	FinancialType        string `json:"financial_type,omitempty"`
}

type Event struct {
	ID               ID     `json:"id"`
	Title            string `json:"title"`
	EventTypeID      ID     `json:"event_type_id,omitempty"`
	EventType        string `json:"event_type,omitempty"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date,omitempty"`
	MaxParticipants  *Count `json:"max_participants,omitempty"`
	ParticipantCount *Count `json:"participant_count,omitempty"`
	IsActive         bool   `json:"is_active"`
}

// Case is a unit of casework. CaseType and Status are resolved labels;
// ClientID and ClientName are only set when the case was reached through
// a case-role relationship.
type Case struct {
	ID           ID     `json:"id"`
	CaseTypeID   ID     `json:"case_type_id"`
	CaseType     string `json:"case_type"`
	Subject      string `json:"subject"`
	StatusID     ID     `json:"status_id"`
	Status       string `json:"status"`
	PriorityID   *ID    `json:"priority_id,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	CreatedDate  string `json:"created_date,omitempty"`
	ModifiedDate string `json:"modified_date,omitempty"`
	Details      string `json:"details,omitempty"`
	IsDeleted    bool   `json:"is_deleted"`
	ClientID     *ID    `json:"client_id,omitempty"`
	ClientName   string `json:"client_name,omitempty"`
}

type CaseContact struct {
	CaseID             ID     `json:"case_id"`
	ContactID          ID     `json:"contact_id"`
	RelationshipTypeID ID     `json:"relationship_type_id"`
	RelationshipType   string `json:"relationship_type"`
	ContactName        string `json:"contact_name"`
	ContactEmail       string `json:"contact_email,omitempty"`
}

// Relationship mirrors an api4 Relationship row, including the joined
// contact_id_b.sort_name and case_id.subject columns.
type Relationship struct {
	ID                 ID     `json:"id"`
	RelationshipTypeID ID     `json:"relationship_type_id"`
	ContactIDA         ID     `json:"contact_id_a"`
	ContactIDB         ID     `json:"contact_id_b"`
	CaseID             *ID    `json:"case_id,omitempty"`
	IsActive           bool   `json:"is_active"`
	StartDate          string `json:"start_date,omitempty"`
	EndDate            string `json:"end_date,omitempty"`
	ContactBSortName   string `json:"contact_id_b.sort_name,omitempty"`
	CaseSubject        string `json:"case_id.subject,omitempty"`
}

type Activity struct {
	ID                ID     `json:"id"`
	ActivityTypeID    ID     `json:"activity_type_id"`
	ActivityType      string `json:"activity_type"`
	Subject           string `json:"subject,omitempty"`
	Details           string `json:"details,omitempty"`
	ActivityDateTime  string `json:"activity_date_time,omitempty"`
	StatusID          ID     `json:"status_id"`
	Status            string `json:"status"`
	PriorityID        *ID    `json:"priority_id,omitempty"`
	SourceContactID   ID     `json:"source_contact_id,omitempty"`
	TargetContactID   IDList `json:"target_contact_id,omitempty"`
	AssigneeContactID IDList `json:"assignee_contact_id,omitempty"`
	CreatedDate       string `json:"created_date,omitempty"`
	ModifiedDate      string `json:"modified_date,omitempty"`
}

// ContributionStats is computed from a bounded sample of contributions,
// not from the whole table. Capped is true when the sample window was full.
type ContributionStats struct {
	TotalAmount            Money `json:"total_amount"`
	TotalContributions     int   `json:"total_contributions"`
	CompletedContributions int   `json:"completed_contributions"`
	PendingContributions   int   `json:"pending_contributions"`
	SampleSize             int   `json:"sample_size"`
	Capped                 bool  `json:"capped"`
}

type OverallStats struct {
	TotalContacts           int   `json:"total_contacts"`
	TotalContributions      int   `json:"total_contributions"`
	TotalContributionAmount Money `json:"total_contribution_amount"`
	CompletedContributions  int   `json:"completed_contributions"`
	ActiveEvents            int   `json:"active_events"`
	TotalCases              int   `json:"total_cases"`
}

// RoleType is the perspective a contact takes on a case.
type RoleType string

const (
	RoleClient          RoleType = "client"
	RoleCaseCoordinator RoleType = "case_coordinator"
	RoleCaseManager     RoleType = "case_manager"
)

// Valid reports whether r is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleClient, RoleCaseCoordinator, RoleCaseManager:
		return true
	}
	return false
}

// Label constants CiviCRM uses in its default option groups.
const (
	ContributionStatusCompleted = "Completed"
	UnknownLabel                = "Unknown"
)
