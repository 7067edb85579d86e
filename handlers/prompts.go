// ABOUTME: MCP prompt templates for common case-work questions
// ABOUTME: Each prompt gathers CRM context and asks the model for a structured review
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
)

// RegisterMCPPrompts adds the case-work prompts to server.
func RegisterMCPPrompts(server *mcp.Server, reg *Registry) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "contact-summary",
		Description: "Summarize a contact with their giving history and cases",
		Arguments: []*mcp.PromptArgument{
			{Name: "contact_id", Description: "CiviCRM contact ID", Required: true},
		},
	}, reg.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "case-summary",
		Description: "Summarize a case, the people involved and its recent activity",
		Arguments: []*mcp.PromptArgument{
			{Name: "case_id", Description: "CiviCRM case ID", Required: true},
		},
	}, reg.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "caseload-review",
		Description: "Review the open caseload of a case coordinator",
		Arguments: []*mcp.PromptArgument{
			{Name: "coordinator_id", Description: "Contact ID of the case coordinator", Required: true},
		},
	}, reg.GetPrompt)
}

// GetPrompt renders the named prompt.
func (r *Registry) GetPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := req.Params.Arguments
	switch req.Params.Name {
	case "contact-summary":
		return r.contactSummaryPrompt(ctx, args)
	case "case-summary":
		return r.caseSummaryPrompt(ctx, args)
	case "caseload-review":
		return r.caseloadReviewPrompt(ctx, args)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", req.Params.Name)
	}
}

func promptID(args map[string]string, name string) (int64, error) {
	raw, ok := args[name]
	if !ok || raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	id, err := parseResourceID(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}

func (r *Registry) contactSummaryPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	id, err := promptID(args, "contact_id")
	if err != nil {
		return nil, err
	}
	contact, err := r.crm.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, fmt.Errorf("contact %d not found", id)
	}
	contributions, err := r.crm.GetContributionsByContact(ctx, id)
	if err != nil {
		return nil, err
	}
	cases, err := r.crm.GetCasesByContact(ctx, id)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Please provide a summary of this CiviCRM contact:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", contact.DisplayName)
	if contact.ContactType != "" {
		fmt.Fprintf(&b, "Type: %s\n", contact.ContactType)
	}
	if contact.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", contact.Email)
	}
	if contact.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", contact.Phone)
	}

	total := decimal.Zero
	for _, c := range contributions {
		total = total.Add(c.TotalAmount.OrZero())
	}
	fmt.Fprintf(&b, "\nContributions: %d totalling %s\n", len(contributions), total.StringFixed(2))
	for _, c := range contributions {
		fmt.Fprintf(&b, "- %s %s (%s, %s)\n", c.TotalAmount.OrZero().StringFixed(2), c.Currency, c.ContributionStatus, c.ReceiveDate)
	}

	fmt.Fprintf(&b, "\nCases as client: %d\n", len(cases))
	for _, cs := range cases {
		fmt.Fprintf(&b, "- #%d %s [%s, %s]\n", cs.ID, cs.Subject, cs.CaseType, cs.Status)
	}

	b.WriteString("\nPlease provide:")
	b.WriteString("\n1. A short profile of this contact")
	b.WriteString("\n2. Their engagement through giving and casework")
	b.WriteString("\n3. Suggested next steps")

	return userPrompt(fmt.Sprintf("Summary for contact: %s", contact.DisplayName), b.String()), nil
}

func (r *Registry) caseSummaryPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	id, err := promptID(args, "case_id")
	if err != nil {
		return nil, err
	}
	cs, err := r.crm.GetCaseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, fmt.Errorf("case %d not found", id)
	}
	contacts, err := r.crm.GetCaseContacts(ctx, id)
	if err != nil {
		return nil, err
	}
	activities, err := r.crm.GetCaseActivities(ctx, id, defaultLimit)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Please summarize this case:\n\n")
	fmt.Fprintf(&b, "Subject: %s\n", cs.Subject)
	fmt.Fprintf(&b, "Type: %s\n", cs.CaseType)
	fmt.Fprintf(&b, "Status: %s\n", cs.Status)
	if cs.StartDate != "" {
		fmt.Fprintf(&b, "Started: %s\n", cs.StartDate)
	}
	if cs.IsDeleted {
		b.WriteString("Note: this case is in the trash\n")
	}

	if len(contacts) > 0 {
		b.WriteString("\nPeople involved:\n")
		for _, c := range contacts {
			fmt.Fprintf(&b, "- %s (%s)\n", c.ContactName, c.RelationshipType)
		}
	}

	if len(activities) > 0 {
		b.WriteString("\nRecent activities:\n")
		for _, a := range activities {
			fmt.Fprintf(&b, "- %s %s: %s [%s]\n", a.ActivityDateTime, a.ActivityType, a.Subject, a.Status)
		}
	}

	b.WriteString("\nPlease provide:")
	b.WriteString("\n1. The current state of the case")
	b.WriteString("\n2. Outstanding actions or risks")
	b.WriteString("\n3. A recommended next step for the case worker")

	return userPrompt(fmt.Sprintf("Summary for case: %s", cs.Subject), b.String()), nil
}

func (r *Registry) caseloadReviewPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	id, err := promptID(args, "coordinator_id")
	if err != nil {
		return nil, err
	}
	cases, err := r.crm.GetOpenCasesByCoordinator(ctx, id)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please review the open caseload of coordinator %d.\n\n", id)
	if len(cases) == 0 {
		b.WriteString("There are no open cases.\n")
	}
	for _, cs := range cases {
		client := cs.ClientName
		if client == "" {
			client = "unknown client"
		}
		fmt.Fprintf(&b, "- #%d %s for %s (%s, started %s)\n", cs.ID, cs.Subject, client, cs.CaseType, cs.StartDate)
	}

	b.WriteString("\nPlease identify which cases need attention first and why.")

	return userPrompt(fmt.Sprintf("Open caseload for coordinator %d", id), b.String()), nil
}
