// ABOUTME: MCP resources exposing read-only CiviCRM records by URI
// ABOUTME: civicrm://stats, civicrm://contacts/{id} and civicrm://cases/{id}
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/civibridge/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cast"
)

const resourceScheme = "civicrm://"

// caseDetail is a case together with its participants and history.
type caseDetail struct {
	models.Case
	Contacts   []models.CaseContact `json:"contacts"`
	Activities []models.Activity    `json:"activities"`
}

// RegisterMCPResources adds the static stats resource and the contact and
// case templates to server.
func RegisterMCPResources(server *mcp.Server, reg *Registry) {
	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "stats",
		Name:        "stats",
		Description: "Overall CiviCRM statistics",
		MIMEType:    "application/json",
	}, reg.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "contacts/{id}",
		Name:        "contact",
		Description: "A single CiviCRM contact",
		MIMEType:    "application/json",
	}, reg.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "cases/{id}",
		Name:        "case",
		Description: "A case with its contacts and recent activities",
		MIMEType:    "application/json",
	}, reg.ReadResource)
}

// ReadResource resolves a civicrm:// URI.
func (r *Registry) ReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}
	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")

	var (
		data any
		err  error
	)
	switch {
	case len(parts) == 1 && parts[0] == "stats":
		data, err = r.crm.GetOverallStats(ctx)
	case len(parts) == 2 && parts[0] == "contacts":
		data, err = r.readContact(ctx, uri, parts[1])
	case len(parts) == 2 && parts[0] == "cases":
		data, err = r.readCase(ctx, uri, parts[1])
	default:
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, err
	}

	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(text),
		},
	}}, nil
}

func (r *Registry) readContact(ctx context.Context, uri, raw string) (any, error) {
	id, err := parseResourceID(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid contact ID: %w", err)
	}
	contact, err := r.crm.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return contact, nil
}

func (r *Registry) readCase(ctx context.Context, uri, raw string) (any, error) {
	id, err := parseResourceID(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid case ID: %w", err)
	}
	cs, err := r.crm.GetCaseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	contacts, err := r.crm.GetCaseContacts(ctx, id)
	if err != nil {
		return nil, err
	}
	activities, err := r.crm.GetCaseActivities(ctx, id, defaultLimit)
	if err != nil {
		return nil, err
	}
	return caseDetail{Case: *cs, Contacts: contacts, Activities: activities}, nil
}

func parseResourceID(raw string) (int64, error) {
	id, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}
