// ABOUTME: Tests for the tool registry and result envelopes
// ABOUTME: Covers defaults, validation, failures, panics and the session-aware coordinator tool
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/harperreed/civibridge/civicrm"
	"github.com/harperreed/civibridge/logger"
	"github.com/harperreed/civibridge/models"
	"github.com/harperreed/civibridge/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTools = []string{
	"find_contact_by_email",
	"get_case_activities",
	"get_case_by_id",
	"get_case_contacts",
	"get_cases",
	"get_cases_by_contact",
	"get_cases_by_role",
	"get_contact",
	"get_contacts",
	"get_contribution_stats",
	"get_contributions",
	"get_contributions_by_contact",
	"get_events",
	"get_my_cases_as_coordinator",
	"get_open_cases_by_coordinator",
	"get_overall_stats",
	"get_upcoming_events",
	"search_contacts",
}

func TestRegistryListsAllTools(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)

	var names []string
	for _, tool := range reg.List() {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
		require.NotNil(t, tool.InputSchema, tool.Name)
		assert.Equal(t, "object", tool.InputSchema.Type, tool.Name)
	}
	assert.Equal(t, allTools, names)
}

func TestSearchContactsEnvelope(t *testing.T) {
	reg, runner := newTestRegistry(t, map[string]string{
		"Contact": `[{"id":1,"contact_type":"Individual","display_name":"Jane Smith"}]`,
	})

	out := callJSON(t, context.Background(), reg, "search_contacts", `{"query":"Jane"}`)

	assert.Equal(t, true, out["success"])
	assert.EqualValues(t, 1, out["count"])
	assert.Equal(t, "Jane", out["query"])
	data := out["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Jane Smith", data[0].(map[string]any)["display_name"])

	call := runner.callsFor("Contact")[0]
	assert.Equal(t, []civicrm.Filter{civicrm.Like("display_name", "%Jane%")}, call.Query.Where)
	assert.Equal(t, 25, call.Query.Limit)
}

func TestDefaultsApplied(t *testing.T) {
	reg, runner := newTestRegistry(t, nil)
	ctx := context.Background()

	out := callJSON(t, ctx, reg, "get_contacts", `{}`)
	require.Equal(t, true, out["success"], out["error"])
	assert.EqualValues(t, 0, out["count"])
	assert.Equal(t, []any{}, out["data"])
	q := runner.callsFor("Contact")[0].Query
	assert.Equal(t, 25, q.Limit)
	assert.Equal(t, 0, q.Offset)

	callJSON(t, ctx, reg, "get_upcoming_events", ``)
	assert.Equal(t, 10, runner.callsFor("Event")[0].Query.Limit)

	callJSON(t, ctx, reg, "get_events", `{"limit":5,"offset":10}`)
	q = runner.callsFor("Event")[1].Query
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 10, q.Offset)
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		tool    string
		args    string
		message string
	}{
		{"search_contacts", `{}`, "query is required"},
		{"find_contact_by_email", `{"email":"not-an-email"}`, "email must be a valid email address"},
		{"get_cases_by_role", `{"contact_id":5,"role_type":"volunteer"}`, "role_type must be one of: client, case_coordinator, case_manager"},
		{"get_cases", `{"date_filter":"03/14/2025"}`, "date_filter must be a date in YYYY-MM-DD format"},
		{"get_cases", `{"status_filter":"open"}`, "status_filter must be numeric"},
		{"get_contacts", `{"limit":5000}`, "limit must be at most 1000"},
		{"get_contacts", `{"offset":-1}`, "offset must be at least 0"},
		{"get_contact", `{}`, "id must be greater than 0"},
		{"get_contact", `{"id":"abc"}`, "invalid arguments"},
		{"get_case_by_id", `not json`, "invalid arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.args, func(t *testing.T) {
			reg, runner := newTestRegistry(t, nil)
			out := callJSON(t, context.Background(), reg, tt.tool, tt.args)

			assert.Equal(t, false, out["success"])
			assert.Contains(t, out["error"], tt.message)
			assert.NotContains(t, out, "data")
			assert.Equal(t, 0, runner.callCount())
		})
	}
}

func TestStringIDsAccepted(t *testing.T) {
	reg, runner := newTestRegistry(t, map[string]string{
		"Contact": `[{"id":42,"display_name":"Jane Smith"}]`,
	})

	out := callJSON(t, context.Background(), reg, "get_contact", `{"id":"42"}`)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Jane Smith", out["data"].(map[string]any)["display_name"])
	assert.Contains(t, runner.callsFor("Contact")[0].Query.Where, civicrm.Eq("id", int64(42)))
}

func TestNotFoundIsNullData(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	ctx := context.Background()

	out := callJSON(t, ctx, reg, "get_contact", `{"id":9}`)
	assert.Equal(t, true, out["success"])
	assert.Contains(t, out, "data")
	assert.Nil(t, out["data"])
	assert.NotContains(t, out, "count")

	out = callJSON(t, ctx, reg, "find_contact_by_email", `{"email":"ghost@example.org"}`)
	assert.Equal(t, true, out["success"])
	assert.Nil(t, out["data"])
	assert.Equal(t, "ghost@example.org", out["query"])
}

func TestExtrasEchoArguments(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	ctx := context.Background()

	out := callJSON(t, ctx, reg, "get_contributions_by_contact", `{"contact_id":5}`)
	assert.EqualValues(t, 5, out["contact_id"])

	out = callJSON(t, ctx, reg, "get_cases_by_role", `{"contact_id":"5","role_type":"case_manager"}`)
	require.Equal(t, true, out["success"], out["error"])
	assert.EqualValues(t, 5, out["contact_id"])
	assert.Equal(t, "case_manager", out["role_type"])
	assert.EqualValues(t, 0, out["count"])
}

func TestProcessFailureEnvelope(t *testing.T) {
	reg, runner := newTestRegistry(t, nil)
	runner.err = &civicrm.ProcessError{ExitCode: 1, Stderr: "Unable to connect to database"}

	out := callJSON(t, context.Background(), reg, "get_overall_stats", `{}`)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "CiviCRM API4 call failed")
	assert.Contains(t, out["error"], "Unable to connect to database")
}

func TestUnknownTool(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	res := reg.Call(context.Background(), "drop_tables", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "unknown tool: drop_tables", res.Error)
}

type panickingCRM struct {
	civicrm.CRM
}

func (panickingCRM) GetContacts(context.Context, int, int) ([]models.Contact, error) {
	panic("nil map")
}

func TestPanicBecomesFailure(t *testing.T) {
	reg := NewRegistry(panickingCRM{}, logger.New(io.Discard, "error", "text"))

	res := reg.Call(context.Background(), "get_contacts", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "nil map")
}

func TestMyCasesAsCoordinator(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		reg, runner := newTestRegistry(t, nil)
		out := callJSON(t, context.Background(), reg, "get_my_cases_as_coordinator", `{}`)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "User not logged in or email not available in session", out["error"])
		assert.Equal(t, 0, runner.callCount())
	})

	t.Run("session without email", func(t *testing.T) {
		reg, _ := newTestRegistry(t, nil)
		ctx := session.WithIdentity(context.Background(), session.Identity{Type: session.UserGuest})
		out := callJSON(t, ctx, reg, "get_my_cases_as_coordinator", `{}`)
		assert.Equal(t, "User not logged in or email not available in session", out["error"])
	})

	t.Run("no matching contact", func(t *testing.T) {
		reg, _ := newTestRegistry(t, nil)
		ctx := session.WithIdentity(context.Background(), session.Static("stranger@example.org"))
		out := callJSON(t, ctx, reg, "get_my_cases_as_coordinator", `{}`)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "No CiviCRM contact found for email: stranger@example.org", out["error"])
	})

	t.Run("coordinator cases", func(t *testing.T) {
		reg, runner := newTestRegistry(t, map[string]string{
			"Contact":      `[{"id":7,"display_name":"Casey Worker","email_primary.email":"worker@example.org"}]`,
			"Relationship": `[{"id":1,"relationship_type_id":9,"contact_id_a":7,"contact_id_b":21,"case_id":11,"is_active":true,"contact_id_b.sort_name":"Doe, John"}]`,
			"Case":         `[{"id":11,"case_type_id":1,"subject":"Rent arrears","status_id":1}]`,
		})
		ctx := session.WithIdentity(context.Background(), session.Static("worker@example.org"))

		out := callJSON(t, ctx, reg, "get_my_cases_as_coordinator", `{}`)
		require.Equal(t, true, out["success"], out["error"])
		assert.Equal(t, "worker@example.org", out["user_email"])
		assert.EqualValues(t, 7, out["contact_id"])
		assert.Equal(t, "Casey Worker", out["contact_name"])
		assert.EqualValues(t, 1, out["count"])

		cs := out["data"].([]any)[0].(map[string]any)
		assert.Equal(t, "Doe, John", cs["client_name"])
		assert.EqualValues(t, 21, cs["client_id"])

		assert.Contains(t, runner.callsFor("Relationship")[0].Query.Where, civicrm.Eq("relationship_type_id", int64(9)))
	})
}

func TestResultEnvelopes(t *testing.T) {
	b, err := json.Marshal(Failure(errors.New("boom")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"boom"}`, string(b))

	base := Success(map[string]int{"a": 1})
	withExtra := base.With("query", "x")
	assert.Nil(t, base.Extra)

	b, err = json.Marshal(withExtra)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"a":1},"query":"x"}`, string(b))

	b, err = json.Marshal(List[int](nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[],"count":0}`, string(b))

	// extras never leak into failures
	b, err = json.Marshal(Failuref("nope").With("query", "x"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"nope"}`, string(b))
}

func TestStatsAmountsAreNumbers(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]string{
		"Contribution": `[{"id":1,"total_amount":100,"contribution_status_id":1},
		                  {"id":2,"total_amount":"50","contribution_status_id":2},
		                  {"id":3,"total_amount":"bad","contribution_status_id":1}]`,
		"OptionValue": `[{"value":"1","label":"Completed"},{"value":"2","label":"Pending"}]`,
	})
	ctx := context.Background()

	out := callJSON(t, ctx, reg, "get_contribution_stats", `{}`)
	require.Equal(t, true, out["success"], out["error"])
	data := out["data"].(map[string]any)
	assert.Equal(t, float64(150), data["total_amount"])
	assert.EqualValues(t, 3, data["total_contributions"])
	assert.EqualValues(t, 2, data["completed_contributions"])
	assert.EqualValues(t, 1, data["pending_contributions"])

	out = callJSON(t, ctx, reg, "get_overall_stats", `{}`)
	require.Equal(t, true, out["success"], out["error"])
	assert.Equal(t, float64(150), out["data"].(map[string]any)["total_contribution_amount"])
}
