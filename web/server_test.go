// ABOUTME: Tests for the HTTP binding
// ABOUTME: Exercises JWT auth, tool listing and tool calls through httptest
package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/harperreed/civibridge/civicrm"
	"github.com/harperreed/civibridge/handlers"
	"github.com/harperreed/civibridge/logger"
	"github.com/harperreed/civibridge/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type entityRunner map[string]string

func (r entityRunner) Run(_ context.Context, cmd civicrm.Command) (civicrm.Output, error) {
	if out, ok := r[cmd.Entity]; ok {
		return civicrm.Output{Stdout: out}, nil
	}
	return civicrm.Output{Stdout: "[]"}, nil
}

func newTestServer(t *testing.T, responses map[string]string) *Server {
	t.Helper()
	log := logger.New(io.Discard, "error", "text")
	client := civicrm.New(civicrm.Config{CVPath: "cv"}, entityRunner(responses))
	srv, err := NewServer(handlers.NewRegistry(client, log), testSecret, "", log)
	require.NoError(t, err)
	return srv
}

func signToken(t *testing.T, secret, email string) string {
	t.Helper()
	claims := session.Claims{
		Email: email,
		Type:  session.UserRegular,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func do(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewServerRequiresSecret(t *testing.T) {
	_, err := NewServer(nil, "", "", logger.New(io.Discard, "error", "text"))
	assert.Error(t, err)
}

func TestOpenRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/tools", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/tools", signToken(t, "wrong-secret", "a@example.org"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListTools(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/tools", signToken(t, testSecret, "a@example.org"), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tools []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tools))
	assert.Len(t, tools, 18)
	assert.Equal(t, "find_contact_by_email", tools[0]["name"])
	assert.NotNil(t, tools[0]["input_schema"])
}

func TestCallTool(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"Contact": `[{"id":1,"contact_type":"Individual","display_name":"Jane Smith"}]`,
	})
	token := signToken(t, testSecret, "a@example.org")

	rec := do(t, srv, http.MethodPost, "/api/tools/search_contacts", token, `{"query":"Jane"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, true, env["success"])
	assert.EqualValues(t, 1, env["count"])
	assert.Equal(t, "Jane", env["query"])

	rec = do(t, srv, http.MethodPost, "/api/tools/search_contacts", token, `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"invalid arguments: query is required"}`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/tools/delete_everything", token, `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallToolActsAsCaller(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"Contact": `[{"id":7,"display_name":"Casey Worker","email_primary.email":"worker@example.org"}]`,
	})

	rec := do(t, srv, http.MethodPost, "/api/tools/get_my_cases_as_coordinator",
		signToken(t, testSecret, "worker@example.org"), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, true, env["success"], env["error"])
	assert.Equal(t, "worker@example.org", env["user_email"])
	assert.EqualValues(t, 7, env["contact_id"])
}
