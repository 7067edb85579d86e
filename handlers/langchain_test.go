// ABOUTME: Tests for the langchaingo tool adapter
// ABOUTME: Call returns the JSON envelope; Description embeds the argument schema
package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLangChainTools(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]string{
		"Contact": `[{"id":1,"display_name":"Jane Smith"}]`,
	})

	adapters := LangChainTools(reg)
	require.Len(t, adapters, len(allTools))

	var search interface {
		Call(context.Context, string) (string, error)
		Description() string
	}
	for _, a := range adapters {
		if a.Name() == "search_contacts" {
			search = a
		}
	}
	require.NotNil(t, search)

	desc := search.Description()
	assert.Contains(t, desc, "Search for contacts by name in CiviCRM. Input is a JSON object")
	assert.Contains(t, desc, `"query"`)

	out, err := search.Call(context.Background(), `{"query":"Jane"}`)
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, true, env["success"])
	assert.EqualValues(t, 1, env["count"])

	out, err = search.Call(context.Background(), `{}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"invalid arguments: query is required"}`, out)
}
