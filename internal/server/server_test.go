package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestHealth(t *testing.T) {
	s := New(Config{}, newTestDispatcher(t, &fakeCRM{}, "k"))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", gjson.Get(rr.Body.String(), "status").String())
}

func TestToolsAndCall(t *testing.T) {
	crm := &fakeCRM{body: `{"id":"1","name":"Ada"}`}
	s := New(Config{Token: "x"}, newTestDispatcher(t, crm, "k"))

	// Unauthorized
	req := httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// Authorized tools
	req = httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	req.Header.Set("Authorization", "Bearer x")
	rr = httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	tools := gjson.Get(rr.Body.String(), "tools")
	assert.Len(t, tools.Array(), len(Catalog()))
	assert.Equal(t, "id", gjson.Get(rr.Body.String(), `tools.#(name=="get_person").inputSchema.required.0`).String())

	// Call get_person
	body, _ := json.Marshal(map[string]interface{}{"name": "get_person", "arguments": map[string]interface{}{"id": "1"}})
	req = httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer x")
	rr = httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text", gjson.Get(rr.Body.String(), "content.0.type").String())
	assert.Equal(t, "{\n  \"id\": \"1\",\n  \"name\": \"Ada\"\n}", gjson.Get(rr.Body.String(), "content.0.text").String())
	assert.Equal(t, "/people/1", crm.last(t).Path)
}

func TestCallUnknownToolReturnsEnvelope(t *testing.T) {
	s := New(Config{}, newTestDispatcher(t, &fakeCRM{}, "k"))
	body := []byte(`{"name":"nope","arguments":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Error: Unknown tool: nope", gjson.Get(rr.Body.String(), "content.0.text").String())
}

func TestCallInvalidJSON(t *testing.T) {
	s := New(Config{}, newTestDispatcher(t, &fakeCRM{}, "k"))
	req := httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewReader([]byte("{")))
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
