package binding

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name" validate:"required"`
}

type payload struct {
	Title string `json:"title" validate:"required,max=5"`
	Items []item `json:"items" validate:"required,min=1,dive"`
}

func TestBindValidPayload(t *testing.T) {
	b := New(0)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok","items":[{"name":"a"}]}`))

	var p payload
	require.NoError(t, b.Bind(httptest.NewRecorder(), req, &p))
	assert.Equal(t, "ok", p.Title)
}

func TestBindReportsJSONFieldNames(t *testing.T) {
	b := New(0)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok","items":[{"name":""}]}`))

	var p payload
	err := b.Bind(httptest.NewRecorder(), req, &p)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "items[0].name", vErr.Field)
}

func TestBindOrRespondWritesErrors(t *testing.T) {
	b := New(16)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"way too long for the cap"}`))
	var p payload
	assert.False(t, b.BindOrRespond(rec, req, &p))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "invalid_request", body["error"])

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[]}`))
	assert.False(t, New(0).BindOrRespond(rec, req, &p))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "validation_failed", body["error"])
	assert.Equal(t, "title", body["field"])
}
