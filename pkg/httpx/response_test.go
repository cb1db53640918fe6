package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ghuser/productstore/pkg/httpx"
)

func TestJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.JSON(rr, http.StatusCreated, map[string]any{"id": "abc", "price": 3.5})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.JSONEq(t, `{"id":"abc","price":3.5}`, rr.Body.String())
}

func TestJSON_EmptySliceIsArray(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.JSON(rr, http.StatusOK, []string{})

	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestJSONError(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.JSONError(rr, http.StatusNotFound, "product not found")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"product not found"}`, rr.Body.String())
}

func TestNoContent(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.NoContent(rr)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, rr.Body.Len())
}
