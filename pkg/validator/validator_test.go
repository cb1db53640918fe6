package validator_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgvalidator "github.com/ghuser/productstore/pkg/validator"
)

type productReq struct {
	Name     string  `json:"name"     validate:"required,notblank,max=10"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price"    validate:"required,gt=0"`
}

type patchReq struct {
	Name  *string  `json:"name,omitempty"  validate:"omitempty,notblank,max=10"`
	Price *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}

func TestFormatValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want map[string]string
	}{
		{
			name: "required fields",
			in:   &productReq{},
			want: map[string]string{"name": "This field is required", "price": "This field is required"},
		},
		{
			name: "blank name",
			in:   &productReq{Name: "   ", Price: 1},
			want: map[string]string{"name": "Must not be blank"},
		},
		{
			name: "max counts runes",
			in:   &productReq{Name: "ééééééééééé", Price: 1},
			want: map[string]string{"name": "Maximum length is 10"},
		},
		{
			name: "negative quantity",
			in:   &productReq{Name: "Pen", Quantity: -1, Price: 1},
			want: map[string]string{"quantity": "Must be greater than or equal to 0"},
		},
		{
			name: "non-positive price",
			in:   &productReq{Name: "Pen", Price: -2},
			want: map[string]string{"price": "Must be greater than 0"},
		},
		{
			name: "patch pointer to zero price",
			in:   &patchReq{Price: ptr(0.0)},
			want: map[string]string{"price": "Must be greater than 0"},
		},
		{
			name: "patch pointer to blank name",
			in:   &patchReq{Name: ptr("")},
			want: map[string]string{"name": "Must not be blank"},
		},
		{
			name: "empty patch",
			in:   &patchReq{},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgvalidator.Validate(tt.in)
			assert.Equal(t, tt.want, pkgvalidator.FormatValidationErrors(err))
		})
	}
}

func TestFormatValidationErrors_OtherError(t *testing.T) {
	assert.Empty(t, pkgvalidator.FormatValidationErrors(errors.New("boom")))
	assert.Empty(t, pkgvalidator.FormatValidationErrors(nil))
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		limit    int64
		wantCode int
		wantErr  string
	}{
		{name: "empty body", body: "", wantCode: http.StatusBadRequest, wantErr: "Request body is required"},
		{name: "malformed", body: `{"name":`, wantCode: http.StatusBadRequest, wantErr: "Invalid JSON"},
		{name: "wrong type", body: `{"name":"Pen","price":"cheap"}`, wantCode: http.StatusBadRequest, wantErr: "Invalid JSON"},
		{name: "trailing object", body: `{"name":"Pen","price":1}{}`, wantCode: http.StatusBadRequest, wantErr: "Invalid JSON"},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", 64) + `","price":1}`, limit: 16, wantCode: http.StatusRequestEntityTooLarge, wantErr: "Request body too large"},
		{name: "missing price", body: `{"name":"Pen"}`, wantCode: http.StatusUnprocessableEntity, wantErr: "Validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(tt.body))
			if tt.limit > 0 {
				req.Body = http.MaxBytesReader(rr, req.Body, tt.limit)
			}

			got, ok := pkgvalidator.ValidateRequest[productReq](rr, req)
			require.False(t, ok)
			assert.Nil(t, got)
			assert.Equal(t, tt.wantCode, rr.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantErr, body["error"])
		})
	}
}

func TestValidateRequest_Valid(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"Laptop","quantity":10,"price":2500} `))

	got, ok := pkgvalidator.ValidateRequest[productReq](rr, req)
	require.True(t, ok, rr.Body.String())
	assert.Equal(t, productReq{Name: "Laptop", Quantity: 10, Price: 2500}, *got)
}

func TestValidateRequest_FieldsInBody(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/products/1", strings.NewReader(`{"price":0}`))

	_, ok := pkgvalidator.ValidateRequest[patchReq](rr, req)
	require.False(t, ok)

	var body pkgvalidator.ValidationErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"price": "Must be greater than 0"}, body.Fields)
}

func ptr[T any](v T) *T { return &v }
