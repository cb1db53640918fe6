package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/productstore/pkg/httpx"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// notblank rejects strings that are empty after trimming whitespace.
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("validator: register notblank: %v", err))
	}
	return v
}

// Validate runs the `validate` struct tags on s.
func Validate(s any) error {
	return validate.Struct(s)
}

// ValidationErrorBody is the 422 response shape.
type ValidationErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// FormatValidationErrors maps each failing field's JSON name to a message.
// Errors that are not validator.ValidationErrors produce an empty map.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	p := fe.Param()
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "Must not be blank"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "min":
		return "Minimum length is " + p
	case "max":
		return "Maximum length is " + p
	case "gt":
		return "Must be greater than " + p
	case "gte":
		return "Must be greater than or equal to " + p
	case "lt":
		return "Must be less than " + p
	case "lte":
		return "Must be less than or equal to " + p
	default:
		return fmt.Sprintf("Validation failed on '%s'", fe.Tag())
	}
}

// ValidateRequest decodes a single JSON object from the body into T and
// validates it. On failure it writes the response and returns ok=false.
//
//	empty body            400 "Request body is required"
//	malformed JSON        400 "Invalid JSON"
//	trailing data         400 "Invalid JSON"
//	over the body limit   413 "Request body too large"
//	failed validation     422 ValidationErrorBody
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		writeDecodeError(w, err)
		return nil, false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeDecodeError(w, err)
		return nil, false
	}

	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, ValidationErrorBody{
			Error:  "Validation failed",
			Fields: FormatValidationErrors(err),
		})
		return nil, false
	}
	return &req, true
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, io.EOF):
		httpx.JSONError(w, http.StatusBadRequest, "Request body is required")
	default:
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
	}
}
