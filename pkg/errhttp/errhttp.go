// Package errhttp turns domain errors into JSON error responses.
package errhttp

import (
	"context"
	"errors"
	"net/http"

	"github.com/ghuser/productstore/pkg/httpx"
	productdomain "github.com/ghuser/productstore/services/product/domain"
)

type mapping struct {
	target error
	status int
}

// statusTable is matched in order with errors.Is, so wrapped sentinels work.
// Duplicate ids and other create failures share 400 on the wire; the usecase
// keeps them apart in its logs and metrics.
var statusTable = []mapping{
	{productdomain.ErrProductNotFound, http.StatusNotFound},
	{productdomain.ErrInvalidProduct, http.StatusUnprocessableEntity},
	{productdomain.ErrProductAlreadyExists, http.StatusBadRequest},
	{productdomain.ErrProductCreateFailed, http.StatusBadRequest},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

// WriteError writes {"error": err.Error()} with the status StatusFor picks.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, StatusFor(err), err.Error())
}

// StatusFor returns the status for the first sentinel err wraps, or 500.
func StatusFor(err error) int {
	for _, m := range statusTable {
		if errors.Is(err, m.target) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}
