package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/productstore/services/product/domain/models"
)

var errInvalidID = errors.New("invalid product id")

func productID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}

// priceRange reads the optional min_price and max_price query parameters.
func priceRange(r *http.Request) (models.PriceRange, error) {
	var pr models.PriceRange
	var err error
	if pr.Min, err = priceParam(r, "min_price"); err != nil {
		return pr, err
	}
	if pr.Max, err = priceParam(r, "max_price"); err != nil {
		return pr, err
	}
	return pr, nil
}

func priceParam(r *http.Request, key string) (*float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &v, nil
}
