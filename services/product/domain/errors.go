package domain

import "errors"

// Sentinel errors for the product domain. Use errors.Is() to check these.
var (
	// ErrProductNotFound indicates no product matches the requested id.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductAlreadyExists indicates the store rejected an insert on the unique id index.
	ErrProductAlreadyExists = errors.New("duplicate entry detected")

	// ErrProductCreateFailed indicates the store failed an insert for any reason other than a duplicate.
	// The underlying cause is double-wrapped alongside it.
	ErrProductCreateFailed = errors.New("failed to create product")

	// ErrInvalidProduct indicates product attributes violate domain constraints.
	ErrInvalidProduct = errors.New("invalid product")
)
