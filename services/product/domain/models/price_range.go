package models

// PriceRange filters products by price with exclusive bounds.
//
//	Min and Max  min < price < max
//	Min only     price > min
//	Max only     price < max
//	neither      every product
//
// Min >= Max is not rejected; it simply matches nothing.
type PriceRange struct {
	Min *float64
	Max *float64
}

// Contains reports whether price lies strictly inside the range.
func (r PriceRange) Contains(price float64) bool {
	if r.Min != nil && price <= *r.Min {
		return false
	}
	if r.Max != nil && price >= *r.Max {
		return false
	}
	return true
}

// IsZero reports whether neither bound is set.
func (r PriceRange) IsZero() bool {
	return r.Min == nil && r.Max == nil
}
