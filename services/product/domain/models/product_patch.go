package models

import "time"

// ProductPatch is a partial update. Nil fields are left untouched by the store.
type ProductPatch struct {
	Name      *string
	Quantity  *int
	Price     *float64
	Status    *bool
	UpdatedAt *time.Time
}

// Fields returns only the set fields keyed by document field name.
func (p ProductPatch) Fields() map[string]any {
	fields := make(map[string]any, 5)
	if p.Name != nil {
		fields[FieldName] = *p.Name
	}
	if p.Quantity != nil {
		fields[FieldQuantity] = *p.Quantity
	}
	if p.Price != nil {
		fields[FieldPrice] = *p.Price
	}
	if p.Status != nil {
		fields[FieldStatus] = *p.Status
	}
	if p.UpdatedAt != nil {
		fields[FieldUpdatedAt] = *p.UpdatedAt
	}
	return fields
}

// IsEmpty reports whether no business field is set. UpdatedAt is ignored.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Quantity == nil && p.Price == nil && p.Status == nil
}

// Apply merges the set fields into prod.
func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Quantity != nil {
		prod.Quantity = *p.Quantity
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Status != nil {
		prod.Status = *p.Status
	}
	if p.UpdatedAt != nil {
		prod.UpdatedAt = *p.UpdatedAt
	}
}
