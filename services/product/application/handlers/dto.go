package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/productstore/services/product/domain/models"
)

// CreateProductRequest is the request body for POST /products.
type CreateProductRequest struct {
	Name     string  `json:"name"     validate:"required,notblank,max=255" example:"Laptop"`
	Quantity int     `json:"quantity" validate:"gte=0"                     example:"10"`
	Price    float64 `json:"price"    validate:"required,gt=0"             example:"2500"`
	Status   bool    `json:"status"                                        example:"true"`
} // @name CreateProductRequest

func (r CreateProductRequest) attributes() models.ProductAttributes {
	return models.ProductAttributes{
		Name:     r.Name,
		Quantity: r.Quantity,
		Price:    r.Price,
		Status:   r.Status,
	}
}

// UpdateProductRequest is the request body for PATCH /products/{id}.
// Omitted fields are left unchanged.
type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty"     validate:"omitempty,notblank,max=255" example:"Notebook"`
	Quantity *int     `json:"quantity,omitempty" validate:"omitempty,gte=0"                example:"5"`
	Price    *float64 `json:"price,omitempty"    validate:"omitempty,gt=0"                 example:"3000"`
	Status   *bool    `json:"status,omitempty"                                             example:"false"`
} // @name UpdateProductRequest

func (r UpdateProductRequest) patch(now time.Time) models.ProductPatch {
	return models.ProductPatch{
		Name:      r.Name,
		Quantity:  r.Quantity,
		Price:     r.Price,
		Status:    r.Status,
		UpdatedAt: &now,
	}
}

// ProductResponse is the transport view of a product.
type ProductResponse struct {
	ID        uuid.UUID `json:"id"         example:"123e4567-e89b-12d3-a456-426614174000"`
	Name      string    `json:"name"       example:"Laptop"`
	Quantity  int       `json:"quantity"   example:"10"`
	Price     float64   `json:"price"      example:"2500"`
	Status    bool      `json:"status"     example:"true"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
} // @name ProductResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"product not found"`
} // @name ErrorResponse

func toResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toResponses(products []*models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}
	return out
}
