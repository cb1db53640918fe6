package handlers

import (
	"net/http"

	"github.com/ghuser/productstore/pkg/errhttp"
	"github.com/ghuser/productstore/pkg/httpx"
	appsvcs "github.com/ghuser/productstore/services/product/application/services"
)

// DeleteProductHandler handles DELETE /products/{id} requests.
type DeleteProductHandler struct {
	svc *appsvcs.Services
}

// NewDeleteProductHandler returns a DeleteProductHandler backed by the given services.
func NewDeleteProductHandler(svc *appsvcs.Services) *DeleteProductHandler {
	return &DeleteProductHandler{svc: svc}
}

// Execute deletes a product.
//
//	@Summary	Delete product
//	@Tags		products
//	@Param		id	path	string	true	"Product id (UUID)"
//	@Success	204
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (h *DeleteProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Product.Delete(r.Context(), id); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.NoContent(w)
}
