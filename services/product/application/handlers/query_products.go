package handlers

import (
	"net/http"

	"github.com/ghuser/productstore/pkg/errhttp"
	"github.com/ghuser/productstore/pkg/httpx"
	appsvcs "github.com/ghuser/productstore/services/product/application/services"
)

// QueryProductsHandler handles GET /products requests.
type QueryProductsHandler struct {
	svc *appsvcs.Services
}

// NewQueryProductsHandler returns a QueryProductsHandler backed by the given services.
func NewQueryProductsHandler(svc *appsvcs.Services) *QueryProductsHandler {
	return &QueryProductsHandler{svc: svc}
}

// Execute lists products, optionally filtered by an exclusive price range.
//
//	@Summary		List products
//	@Description	Both bounds are exclusive. Result order is not guaranteed.
//	@Tags			products
//	@Produce		json
//	@Param			min_price	query		number	false	"Only products priced above this value"
//	@Param			max_price	query		number	false	"Only products priced below this value"
//	@Success		200			{array}		ProductResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/products [get]
func (h *QueryProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	pr, err := priceRange(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.svc.Product.Query(r.Context(), pr)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponses(products))
}
