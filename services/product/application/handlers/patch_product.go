package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/productstore/pkg/errhttp"
	"github.com/ghuser/productstore/pkg/httpx"
	pkgvalidator "github.com/ghuser/productstore/pkg/validator"
	appsvcs "github.com/ghuser/productstore/services/product/application/services"
)

// PatchProductHandler handles PATCH /products/{id} requests.
type PatchProductHandler struct {
	svc *appsvcs.Services
}

// NewPatchProductHandler returns a PatchProductHandler backed by the given services.
func NewPatchProductHandler(svc *appsvcs.Services) *PatchProductHandler {
	return &PatchProductHandler{svc: svc}
}

// Execute partially updates a product. Only fields present in the body change;
// updated_at is always refreshed.
//
//	@Summary	Update product
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Product id (UUID)"
//	@Param		request	body		UpdateProductRequest	true	"Fields to change"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/products/{id} [patch]
func (h *PatchProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, ok := pkgvalidator.ValidateRequest[UpdateProductRequest](w, r)
	if !ok {
		return
	}

	p, err := h.svc.Product.Update(r.Context(), id, req.patch(time.Now().UTC()))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(p))
}
