package handlers

import (
	"net/http"

	"github.com/ghuser/productstore/pkg/errhttp"
	"github.com/ghuser/productstore/pkg/httpx"
	pkgvalidator "github.com/ghuser/productstore/pkg/validator"
	appsvcs "github.com/ghuser/productstore/services/product/application/services"
)

// PostProductHandler handles POST /products requests.
type PostProductHandler struct {
	svc *appsvcs.Services
}

// NewPostProductHandler returns a PostProductHandler backed by the given services.
func NewPostProductHandler(svc *appsvcs.Services) *PostProductHandler {
	return &PostProductHandler{svc: svc}
}

// Execute creates a new product.
//
//	@Summary		Create product
//	@Description	Creates a product and returns it with its assigned id and timestamps
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateProductRequest	true	"Product creation request"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/products [post]
func (h *PostProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateProductRequest](w, r)
	if !ok {
		return
	}

	p, err := h.svc.Product.Create(r.Context(), req.attributes())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(p))
}
