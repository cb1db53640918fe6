package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/productstore/pkg/app"
	"github.com/ghuser/productstore/services/product/application/handlers"
	appsvcs "github.com/ghuser/productstore/services/product/application/services"
)

// ProductRoutes registers product endpoints on the provided chi router.
func ProductRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a), activityReader(a))
}

// Mount registers product endpoints backed by already wired services.
func Mount(r chi.Router, svcs *appsvcs.Services, activity handlers.ActivityReader) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", handlers.NewPostProductHandler(svcs).Execute)
		r.Get("/", handlers.NewQueryProductsHandler(svcs).Execute)
		r.Get("/activity", handlers.NewGetActivityHandler(activity).Execute)
		r.Get("/{id}", handlers.NewGetProductHandler(svcs).Execute)
		r.Patch("/{id}", handlers.NewPatchProductHandler(svcs).Execute)
		r.Delete("/{id}", handlers.NewDeleteProductHandler(svcs).Execute)
	})
}

func activityReader(a *app.Application) handlers.ActivityReader {
	if a.Activity == nil {
		return nil
	}
	return a.Activity
}
