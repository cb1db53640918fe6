package services

import (
	"github.com/ghuser/productstore/pkg/app"
	"github.com/ghuser/productstore/services/product/domain/repositories"
	"github.com/ghuser/productstore/services/product/infrastructure/persistence/memory"
	mongorepo "github.com/ghuser/productstore/services/product/infrastructure/persistence/mongo"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Product *ProductService
}

// New wires all product application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	var events EventPublisher
	if a.EventBus != nil {
		events = a.EventBus
	}
	return &Services{
		Product: NewProductService(NewRepository(a), events, a.Logger),
	}
}

// NewRepository picks the persistence adapter named by the store backend setting.
func NewRepository(a *app.Application) repositories.ProductRepository {
	if a.UsesMemoryStore() || a.Db == nil {
		return memory.NewProductRepository()
	}
	collection := mongorepo.DefaultCollection
	if a.Config != nil && a.Config.MongoCollection != "" {
		collection = a.Config.MongoCollection
	}
	return mongorepo.NewProductRepository(a.Db.Collection(collection))
}
