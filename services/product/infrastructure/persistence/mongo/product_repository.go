// Package mongo implements the product repository port on a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	productdomain "github.com/ghuser/productstore/services/product/domain"
	"github.com/ghuser/productstore/services/product/domain/models"
)

// DefaultCollection is the collection products live in unless configured otherwise.
const DefaultCollection = "products"

// ProductRepository implements repositories.ProductRepository against MongoDB.
// The collection handle is shared and safe for concurrent use; per-document
// atomicity is the only consistency guarantee.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository returns a ProductRepository backed by coll.
func NewProductRepository(coll *mongo.Collection) *ProductRepository {
	return &ProductRepository{coll: coll}
}

func byID(id uuid.UUID) bson.M {
	return bson.M{models.FieldID: id.String()}
}

// Insert stores p. Returns ErrProductAlreadyExists on a unique index violation.
func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(p)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return productdomain.ErrProductAlreadyExists
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// FindByID returns ErrProductNotFound when no document has the given id.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var doc productDocument
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, productdomain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return doc.toModel()
}

// Find returns all products inside the price range in the collection's natural order.
func (r *ProductRepository) Find(ctx context.Context, pr models.PriceRange) ([]*models.Product, error) {
	cursor, err := r.coll.Find(ctx, priceFilter(pr))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx) //nolint:errcheck

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]*models.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// priceFilter translates a PriceRange into exclusive $gt/$lt bounds.
func priceFilter(pr models.PriceRange) bson.M {
	if pr.IsZero() {
		return bson.M{}
	}
	bounds := bson.M{}
	if pr.Min != nil {
		bounds["$gt"] = *pr.Min
	}
	if pr.Max != nil {
		bounds["$lt"] = *pr.Max
	}
	return bson.M{models.FieldPrice: bounds}
}

// FindOneAndUpdate applies $set with the patch's set fields and returns the
// document as it is after the update. Upsert is disabled.
func (r *ProductRepository) FindOneAndUpdate(ctx context.Context, id uuid.UUID, patch models.ProductPatch) (*models.Product, error) {
	fields := patch.Fields()
	if len(fields) == 0 {
		// MongoDB rejects an empty $set.
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(false)

	var doc productDocument
	err := r.coll.FindOneAndUpdate(ctx, byID(id), bson.M{"$set": bson.M(fields)}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, productdomain.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return doc.toModel()
}

// DeleteOne removes the product with id and returns the number of deleted documents.
func (r *ProductRepository) DeleteOne(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return res.DeletedCount, nil
}
