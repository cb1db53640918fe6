package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/productstore/pkg/logger"
	"github.com/ghuser/productstore/pkg/telemetry"
	productdomain "github.com/ghuser/productstore/services/product/domain"
	domainevents "github.com/ghuser/productstore/services/product/domain/events"
	"github.com/ghuser/productstore/services/product/domain/models"
	"github.com/ghuser/productstore/services/product/domain/repositories"
	domainsvcs "github.com/ghuser/productstore/services/product/domain/services"
)

const instrumentationName = "github.com/ghuser/productstore/services/product"

// Operation names used as span suffixes and the "operation" metric attribute.
const (
	opCreate = "create"
	opGet    = "get"
	opQuery  = "query"
	opUpdate = "update"
	opDelete = "delete"
)

// Values of the "result" metric attribute.
const (
	resultSuccess    = "success"
	resultNotFound   = "not_found"
	resultDuplicate  = "duplicate"
	resultInvalid    = "invalid"
	resultStoreError = "store_error"
)

// EventPublisher is the slice of events.EventBus the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// ProductService orchestrates the product lifecycle on top of a repository.
// It keeps no entity state and performs exactly one store call per operation:
// no retries, transactions, caching or timeouts of its own.
// Lifecycle events are published best-effort after a successful write.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
	log    logger.Logger
	now    func() time.Time

	stampMu   sync.Mutex
	lastStamp time.Time

	tracer trace.Tracer
	ops    metric.Int64Counter
}

// Option customizes a ProductService.
type Option func(*ProductService)

// WithClock replaces time.Now as the source of created_at and updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *ProductService) { s.now = now }
}

// NewProductService returns a ProductService backed by repo. events may be nil,
// in which case nothing is published.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, log logger.Logger, opts ...Option) *ProductService {
	s := &ProductService{
		repo:   repo,
		events: events,
		log:    log,
		now:    time.Now,
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}

	ops, err := otel.Meter(instrumentationName).Int64Counter(
		"products.operations",
		metric.WithDescription("Product usecase calls by operation and result"),
	)
	if err != nil {
		log.Warn("failed to create products.operations counter", "error", err)
	}
	s.ops = ops
	return s
}

// Create persists a new product built from attrs and returns it as stored.
//
// Errors:
//   - ErrInvalidProduct        attrs break a domain rule
//   - ErrProductAlreadyExists  the store reported a duplicate id
//   - ErrProductCreateFailed   any other store failure, wrapping the cause
func (s *ProductService) Create(ctx context.Context, attrs models.ProductAttributes) (*models.Product, error) {
	ctx, span := s.start(ctx, opCreate)
	defer span.End()

	if err := domainsvcs.ValidateAttributes(attrs); err != nil {
		return nil, s.fail(ctx, span, opCreate, resultInvalid, fmt.Errorf("%w: %w", productdomain.ErrInvalidProduct, err))
	}

	p := models.NewProduct(attrs, s.stamp())
	span.SetAttributes(attribute.String("product.id", p.ID.String()))

	if err := s.repo.Insert(ctx, p); err != nil {
		if errors.Is(err, productdomain.ErrProductAlreadyExists) {
			return nil, s.fail(ctx, span, opCreate, resultDuplicate, err)
		}
		return nil, s.fail(ctx, span, opCreate, resultStoreError, fmt.Errorf("%w: %w", productdomain.ErrProductCreateFailed, err))
	}

	s.succeed(ctx, opCreate)
	s.log.InfoContext(ctx, "product created", "product_id", p.ID, "price", p.Price)
	s.publish(ctx, domainevents.TopicProductCreated, p.ID, p)
	return p, nil
}

// Get returns the product with id or ErrProductNotFound.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	ctx, span := s.start(ctx, opGet, attribute.String("product.id", id.String()))
	defer span.End()

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.failLookup(ctx, span, opGet, id, err)
	}

	s.succeed(ctx, opGet)
	return p, nil
}

// Query returns every product whose price lies strictly inside r.
// An empty result is a non-nil empty slice. Order follows the store and is
// not stable across calls.
func (s *ProductService) Query(ctx context.Context, r models.PriceRange) ([]*models.Product, error) {
	ctx, span := s.start(ctx, opQuery, rangeAttrs(r)...)
	defer span.End()

	products, err := s.repo.Find(ctx, r)
	if err != nil {
		return nil, s.fail(ctx, span, opQuery, resultStoreError, fmt.Errorf("query products: %w", err))
	}
	if products == nil {
		products = []*models.Product{}
	}

	span.SetAttributes(attribute.Int("products.count", len(products)))
	s.succeed(ctx, opQuery)
	s.log.DebugContext(ctx, "products queried", "count", len(products))
	return products, nil
}

// Update applies patch to the product with id and returns the post-update state.
// updated_at is always restamped here, whatever the caller put in the patch.
// A missing id yields ErrProductNotFound; nothing is ever upserted.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, patch models.ProductPatch) (*models.Product, error) {
	ctx, span := s.start(ctx, opUpdate, attribute.String("product.id", id.String()))
	defer span.End()

	if err := domainsvcs.ValidatePatch(patch); err != nil {
		return nil, s.fail(ctx, span, opUpdate, resultInvalid, fmt.Errorf("%w: %w", productdomain.ErrInvalidProduct, err))
	}

	now := s.stamp()
	patch.UpdatedAt = &now

	p, err := s.repo.FindOneAndUpdate(ctx, id, patch)
	if err != nil {
		return nil, s.failLookup(ctx, span, opUpdate, id, err)
	}

	s.succeed(ctx, opUpdate)
	s.log.InfoContext(ctx, "product updated", "product_id", id, "empty_patch", patch.IsEmpty())
	s.publish(ctx, domainevents.TopicProductUpdated, id, p)
	return p, nil
}

// Delete physically removes the product with id. Zero deleted documents
// yields ErrProductNotFound.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.start(ctx, opDelete, attribute.String("product.id", id.String()))
	defer span.End()

	n, err := s.repo.DeleteOne(ctx, id)
	if err != nil {
		return s.fail(ctx, span, opDelete, resultStoreError, fmt.Errorf("delete product: %w", err))
	}
	if n == 0 {
		return s.fail(ctx, span, opDelete, resultNotFound, fmt.Errorf("delete product %s: %w", id, productdomain.ErrProductNotFound))
	}

	s.succeed(ctx, opDelete)
	s.log.InfoContext(ctx, "product deleted", "product_id", id)
	s.publish(ctx, domainevents.TopicProductDeleted, id, nil)
	return nil
}

// stamp reads the clock at models.TimestampPrecision. Stamps issued by one
// service strictly increase, so an update landing in the same millisecond as
// the previous write still advances updated_at.
func (s *ProductService) stamp() time.Time {
	t := models.Stamp(s.now())

	s.stampMu.Lock()
	defer s.stampMu.Unlock()
	if !t.After(s.lastStamp) {
		t = s.lastStamp.Add(models.TimestampPrecision)
	}
	s.lastStamp = t
	return t
}

func (s *ProductService) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "ProductService."+op, trace.WithAttributes(attrs...))
}

func (s *ProductService) failLookup(ctx context.Context, span trace.Span, op string, id uuid.UUID, err error) error {
	if errors.Is(err, productdomain.ErrProductNotFound) {
		return s.fail(ctx, span, op, resultNotFound, fmt.Errorf("%s product %s: %w", op, id, err))
	}
	return s.fail(ctx, span, op, resultStoreError, fmt.Errorf("%s product: %w", op, err))
}

// fail records err on the span and counter, logs it at a level matching the
// result, and returns err unchanged.
func (s *ProductService) fail(ctx context.Context, span trace.Span, op, result string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, result)
	s.record(ctx, op, result)

	level := slog.LevelWarn
	switch result {
	case resultNotFound:
		level = slog.LevelDebug
	case resultStoreError:
		level = slog.LevelError
		telemetry.CaptureError(ctx, err, map[string]string{"operation": op})
	}
	s.log.Log(ctx, level, "product "+op+" failed", "result", result, "error", err)
	return err
}

func (s *ProductService) succeed(ctx context.Context, op string) {
	s.record(ctx, op, resultSuccess)
}

func (s *ProductService) record(ctx context.Context, op, result string) {
	if s.ops == nil {
		return
	}
	s.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("result", result),
	))
}

// publish emits a lifecycle event. Failures are logged and never surface to the caller.
func (s *ProductService) publish(ctx context.Context, topic string, id uuid.UUID, p *models.Product) {
	if s.events == nil {
		return
	}

	evt := domainevents.NewProductEvent(topic, id)
	if p != nil {
		evt.Name = p.Name
		evt.Price = p.Price
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		s.log.WarnContext(ctx, "failed to encode product event", "topic", topic, "error", err)
		return
	}

	msg := message.NewMessage(evt.EventID.String(), payload)
	msg.Metadata.Set("kind", topic)
	if err := s.events.Publish(ctx, topic, msg); err != nil {
		s.log.WarnContext(ctx, "failed to publish product event", "topic", topic, "product_id", id, "error", err)
	}
}

func rangeAttrs(r models.PriceRange) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if r.Min != nil {
		attrs = append(attrs, attribute.Float64("price.min", *r.Min))
	}
	if r.Max != nil {
		attrs = append(attrs, attribute.Float64("price.max", *r.Max))
	}
	return attrs
}
