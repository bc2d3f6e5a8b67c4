// Package event publishes catalog domain events to Kafka. Publish failures
// are surfaced to callers as errors but are never allowed to fail the
// originating catalog operation.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopfront/catalog/internal/domain"
	pkgkafka "github.com/shopfront/catalog/pkg/kafka"
)

// Kafka topics for product domain events.
var (
	TopicProductCreated = pkgkafka.Topic("product", "created")
	TopicProductUpdated = pkgkafka.Topic("product", "updated")
	TopicProductDeleted = pkgkafka.Topic("product", "deleted")
	TopicCatalogSeeded  = pkgkafka.Topic("catalog", "seeded")
)

// Aggregate type constant.
const AggregateTypeProduct = "product"

// Source identifier for events originating from this service.
const SourceCatalogService = "catalog-service"

// ProductData is the payload for product.created and product.updated events.
type ProductData struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"rating"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// CatalogSeededData is the payload for a catalog.seeded event.
type CatalogSeededData struct {
	Deleted  int `json:"deleted"`
	Inserted int `json:"inserted"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func productData(product *domain.Product) ProductData {
	return ProductData{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Image:       product.Image,
		Stock:       product.Stock,
		Rating:      product.Rating,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	event, err := pkgkafka.NewEvent(TopicProductCreated, product.ID, AggregateTypeProduct, SourceCatalogService, productData(product))
	if err != nil {
		return fmt.Errorf("create product.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductCreated, event); err != nil {
		return fmt.Errorf("publish product.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.created event",
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	event, err := pkgkafka.NewEvent(TopicProductUpdated, product.ID, AggregateTypeProduct, SourceCatalogService, productData(product))
	if err != nil {
		return fmt.Errorf("create product.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductUpdated, event); err != nil {
		return fmt.Errorf("publish product.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.updated event",
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	event, err := pkgkafka.NewEvent(TopicProductDeleted, id, AggregateTypeProduct, SourceCatalogService, ProductDeletedData{ID: id})
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.String("product_id", id),
	)

	return nil
}

// PublishCatalogSeeded publishes a catalog.seeded event after a bulk re-seed.
func (p *Producer) PublishCatalogSeeded(ctx context.Context, deleted, inserted int) error {
	event, err := pkgkafka.NewEvent(TopicCatalogSeeded, "catalog", "catalog", SourceCatalogService, CatalogSeededData{
		Deleted:  deleted,
		Inserted: inserted,
	})
	if err != nil {
		return fmt.Errorf("create catalog.seeded event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCatalogSeeded, event); err != nil {
		return fmt.Errorf("publish catalog.seeded event: %w", err)
	}

	p.logger.DebugContext(ctx, "published catalog.seeded event",
		slog.Int("deleted", deleted),
		slog.Int("inserted", inserted),
	)

	return nil
}
