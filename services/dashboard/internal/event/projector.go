// Package event keeps the Redis catalog snapshot in step with product events.
package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/kafka"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/repository"
)

// Product topics. The event type of each message equals its topic.
var (
	TopicProductCreated = pkgkafka.Topic("product", "created")
	TopicProductUpdated = pkgkafka.Topic("product", "updated")
	TopicProductDeleted = pkgkafka.Topic("product", "deleted")
)

// ProductTopics lists every topic the projector consumes.
func ProductTopics() []string {
	return []string{TopicProductCreated, TopicProductUpdated, TopicProductDeleted}
}

// ProductDeletedData is the payload of a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// Projector applies product events to a catalog snapshot.
type Projector struct {
	catalog repository.CatalogWriter
	logger  *slog.Logger
}

// NewProjector creates a projector writing to catalog.
func NewProjector(catalog repository.CatalogWriter, logger *slog.Logger) *Projector {
	return &Projector{catalog: catalog, logger: logger}
}

// Handle dispatches on the event type. Unknown types are ignored.
func (p *Projector) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicProductCreated, TopicProductUpdated:
		return p.upsert(ctx, event)
	case TopicProductDeleted:
		return p.delete(ctx, event)
	default:
		p.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (p *Projector) upsert(ctx context.Context, event *pkgkafka.Event) error {
	var doc domain.CatalogDocument
	if err := event.UnmarshalData(&doc); err != nil {
		return err
	}
	if doc.ID == "" {
		doc.ID = event.AggregateID
	}
	if doc.ID == "" {
		return fmt.Errorf("%s event %s: missing product id", event.EventType, event.EventID)
	}

	if err := p.catalog.Upsert(ctx, doc.ToProduct()); err != nil {
		return fmt.Errorf("project %s: %w", event.EventType, err)
	}

	p.logger.InfoContext(ctx, "product projected",
		slog.String("product_id", doc.ID),
		slog.String("event_type", event.EventType),
	)
	return nil
}

func (p *Projector) delete(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductDeletedData
	if len(event.Data) > 0 {
		if err := event.UnmarshalData(&data); err != nil {
			return err
		}
	}
	id := data.ID
	if id == "" {
		id = event.AggregateID
	}
	if id == "" {
		return fmt.Errorf("%s event %s: missing product id", event.EventType, event.EventID)
	}

	if err := p.catalog.Delete(ctx, id); err != nil {
		return fmt.Errorf("project %s: %w", event.EventType, err)
	}

	p.logger.InfoContext(ctx, "product removed from snapshot", slog.String("product_id", id))
	return nil
}
