package event

import (
	"context"
	"fmt"

	pkgkafka "github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/kafka"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
)

const (
	aggregateTypeProduct = "product"
	sourceSeed           = "dashboard-seed"
)

type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes product events, used by the seed command to fill the
// snapshot through the same path the projector consumes.
type Producer struct {
	publisher publisher
}

// NewProducer wraps a Kafka publisher.
func NewProducer(p publisher) *Producer {
	return &Producer{publisher: p}
}

// PublishProductCreated announces doc on the product.created topic.
func (p *Producer) PublishProductCreated(ctx context.Context, doc domain.CatalogDocument) error {
	event, err := pkgkafka.NewEvent(TopicProductCreated, doc.ID, aggregateTypeProduct, sourceSeed, doc)
	if err != nil {
		return fmt.Errorf("create product.created event: %w", err)
	}
	if err := p.publisher.Publish(ctx, TopicProductCreated, event); err != nil {
		return fmt.Errorf("publish product.created event: %w", err)
	}
	return nil
}
