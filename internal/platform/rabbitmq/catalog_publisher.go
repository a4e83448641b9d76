package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"docuchat/internal/model"
)

// CatalogPublisher enqueues document catalog rows produced by ingestion so the
// catalog worker can persist them out of the request path.
type CatalogPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewCatalogPublisher(conn *amqp.Connection, queueName string) *CatalogPublisher {
	return &CatalogPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *CatalogPublisher) Publish(ctx context.Context, doc model.Document) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare catalog queue failed: %w", err)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal catalog payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish catalog row failed: %w", err)
	}
	return nil
}
