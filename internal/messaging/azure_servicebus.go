package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"example.com/encomendas/services/orders/config"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/google/uuid"
)

// Event types emitted by the order engine.
const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderDeleted       = "OrderDeleted"
)

// OrderEvent is the message body published for order lifecycle changes.
type OrderEvent struct {
	EventType  string    `json:"event_type"`
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Status     string    `json:"status,omitempty"`
	TotalValue float64   `json:"total_value,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is an interface for order event publishing
type Publisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
	Close() error
}

// serviceBusPublisher implements Publisher on Azure Service Bus
type serviceBusPublisher struct {
	client    *azservicebus.Client
	sender    *azservicebus.Sender
	queueName string
}

// NewServiceBusPublisher creates a new Azure Service Bus publisher
func NewServiceBusPublisher(cfg config.ServiceBusConfig) (Publisher, error) {
	if cfg.ConnectionString == "" {
		return nil, fmt.Errorf("Azure Service Bus connection string is empty")
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus client: %w", err)
	}

	sender, err := client.NewSender(cfg.QueueName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus sender: %w", err)
	}

	return &serviceBusPublisher{
		client:    client,
		sender:    sender,
		queueName: cfg.QueueName,
	}, nil
}

// PublishOrderEvent sends an order event to the configured queue
func (p *serviceBusPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := &azservicebus.Message{
		Body: data,
		ApplicationProperties: map[string]interface{}{
			"event_type": event.EventType,
			"time":       time.Now().UTC().Format(time.RFC3339),
		},
	}

	return p.sender.SendMessage(ctx, msg, nil)
}

// Close closes the Service Bus publisher
func (p *serviceBusPublisher) Close() error {
	if p.sender != nil {
		if err := p.sender.Close(context.Background()); err != nil {
			return err
		}
	}

	if p.client != nil {
		return p.client.Close(context.Background())
	}

	return nil
}
