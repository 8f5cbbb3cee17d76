package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/evalladares-t/transaction-service/internal/core/domain"
	portsevents "github.com/evalladares-t/transaction-service/internal/core/ports/events"
)

const routingKeyCreated = "transaction.created"

// transactionEvent is the wire payload published for a persisted transaction.
type transactionEvent struct {
	TransactionID        string          `json:"transaction_id"`
	Amount               decimal.Decimal `json:"amount"`
	Created              time.Time       `json:"created"`
	TransactionType      string          `json:"transaction_type"`
	AccountID            string          `json:"account_id,omitempty"`
	DestinationAccountID string          `json:"destination_account_id,omitempty"`
	CreditID             string          `json:"credit_id,omitempty"`
	OwnerTransaction     bool            `json:"owner_transaction"`
}

// RabbitMQPublisher publishes transaction events to a durable topic exchange.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewRabbitMQPublisher connects to RabbitMQ and declares the exchange.
func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitMQPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

var _ portsevents.TransactionPublisher = (*RabbitMQPublisher)(nil)

// TransactionCreated publishes a transaction.created event.
func (p *RabbitMQPublisher) TransactionCreated(ctx context.Context, txn domain.Transaction) error {
	event := transactionEvent{
		TransactionID:        txn.TransactionID,
		Amount:               txn.Amount,
		Created:              txn.Created,
		TransactionType:      string(txn.TransactionType),
		AccountID:            txn.AccountID,
		DestinationAccountID: txn.DestinationAccountID,
		CreditID:             txn.CreditID,
		OwnerTransaction:     txn.OwnerTransaction,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKeyCreated,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish transaction event: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}
