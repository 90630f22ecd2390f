package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/config"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

// RabbitMQBroker implements ports.ChangeEventPublisher using RabbitMQ.
type RabbitMQBroker struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	queueName string
	cb        *gobreaker.CircuitBreaker
}

var _ ports.ChangeEventPublisher = (*RabbitMQBroker)(nil)

func NewRabbitMQBroker(amqpURL, queueName string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMQBroker{
		conn:      conn,
		ch:        ch,
		queueName: queueName,
		cb:        config.NewCircuitBreaker("RabbitMQ-Publisher"),
	}, nil
}

func (rmq *RabbitMQBroker) PublishEntityChanged(ctx context.Context, evt ports.EntityChangedEvent) error {
	msg, err := newPublishing(evt)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		return nil, rmq.ch.PublishWithContext(
			ctx,
			"",            // default exchange
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			msg,
		)
	})
	return err
}

func newPublishing(evt ports.EntityChangedEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID,
		Timestamp:    evt.OccurredAt,
		Type:         string(evt.Action),
		Headers: amqp.Table{
			"entity":     evt.Entity,
			"society_id": evt.SocietyID,
		},
		Body: body,
	}, nil
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}
