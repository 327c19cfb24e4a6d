package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PushPublisher hands push payloads to the delivery pipeline. The actual
// device delivery (FCM et al.) is a downstream consumer's job.
type PushPublisher interface {
	Publish(ctx context.Context, msg PushMessage) error
}

type amqpPublisher struct {
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher declares a durable fanout exchange and returns a
// publisher bound to it.
func NewAMQPPublisher(conn *amqp.Connection, exchange string) (PushPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		return nil, err
	}

	return &amqpPublisher{channel: ch, exchange: exchange}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, msg PushMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx,
		p.exchange,
		"",
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			Body:         body,
		},
	)
}
