package amqp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AkoredeAzeez/RickbertFashion-sub000/pkg/domain/service"
)

const publishTimeout = 5 * time.Second

// Dispatcher publishes domain events as JSON messages on a topic exchange,
// routed by event type.
type Dispatcher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewDispatcher(url, exchange string) (*Dispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp broker")
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open amqp channel")
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, errors.Wrap(err, "declare amqp exchange")
	}

	return &Dispatcher{conn: conn, channel: channel, exchange: exchange}, nil
}

func (d *Dispatcher) Dispatch(event service.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrapf(err, "encode event %s", event.Type())
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = d.channel.PublishWithContext(ctx, d.exchange, event.Type(), false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Type:        event.Type(),
		Body:        body,
	})
	return errors.Wrapf(err, "publish event %s", event.Type())
}

func (d *Dispatcher) Close() error {
	if err := d.channel.Close(); err != nil {
		_ = d.conn.Close()
		return errors.Wrap(err, "close amqp channel")
	}
	return errors.Wrap(d.conn.Close(), "close amqp connection")
}
