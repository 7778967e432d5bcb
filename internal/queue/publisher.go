package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/labstack/gommon/log"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// Publisher sends booking confirmations to RabbitMQ.  A connection is
// opened per message; confirmations are rare compared to reads.
type Publisher struct {
    url string
    log *log.Logger
    now func() time.Time
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, lg *log.Logger) *Publisher {
    return &Publisher{url: url, log: lg, now: time.Now}
}

// DispatchBookingConfirmation publishes a BookingConfirmedEvent for b.
// Errors are logged and returned; the caller decides whether to ignore them.
func (p *Publisher) DispatchBookingConfirmation(ctx context.Context, b model.Booking) error {
    body, err := json.Marshal(NewBookingConfirmedEvent(b, p.now()))
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }
    if err := p.publish(ctx, body); err != nil {
        p.log.Warnf("rabbitmq: booking %d: %v", b.ID, err)
        return err
    }
    p.log.Debugf("rabbitmq: booking %d confirmation published", b.ID)
    return nil
}

func (p *Publisher) publish(ctx context.Context, body []byte) error {
    conn, err := amqp.Dial(p.url)
    if err != nil {
        return fmt.Errorf("dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        BookingConfirmedQueue, // name
        true,                  // durable
        false,                 // autoDelete
        false,                 // exclusive
        false,                 // noWait
        nil,                   // args
    ); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    p.now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx,
        "",                    // default exchange
        BookingConfirmedQueue, // routing key = queue name
        false,                 // mandatory
        false,                 // immediate
        pub,
    ); err != nil {
        return fmt.Errorf("publish: %w", err)
    }
    return nil
}
