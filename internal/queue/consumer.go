package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/gommon/log"
    amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer listens to the booking.confirmed queue and appends one line per
// confirmation to <Dir>/booking.log.
type Consumer struct {
    URL string
    Dir string
    Log *log.Logger
}

// Run connects to RabbitMQ and consumes until ctx is cancelled.  Lost
// connections are retried with exponential backoff capped at 30s.  A
// message that cannot be handled is rejected without requeue so the loop
// keeps going.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            c.Log.Warnf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.Log.Warnf("booking-consumer: consume loop ended: %v; reconnecting", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.Log.Warnf("booking-consumer: set QoS failed: %v", err)
    }
    if _, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(BookingConfirmedQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handleMessage(d.Body); err != nil {
                c.Log.Errorf("booking-consumer: handle message failed: %v", err)
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func (c *Consumer) handleMessage(body []byte) error {
    var ev BookingConfirmedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.BookingID == 0 {
        return errors.New("event without booking_id")
    }
    dir := c.Dir
    if dir == "" {
        dir = "logs"
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(formatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func formatLine(ev BookingConfirmedEvent) string {
    rooms := make([]string, len(ev.RoomIDs))
    for i, id := range ev.RoomIDs {
        rooms[i] = strconv.FormatUint(id, 10)
    }
    return fmt.Sprintf("[%s] Booking confirmed | booking_id=%d | user_id=%d | rooms=[%s] | check_in=%s | check_out=%s | total=%d cents (before discount %d)\n",
        ev.ConfirmedAt, ev.BookingID, ev.UserID, strings.Join(rooms, ","), ev.CheckIn, ev.CheckOut, ev.TotalAfterCents, ev.TotalBeforeCents)
}

// sleep waits for d or until ctx is done.  It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
