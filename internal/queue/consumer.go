package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartReceiptConsumer connects to RabbitMQ, declares the fee.paid queue
// (durable) and starts consuming payment events. Each event is appended to
// logs/payments.log as a single human-readable line. The function runs a
// reconnect loop forever; it is meant to be launched in its own goroutine
// and only logs processing errors so the server keeps operating.
func StartReceiptConsumer(url string) {
	if url == "" {
		return
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("receipt-consumer: dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("receipt-consumer: consume loop ended: %v; reconnecting", err)
		}
		_ = conn.Close()
		time.Sleep(2 * time.Second)
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for d := range msgs {
		var ev FeePaidEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("receipt-consumer: bad payload: %v", err)
			_ = d.Reject(false)
			continue
		}
		if err := appendReceiptLine(ev); err != nil {
			log.Printf("receipt-consumer: write failed: %v", err)
			_ = d.Reject(true)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

func appendReceiptLine(ev FeePaidEvent) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "payments.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%s receipt=%s fee=%s student=%q roll=%s type=%q amount=%.2f method=%s by=%s\n",
		ev.PaidAt, ev.ReceiptNumber, ev.FeeID, ev.StudentName, ev.RollNumber,
		ev.FeeType, ev.PaidAmount, ev.PaymentMethod, ev.PaidBy)
	_, err = f.WriteString(line)
	return err
}
