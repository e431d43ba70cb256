// Package dlqinspect drains the dead-letter queue into a local sqlite file
// for offline inspection. Messages land there either after exhausting the
// broker redelivery ceiling or after being classified as permanently failed,
// so the payloads are the primary debugging artifact.
package dlqinspect

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"time"

	_ "github.com/mattn/go-sqlite3"
	amqp "github.com/rabbitmq/amqp091-go"

	"profileupdater/lib/messaging/messages"
	"profileupdater/lib/messaging/rabbit"
	"profileupdater/lib/messaging/routing"
	"profileupdater/lib/utils/logging"
)

var logger = logging.NewLogger("DLQ_INSPECT")

// InspectDeadLetters is the command function for draining the dead-letter queue.
// Usage: ./bin/tools dlq-inspect [--db=<path>] [--limit=<n>] [--requeue]
func InspectDeadLetters() {
	fs := flag.NewFlagSet("dlq-inspect", flag.ExitOnError)
	dbPath := fs.String("db", "dead_letters.sqlite3", "sqlite file to capture messages into")
	limit := fs.Int("limit", 0, "max messages to drain (0 = all)")
	requeue := fs.Bool("requeue", false, "republish captured messages to the live queue")
	fs.Parse(flag.Args()[1:])

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		logger.Fatal("SQLITE_OPEN_FAILED", err, map[string]any{logging.PATH: *dbPath})
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS dead_letter (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			twitter_id   TEXT,
			atcoder_id   TEXT,
			body         TEXT NOT NULL,
			death_count  INTEGER,
			death_reason TEXT,
			requeued     INTEGER NOT NULL DEFAULT 0,
			captured_at  TIMESTAMP NOT NULL
		)`); err != nil {
		logger.Fatal("SQLITE_SCHEMA_FAILED", err, nil)
	}

	rabbit.Wait()
	ch, err := rabbit.Conn.Channel()
	if err != nil {
		logger.Fatal("CHANNEL_OPEN_FAILED", err, nil)
	}
	defer ch.Close()

	ctx := context.Background()
	drained := 0
	for *limit == 0 || drained < *limit {
		delivery, ok, err := ch.Get(routing.ProfileUpdateDead, false)
		if err != nil {
			logger.Fatal("QUEUE_GET_FAILED", err, map[string]any{logging.QUEUE: routing.ProfileUpdateDead})
		}
		if !ok {
			break
		}

		if err := capture(db, &delivery, *requeue); err != nil {
			// leave the message in place rather than lose it
			delivery.Nack(false, true)
			logger.Fatal("CAPTURE_FAILED", err, nil)
		}

		if *requeue {
			err := ch.PublishWithContext(ctx, "", routing.ProfileUpdate, false, false, amqp.Publishing{
				ContentType:  delivery.ContentType,
				DeliveryMode: amqp.Persistent,
				Body:         delivery.Body,
			})
			if err != nil {
				delivery.Nack(false, true)
				logger.Fatal("REQUEUE_PUBLISH_FAILED", err, nil)
			}
		}

		delivery.Ack(false)
		drained++
	}

	logger.Info("DLQ_DRAIN_COMPLETE", map[string]any{
		logging.COUNT: drained,
		logging.PATH:  *dbPath,
	})
}

func capture(db *sql.DB, delivery *amqp.Delivery, requeued bool) error {
	var msg messages.ProfileUpdateMessage
	// best effort: malformed payloads still get captured with blank IDs
	_ = json.Unmarshal(delivery.Body, &msg)

	count, reason := deathInfo(delivery.Headers)
	_, err := db.Exec(`
		INSERT INTO dead_letter (twitter_id, atcoder_id, body, death_count, death_reason, requeued, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.TwitterID, msg.AtCoderID, string(delivery.Body), count, reason, requeued, time.Now().UTC())
	return err
}

// deathInfo extracts the broker's x-death record: how many times the message
// died and why it was dead-lettered in the first place
func deathInfo(headers amqp.Table) (int64, string) {
	deaths, ok := headers["x-death"].([]any)
	if !ok || len(deaths) == 0 {
		return 0, ""
	}
	death, ok := deaths[0].(amqp.Table)
	if !ok {
		return 0, ""
	}
	count, _ := death["count"].(int64)
	reason, _ := death["reason"].(string)
	return count, reason
}
