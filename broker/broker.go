// Package broker carries outbox events between the dispatcher and live-update listeners.
package broker

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SubjectPrefix = "noteria.events"
	// AllEvents matches every event subject.
	AllEvents   = SubjectPrefix + ".>"
	RoomSubject = SubjectPrefix + ".room"
	NoteSubject = SubjectPrefix + ".note"
)

type Message struct {
	Subject string
	Data    []byte
}

type Handler func(Message)

type Broker interface {
	Publish(subject string, data []byte) error
	// Subscribe registers handler for subject, which may use the * and > wildcards.
	// The returned func removes the subscription.
	Subscribe(subject string, handler Handler) (func(), error)
	Close() error
}

// SubjectFor maps an entity name to its event subject.
func SubjectFor(entity string) string {
	return SubjectPrefix + "." + entity
}

// Envelope is the wire form of a dispatched event.
type Envelope struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Entity    string          `json:"entity"`
	EntityID  uuid.UUID       `json:"entityId"`
	ActorID   uuid.UUID       `json:"actorId"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(data, &env)
	return env, err
}

// Connect dials NATS at url. When the server is unreachable it logs a warning and
// returns an in-process broker so a single node keeps working.
func Connect(url string, logger *slog.Logger) Broker {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(url) != "" {
		b, err := NewNATSBroker(url, logger)
		if err == nil {
			logger.Info("connected to nats", "url", url)
			return b
		}
		logger.Warn("nats unavailable, using in-process broker", "url", url, "error", err)
	}
	return NewMemoryBroker(logger)
}
