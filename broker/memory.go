package broker

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
)

var ErrBrokerClosed = errors.New("broker closed")

// MemoryBroker delivers messages synchronously to subscribers in this process.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[int]memorySubscription
	nextID int
	closed bool
	logger *slog.Logger
}

type memorySubscription struct {
	pattern []string
	handler Handler
}

func NewMemoryBroker(logger *slog.Logger) *MemoryBroker {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryBroker{subs: make(map[int]memorySubscription), logger: logger}
}

func (b *MemoryBroker) Publish(subject string, data []byte) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBrokerClosed
	}
	tokens := strings.Split(subject, ".")
	var handlers []Handler
	for _, sub := range b.subs {
		if subjectMatches(sub.pattern, tokens) {
			handlers = append(handlers, sub.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(Message{Subject: subject, Data: data})
	}
	return nil
}

func (b *MemoryBroker) Subscribe(subject string, handler Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBrokerClosed
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = memorySubscription{pattern: strings.Split(subject, "."), handler: handler}

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}, nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[int]memorySubscription)
	return nil
}

// subjectMatches applies NATS rules: * matches one token, a trailing > one or more.
func subjectMatches(pattern, subject []string) bool {
	for i, p := range pattern {
		if p == ">" {
			return i == len(pattern)-1 && len(subject) > i
		}
		if i >= len(subject) {
			return false
		}
		if p != "*" && p != subject[i] {
			return false
		}
	}
	return len(pattern) == len(subject)
}
