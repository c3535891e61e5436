package logging

import (
	"fmt"
	"sync"

	"github.com/ameistad/dlpanel/internal/helpers"
)

// Broker fans out log lines to any number of subscribers.
// Publishing never blocks: a subscriber whose buffer is full misses the line.
type Broker struct {
	mutex       sync.RWMutex
	subscribers map[string]chan string
	bufferSize  int
	nextID      uint64
	closed      bool
}

// NewBroker creates a Broker whose subscribers buffer up to bufferSize lines.
func NewBroker(bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &Broker{
		subscribers: make(map[string]chan string),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a new subscriber and returns its channel and id.
// The channel is closed by Unsubscribe or Close.
func (b *Broker) Subscribe() (<-chan string, string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	ch := make(chan string, b.bufferSize)
	if b.closed {
		close(ch)
		return ch, ""
	}

	b.nextID++
	id := fmt.Sprintf("sub-%d", b.nextID)
	b.subscribers[id] = ch
	return ch, id
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Broker) Unsubscribe(id string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker) SubscriberCount() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.subscribers)
}

// Publish delivers a line to every subscriber.
func (b *Broker) Publish(line string) {
	// The read lock is held while sending so Unsubscribe cannot close a channel mid-send.
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subscribers {
		select {
		case ch <- line:
		default:
			// Subscriber is not keeping up, line is dropped for it.
		}
	}
}

// Close disconnects all subscribers. Later publishes are ignored.
func (b *Broker) Close() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}

// Writer returns an io.Writer that publishes every complete line written to it.
func (b *Broker) Writer() *helpers.LineWriter {
	return helpers.NewLineWriter(func(line string) {
		b.Publish(helpers.StripANSI(line))
	})
}
