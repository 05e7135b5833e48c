package status

import "sync"

// Channel is an unbounded multi-producer, single-consumer message queue.
type Channel struct {
	mu    sync.Mutex
	queue []Message
	ready chan struct{}
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	return &Channel{
		ready: make(chan struct{}, 1),
	}
}

// Send enqueues m. It never blocks.
func (c *Channel) Send(m Message) {
	c.mu.Lock()
	c.queue = append(c.queue, m)
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// TryReceive dequeues the oldest message without blocking.
func (c *Channel) TryReceive() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.queue) == 0 {
		return Message{}, false
	}

	m := c.queue[0]
	c.queue[0] = Message{}
	c.queue = c.queue[1:]
	if len(c.queue) == 0 {
		c.queue = nil
	}
	return m, true
}

// Requeue puts m back at the head of the queue, for a consumer that could
// not deliver a message it received.
func (c *Channel) Requeue(m Message) {
	c.mu.Lock()
	c.queue = append([]Message{m}, c.queue...)
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled after a Send. A signal may be stale; consumers must
// still treat TryReceive's result as authoritative.
func (c *Channel) Ready() <-chan struct{} {
	return c.ready
}

// Len returns the number of queued messages.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}
