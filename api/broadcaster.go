package api

import "sync"

// EventType categorizes a BroadcastEvent for client-side filtering.
type EventType string

const (
	// EventTypeState carries a VM state snapshot: PC, cycle count, run state.
	EventTypeState EventType = "state"
	// EventTypeOutput carries a chunk of program console output.
	EventTypeOutput EventType = "output"
	// EventTypeExecution carries a discrete execution event: trap, breakpoint, halt.
	EventTypeExecution EventType = "event"
)

const (
	// broadcastQueueDepth bounds how many pending events the broadcaster's
	// internal fan-out loop will buffer before Broadcast starts dropping
	// new ones rather than blocking the caller (the VM step loop).
	broadcastQueueDepth = 256
	// subscriberQueueDepth bounds how many events a single slow WebSocket
	// client can fall behind by before the fan-out starts dropping events
	// destined for just that client.
	subscriberQueueDepth = 64
)

// BroadcastEvent is one message delivered to subscribed WebSocket clients.
type BroadcastEvent struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"sessionId"`
	Data      map[string]interface{} `json:"data"`
}

// Subscription is one client's filter over the broadcaster's event stream:
// a specific session ID (or "" for all sessions) and a set of event types
// (or none for all types).
type Subscription struct {
	SessionID  string
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// Broadcaster fans VM execution events out to every WebSocket connection
// that has subscribed to them. A single goroutine owns the subscription
// table so concurrent Subscribe/Unsubscribe/Broadcast calls from different
// HTTP handlers never race on it.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	events        chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster starts the fan-out goroutine and returns a ready Broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		events:        make(chan BroadcastEvent, broadcastQueueDepth),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.events:
			b.deliver(event)

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// deliver pushes event to every subscription whose filters match it,
// skipping (rather than blocking on) any subscriber whose channel is full.
func (b *Broadcaster) deliver(event BroadcastEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscriptions {
		if sub.SessionID != "" && sub.SessionID != event.SessionID {
			continue
		}
		if len(sub.EventTypes) > 0 && !sub.EventTypes[event.Type] {
			continue
		}

		select {
		case sub.Channel <- event:
		default:
		}
	}
}

// Subscribe registers a new client filter. sessionID == "" matches every
// session; an empty eventTypes matches every event type.
func (b *Broadcaster) Subscribe(sessionID string, eventTypes []EventType) *Subscription {
	eventTypeMap := make(map[EventType]bool, len(eventTypes))
	for _, et := range eventTypes {
		eventTypeMap[et] = true
	}

	sub := &Subscription{
		SessionID:  sessionID,
		EventTypes: eventTypeMap,
		Channel:    make(chan BroadcastEvent, subscriberQueueDepth),
	}

	b.register <- sub
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Broadcast queues event for delivery, dropping it if the broadcaster's
// internal queue is already full rather than blocking the caller.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.events <- event:
	default:
	}
}

// BroadcastState sends a VM state snapshot (PC, cycle count, run state) for sessionID.
func (b *Broadcaster) BroadcastState(sessionID string, data map[string]interface{}) {
	b.Broadcast(BroadcastEvent{Type: EventTypeState, SessionID: sessionID, Data: data})
}

// BroadcastOutput sends a chunk of program console output (stdout/stderr) for sessionID.
func (b *Broadcaster) BroadcastOutput(sessionID string, stream string, content string) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeOutput,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"stream":  stream,
			"content": content,
		},
	})
}

// BroadcastExecutionEvent sends a discrete execution event (breakpoint hit,
// halt, watchpoint trigger) with arbitrary supporting details.
func (b *Broadcaster) BroadcastExecutionEvent(sessionID string, eventName string, details map[string]interface{}) {
	data := make(map[string]interface{}, len(details)+1)
	data["event"] = eventName
	for k, v := range details {
		data[k] = v
	}

	b.Broadcast(BroadcastEvent{Type: EventTypeExecution, SessionID: sessionID, Data: data})
}

// BroadcastTrap sends an execution event for a synchronous trap (illegal
// opcode, misaligned access, ecall/ebreak, illegal CSR access) raised by
// vm.VM.Step, so a connected client learns why execution stopped without
// having to poll register state and diff it against the last known PC.
func (b *Broadcaster) BroadcastTrap(sessionID string, pc uint32, trap error) {
	b.BroadcastExecutionEvent(sessionID, "trap", map[string]interface{}{
		"pc":    pc,
		"error": trap.Error(),
	})
}

// Close stops the fan-out goroutine and closes every active subscription's channel.
func (b *Broadcaster) Close() {
	close(b.done)
}

// SubscriptionCount returns the number of currently registered subscriptions.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
