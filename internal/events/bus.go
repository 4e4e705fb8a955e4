/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package events

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Handler receives one event. Handlers run on the publisher's
// goroutine and should return quickly; anything slow belongs on a
// worker goroutine.
type Handler func(Event)

// Subscription identifies one registered handler so it can later be
// removed with Unsubscribe.
type Subscription struct {
	kind Kind
	id   uint64
}

type subscriber struct {
	id uint64
	fn Handler
}

// Bus is a synchronous publish/subscribe hub. Publish delivers to the
// handlers subscribed at the moment of the call, in subscription
// order, on the calling goroutine. A panicking handler is recovered
// and logged; delivery then continues with the remaining handlers.
//
// Handlers may call Subscribe, Unsubscribe, or Publish from inside a
// delivery. Handlers added during a Publish do not see the event
// being delivered.
type Bus struct {
	subsLock sync.RWMutex
	nextID   uint64
	subs     map[Kind][]subscriber
	faults   atomic.Uint64

	log *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		subs: make(map[Kind][]subscriber),
		log:  log,
	}
}

// Subscribe registers fn for all future events of the given kind.
func (b *Bus) Subscribe(kind Kind, fn Handler) Subscription {
	b.subsLock.Lock()
	defer b.subsLock.Unlock()

	b.nextID++
	b.subs[kind] = append(b.subs[kind], subscriber{id: b.nextID, fn: fn})

	return Subscription{kind: kind, id: b.nextID}
}

// Unsubscribe removes a previously registered handler. Unknown or
// already removed subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.subsLock.Lock()
	defer b.subsLock.Unlock()

	list := b.subs[sub.kind]
	for idx, s := range list {
		if s.id != sub.id {
			continue
		}
		b.subs[sub.kind] = append(list[:idx], list[idx+1:]...)
		break
	}
}

// Publish delivers ev to every handler subscribed to ev.Kind. It
// returns after the last handler has run.
func (b *Bus) Publish(ev Event) {
	b.subsLock.RLock()
	snapshot := make([]subscriber, len(b.subs[ev.Kind]))
	copy(snapshot, b.subs[ev.Kind])
	b.subsLock.RUnlock()

	for _, sub := range snapshot {
		b.deliver(sub, ev)
	}
}

func (b *Bus) deliver(sub subscriber, ev Event) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		b.faults.Add(1)
		b.log.Error("event handler panicked",
			zap.String("kind", string(ev.Kind)),
			zap.Uint64("subscription", sub.id),
			zap.Any("panic", r),
			zap.Stack("stack"))
	}()

	sub.fn(ev)
}

// HandlerFaults reports how many handler panics the bus has recovered
// since it was created.
func (b *Bus) HandlerFaults() uint64 {
	return b.faults.Load()
}
