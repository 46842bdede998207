// Package eventbus provides typed, synchronous publish/subscribe topics.
//
// A Topic is owned by whoever creates it; there is no package-level registry.
// Handlers run on the dispatching goroutine in registration order and a
// panicking handler unwinds through Dispatch.
package eventbus

type subscription[T any] struct {
	id      uint64
	handler func(T)
}

// Topic fans a single event type out to its subscribers.
type Topic[T any] struct {
	nextID uint64
	subs   []subscription[T]
}

// Subscribe registers handler and returns a function that removes it.
// The returned function may be called any number of times.
func (t *Topic[T]) Subscribe(handler func(T)) (unsubscribe func()) {
	if handler == nil {
		return func() {}
	}
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscription[T]{id: id, handler: handler})

	done := false
	return func() {
		if done {
			return
		}
		done = true
		t.remove(id)
	}
}

func (t *Topic[T]) remove(id uint64) {
	for i, sub := range t.subs {
		if sub.id != id {
			continue
		}
		next := make([]subscription[T], 0, len(t.subs)-1)
		next = append(next, t.subs[:i]...)
		next = append(next, t.subs[i+1:]...)
		t.subs = next
		return
	}
}

// Dispatch invokes every handler registered at the time of the call. The
// handler list is captured on entry: a handler unsubscribed by an earlier
// handler during the same dispatch still runs, and one subscribed during it
// does not. Removal takes effect from the next Dispatch.
func (t *Topic[T]) Dispatch(event T) {
	subs := t.subs
	for _, sub := range subs {
		sub.handler(event)
	}
}

// Len reports the number of live subscriptions.
func (t *Topic[T]) Len() int {
	return len(t.subs)
}
