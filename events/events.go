// Package events provides typed observer channels. Registering a listener
// returns a Subscription; owners collect their subscriptions in a Scope and
// release them together on teardown.
//
// Emitters are not safe for concurrent use. All components in this module
// emit and subscribe from the single render goroutine.
package events

// Releaser is anything that can be released once on teardown.
type Releaser interface {
	Release()
}

// Subscription is a handle to one registered listener.
type Subscription struct {
	release func()
}

// Release unregisters the listener. Calling it more than once is a no-op.
func (s *Subscription) Release() {
	if s == nil || s.release == nil {
		return
	}
	fn := s.release
	s.release = nil
	fn()
}

type listener[T any] struct {
	id   uint64
	fn   func(T)
	once bool
}

// Emitter fans a value out to every registered listener in registration order.
// The zero value is ready to use.
type Emitter[T any] struct {
	nextID    uint64
	listeners []listener[T]
}

// On registers fn and returns the handle that removes it.
func (e *Emitter[T]) On(fn func(T)) *Subscription {
	return e.add(fn, false)
}

// Once registers fn to run on the next emission only.
func (e *Emitter[T]) Once(fn func(T)) *Subscription {
	return e.add(fn, true)
}

func (e *Emitter[T]) add(fn func(T), once bool) *Subscription {
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn, once: once})
	return &Subscription{release: func() { e.remove(id) }}
}

func (e *Emitter[T]) remove(id uint64) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Emit calls every listener registered at the moment of the call. Listeners
// may release themselves or register new ones while running; new listeners
// only see later emissions.
func (e *Emitter[T]) Emit(v T) {
	if len(e.listeners) == 0 {
		return
	}
	snapshot := make([]listener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	for _, l := range snapshot {
		if !e.has(l.id) {
			continue
		}
		if l.once {
			e.remove(l.id)
		}
		l.fn(v)
	}
}

func (e *Emitter[T]) has(id uint64) bool {
	for _, l := range e.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}

// Len reports the number of registered listeners.
func (e *Emitter[T]) Len() int {
	return len(e.listeners)
}

// Clear drops every listener.
func (e *Emitter[T]) Clear() {
	e.listeners = nil
}

// Scope is the list of resources one owner acquired. Release frees them in
// reverse acquisition order and empties the scope.
type Scope struct {
	items []Releaser
}

// Add appends releasers to the scope.
func (s *Scope) Add(r ...Releaser) {
	s.items = append(s.items, r...)
}

// Release releases everything in the scope, last acquired first.
func (s *Scope) Release() {
	for i := len(s.items) - 1; i >= 0; i-- {
		s.items[i].Release()
	}
	s.items = nil
}

// Len reports how many releasers are held.
func (s *Scope) Len() int {
	return len(s.items)
}

// ReleaseFunc adapts a plain function to Releaser.
type ReleaseFunc func()

func (f ReleaseFunc) Release() { f() }
