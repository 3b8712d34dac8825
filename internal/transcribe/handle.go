package transcribe

import "sync"

// Handle owns a lazily loaded, process-wide resource such as a local model.
// The first Get pays the load cost while concurrent callers wait on the
// lock. A failed load is not cached, so a later Get retries.
type Handle[T any] struct {
	mu     sync.Mutex
	load   func() (T, error)
	value  T
	loaded bool
}

func NewHandle[T any](load func() (T, error)) *Handle[T] {
	return &Handle[T]{load: load}
}

func (h *Handle[T]) Get() (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loaded {
		return h.value, nil
	}
	v, err := h.load()
	if err != nil {
		var zero T
		return zero, err
	}
	h.value = v
	h.loaded = true
	return v, nil
}

func (h *Handle[T]) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded
}

// Close releases the resource if it was ever loaded.
func (h *Handle[T]) Close(release func(T)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		return
	}
	release(h.value)
	var zero T
	h.value = zero
	h.loaded = false
}
