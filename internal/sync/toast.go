package sync

import "sync"

// Toast levels.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a user-facing transient message emitted by the coordinator.
type Toast struct {
	Message string
	Type    string
}

// Toasts records toast messages for the rendering layer to drain.
type Toasts struct {
	mu      sync.Mutex
	entries []Toast
}

// NewToasts builds an empty toast recorder.
func NewToasts() *Toasts {
	return &Toasts{}
}

// Success records a success toast.
func (t *Toasts) Success(message string) {
	t.push(Toast{Message: message, Type: ToastSuccess})
}

// Error records an error toast.
func (t *Toasts) Error(message string) {
	t.push(Toast{Message: message, Type: ToastError})
}

func (t *Toasts) push(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, toast)
}

// Entries returns a copy of all recorded toasts.
func (t *Toasts) Entries() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Toast(nil), t.entries...)
}

// Last returns the most recent toast, if any.
func (t *Toasts) Last() (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return Toast{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Drain returns all recorded toasts and clears the recorder.
func (t *Toasts) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	drained := t.entries
	t.entries = nil
	return drained
}
