package analytics

// DefaultWindowCapacity is the number of magnitudes retained for feature extraction.
const DefaultWindowCapacity = 2000

// SignalWindow is an append-only ring of magnitudes; the oldest sample is evicted when full.
type SignalWindow struct {
	buf   []float64
	head  int
	count int
}

// NewSignalWindow creates a window holding at most capacity samples.
func NewSignalWindow(capacity int) *SignalWindow {
	if capacity <= 0 {
		capacity = DefaultWindowCapacity
	}
	return &SignalWindow{buf: make([]float64, capacity)}
}

// Add appends a magnitude.
func (w *SignalWindow) Add(magnitude float64) {
	if w.count == len(w.buf) {
		w.buf[w.head] = magnitude
		w.head = (w.head + 1) % len(w.buf)
		return
	}
	w.buf[(w.head+w.count)%len(w.buf)] = magnitude
	w.count++
}

// Len returns the number of samples held.
func (w *SignalWindow) Len() int {
	return w.count
}

// Cap returns the window capacity.
func (w *SignalWindow) Cap() int {
	return len(w.buf)
}

// Values returns the samples oldest first. The slice is a copy.
func (w *SignalWindow) Values() []float64 {
	out := make([]float64, w.count)
	n := copy(out, w.buf[w.head:min(w.head+w.count, len(w.buf))])
	copy(out[n:], w.buf[:w.count-n])
	return out
}

// Features computes the signal features over the current contents.
func (w *SignalWindow) Features() SignalFeatures {
	return HjorthParameters(w.Values())
}
