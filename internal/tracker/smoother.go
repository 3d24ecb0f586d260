package tracker

// DefaultSmoothingWindow is the number of magnitudes averaged per frame.
const DefaultSmoothingWindow = 10

// Smoother is a fixed-capacity FIFO of recent magnitudes that yields their mean.
type Smoother struct {
	buf   []float64
	head  int // index of the oldest sample
	count int
}

// NewSmoother creates a smoother holding at most size samples.
func NewSmoother(size int) *Smoother {
	if size <= 0 {
		size = DefaultSmoothingWindow
	}
	return &Smoother{buf: make([]float64, size)}
}

// Push adds v, evicting the oldest sample when full, and returns the new mean.
func (s *Smoother) Push(v float64) float64 {
	if s.count == len(s.buf) {
		s.buf[s.head] = v
		s.head = (s.head + 1) % len(s.buf)
	} else {
		s.buf[(s.head+s.count)%len(s.buf)] = v
		s.count++
	}
	return s.Mean()
}

// Mean returns the mean of the held samples, 0 when empty.
func (s *Smoother) Mean() float64 {
	if s.count == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < s.count; i++ {
		sum += s.buf[(s.head+i)%len(s.buf)]
	}
	return sum / float64(s.count)
}

// Len returns the number of held samples.
func (s *Smoother) Len() int {
	return s.count
}

// Cap returns the window size.
func (s *Smoother) Cap() int {
	return len(s.buf)
}
