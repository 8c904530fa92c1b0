package gesture

// Smoother turns a flickering label stream into a stable one using a
// fixed-size ring buffer and a majority vote.
type Smoother struct {
	buf    []Label
	next   int
	filled bool
	share  float64
	stable Label
}

// NewSmoother creates a smoother over the last size labels. A label must
// hold more than share of the window to become stable.
func NewSmoother(size int, share float64) *Smoother {
	if size < 1 {
		size = 1
	}
	return &Smoother{
		buf:    make([]Label, size),
		share:  share,
		stable: Idle,
	}
}

// Push records label and returns the current stable label. Until the
// window is full the previous stable label is returned.
func (s *Smoother) Push(label Label) Label {
	s.buf[s.next] = label
	s.next = (s.next + 1) % len(s.buf)
	if s.next == 0 {
		s.filled = true
	}
	if !s.filled {
		return s.stable
	}

	var counts [Unknown + 1]int
	best := s.buf[0]
	for _, l := range s.buf {
		counts[l]++
		if counts[l] > counts[best] {
			best = l
		}
	}

	if float64(counts[best])/float64(len(s.buf)) > s.share {
		s.stable = best
	}
	return s.stable
}

// Stable returns the current stable label.
func (s *Smoother) Stable() Label { return s.stable }

// Reset empties the window and returns the stable label to Idle.
func (s *Smoother) Reset() {
	s.next = 0
	s.filled = false
	s.stable = Idle
}
