package stabilizer

import "gonum.org/v1/gonum/stat"

// movingAverage is the mean of the last n values.
type movingAverage struct {
	buf  []float64
	next int
	n    int
}

func newMovingAverage(size int) *movingAverage {
	if size < 1 {
		size = 1
	}
	return &movingAverage{buf: make([]float64, size)}
}

func (m *movingAverage) add(v float64) float64 {
	m.buf[m.next] = v
	m.next = (m.next + 1) % len(m.buf)
	if m.n < len(m.buf) {
		m.n++
	}
	return stat.Mean(m.window(), nil)
}

func (m *movingAverage) window() []float64 {
	if m.n < len(m.buf) {
		return m.buf[:m.n]
	}
	return m.buf
}

func (m *movingAverage) reset() {
	m.next = 0
	m.n = 0
}

// kalman1D is a scalar Kalman filter with a constant-position model.
type kalman1D struct {
	estimate    float64
	variance    float64
	process     float64
	measurement float64
}

func (k *kalman1D) update(z float64) float64 {
	predicted := k.variance + k.process
	gain := predicted / (predicted + k.measurement)
	k.estimate += gain * (z - k.estimate)
	k.variance = (1 - gain) * predicted
	return k.estimate
}

func (k *kalman1D) reset(v float64) {
	k.estimate = v
	k.variance = 1
}
