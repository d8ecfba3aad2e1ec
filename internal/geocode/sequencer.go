package geocode

import "sync/atomic"

// Sequencer numbers suggestion requests so that only the reply to the most
// recently issued one is applied.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new request number.
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// Observe records a number issued by the caller. It raises the latest number
// to seq if seq is newer and reports whether seq is now the latest.
func (s *Sequencer) Observe(seq uint64) bool {
	for {
		latest := s.latest.Load()
		if seq < latest {
			return false
		}
		if seq == latest || s.latest.CompareAndSwap(latest, seq) {
			return seq != 0
		}
	}
}

// Accept reports whether seq is the latest request issued.
func (s *Sequencer) Accept(seq uint64) bool {
	return seq != 0 && seq == s.latest.Load()
}

// Latest returns the most recently issued number, or 0.
func (s *Sequencer) Latest() uint64 {
	return s.latest.Load()
}
