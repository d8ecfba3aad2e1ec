package viewmodel

import (
	"context"
	"sync"

	"io.winapps.traveljournal/internal/geocode"
	journal "io.winapps.traveljournal/internal/models/journal"
)

type Suggester interface {
	Suggest(ctx context.Context, text string) []journal.Location
}

// SuggestionBox is the location field of the entry form. Replies that
// arrive after a newer request was issued are dropped.
type SuggestionBox struct {
	suggester Suggester
	seq       geocode.Sequencer

	mu      sync.Mutex
	text    string
	current []journal.Location
}

func NewSuggestionBox(s Suggester) *SuggestionBox {
	return &SuggestionBox{suggester: s, current: []journal.Location{}}
}

// Begin records typed text and issues the request number for its lookup.
func (b *SuggestionBox) Begin(text string) uint64 {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
	return b.seq.Next()
}

// Apply shows results if seq is the latest request and reports whether it did.
func (b *SuggestionBox) Apply(seq uint64, results []journal.Location) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.seq.Accept(seq) {
		return false
	}
	b.current = results
	return true
}

// Lookup runs the suggestion request numbered seq for text. A zero seq gets
// the next number from the box. When a newer request was issued before this
// one finished, the results are dropped and ok is false.
func (b *SuggestionBox) Lookup(ctx context.Context, text string, seq uint64) (shown []journal.Location, used uint64, ok bool) {
	if seq == 0 {
		seq = b.Begin(text)
	} else if b.seq.Observe(seq) {
		b.mu.Lock()
		b.text = text
		b.mu.Unlock()
	}
	if !b.Apply(seq, b.suggester.Suggest(ctx, text)) {
		return []journal.Location{}, seq, false
	}
	return b.Suggestions(), seq, true
}

// Text is the text of the latest request.
func (b *SuggestionBox) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

func (b *SuggestionBox) Suggestions() []journal.Location {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]journal.Location{}, b.current...)
}
