// Package batch dynamizes many documents with one Matcher and aggregates their loader entries.
package batch

import (
	"errors"
	"fmt"
	. "github.com/ahmetsait/BindingDynamizer"
	"go.uber.org/zap"
)

// Batch keeps the results of the documents it processed, in processing order.
//
// It is meant for a single goroutine.
type Batch struct {
	*Matcher
	Results map[string]Result
	Loaded  []string
}

var (
	ErrAlreadyAdded = errors.New("document already added")
	ErrNotAdded     = errors.New("document not added")
)

// New creates an empty Batch using m.
func New(m *Matcher) *Batch {
	return &Batch{Matcher: m, Results: make(map[string]Result)}
}

// Add transforms the document text under name.
func (b *Batch) Add(name, text string) (r Result, err error) {
	if _, ok := b.Results[name]; ok {
		return r, fmt.Errorf("%w: %s", ErrAlreadyAdded, name)
	}
	r = b.Transform(text)
	b.Results[name] = r
	b.Loaded = append(b.Loaded, name)
	Logger().Debug("dynamized document",
		zap.String("name", name),
		zap.Int("functions", r.Functions),
		zap.Int("modules", r.Modules))
	return
}

// AddFile reads src then adds it under its path.
func (b *Batch) AddFile(src Source) (r Result, err error) {
	var text string
	if text, err = ReadDocument(src.Path); err != nil {
		return
	}
	return b.Add(src.Path, text)
}

// Result of the document added under name.
func (b *Batch) Result(name string) (r Result, err error) {
	r, ok := b.Results[name]
	if !ok {
		err = fmt.Errorf("%w: %s", ErrNotAdded, name)
	}
	return
}

// Names of the added documents in processing order.
func (b *Batch) Names() []string {
	return append([]string(nil), b.Loaded...)
}

// Len is the number of added documents.
func (b *Batch) Len() int {
	return len(b.Loaded)
}

// Entries returns the loader entries of every document, document by document in processing order.
// Entries are neither reordered nor deduplicated.
func (b *Batch) Entries() (v []string) {
	for _, name := range b.Loaded {
		v = append(v, b.Results[name].Entries...)
	}
	return
}

// Functions is the total count of dynamized function declarations.
func (b *Batch) Functions() (n int) {
	for _, r := range b.Results {
		n += r.Functions
	}
	return
}
