// Package session tracks a batch of conversion items and owns the lifecycle
// of their results. Items convert strictly one at a time; a finished item
// holds at most one live result handle, released explicitly when the result
// is superseded, the item is removed, or the session closes.
package session

import (
	"context"

	"github.com/ASHU191/Pixify-Convert/internal/fit"
	"github.com/ASHU191/Pixify-Convert/internal/raster"
)

// Status tags an item's conversion state.
type Status uint8

const (
	StatusIdle Status = iota
	StatusConverting
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConverting:
		return "converting"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Item is one queued source and its conversion state. Width, Height and
// HasAlpha describe the source raster once it has been decoded.
type Item struct {
	Source   Source
	Status   Status
	Err      error
	Width    int
	Height   int
	HasAlpha bool

	result *Handle
}

// Result returns the item's live handle, or nil when none exists.
func (it *Item) Result() *Handle { return it.result }

// Session is an ordered batch of conversion items sharing one engine.
// It is not safe for concurrent use; conversions run one at a time on the
// calling goroutine.
type Session struct {
	engine *fit.Engine
	items  []*Item
}

// New returns an empty session converting through engine.
func New(engine *fit.Engine) *Session {
	return &Session{engine: engine}
}

// Add queues a discovered source and returns its item.
func (s *Session) Add(src Source) *Item {
	it := &Item{Source: src}
	s.items = append(s.items, it)
	return it
}

// Items returns the queued items in insertion order.
func (s *Session) Items() []*Item { return s.items }

// Convert runs one item through the engine. Any previous result is released
// before the new conversion starts, so the item never addresses two live
// results. The outcome lands in the item's Status and Err fields; the
// returned error mirrors Err.
func (s *Session) Convert(it *Item, req fit.Request) error {
	it.Status = StatusConverting
	it.Err = nil
	if it.result != nil {
		it.result.Release()
		it.result = nil
	}

	src, err := raster.DecodeFile(it.Source.Path)
	if err != nil {
		it.Status = StatusError
		it.Err = err
		return err
	}
	it.Width, it.Height = src.Width, src.Height
	it.HasAlpha = raster.HasAlpha(src.Img)

	res, err := s.engine.Convert(src, req)
	if err != nil {
		it.Status = StatusError
		it.Err = err
		return err
	}
	it.result = newHandle(res)
	it.Status = StatusDone
	return nil
}

// Run converts every queued item in order. A failing item is recorded and
// the batch moves on; ctx is consulted only between items, never inside a
// running conversion. each, when non-nil, is called after every item.
func (s *Session) Run(ctx context.Context, req fit.Request, each func(*Item)) error {
	for _, it := range s.items {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Convert(it, req)
		if each != nil {
			each(it)
		}
	}
	return nil
}

// Remove drops an item from the session and releases its result.
func (s *Session) Remove(it *Item) {
	for i, cur := range s.items {
		if cur == it {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	if it.result != nil {
		it.result.Release()
		it.result = nil
	}
}

// Close releases every result still held by the session. Items keep their
// status and error fields for inspection.
func (s *Session) Close() {
	for _, it := range s.items {
		if it.result != nil {
			it.result.Release()
			it.result = nil
		}
	}
}
