// Package state tracks UI-only state that does not belong in the surface
// store, such as which interactive component has focus.
package state

// Focus is a ring over the interactive component ids of the rendered tree,
// in render order. Index is -1 when nothing can take focus.
type Focus struct {
	IDs   []string
	Index int
}

func NewFocus() *Focus {
	return &Focus{Index: -1}
}

// Sync replaces the ring after a re-render. The focused id is kept when it
// still exists; otherwise the index is clamped into range. It reports whether
// the focused id changed.
func (f *Focus) Sync(ids []string) bool {
	before, _ := f.Current()
	f.IDs = append([]string(nil), ids...)
	if len(f.IDs) == 0 {
		f.Index = -1
		return before != ""
	}
	if before != "" {
		for i, id := range f.IDs {
			if id == before {
				f.Index = i
				return false
			}
		}
	}
	if f.Index < 0 {
		f.Index = 0
	}
	if f.Index >= len(f.IDs) {
		f.Index = len(f.IDs) - 1
	}
	after, _ := f.Current()
	return after != before
}

// Current returns the focused id.
func (f *Focus) Current() (string, bool) {
	if f.Index < 0 || f.Index >= len(f.IDs) {
		return "", false
	}
	return f.IDs[f.Index], true
}

// Next moves focus forward, wrapping at the end.
func (f *Focus) Next() bool {
	return f.moveBy(1)
}

// Prev moves focus backward, wrapping at the start.
func (f *Focus) Prev() bool {
	return f.moveBy(-1)
}

// Home focuses the first component.
func (f *Focus) Home() bool {
	if len(f.IDs) == 0 {
		return false
	}
	old := f.Index
	f.Index = 0
	return old != f.Index
}

// End focuses the last component.
func (f *Focus) End() bool {
	if len(f.IDs) == 0 {
		return false
	}
	old := f.Index
	f.Index = len(f.IDs) - 1
	return old != f.Index
}

// Set focuses id if it is in the ring.
func (f *Focus) Set(id string) bool {
	for i, candidate := range f.IDs {
		if candidate == id {
			f.Index = i
			return true
		}
	}
	return false
}

func (f *Focus) moveBy(delta int) bool {
	n := len(f.IDs)
	if n == 0 {
		f.Index = -1
		return false
	}
	old := f.Index
	if f.Index < 0 {
		f.Index = 0
		return true
	}
	f.Index = ((f.Index+delta)%n + n) % n
	return old != f.Index
}
