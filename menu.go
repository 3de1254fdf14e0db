package main

import "time"

// The defect-classification walk: a product scan at the defect station
// opens a three-level menu (Section, Type, Subtype) navigated with the
// up/down buttons and resolved with confirm/cancel. The walk is
// ephemeral; the chosen path dies with the scan that opened it.

type walkLevel uint8

const (
	levelSection walkLevel = iota
	levelType
	levelSubtype
)

func (l walkLevel) String() string {
	switch l {
	case levelSection:
		return "Section"
	case levelType:
		return "Type"
	case levelSubtype:
		return "Subtype"
	}
	return "?"
}

// walkWindow is the number of menu rows the character display can show.
const walkWindow = 3

// defectWalk is the navigation state for one product scan. One overall
// deadline bounds the whole walk; expiring anywhere behaves like
// cancelling all the way out.
type defectWalk struct {
	tax      *taxonomy
	uid      string // canonical UID of the product being classified
	level    walkLevel
	cursors  [3]int // selected row per level; upper levels keep theirs on back-out
	offsets  [3]int // scroll offset per level
	deadline time.Time
}

func newDefectWalk(tax *taxonomy, uid string, now time.Time, timeout time.Duration) *defectWalk {
	return &defectWalk{
		tax:      tax,
		uid:      uid,
		deadline: now.Add(timeout),
	}
}

// options returns the display names at the current level.
func (w *defectWalk) options() []string {
	switch w.level {
	case levelSection:
		names := make([]string, len(w.tax.Sections))
		for i, s := range w.tax.Sections {
			names[i] = s.Name
		}
		return names
	case levelType:
		names := make([]string, len(w.tax.Types))
		for i, t := range w.tax.Types {
			names[i] = t.Name
		}
		return names
	}
	subs := w.tax.Types[w.cursors[levelType]].Subtypes
	names := make([]string, len(subs))
	for i, s := range subs {
		names[i] = s.Name
	}
	return names
}

// visible returns the window of rows currently on screen and the index
// of the selected row within that window.
func (w *defectWalk) visible() ([]string, int) {
	opts := w.options()
	off := w.offsets[w.level]
	end := off + walkWindow
	if end > len(opts) {
		end = len(opts)
	}
	return opts[off:end], w.cursors[w.level] - off
}

func (w *defectWalk) navUp() {
	n := len(w.options())
	w.cursors[w.level] = (w.cursors[w.level] + n - 1) % n
	w.adjustOffset(n)
}

func (w *defectWalk) navDown() {
	n := len(w.options())
	w.cursors[w.level] = (w.cursors[w.level] + 1) % n
	w.adjustOffset(n)
}

// adjustOffset keeps the cursor inside the visible window after a move,
// including the wraparound jumps between the list ends.
func (w *defectWalk) adjustOffset(n int) {
	c := w.cursors[w.level]
	off := w.offsets[w.level]
	if c < off {
		off = c
	}
	if c >= off+walkWindow {
		off = c - walkWindow + 1
	}
	if off > n-1 {
		off = n - 1
	}
	w.offsets[w.level] = off
}

// confirm descends one level. At the subtype level it completes the
// walk and returns the chosen code triple.
func (w *defectWalk) confirm() (done bool, section, typ, subtype int) {
	if w.level < levelSubtype {
		w.level++
		w.cursors[w.level] = 0
		w.offsets[w.level] = 0
		return false, 0, 0, 0
	}
	section = w.tax.Sections[w.cursors[levelSection]].Code
	t := w.tax.Types[w.cursors[levelType]]
	typ = t.Code
	subtype = t.Subtypes[w.cursors[levelSubtype]].Code
	return true, section, typ, subtype
}

// cancel backs up exactly one level, keeping the selection made above.
// At the top level it aborts the walk.
func (w *defectWalk) cancel() (aborted bool) {
	if w.level == levelSection {
		return true
	}
	w.level--
	return false
}

func (w *defectWalk) expired(now time.Time) bool {
	return now.After(w.deadline)
}
