package domain

import (
	"sort"
	"time"
)

// State is the lifecycle vocabulary of the external queue. The tools only
// observe states, they never transition a job themselves.
type State string

const (
	Queued   State = "queued"
	Deferred State = "deferred"
	Started  State = "started"
	Finished State = "finished"
	Failed   State = "failed"
	Canceled State = "canceled"
)

// Terminal reports whether a job in this state will never change state again.
func (s State) Terminal() bool {
	return s == Finished || s == Failed || s == Canceled
}

// Job is a reference to a unit of work owned by the external queue.
type Job struct {
	ID         string
	Keyboard   string
	Keymap     string
	Layout     string
	State      State
	EnqueuedAt time.Time
}

// Outcome is the terminal result of a compile job.
type Outcome struct {
	ReturnCode int    `json:"returncode"`
	Output     string `json:"output"`
}

func (o Outcome) OK() bool { return o.ReturnCode == 0 }

// WorkRequest describes one compile job to submit. Layers are ordered
// keycode sequences, one entry per key position of the chosen layout.
type WorkRequest struct {
	Keyboard string
	Keymap   string
	Layout   string
	Layers   [][]string
}

// KeyPosition is a single physical key in a layout definition. Only the
// count of positions matters to the tools; coordinates ride along from the
// metadata record.
type KeyPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutInfo is one named layout of a keyboard's metadata record.
type LayoutInfo struct {
	Layout []KeyPosition `json:"layout"`
}

// KeyboardInfo is the metadata record stored for each keyboard target.
type KeyboardInfo struct {
	Keyboard string                `json:"keyboard"`
	Layouts  map[string]LayoutInfo `json:"layouts"`
}

// LayoutNames returns the layout names in a stable order so a seeded
// random pick is reproducible.
func (k *KeyboardInfo) LayoutNames() []string {
	names := make([]string, 0, len(k.Layouts))
	for name := range k.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
