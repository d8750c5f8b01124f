// Package panel exposes pipeline parameters as live controls.
package panel

import (
	"fmt"
	"log"
	"sort"
)

// Panel binds labeled controls to change callbacks. Implementations must
// keep every value they deliver inside the bound domain.
type Panel interface {
	BindScalar(label string, min, max, initial float64, onChange func(float64))
	BindEnum(label string, options map[string]int, initial int, onChange func(int))
}

// KeyBinder registers a callback for a printable key.
type KeyBinder interface {
	BindKey(r rune, f func())
}

// KeyPair is the decrement and increment key of one control.
type KeyPair struct {
	Down rune
	Up   rune
}

// DefaultLayout assigns controls to key pairs in binding order.
var DefaultLayout = []KeyPair{
	{'Q', 'W'},
	{'A', 'S'},
	{'Z', 'X'},
	{'E', 'R'},
	{'D', 'F'},
}

// DefaultSteps is how many key presses span a scalar's full range.
const DefaultSteps = 20

// Keys is a keyboard-driven Panel. Each bound control takes the next key
// pair from the layout.
type Keys struct {
	Steps  float64
	binder KeyBinder
	layout []KeyPair
	next   int
	help   []string
}

func NewKeys(binder KeyBinder, layout ...KeyPair) *Keys {
	if len(layout) == 0 {
		layout = DefaultLayout
	}
	return &Keys{Steps: DefaultSteps, binder: binder, layout: layout}
}

func (k *Keys) take(label string) (KeyPair, bool) {
	if k.next >= len(k.layout) {
		log.Printf("Panel: no keys left for %q, control not bound", label)
		return KeyPair{}, false
	}
	keys := k.layout[k.next]
	k.next++
	return keys, true
}

// BindScalar steps the value by (max-min)/Steps per key press, clamped to
// [min, max]. onChange only fires when the value actually moves.
func (k *Keys) BindScalar(label string, min, max, initial float64, onChange func(float64)) {
	keys, ok := k.take(label)
	if !ok {
		return
	}
	s := &scalar{label: label, min: min, max: max, step: (max - min) / k.Steps, onChange: onChange}
	s.value = s.clamp(initial)

	k.binder.BindKey(keys.Down, func() { s.set(s.value - s.step) })
	k.binder.BindKey(keys.Up, func() { s.set(s.value + s.step) })
	k.help = append(k.help, fmt.Sprintf("[%c/%c] %s (%.2f..%.2f)", keys.Down, keys.Up, label, min, max))
}

// BindEnum cycles through the options in value order, wrapping at both ends.
func (k *Keys) BindEnum(label string, options map[string]int, initial int, onChange func(int)) {
	if len(options) == 0 {
		return
	}
	keys, ok := k.take(label)
	if !ok {
		return
	}
	e := newEnum(label, options, initial, onChange)

	k.binder.BindKey(keys.Down, func() { e.step(-1) })
	k.binder.BindKey(keys.Up, func() { e.step(1) })
	k.help = append(k.help, fmt.Sprintf("[%c/%c] %s %v", keys.Down, keys.Up, label, e.labels()))
}

// Help lists the bound controls and their keys.
func (k *Keys) Help() []string { return k.help }

type scalar struct {
	label    string
	min      float64
	max      float64
	step     float64
	value    float64
	onChange func(float64)
}

func (s *scalar) clamp(v float64) float64 {
	if v < s.min {
		return s.min
	}
	if v > s.max {
		return s.max
	}
	return v
}

func (s *scalar) set(v float64) {
	v = s.clamp(v)
	if v == s.value {
		return
	}
	s.value = v
	log.Printf("Panel: %s = %.3f", s.label, v)
	s.onChange(v)
}

type option struct {
	label string
	value int
}

type enum struct {
	label    string
	options  []option
	index    int
	onChange func(int)
}

func newEnum(label string, options map[string]int, initial int, onChange func(int)) *enum {
	e := &enum{label: label, onChange: onChange}
	for l, v := range options {
		e.options = append(e.options, option{label: l, value: v})
	}
	sort.Slice(e.options, func(i, j int) bool {
		if e.options[i].value == e.options[j].value {
			return e.options[i].label < e.options[j].label
		}
		return e.options[i].value < e.options[j].value
	})
	for i, o := range e.options {
		if o.value == initial {
			e.index = i
			break
		}
	}
	return e
}

func (e *enum) step(dir int) {
	n := len(e.options)
	e.choose(((e.index+dir)%n + n) % n)
}

// choose selects the option at index i. Out of range indexes are ignored.
func (e *enum) choose(i int) {
	if i < 0 || i >= len(e.options) {
		return
	}
	e.index = i
	o := e.options[i]
	log.Printf("Panel: %s = %s", e.label, o.label)
	e.onChange(o.value)
}

func (e *enum) labels() []string {
	out := make([]string, len(e.options))
	for i, o := range e.options {
		out[i] = o.label
	}
	return out
}
