package match

import "github.com/leapstack-labs/sqlgrep/pkg/tree"

// CaptureSet accumulates the named bindings produced during one
// successful match. Names keep their first-insertion order; rebinding a
// name overwrites its value in place, so duplicate capture names within
// one pattern are last-write-wins.
type CaptureSet struct {
	names  []string
	values map[string]tree.Value
}

// NewCaptureSet returns an empty capture set.
func NewCaptureSet() *CaptureSet {
	return &CaptureSet{values: make(map[string]tree.Value)}
}

func (c *CaptureSet) bind(name string, v tree.Value) {
	if _, ok := c.values[name]; !ok {
		c.names = append(c.names, name)
	}
	c.values[name] = v
}

// Get returns the value bound to name.
func (c *CaptureSet) Get(name string) (tree.Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns the bound names in first-insertion order.
func (c *CaptureSet) Names() []string {
	return c.names
}

// Len returns the number of bound names.
func (c *CaptureSet) Len() int {
	return len(c.names)
}

// IsEmpty reports whether no names are bound.
func (c *CaptureSet) IsEmpty() bool {
	return len(c.names) == 0
}
