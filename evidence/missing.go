package evidence

// Missing records the expected signals that had no data, in the order they were
// first reported. Adding a name twice keeps the first position.
// The zero value is ready to use.
type Missing struct {
	names []string
	seen  map[string]bool
}

// Add records a signal with no data.
func (m *Missing) Add(name string) {
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[name] {
		return
	}
	m.seen[name] = true
	m.names = append(m.names, name)
}

// Has reports whether the signal was recorded.
func (m *Missing) Has(name string) bool {
	return m.seen[name]
}

// Len returns the number of recorded signals.
func (m *Missing) Len() int {
	return len(m.names)
}

// Names returns a copy of the recorded names. It never returns nil, so an empty list
// serialises as [] rather than null.
func (m *Missing) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}
