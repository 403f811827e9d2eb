package exposure

import "sync"

// Memory keeps records in memory. Handy in tests and for local tooling.
type Memory struct {
	mu      sync.Mutex
	records []Record
	err     error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Log(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

// FailWith makes every following Log return err without recording. nil heals.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
}
