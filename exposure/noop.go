package exposure

// NoOp drops every record.
type NoOp struct{}

// Log does nothing and returns nil.
func (NoOp) Log(Record) error { return nil }
