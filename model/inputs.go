package model

// Input is one named unit value of a subject (e.g. "userid" => 42).
type Input struct {
	Name  string
	Value any
}

// Inputs is an ordered list of unit values. Order is significant: the values
// are hashed in exactly this order.
type Inputs []Input

// In is a shorthand constructor for a single Input.
func In(name string, value any) Input {
	return Input{Name: name, Value: value}
}

// NewInputs builds Inputs from alternating name/value pairs.
// A trailing name without a value is ignored.
func NewInputs(kv ...any) Inputs {
	in := make(Inputs, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			continue
		}
		in = append(in, Input{Name: name, Value: kv[i+1]})
	}
	return in
}

// Values returns the unit values in order.
func (in Inputs) Values() []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v.Value
	}
	return out
}

// Get returns the value of the named input.
func (in Inputs) Get(name string) (any, bool) {
	for _, v := range in {
		if v.Name == name {
			return v.Value, true
		}
	}
	return nil, false
}

// Map returns the inputs as an unordered map.
func (in Inputs) Map() map[string]any {
	out := make(map[string]any, len(in))
	for _, v := range in {
		out[v.Name] = v.Value
	}
	return out
}
