package model

import "sort"

// Params is the realized parameter set of one subject in one experiment.
type Params map[string]any

// Clone returns a shallow copy, nil stays nil.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Names returns parameter names in lexical order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Merge returns a copy of p with every entry of over written on top of it.
func (p Params) Merge(over Params) Params {
	out := make(Params, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
