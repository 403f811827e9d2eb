package assignment

import (
	"fmt"
	"github.com/Borislavv/go-ash-split/model"
	"github.com/Borislavv/go-ash-split/operator"
)

type slot struct {
	op    operator.Operator
	value any
	err   error
	done  bool
}

// Assignment maps slot names to lazily evaluated values. Results (value or
// error) are memoized. Not safe for concurrent use; build one per subject.
type Assignment struct {
	salt      string
	order     []string
	slots     map[string]*slot
	overrides model.Params
	evals     int
}

// New makes an empty Assignment owned by the given experiment salt.
func New(salt string) *Assignment {
	return &Assignment{
		salt:  salt,
		slots: make(map[string]*slot),
	}
}

// Salt returns the experiment-level salt.
func (a *Assignment) Salt() string { return a.salt }

// SetOverrides fixes values that win over anything written to the same names.
// Overridden operators are never evaluated.
func (a *Assignment) SetOverrides(overrides model.Params) {
	a.overrides = overrides.Clone()
}

// Overrides returns a copy of the override set.
func (a *Assignment) Overrides() model.Params {
	return a.overrides.Clone()
}

// Set writes an operator into the named slot. Nothing is evaluated until the
// slot is read. Rewriting a slot discards its previous value. A nil operator
// fails with model.ErrInvalidParameter on read.
func (a *Assignment) Set(name string, op operator.Operator) {
	a.put(name, &slot{op: op})
}

// SetValue writes a literal value into the named slot.
func (a *Assignment) SetValue(name string, value any) {
	a.put(name, &slot{value: value, done: true})
}

func (a *Assignment) put(name string, s *slot) {
	if _, ok := a.slots[name]; !ok {
		a.order = append(a.order, name)
	}
	a.slots[name] = s
}

// Has reports whether the name was written or overridden.
func (a *Assignment) Has(name string) bool {
	if _, ok := a.overrides[name]; ok {
		return true
	}
	_, ok := a.slots[name]
	return ok
}

// Names returns written slot names in write order.
func (a *Assignment) Names() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Get returns the value of the named slot, evaluating its operator on the
// first read. Overrides are returned as is.
func (a *Assignment) Get(name string) (any, error) {
	if v, ok := a.overrides[name]; ok {
		return v, nil
	}
	s, ok := a.slots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUndefinedSlot, name)
	}
	if !s.done {
		s.value, s.err = a.eval(name, s.op)
		s.done = true
	}
	return s.value, s.err
}

// Params evaluates every slot and exports them merged with the overrides.
func (a *Assignment) Params() (model.Params, error) {
	params := make(model.Params, len(a.order)+len(a.overrides))
	for _, name := range a.order {
		v, err := a.Get(name)
		if err != nil {
			return nil, err
		}
		params[name] = v
	}
	for name, v := range a.overrides {
		params[name] = v
	}
	return params, nil
}

// Evaluations returns how many operators were evaluated so far.
func (a *Assignment) Evaluations() int { return a.evals }

func (a *Assignment) eval(name string, op operator.Operator) (any, error) {
	if op == nil {
		return nil, fmt.Errorf("assign %q: %w: nil operator", name, model.ErrInvalidParameter)
	}
	a.evals++
	keys := op.DrawKeys()
	paramSalt := name
	if keys.Salt != "" {
		paramSalt = keys.Salt
	}
	v, err := op.Eval(operator.NewSource(a.salt, paramSalt, keys.Unit...))
	if err != nil {
		return nil, fmt.Errorf("assign %q: %w", name, err)
	}
	return v, nil
}

// Get is the typed form of (*Assignment).Get.
func Get[T any](a *Assignment, name string) (T, error) {
	var zero T
	v, err := a.Get(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("slot %q holds %T, not %T", name, v, zero)
	}
	return t, nil
}
