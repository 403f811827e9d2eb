// Package operator holds the random operators an assignment procedure draws
// parameter values with. Operators are pure: the same Source and parameters
// always produce the same value.
package operator

import "github.com/Borislavv/go-ash-split/internal/deviate"

// Operator draws one value from a salted Source.
type Operator interface {
	// DrawKeys returns the unit values and optional salt override of the draw.
	DrawKeys() Keys
	// Eval computes the operator value.
	Eval(src Source) (any, error)
}

// Keys identifies what a draw is keyed on.
type Keys struct {
	// Unit holds the subject values hashed into the draw, in order.
	Unit []any
	// Salt replaces the slot name as the parameter-level salt when non-empty.
	Salt string
}

// DrawKeys is promoted to every operator embedding Keys.
func (k Keys) DrawKeys() Keys { return k }

// Unit returns Keys for the given unit values.
func Unit(values ...any) Keys {
	return Keys{Unit: values}
}

// WithSalt returns a copy of k with the parameter-level salt overridden.
func (k Keys) WithSalt(salt string) Keys {
	k.Salt = salt
	return k
}

// Source is the salt prefix of one randomization point:
// experiment salt, parameter salt, then unit values.
type Source struct {
	prefix []any
}

// NewSource builds a Source for the given experiment salt, parameter salt and units.
func NewSource(experimentSalt, paramSalt string, units ...any) Source {
	prefix := make([]any, 0, len(units)+2)
	prefix = append(prefix, experimentSalt, paramSalt)
	prefix = append(prefix, units...)
	return Source{prefix: prefix}
}

// Float returns the deviate in [0, 1), extra tokens are appended to the prefix.
func (s Source) Float(extra ...any) (float64, error) {
	return deviate.Float(s.salt(extra)...)
}

// Int returns an integer in [lo, hi].
func (s Source) Int(lo, hi int64, extra ...any) (int64, error) {
	return deviate.Int(lo, hi, s.salt(extra)...)
}

// Text returns the joined canonical salt, mostly useful for debugging.
func (s Source) Text(extra ...any) (string, error) {
	return deviate.Join(s.salt(extra))
}

func (s Source) salt(extra []any) []any {
	if len(extra) == 0 {
		return s.prefix
	}
	salt := make([]any, 0, len(s.prefix)+len(extra))
	salt = append(salt, s.prefix...)
	return append(salt, extra...)
}

// Draw evaluates op outside of an assignment, keyed on the experiment salt
// and the parameter salt (the op's salt override wins when set).
func Draw(op Operator, experimentSalt, paramSalt string) (any, error) {
	keys := op.DrawKeys()
	if keys.Salt != "" {
		paramSalt = keys.Salt
	}
	return op.Eval(NewSource(experimentSalt, paramSalt, keys.Unit...))
}

var (
	_ Operator = BernoulliTrial{}
	_ Operator = UniformChoice{}
	_ Operator = WeightedChoice{}
	_ Operator = RandomInteger{}
	_ Operator = RandomFloat{}
	_ Operator = Sample{}
)
