package operator

import (
	"fmt"
	"github.com/Borislavv/go-ash-split/model"
	"math"
	"sort"
)

// BernoulliTrial yields 1 with probability P, 0 otherwise.
type BernoulliTrial struct {
	P float64
	Keys
}

func (o BernoulliTrial) Eval(src Source) (any, error) {
	if math.IsNaN(o.P) || o.P < 0 || o.P > 1 {
		return nil, fmt.Errorf("%w: bernoulli p=%v must be within [0, 1]", model.ErrInvalidParameter, o.P)
	}
	d, err := src.Float()
	if err != nil {
		return nil, err
	}
	if d < o.P {
		return 1, nil
	}
	return 0, nil
}

// UniformChoice picks one of Choices with equal probability per position.
// Duplicate choices add to the mass of their value.
type UniformChoice struct {
	Choices []any
	Keys
}

func (o UniformChoice) Eval(src Source) (any, error) {
	if len(o.Choices) == 0 {
		return nil, fmt.Errorf("%w: uniform choice needs at least one choice", model.ErrInvalidParameter)
	}
	i, err := src.Int(0, int64(len(o.Choices)-1))
	if err != nil {
		return nil, err
	}
	return o.Choices[i], nil
}

// WeightedChoice picks Choices[i] with probability Weights[i] / sum(Weights).
type WeightedChoice struct {
	Choices []any
	Weights []float64
	Keys
}

func (o WeightedChoice) Eval(src Source) (any, error) {
	cum, err := o.cumulative()
	if err != nil {
		return nil, err
	}
	d, err := src.Float()
	if err != nil {
		return nil, err
	}
	total := cum[len(cum)-1]
	draw := d * total
	i := sort.Search(len(cum), func(i int) bool { return cum[i] > draw })
	if i == len(cum) {
		// d*total rounded up to total
		i = o.lastPositive()
	}
	return o.Choices[i], nil
}

func (o WeightedChoice) cumulative() ([]float64, error) {
	if len(o.Choices) == 0 {
		return nil, fmt.Errorf("%w: weighted choice needs at least one choice", model.ErrInvalidParameter)
	}
	if len(o.Choices) != len(o.Weights) {
		return nil, fmt.Errorf("%w: %d choices but %d weights", model.ErrInvalidParameter, len(o.Choices), len(o.Weights))
	}
	cum := make([]float64, len(o.Weights))
	var sum float64
	for i, w := range o.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, fmt.Errorf("%w: weight %d is %v", model.ErrInvalidParameter, i, w)
		}
		sum += w
		cum[i] = sum
	}
	if sum <= 0 || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: weights must sum to a positive finite value", model.ErrInvalidParameter)
	}
	return cum, nil
}

func (o WeightedChoice) lastPositive() int {
	for i := len(o.Weights) - 1; i >= 0; i-- {
		if o.Weights[i] > 0 {
			return i
		}
	}
	return len(o.Weights) - 1
}

// RandomInteger yields an int64 in [Min, Max]. The range may hold at most
// deviate.MaxSpan values.
type RandomInteger struct {
	Min, Max int64
	Keys
}

func (o RandomInteger) Eval(src Source) (any, error) {
	if o.Min > o.Max {
		return nil, fmt.Errorf("%w: random integer min=%d > max=%d", model.ErrInvalidParameter, o.Min, o.Max)
	}
	return src.Int(o.Min, o.Max)
}

// RandomFloat yields a float64 in [Min, Max].
type RandomFloat struct {
	Min, Max float64
	Keys
}

func (o RandomFloat) Eval(src Source) (any, error) {
	if math.IsNaN(o.Min) || math.IsNaN(o.Max) || math.IsInf(o.Min, 0) || math.IsInf(o.Max, 0) || o.Min > o.Max {
		return nil, fmt.Errorf("%w: random float min=%v max=%v", model.ErrInvalidParameter, o.Min, o.Max)
	}
	if o.Min == o.Max {
		return o.Min, nil
	}
	d, err := src.Float()
	if err != nil {
		return nil, err
	}
	return min(o.Min+d*(o.Max-o.Min), o.Max), nil
}

// Sample draws Draws distinct positions of Choices without replacement and
// yields their values in draw order.
type Sample struct {
	Choices []any
	Draws   int
	Keys
}

func (o Sample) Eval(src Source) (any, error) {
	pos, err := o.Positions(src)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(pos))
	for i, p := range pos {
		out[i] = o.Choices[p]
	}
	return out, nil
}

// Positions returns the drawn positions of Choices. Draw i is keyed on the
// source prefix extended with i.
func (o Sample) Positions(src Source) ([]int, error) {
	if o.Draws < 0 || o.Draws > len(o.Choices) {
		return nil, fmt.Errorf("%w: sample of %d draws from %d choices", model.ErrInvalidParameter, o.Draws, len(o.Choices))
	}
	pool := make([]int, len(o.Choices))
	for i := range pool {
		pool[i] = i
	}
	out := make([]int, 0, o.Draws)
	for i := 0; i < o.Draws; i++ {
		j, err := src.Int(0, int64(len(pool)-1), i)
		if err != nil {
			return nil, err
		}
		out = append(out, pool[j])
		last := len(pool) - 1
		pool[j] = pool[last]
		pool = pool[:last]
	}
	return out, nil
}
