package namespace

import (
	"errors"
	"fmt"
	ashsplit "github.com/Borislavv/go-ash-split"
	"github.com/Borislavv/go-ash-split/assignment"
	"github.com/Borislavv/go-ash-split/config"
	"github.com/Borislavv/go-ash-split/model"
	"github.com/Borislavv/go-ash-split/operator"
	"log/slog"
	"sort"
	"sync"
)

var ErrUnknownExperiment = errors.New("experiment is not allocated in namespace")

// Namespace allocates segments to experiments so that experiments in one
// namespace never overlap. Lookups may run concurrently;
// allocation changes take a write lock.
type Namespace struct {
	mu          sync.RWMutex
	name        string
	primaryUnit string
	segments    int
	available   []int
	allocations map[int]string
	experiments map[string]ashsplit.Definition
	fallback    ashsplit.Definition
	logger      *slog.Logger
}

func New(name, primaryUnit string, segments int, logger *slog.Logger) (*Namespace, error) {
	if name == "" || primaryUnit == "" || segments <= 0 {
		return nil, fmt.Errorf("%w: namespace %q on unit %q with %d segments", model.ErrInvalidParameter, name, primaryUnit, segments)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	available := make([]int, segments)
	for i := range available {
		available[i] = i
	}
	return &Namespace{
		name:        name,
		primaryUnit: primaryUnit,
		segments:    segments,
		available:   available,
		allocations: make(map[int]string, segments),
		experiments: make(map[string]ashsplit.Definition),
		fallback: ashsplit.Definition{
			Name:  name + "-default",
			Setup: func(s *ashsplit.Settings) { s.AutoExposure = false },
		},
		logger: logger,
	}, nil
}

// FromConfig builds a namespace and allocates its configured experiments in
// order, taking their definitions from defs.
func FromConfig(cfg *config.Namespace, defs map[string]ashsplit.Definition, logger *slog.Logger) (*Namespace, error) {
	n, err := New(cfg.Name, cfg.PrimaryUnit, cfg.Segments, logger)
	if err != nil {
		return nil, err
	}
	for _, a := range cfg.Experiments {
		def, ok := defs[a.Name]
		if !ok {
			return nil, fmt.Errorf("namespace %s: no definition for experiment %s", cfg.Name, a.Name)
		}
		if err = n.AddExperiment(a.Name, def, a.Segments); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (n *Namespace) Name() string { return n.name }

// SetDefault sets the experiment subjects in unallocated segments get.
func (n *Namespace) SetDefault(def ashsplit.Definition) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fallback = def
}

// AddExperiment hands segments free segments to the experiment. Which
// segments it gets depends only on the namespace, the experiment name and the
// currently free segments.
func (n *Namespace) AddExperiment(name string, def ashsplit.Definition, segments int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.experiments[name]; exists {
		return fmt.Errorf("%w: experiment %s already in namespace %s", model.ErrInvalidParameter, name, n.name)
	}
	if segments <= 0 || segments > len(n.available) {
		return fmt.Errorf("%w: experiment %s wants %d segments, %d free in namespace %s",
			model.ErrInvalidParameter, name, segments, len(n.available), n.name)
	}

	choices := make([]any, len(n.available))
	for i, s := range n.available {
		choices[i] = s
	}
	a := assignment.New(n.name)
	a.Set("sampled_segments", operator.Sample{Choices: choices, Draws: segments, Keys: operator.Unit(name)})
	sampled, err := assignment.Get[[]any](a, "sampled_segments")
	if err != nil {
		return fmt.Errorf("allocate %s in namespace %s: %w", name, n.name, err)
	}

	taken := make(map[int]struct{}, len(sampled))
	for _, v := range sampled {
		seg := v.(int)
		n.allocations[seg] = name
		taken[seg] = struct{}{}
	}
	free := n.available[:0]
	for _, s := range n.available {
		if _, ok := taken[s]; !ok {
			free = append(free, s)
		}
	}
	n.available = free
	n.experiments[name] = def

	n.logger.Info("namespace experiment added",
		"namespace", n.name,
		"experiment", name,
		"segments", segments,
		"free", len(n.available),
	)
	return nil
}

// RemoveExperiment frees the experiment's segments.
func (n *Namespace) RemoveExperiment(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.experiments[name]; !ok {
		return fmt.Errorf("%w: %s in %s", ErrUnknownExperiment, name, n.name)
	}
	for seg, owner := range n.allocations {
		if owner == name {
			delete(n.allocations, seg)
			n.available = append(n.available, seg)
		}
	}
	sort.Ints(n.available)
	delete(n.experiments, name)

	n.logger.Info("namespace experiment removed",
		"namespace", n.name,
		"experiment", name,
		"free", len(n.available),
	)
	return nil
}

// Segment returns the segment the subject falls into.
func (n *Namespace) Segment(inputs model.Inputs) (int, error) {
	unit, ok := inputs.Get(n.primaryUnit)
	if !ok {
		return 0, fmt.Errorf("%w: input %q required by namespace %s", model.ErrInvalidParameter, n.primaryUnit, n.name)
	}
	a := assignment.New(n.name)
	a.Set("segment", operator.RandomInteger{Min: 0, Max: int64(n.segments - 1), Keys: operator.Unit(unit)})
	seg, err := assignment.Get[int64](a, "segment")
	if err != nil {
		return 0, err
	}
	return int(seg), nil
}

// Experiment returns the experiment for the subject and whether the subject
// is in an allocated segment. Otherwise the default experiment is returned.
func (n *Namespace) Experiment(inputs model.Inputs, opts ...ashsplit.Option) (*ashsplit.Experiment, bool, error) {
	seg, err := n.Segment(inputs)
	if err != nil {
		return nil, false, err
	}

	n.mu.RLock()
	name, allocated := n.allocations[seg]
	def := n.fallback
	if allocated {
		def = n.experiments[name]
	}
	n.mu.RUnlock()

	if !allocated {
		return ashsplit.New(def, inputs, opts...), false, nil
	}
	forced := append(append([]ashsplit.Option(nil), opts...),
		ashsplit.WithName(n.name+"-"+name),
		ashsplit.WithSalt(n.name+"."+name),
	)
	return ashsplit.New(def, inputs, forced...), true, nil
}

// Allocations returns the segments held by every experiment, sorted.
func (n *Namespace) Allocations() map[string][]int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string][]int, len(n.experiments))
	for seg, name := range n.allocations {
		out[name] = append(out[name], seg)
	}
	for _, segs := range out {
		sort.Ints(segs)
	}
	return out
}

// Free returns the number of unallocated segments.
func (n *Namespace) Free() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.available)
}
