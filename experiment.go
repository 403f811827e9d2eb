package ashsplit

import (
	"fmt"
	"github.com/Borislavv/go-ash-split/assignment"
	"github.com/Borislavv/go-ash-split/exposure"
	"github.com/Borislavv/go-ash-split/internal/fingerprint"
	"github.com/Borislavv/go-ash-split/model"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"log/slog"
)

// AssignFunc writes operators into the assignment for the given inputs.
type AssignFunc func(a *assignment.Assignment, in model.Inputs) error

// Settings are fixed once per experiment instance by Definition.Setup.
type Settings struct {
	Name         string
	Salt         string // defaults to Name
	LogLevel     slog.Level
	AutoExposure bool
}

// Definition describes an experiment. It holds no per-subject state and can
// be shared; every evaluation builds its own Experiment from it.
type Definition struct {
	Name      string
	Setup     func(s *Settings)
	Assign    AssignFunc
	Overrides model.Params
}

// Experiment evaluates a Definition for one subject.
// It is not safe for concurrent use and is not reused across subjects.
type Experiment struct {
	def        Definition
	inputs     model.Inputs
	settings   Settings
	overrides  model.Params
	logger     exposure.Logger
	diag       *slog.Logger
	clock      clock.Clock
	onLogError func(error)
	name, salt string // forced after setup when set
	state      State
	params     model.Params
	err        error
	exposed    map[model.Key]struct{}
	autoLogged bool
}

func New(def Definition, inputs model.Inputs, opts ...Option) *Experiment {
	e := &Experiment{
		def:     def,
		inputs:  append(model.Inputs(nil), inputs...),
		logger:  exposure.NoOp{},
		diag:    slog.New(slog.DiscardHandler),
		clock:   clock.New(),
		exposed: make(map[model.Key]struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Experiment) State() State { return e.state }

func (e *Experiment) Name() string {
	e.setUp()
	return e.settings.Name
}

func (e *Experiment) Salt() string {
	e.setUp()
	return e.settings.Salt
}

// Inputs returns a copy of the subject inputs.
func (e *Experiment) Inputs() model.Inputs {
	return append(model.Inputs(nil), e.inputs...)
}

// SetOverrides replaces the caller overrides. It fails with model.ErrState
// once parameters are finalized.
func (e *Experiment) SetOverrides(overrides model.Params) error {
	if e.state == StateParamsReady {
		return fmt.Errorf("%w: overrides set after parameters of %s were finalized", model.ErrState, e.Name())
	}
	e.overrides = overrides.Clone()
	return nil
}

func (e *Experiment) SetLogger(logger exposure.Logger) {
	if logger == nil {
		logger = exposure.NoOp{}
	}
	e.logger = logger
}

func (e *Experiment) SetAutoExposureLogging(enabled bool) {
	e.setUp()
	e.settings.AutoExposure = enabled
}

// Params returns the finalized parameter set. The first call runs the
// assignment; when auto exposure is on, the set is logged once.
func (e *Experiment) Params() (model.Params, error) {
	if err := e.finalize(); err != nil {
		return nil, err
	}
	if e.settings.AutoExposure && !e.autoLogged {
		e.logExposure(nil)
		e.autoLogged = true
	}
	return e.params.Clone(), nil
}

// Get returns one parameter, or def when it is missing or assignment failed.
func (e *Experiment) Get(name string, def any) any {
	params, err := e.Params()
	if err != nil {
		return def
	}
	if v, ok := params[name]; ok {
		return v
	}
	return def
}

// LogExposure logs the parameter set with extras unless this exact content
// was already logged by this instance.
func (e *Experiment) LogExposure(extras map[string]any) error {
	if err := e.finalize(); err != nil {
		return err
	}
	e.logExposure(extras)
	return nil
}

// LogEvent logs a custom event (e.g. a conversion) with the parameter set.
// Events are not deduplicated.
func (e *Experiment) LogEvent(event string, extras map[string]any) error {
	if err := e.finalize(); err != nil {
		return err
	}
	e.emit(e.record(event, exposure.EventID(), extras))
	return nil
}

func (e *Experiment) setUp() {
	if e.state != StateCreated {
		return
	}
	e.settings = Settings{Name: e.def.Name, LogLevel: slog.LevelInfo, AutoExposure: true}
	if e.def.Setup != nil {
		e.def.Setup(&e.settings)
	}
	if e.name != "" {
		e.settings.Name = e.name
	}
	if e.salt != "" {
		e.settings.Salt = e.salt
	}
	if e.settings.Salt == "" {
		e.settings.Salt = e.settings.Name
	}
	e.state = StateSetUp
}

func (e *Experiment) finalize() error {
	if e.state == StateParamsReady {
		return e.err
	}
	e.setUp()

	a := assignment.New(e.settings.Salt)
	a.SetOverrides(e.def.Overrides.Merge(e.overrides))

	var err error
	if e.def.Assign != nil {
		err = e.def.Assign(a, e.inputs)
	}
	e.state = StateAssigned

	if err == nil {
		e.params, err = a.Params()
	}
	e.state = StateParamsReady

	if err != nil {
		e.err = fmt.Errorf("experiment %s: %w", e.settings.Name, err)
		e.diag.Debug("assignment failed", "experiment", e.settings.Name, "err", err)
		return e.err
	}
	e.diag.Debug("params ready",
		"experiment", e.settings.Name,
		"params", len(e.params),
		"evaluations", a.Evaluations(),
	)
	return nil
}

func (e *Experiment) logExposure(extras map[string]any) {
	key := fingerprint.Exposure(e.settings.Name, e.inputs, e.params)
	if _, done := e.exposed[key]; done {
		return
	}
	e.exposed[key] = struct{}{}
	e.emit(e.record(exposure.EventExposure, exposure.ID(key), extras))
}

func (e *Experiment) record(event string, id uuid.UUID, extras map[string]any) exposure.Record {
	return exposure.Record{
		ID:         id,
		Event:      event,
		Experiment: e.settings.Name,
		Salt:       e.settings.Salt,
		Inputs:     e.Inputs(),
		Params:     e.params.Clone(),
		Extras:     extras,
		Level:      e.settings.LogLevel,
		Time:       e.clock.Now(),
	}
}

// emit hands the record to the logger. Failures never reach the caller.
func (e *Experiment) emit(rec exposure.Record) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("exposure logger panic: %v", r)
			}
		}()
		return e.logger.Log(rec)
	}()
	if err == nil {
		return
	}
	e.diag.Warn("exposure log failed",
		"experiment", rec.Experiment,
		"event", rec.Event,
		"id", rec.ID.String(),
		"err", err,
	)
	if e.onLogError != nil {
		e.onLogError(err)
	}
}
