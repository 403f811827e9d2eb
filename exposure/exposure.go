package exposure

import (
	"github.com/Borislavv/go-ash-split/model"
	"github.com/google/uuid"
	"log/slog"
	"time"
)

// EventExposure is the event name of automatic and explicit exposure records.
const EventExposure = "exposure"

// Record is one logged event of a subject in an experiment.
type Record struct {
	// ID is stable for exposures: equal content always yields the same ID.
	ID         uuid.UUID
	Event      string
	Experiment string
	Salt       string
	Inputs     model.Inputs
	Params     model.Params
	Extras     map[string]any
	Level      slog.Level
	Time       time.Time
}

// Logger receives records. Errors are reported back to the experiment, which
// never lets them fail an assignment.
type Logger interface {
	Log(rec Record) error
}

// LoggerFunc adapts a plain function to Logger.
type LoggerFunc func(rec Record) error

func (f LoggerFunc) Log(rec Record) error { return f(rec) }

var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Borislavv/go-ash-split/exposure"))

// ID derives the record ID of an exposure from its content key.
func ID(key model.Key) uuid.UUID {
	return uuid.NewSHA1(idSpace, key.Bytes())
}

// EventID returns a random ID for custom events, which are not deduplicated.
func EventID() uuid.UUID {
	return uuid.New()
}
