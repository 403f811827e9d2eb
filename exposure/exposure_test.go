package exposure

import (
	"bytes"
	"encoding/json"
	"errors"
	"github.com/Borislavv/go-ash-split/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func record() Record {
	return Record{
		ID:         ID(model.NewKey(1, 2)),
		Event:      EventExposure,
		Experiment: "test_name",
		Salt:       "test_name",
		Inputs:     model.Inputs{model.In("userid", 42)},
		Params:     model.Params{"foo": "b", "bar": 42},
		Extras:     map[string]any{"source": "test"},
		Level:      slog.LevelDebug,
		Time:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// TestID_StablePerKey verifies exposure IDs depend only on the content key.
func TestID_StablePerKey(t *testing.T) {
	require.Equal(t, ID(model.NewKey(1, 2)), ID(model.NewKey(1, 2)))
	require.NotEqual(t, ID(model.NewKey(1, 2)), ID(model.NewKey(2, 1)))
	require.NotEqual(t, EventID(), EventID())
}

// TestSlog_WritesStructuredRecord verifies the slog collaborator output.
func TestSlog_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	require.NoError(t, NewSlog(logger).Log(record()))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, "DEBUG", out["level"])
	require.Equal(t, EventExposure, out["msg"])
	require.Equal(t, "test_name", out["experiment"])
	require.Equal(t, map[string]any{"foo": "b", "bar": float64(42)}, out["params"])
	require.Equal(t, map[string]any{"userid": float64(42)}, out["inputs"])
	require.Equal(t, map[string]any{"source": "test"}, out["extras"])
}

// TestSlog_RespectsLevel verifies records below the handler level are dropped.
func TestSlog_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	require.NoError(t, NewSlog(logger).Log(record()))
	require.Zero(t, buf.Len())
}

// TestZerolog_WritesStructuredRecord verifies the zerolog collaborator output.
func TestZerolog_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	rec := record()
	rec.Level = slog.LevelWarn

	require.NoError(t, NewZerolog(zerolog.New(&buf)).Log(rec))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, "warn", out["level"])
	require.Equal(t, EventExposure, out["message"])
	require.Equal(t, rec.ID.String(), out["id"])
	require.Equal(t, map[string]any{"foo": "b", "bar": float64(42)}, out["params"])
}

// TestZerologLevel_Mapping verifies slog levels map onto zerolog levels.
func TestZerologLevel_Mapping(t *testing.T) {
	tests := []struct {
		in       slog.Level
		expected zerolog.Level
	}{
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelDebug - 4, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			require.Equal(t, tt.expected, zerologLevel(tt.in))
		})
	}
}

// TestMemory_RecordsAndFails verifies the in-memory collaborator.
func TestMemory_RecordsAndFails(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Log(record()))
	require.Equal(t, 1, m.Len())

	boom := errors.New("boom")
	m.FailWith(boom)
	require.ErrorIs(t, m.Log(record()), boom)
	require.Equal(t, 1, m.Len())

	m.FailWith(nil)
	require.NoError(t, m.Log(record()))
	require.Len(t, m.Records(), 2)

	m.Reset()
	require.Zero(t, m.Len())
}

// TestMemory_Concurrent verifies the in-memory collaborator is thread-safe.
func TestMemory_Concurrent(t *testing.T) {
	const numGoroutines = 10
	const callsPerGoroutine = 100

	m := NewMemory()
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				_ = m.Log(record())
			}
		}()
	}
	wg.Wait()

	require.Equal(t, numGoroutines*callsPerGoroutine, m.Len())
}

// TestNoOp_Log verifies NoOp accepts everything.
func TestNoOp_Log(t *testing.T) {
	require.NoError(t, NoOp{}.Log(record()))
}

// TestMetered_CountsOutcomes verifies success and failure counters.
func TestMetered_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	mem := NewMemory()
	m, err := NewMetered(mem, reg)
	require.NoError(t, err)

	require.NoError(t, m.Log(record()))
	require.NoError(t, m.Log(record()))
	mem.FailWith(errors.New("down"))
	require.Error(t, m.Log(record()))

	require.Equal(t, 2.0, testutil.ToFloat64(m.logged.WithLabelValues("test_name", EventExposure)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.failed.WithLabelValues("test_name", EventExposure)))

	_, err = NewMetered(mem, reg)
	require.Error(t, err, "second registration on the same registry must fail")
}

// TestLoggerFunc_Adapts verifies the function adapter.
func TestLoggerFunc_Adapts(t *testing.T) {
	var got Record
	var l Logger = LoggerFunc(func(rec Record) error {
		got = rec
		return nil
	})
	require.NoError(t, l.Log(record()))
	require.Equal(t, "test_name", got.Experiment)
}
