package fingerprint

import (
	"fmt"
	"github.com/Borislavv/go-ash-split/model"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

// TestExposure_Deterministic verifies equal content yields the same key.
func TestExposure_Deterministic(t *testing.T) {
	in := model.Inputs{model.In("userid", 42)}
	k1 := Exposure("test_name", in, model.Params{"foo": "b", "bar": 42})
	k2 := Exposure("test_name", in, model.Params{"bar": 42, "foo": "b"})

	require.True(t, k1.IsTheSame(k2))
	require.Equal(t, k1.String(), k2.String())
	require.Len(t, k1.String(), 32)
}

// TestExposure_DistinguishesContent verifies any change of content changes the key.
func TestExposure_DistinguishesContent(t *testing.T) {
	base := Exposure("exp", model.Inputs{model.In("userid", 42)}, model.Params{"foo": "b"})

	variants := []model.Key{
		Exposure("exp2", model.Inputs{model.In("userid", 42)}, model.Params{"foo": "b"}),
		Exposure("exp", model.Inputs{model.In("userid", 43)}, model.Params{"foo": "b"}),
		Exposure("exp", model.Inputs{model.In("userid", "42")}, model.Params{"foo": "b"}),
		Exposure("exp", model.Inputs{model.In("userid", 42)}, model.Params{"foo": "a"}),
		Exposure("exp", model.Inputs{model.In("userid", 42)}, model.Params{"foo": "b", "bar": 1}),
		Exposure("exp", model.Inputs{model.In("user", 42)}, model.Params{"foo": "b"}),
	}
	for i, k := range variants {
		require.False(t, base.IsTheSame(k), "variant %d collides", i)
	}
}

// TestExposure_SliceValues verifies sequence params are part of the key.
func TestExposure_SliceValues(t *testing.T) {
	in := model.Inputs{model.In("userid", 1)}
	a := Exposure("exp", in, model.Params{"s": []any{1, 2}})
	b := Exposure("exp", in, model.Params{"s": []any{2, 1}})
	require.False(t, a.IsTheSame(b))
}

// TestExposure_ConcurrentCallsIndependent verifies parallel hashing shares no state.
func TestExposure_ConcurrentCallsIndependent(t *testing.T) {
	const n = 64
	want := make([]model.Key, n)
	for i := range want {
		want[i] = Exposure(fmt.Sprintf("exp-%d", i), model.Inputs{model.In("userid", i)}, model.Params{"foo": i})
	}

	got := make([]model.Key, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Exposure(fmt.Sprintf("exp-%d", i), model.Inputs{model.In("userid", i)}, model.Params{"foo": i})
		}(i)
	}
	wg.Wait()

	for i := range want {
		require.True(t, want[i].IsTheSame(got[i]), "key %d", i)
	}
}
