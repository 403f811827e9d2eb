package fingerprint

import (
	"fmt"
	"github.com/Borislavv/go-ash-split/model"
	"github.com/zeebo/xxh3"
	"io"
)

// Exposure returns the key of (experiment, inputs, params). Params are hashed
// in name order so map iteration order never leaks into the key.
func Exposure(experiment string, inputs model.Inputs, params model.Params) model.Key {
	hasher := xxh3.New()

	writeField(hasher, "experiment", experiment)
	for _, in := range inputs {
		writeField(hasher, "input:"+in.Name, in.Value)
	}
	for _, name := range params.Names() {
		writeField(hasher, "param:"+name, params[name])
	}

	u128 := hasher.Sum128()
	return model.NewKey(u128.Hi, u128.Lo)
}

// writeField writes a length-prefixed name=value pair. %#v keeps types apart
// (int 42 vs "42") and prints maps with sorted keys.
func writeField(w io.Writer, name string, value any) {
	v := fmt.Sprintf("%#v", value)
	_, _ = fmt.Fprintf(w, "%d:%s=%d:%s;", len(name), name, len(v), v)
}
