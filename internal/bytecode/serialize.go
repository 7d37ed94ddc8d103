package bytecode

import (
	"bytes"
	"encoding/gob"
	"io"

	"slate/internal/value"
)

// Save writes fn's on-disk layout (spec §6.1: name, params, local_count,
// constants, bytecode) via encoding/gob. The teacher had no serialization
// path at all for its Chunk type; spec.md doesn't mandate a specific
// on-disk byte format beyond the logical field layout, so gob is used
// directly rather than a hand-rolled binary encoding.
func Save(w io.Writer, fn *value.Function) error {
	return gob.NewEncoder(w).Encode(fn)
}

// Load reads back a Function written by Save.
func Load(r io.Reader) (*value.Function, error) {
	var fn value.Function
	if err := gob.NewDecoder(r).Decode(&fn); err != nil {
		return nil, err
	}
	return &fn, nil
}

// Marshal/Unmarshal are convenience wrappers over Save/Load for callers
// that want an in-memory byte slice rather than a stream.
func Marshal(fn *value.Function) ([]byte, error) {
	var buf bytes.Buffer
	if err := Save(&buf, fn); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Unmarshal(data []byte) (*value.Function, error) {
	return Load(bytes.NewReader(data))
}
