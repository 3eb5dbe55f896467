// Package snapshot serializes and restores the frontier, visited set, and
// fingerprint store (§4.11). Grounded on other_examples' beingsane
// crawler.go gobDB: a thin encoding/gob layer over an embedded key-value
// store, here github.com/syndtr/goleveldb/leveldb rather than the
// teacher's Cassandra (which has no single-process, single-file notion of
// "state", being built for a distributed deployment instead). Format is
// opaque and not promised stable across versions, per §4.11/§6.
package snapshot

import (
	"bytes"
	"encoding/gob"

	"github.com/syndtr/goleveldb/leveldb"
)

// State is everything a snapshot captures, per §3/§4.11.
type State struct {
	Visited     []string
	Frontier    []FrontierEntry
	Fingerprint map[string][]byte
}

// FrontierEntry mirrors frontier.Entry without importing that package, to
// keep snapshot dependency-free of the engine's internal packages.
type FrontierEntry struct {
	URL   string
	Depth int
}

const stateKey = "state"

// Save writes state to the leveldb-backed file at path, overwriting any
// previous snapshot, per "on clean termination, serialize ... to a
// well-known file" (§4.11).
func Save(path string, state State) error {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return err
	}
	return db.Put([]byte(stateKey), buf.Bytes(), nil)
}

// Load reads a previously Saved state from path. It returns
// (State{}, false, nil) if no snapshot exists yet, matching "otherwise
// proceed from the seed URL" (§4.11).
func Load(path string) (State, bool, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return State{}, false, err
	}
	defer db.Close()

	data, err := db.Get([]byte(stateKey), nil)
	if err == leveldb.ErrNotFound {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}

	var state State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return State{}, false, err
	}
	return state, true, nil
}
