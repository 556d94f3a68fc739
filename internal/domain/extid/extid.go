// Package extid implements the external-id identity rules shared by teams,
// players, seasons and games: (source, external_id) is globally unique per
// entity type, and merging unions maps without ever overwriting.
package extid

import (
	"errors"
	"fmt"
	"sort"
)

var ErrConflict = errors.New("external id conflict")

// Union merges src into dst. A source key present in both with different
// values is a hard identity conflict; nothing is mutated in that case.
func Union(dst, src map[string]string) (map[string]string, error) {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for source, externalID := range src {
		if existing, ok := dst[source]; ok && existing != externalID {
			return dst, fmt.Errorf("%w: source %q maps to both %q and %q", ErrConflict, source, existing, externalID)
		}
	}
	out := make(map[string]string, len(dst)+len(src))
	for source, externalID := range dst {
		out[source] = externalID
	}
	for source, externalID := range src {
		out[source] = externalID
	}
	return out, nil
}

func Clone(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Key builds the unique index key for one (source, external id) pair.
func Key(source, externalID string) string {
	return source + "\x1f" + externalID
}

// Sources lists the map's source codes in stable order.
func Sources(in map[string]string) []string {
	out := make([]string, 0, len(in))
	for source := range in {
		out = append(out, source)
	}
	sort.Strings(out)
	return out
}
