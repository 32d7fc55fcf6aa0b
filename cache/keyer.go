package cache

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Key accumulates an arbitrary sequence of parts into a deterministic cache
// key. Two keys built from the same parts in the same order are equal; map
// iteration order never influences the result because composite parts are
// canonicalized before hashing.
//
// Keys are identity material, not security material, so the digest is
// xxhash, not a cryptographic hash.
type Key struct {
	hash     uint64
	checksum uint64
	count    int
}

// NewKey creates a key from the given parts.
func NewKey(parts ...any) (*Key, error) {
	k := &Key{}
	for _, part := range parts {
		if err := k.Update(part); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// Update folds one more part into the key.
func (k *Key) Update(part any) error {
	canonical, err := canonicalize(part)
	if err != nil {
		return fmt.Errorf("cache: failed to canonicalize key part: %w", err)
	}
	digest := xxhash.Sum64(canonical)
	k.count++
	k.checksum += digest
	k.hash = k.hash*37 + digest
	return nil
}

// Clone returns an independent copy that can diverge with further Updates.
func (k *Key) Clone() *Key {
	clone := *k
	return &clone
}

// Equal reports whether both keys accumulated the same parts.
func (k *Key) Equal(other *Key) bool {
	if other == nil {
		return false
	}
	return k.count == other.count && k.checksum == other.checksum && k.hash == other.hash
}

// String renders the key in the form <count>:<hash>:<checksum>, suitable as
// a Cache key.
func (k *Key) String() string {
	return strconv.Itoa(k.count) + ":" +
		strconv.FormatUint(k.hash, 16) + ":" +
		strconv.FormatUint(k.checksum, 16)
}

// canonicalize produces a deterministic byte representation of a part.
// Maps are sorted by key so iteration order cannot change the digest.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')
		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')
	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}
		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')
	return result, nil
}
