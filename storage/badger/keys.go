package badger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/termdex/core"
)

// Key prefixes for different data types
const (
	termRecordPrefix = "trmrec"
)

// makeTermKey generates a key for a custom term record by ID.
func makeTermKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", termRecordPrefix, id))
}

// termKeyPrefix returns the iteration prefix covering all term records.
func termKeyPrefix() []byte {
	return []byte(termRecordPrefix + ":")
}

// parseTermKey extracts the term ID from a record key.
func parseTermKey(key []byte) (core.ID, error) {
	s, ok := strings.CutPrefix(string(key), termRecordPrefix+":")
	if !ok {
		return 0, fmt.Errorf("not a term key: %q", key)
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed term key %q: %w", key, err)
	}
	return core.ID(id), nil
}
