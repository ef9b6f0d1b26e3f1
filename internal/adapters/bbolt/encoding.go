// Key encoding for history entries.
//
// Keys sort chronologically so a cursor walking backwards yields newest first:
//
//	createdAt: int64 unix nanoseconds, big-endian
//	id:        [16]byte UUID
package bbolt

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// keySize is the byte size of an encoded history key.
const keySize = 8 + 16

// encodeKey builds the bucket key for an entry.
func encodeKey(createdAt time.Time, id string) ([]byte, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("history id %q: %w", id, err)
	}
	key := make([]byte, keySize)
	binary.BigEndian.PutUint64(key[:8], uint64(createdAt.UnixNano()))
	copy(key[8:], u[:])
	return key, nil
}

// decodeKey is the inverse of encodeKey.
func decodeKey(key []byte) (time.Time, string, error) {
	if len(key) != keySize {
		return time.Time{}, "", fmt.Errorf("history key: want %d bytes, got %d", keySize, len(key))
	}
	nanos := int64(binary.BigEndian.Uint64(key[:8]))
	u, err := uuid.FromBytes(key[8:])
	if err != nil {
		return time.Time{}, "", err
	}
	return time.Unix(0, nanos), u.String(), nil
}
