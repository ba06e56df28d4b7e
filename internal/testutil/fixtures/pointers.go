// Package fixtures provides BlueSnap test documents and helpers.
package fixtures

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// StringPtr returns a pointer to the given string.
func StringPtr(s string) *string {
	return &s
}

// TimePtr returns a pointer to the given time.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// Reference returns a random all-digit id shaped like BlueSnap's invoice,
// shopper and subscription ids.
func Reference() string {
	id := uuid.New()
	n := binary.BigEndian.Uint32(id[:4])%90000000 + 10000000
	return strconv.FormatUint(uint64(n), 10)
}
