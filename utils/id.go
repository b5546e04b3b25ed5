package utils

import (
	"math/rand"
	"strconv"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateID returns an opaque identifier: the current millisecond clock
// in base36 plus a random base36 suffix. Matches the id format already
// present in stored documents; collision probability is treated as
// negligible.
func GenerateID() string {
	prefix := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := make([]byte, 11)
	for i := range suffix {
		suffix[i] = base36[rand.Intn(len(base36))]
	}
	return prefix + string(suffix)
}
