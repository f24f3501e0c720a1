package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic puzzle seed for a date and difficulty using
// HMAC(salt, "YYYY-MM-DD|difficulty"). Everyone playing the same day and
// difficulty gets the same puzzle.
func Seed(date time.Time, salt, difficulty string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date) + "|" + difficulty))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}
