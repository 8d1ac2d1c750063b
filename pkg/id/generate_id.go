package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewContractNumber returns a human-referenceable contract number dated in
// UTC, e.g. "CTR-20260301-4F1A9C2B".
func NewContractNumber(at time.Time) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("CTR-%s-%s", at.UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(b)))
}
