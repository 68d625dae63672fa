package util

import (
	"fmt"
	"strings"
)

// CloneSlice clones src. cloneSize sets the length of the clone; 0 means
// len(src).
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

// HexTokens renders each byte of data as a two-digit upper-case hex token.
func HexTokens(data []byte) []string {
	tokens := make([]string, len(data))
	for i, b := range data {
		tokens[i] = fmt.Sprintf("%02X", b)
	}

	return tokens
}

// HexString renders data as space separated hex tokens, e.g. "7E 05 13".
func HexString(data []byte) string {
	return strings.Join(HexTokens(data), " ")
}
