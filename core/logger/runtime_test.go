package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsControlRunes(t *testing.T) {
	assert.Equal(t, "hello world", Sanitize("hel\x00lo\x1b world\x7f"))
	assert.Equal(t, "a\tb\nc", Sanitize("a\tb\nc"))
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "abc", SanitizeLimit("abcdef", 3))
	assert.Equal(t, "", SanitizeLimit("abcdef", 0))
	assert.Equal(t, "abc", SanitizeLimit("abc", 10))
}

func TestBuildRID(t *testing.T) {
	assert.Equal(t, "7:42:13", BuildRID(7, 42, 13))
}

func TestRoundMS(t *testing.T) {
	assert.Equal(t, time.Duration(0), RoundMS(-time.Second))
	assert.Equal(t, 12*time.Millisecond, RoundMS(12*time.Millisecond+300*time.Microsecond))
}

func TestSummarizeStrings(t *testing.T) {
	joined, truncated := SummarizeStrings([]string{"a", "b", "c"}, 2)
	assert.Equal(t, "a, b", joined)
	assert.True(t, truncated)

	joined, truncated = SummarizeStrings([]string{"a"}, 2)
	assert.Equal(t, "a", joined)
	assert.False(t, truncated)
}
