package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp_ISO8601(t *testing.T) {
	ts, err := ParseTimestamp("2008-02-28T10:41:03Z")

	require.NoError(t, err)
	assert.Equal(t, int64(1204195263), ts)
}

func TestParseTimestamp_SpaceSeparatedOffset(t *testing.T) {
	ts, err := ParseTimestamp("2008-02-28 02:41:03 -0800")

	require.NoError(t, err)
	assert.Equal(t, int64(1204195263), ts)
}

func TestParseTimestamp_SlashSeparatedOffset(t *testing.T) {
	ts, err := ParseTimestamp("2008/02/28 02:41:03 -0800")

	require.NoError(t, err)
	assert.Equal(t, int64(1204195263), ts)
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2008-28-02T10:41:03Z"} {
		_, err := ParseTimestamp(input)
		assert.Error(t, err, "input %q", input)
	}
}
