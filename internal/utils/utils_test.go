package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_StringWithCharset(t *testing.T) {
	str, err := StringWithCharset(16, DefaultCharset)
	require.NoError(t, err)
	assert.Len(t, str, 16)
	for _, c := range str {
		assert.Contains(t, DefaultCharset, string(c))
	}

	empty, err := StringWithCharset(0, DefaultCharset)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func Test_RandomNumericCode(t *testing.T) {
	code, err := RandomNumericCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.GreaterOrEqual(t, c, '0')
		assert.LessOrEqual(t, c, '9')
	}
}

func Test_TruncateString(t *testing.T) {
	testCases := []struct {
		name           string
		str            string
		boundaryLength int
		want           string
	}{
		{"short string untouched", "abc", 3, "abc"},
		{"long string truncated", "abcdefghij", 3, "abc...hij"},
		{"negative boundary", "abcdef", -1, "..."},
		{"exact double boundary", "abcdef", 3, "abcdef"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TruncateString(tc.str, tc.boundaryLength))
		})
	}
}

func Test_Humanize(t *testing.T) {
	assert.Equal(t, "", Humanize(nil))
	assert.Equal(t, "a", Humanize([]string{"a"}))
	assert.Equal(t, "a and b", Humanize([]string{"a", "b"}))
	assert.Equal(t, "a, b and c", Humanize([]string{"a", "b", "c"}))
}
