package totp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Секрет из RFC 6238: "12345678901234567890" в base32.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func at(sec int64) func() time.Time {
	return func() time.Time { return time.Unix(sec, 0).UTC() }
}

func TestCodeRFCVectors(t *testing.T) {
	cases := []struct {
		at   int64
		want string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1234567890, "005924"},
	}
	for _, tc := range cases {
		code, err := NewAt(at(tc.at)).Code(rfcSecret)
		require.NoError(t, err)
		assert.Equal(t, tc.want, code, "t=%d", tc.at)
	}
}

func TestCodeNormalisesSecret(t *testing.T) {
	g := NewAt(at(59))

	code, err := g.Code("  gezd gnbv gy3t qojq gezd gnbv gy3t qojq ")
	require.NoError(t, err)
	assert.Equal(t, "287082", code)
}

func TestCodeFromURI(t *testing.T) {
	g := NewAt(at(59))

	code, err := g.Code("otpauth://totp/Example:jane@example.com?secret=" + rfcSecret + "&issuer=Example&digits=8&period=30")
	require.NoError(t, err)
	assert.Equal(t, "94287082", code)
}

func TestCodeErrors(t *testing.T) {
	g := NewAt(at(59))

	_, err := g.Code("   ")
	assert.Error(t, err)

	_, err = g.Code("not base32 !!!")
	assert.Error(t, err)
}

func TestCodeChangesWithPeriod(t *testing.T) {
	first, err := NewAt(at(59)).Code(rfcSecret)
	require.NoError(t, err)
	second, err := NewAt(at(89)).Code(rfcSecret)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, second, 6)
}
