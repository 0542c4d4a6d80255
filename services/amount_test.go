package services

import (
	"testing"

	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarpay/wallet-core/models"
)

func TestParseNativeAmount(t *testing.T) {
	v, err := ParseNativeAmount("25.5")
	require.NoError(t, err)
	assert.Equal(t, int64(255_000_000), v)

	v, err = ParseNativeAmount("0.0000001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	for _, bad := range []string{"0", "-1", "abc", "1.23456789", ""} {
		_, err := ParseNativeAmount(bad)
		var verr *models.ValidationError
		assert.ErrorAs(t, err, &verr, "input %q", bad)
	}
}

func TestFormatNativeAmountRoundTrip(t *testing.T) {
	v, err := ParseNativeAmount("100.0000000")
	require.NoError(t, err)
	assert.Equal(t, "100.0000000", FormatNativeAmount(v))
}

func TestScaledI128Truncates(t *testing.T) {
	// Excess precision is cut, never rounded.
	parts, err := scaledI128("1.23456789")
	require.NoError(t, err)
	assert.Equal(t, xdr.Int128Parts{Hi: 0, Lo: 12_345_678}, parts)

	parts, err = scaledI128("2.5")
	require.NoError(t, err)
	assert.Equal(t, xdr.Int128Parts{Hi: 0, Lo: 25_000_000}, parts)
}

func TestScaledI128Negative(t *testing.T) {
	parts, err := scaledI128("-1")
	require.NoError(t, err)
	assert.Equal(t, xdr.Int64(-1), parts.Hi)
	assert.Equal(t, xdr.Uint64(^uint64(0)-10_000_000+1), parts.Lo)
}

func TestScaledI128Large(t *testing.T) {
	// 2^64 stroops needs the high half.
	parts, err := scaledI128("1844674407370.9551616")
	require.NoError(t, err)
	assert.Equal(t, xdr.Int128Parts{Hi: 1, Lo: 0}, parts)
}

func TestI128ToDecimalRoundTrip(t *testing.T) {
	for in, want := range map[string]string{
		"12.5":                  "12.5000000",
		"-1":                    "-1.0000000",
		"0.0000001":             "0.0000001",
		"1844674407370.9551616": "1844674407370.9551616",
	} {
		parts, err := scaledI128(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, i128ToDecimal(parts), "input %q", in)
	}
}

func TestScaledI128Invalid(t *testing.T) {
	for _, bad := range []string{"", ".", "x", "1.2.3"} {
		_, err := scaledI128(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
