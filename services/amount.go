package services

import (
	"math/big"
	"strings"

	"github.com/stellar/go/amount"
	"github.com/stellar/go/xdr"

	"github.com/stellarpay/wallet-core/models"
)

// stroopScale is the number of smallest units per whole token:
// native amounts carry exactly 7 fractional digits.
const stroopScale = 7

// ParseNativeAmount converts a user-facing decimal string to stroops.
// The conversion happens exactly once at this boundary; everything past
// it works on int64 stroops. Zero, negative and over-precise inputs
// are validation failures.
func ParseNativeAmount(s string) (int64, error) {
	v, err := amount.ParseInt64(s)
	if err != nil {
		return 0, &models.ValidationError{Field: "amount", Reason: "must be a decimal with at most 7 fractional digits"}
	}
	if v <= 0 {
		return 0, &models.ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	return v, nil
}

// FormatNativeAmount renders stroops as a 7-decimal string.
func FormatNativeAmount(stroops int64) string {
	return amount.StringFromInt64(stroops)
}

// scaledI128 converts a decimal token string to the ledger's signed
// 128-bit representation at 10_000_000 units per whole token. Digits
// beyond the scale are truncated, not rounded.
func scaledI128(s string) (xdr.Int128Parts, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg || strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return xdr.Int128Parts{}, &models.ValidationError{Field: "amount", Reason: "must be a decimal number"}
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > stroopScale {
		fracPart = fracPart[:stroopScale]
	}
	fracPart += strings.Repeat("0", stroopScale-len(fracPart))

	v, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return xdr.Int128Parts{}, &models.ValidationError{Field: "amount", Reason: "must be a decimal number"}
	}
	if neg {
		v.Neg(v)
	}

	return bigToI128(v)
}

// i128ToDecimal is the inverse of scaledI128: a stroop-scaled signed
// 128-bit value rendered as a 7-decimal token string.
func i128ToDecimal(parts xdr.Int128Parts) string {
	v := big.NewInt(int64(parts.Hi))
	v.Lsh(v, 64)
	v.Add(v, new(big.Int).SetUint64(uint64(parts.Lo)))

	neg := v.Sign() < 0
	v.Abs(v)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(stroopScale), nil)
	quo, rem := new(big.Int).QuoRem(v, scale, new(big.Int))

	frac := rem.String()
	frac = strings.Repeat("0", stroopScale-len(frac)) + frac
	s := quo.String() + "." + frac
	if neg {
		return "-" + s
	}
	return s
}

var i128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
var i128Min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))

func bigToI128(v *big.Int) (xdr.Int128Parts, error) {
	if v.Cmp(i128Max) > 0 || v.Cmp(i128Min) < 0 {
		return xdr.Int128Parts{}, &models.ValidationError{Field: "amount", Reason: "exceeds 128-bit range"}
	}
	// Two's complement split into hi/lo 64-bit halves.
	tc := new(big.Int).And(v, new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))
	lo := new(big.Int).And(tc, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(tc, 64)
	return xdr.Int128Parts{
		Hi: xdr.Int64(int64(hi.Uint64())),
		Lo: xdr.Uint64(lo.Uint64()),
	}, nil
}
