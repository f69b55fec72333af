package transform

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// NaNAmount marks an amount that was missing or could not be parsed.
// face_amount is NOT NULL, so the marker is stored as numeric 'NaN'.
var NaNAmount = pgtype.Numeric{NaN: true, Valid: true}

// ParseAmount converts cell text to an exact numeric value. Plain decimals and
// exponent notation are accepted, as are nan and inf. Anything else, including
// thousands separators and currency signs, yields NaNAmount and false.
func ParseAmount(t pgtype.Text) (pgtype.Numeric, bool) {
	if !t.Valid {
		return NaNAmount, false
	}
	s := t.String
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return NaNAmount, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRange(err) {
		return NaNAmount, false
	}
	switch {
	case math.IsNaN(f):
		return NaNAmount, true
	case math.IsInf(f, 1) && err == nil:
		return pgtype.Numeric{InfinityModifier: pgtype.Infinity, Valid: true}, true
	case math.IsInf(f, -1) && err == nil:
		return pgtype.Numeric{InfinityModifier: pgtype.NegativeInfinity, Valid: true}, true
	}

	return decimal(s)
}

func isRange(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

// decimal converts a validated decimal literal to digits and a base-10 exponent
// without going through float64.
func decimal(s string) (pgtype.Numeric, bool) {
	mantissa, exp := s, int64(0)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.ParseInt(s[i+1:], 10, 32)
		if err != nil {
			return NaNAmount, false
		}
		mantissa, exp = s[:i], e
	}
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		exp -= int64(len(mantissa) - i - 1)
		mantissa = mantissa[:i] + mantissa[i+1:]
	}
	if exp < math.MinInt32 || exp > math.MaxInt32 {
		return NaNAmount, false
	}

	n, ok := new(big.Int).SetString(mantissa, 10)
	if !ok {
		return NaNAmount, false
	}
	return pgtype.Numeric{Int: n, Exp: int32(exp), Valid: true}, true
}
