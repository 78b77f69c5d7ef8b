package digits

import (
	"context"
	"math/big"

	"github.com/mkoster/pibauhaus/pkg/errors"
)

// guardDigits absorbs truncation error from the arctan series. Each series
// term loses at most one unit in the last place, so the total error stays
// below 10^7 units even at the maximum precision; twelve extra digits leave
// a wide margin.
const guardDigits = 12

// ctxCheckInterval is how many series terms are computed between context
// cancellation checks.
const ctxCheckInterval = 128

// Generate computes the first n decimal digits of pi after the decimal point.
//
// It evaluates Machin's formula pi = 16*atan(1/5) - 4*atan(1/239) in scaled
// integer arithmetic over math/big. Both series shrink geometrically, so the
// cost is a few divisions by small constants per digit. The result is
// bit-identical across runs and platforms.
func Generate(ctx context.Context, n int) (*Stream, error) {
	if n <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidPrecision, "precision must be positive, got %d", n)
	}
	if err := errors.ValidatePrecision(n); err != nil {
		return nil, err
	}

	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n+guardDigits)), nil)

	a5, err := atanInv(ctx, 5, unit)
	if err != nil {
		return nil, err
	}
	a239, err := atanInv(ctx, 239, unit)
	if err != nil {
		return nil, err
	}

	pi := new(big.Int).Mul(a5, big.NewInt(16))
	pi.Sub(pi, new(big.Int).Mul(a239, big.NewInt(4)))

	// pi is now the integer floor of pi * 10^(n+guard): "3" followed by
	// the decimal expansion.
	text := pi.String()
	if len(text) < n+1 || text[0] != '3' {
		return nil, errors.New(errors.ErrCodeGeneration, "pi expansion produced %d digits, need %d", len(text), n+1)
	}

	return FromString(text[1 : n+1])
}

// atanInv computes atan(1/x) * unit using the alternating Gregory series.
// All intermediate values are non-negative; integer division truncates each
// term toward zero.
func atanInv(ctx context.Context, x int64, unit *big.Int) (*big.Int, error) {
	x2 := big.NewInt(x * x)
	term := new(big.Int).Div(unit, big.NewInt(x))
	sum := new(big.Int).Set(term)

	quot := new(big.Int)
	denom := new(big.Int)

	for i, add, steps := int64(3), false, 0; ; i, add, steps = i+2, !add, steps+1 {
		if steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeGeneration, err, "digit generation interrupted")
			}
		}

		term.Div(term, x2)
		if term.Sign() == 0 {
			break
		}

		quot.Div(term, denom.SetInt64(i))
		if add {
			sum.Add(sum, quot)
		} else {
			sum.Sub(sum, quot)
		}
	}

	return sum, nil
}
