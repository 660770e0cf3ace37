package x402

import (
	"math/big"
	"strings"
)

// ParseAmount parses a positive decimal amount string.
func ParseAmount(amount string) (*big.Rat, error) {
	if amount == "" {
		return nil, NewValidationError("amount is required")
	}
	rat, ok := new(big.Rat).SetString(amount)
	if !ok || strings.ContainsAny(amount, "/eE") {
		return nil, NewValidationError("amount %q is not a valid decimal", amount)
	}
	if rat.Sign() <= 0 {
		return nil, NewValidationError("amount must be greater than zero, got %q", amount)
	}
	return rat, nil
}

// ParseUnits converts a decimal amount into token base units. Amounts with
// more fractional digits than the token supports are rejected rather than
// rounded.
func ParseUnits(amount string, decimals int) (string, error) {
	rat, err := ParseAmount(amount)
	if err != nil {
		return "", err
	}
	if decimals < 0 || decimals > 77 {
		return "", NewValidationError("token decimals %d out of range", decimals)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled := new(big.Rat).Mul(rat, new(big.Rat).SetInt(scale))
	if !scaled.IsInt() {
		return "", NewValidationError("amount %q has more precision than %d decimals", amount, decimals)
	}
	return scaled.Num().String(), nil
}

// RelayerFee computes the relayer fee for a decimal amount as
// amount * bps / 10000, capped when a cap is configured (empty string
// means no cap). The result is a decimal string in the same units as
// amount.
func RelayerFee(amount string, bps int64, feeCap string) (string, error) {
	rat, err := ParseAmount(amount)
	if err != nil {
		return "", err
	}
	if bps < 0 {
		return "", NewValidationError("fee basis points must not be negative, got %d", bps)
	}

	fee := new(big.Rat).Mul(rat, big.NewRat(bps, 10000))

	if feeCap != "" {
		capRat, capErr := ParseAmount(feeCap)
		if capErr != nil {
			return "", NewValidationError("fee cap %q is not a valid decimal", feeCap)
		}
		if fee.Cmp(capRat) > 0 {
			fee = capRat
		}
	}

	return formatRat(fee), nil
}

// formatRat renders a rational with a power-of-ten denominator as a plain
// decimal string without trailing zeros.
func formatRat(rat *big.Rat) string {
	if rat.IsInt() {
		return rat.Num().String()
	}
	s := rat.FloatString(18)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}
