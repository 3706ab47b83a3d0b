package utils

import (
	"fmt"
	"math/big"
	"strings"
)

// FormatBigInt converts a smallest-unit amount to a human-readable decimal
// string for the given number of decimals.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) (string, error) {
	if amount == nil {
		return "0.0", nil
	}

	if decimals == 0 {
		return amount.String(), nil
	}

	amountFloat := new(big.Float).SetInt(amount)
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	value := new(big.Float).Quo(amountFloat, divisor)

	// Render with full precision, then trim trailing zeros so "1.2000" becomes "1.2".
	formattedStr := value.Text('f', int(decimals))
	if strings.Contains(formattedStr, ".") {
		formattedStr = strings.TrimRight(formattedStr, "0")
		formattedStr = strings.TrimRight(formattedStr, ".")
	}
	if strings.HasPrefix(formattedStr, ".") {
		formattedStr = "0" + formattedStr
	}
	if formattedStr == "" {
		if amount.Sign() == 0 {
			return "0", nil
		}
		return value.Text('f', 2), fmt.Errorf("formatting resulted in empty string for non-zero value")
	}

	return formattedStr, nil
}

// ParseBigInt parses a non-negative base-10 integer string. Sign prefixes,
// whitespace, decimal points and any non-digit characters are rejected.
func ParseBigInt(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, false
		}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return v, true
}

// CalculateValueUSD converts a smallest-unit amount into its USD value at the
// given unit price.
func CalculateValueUSD(amount *big.Int, decimals uint8, priceUSD float64) (float64, error) {
	if amount == nil {
		return 0, nil
	}
	if priceUSD < 0 {
		return 0, fmt.Errorf("negative price %f", priceUSD)
	}

	amountFloat := new(big.Float).SetInt(amount)
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	units := new(big.Float).Quo(amountFloat, divisor)
	value := new(big.Float).Mul(units, big.NewFloat(priceUSD))

	out, _ := value.Float64()
	return out, nil
}
