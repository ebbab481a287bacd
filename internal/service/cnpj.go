package service

import "strings"

// NormalizeCNPJ strips punctuation from a CNPJ, keeping digits only.
func NormalizeCNPJ(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCNPJ checks the 14-digit CNPJ checksum.
func ValidateCNPJ(raw string) error {
	digits := NormalizeCNPJ(raw)
	if len(digits) != 14 {
		return ErrCNPJInvalid
	}
	if allSameDigit(digits) {
		return ErrCNPJInvalid
	}

	if cnpjCheckDigit(digits[:12]) != int(digits[12]-'0') {
		return ErrCNPJInvalid
	}
	if cnpjCheckDigit(digits[:13]) != int(digits[13]-'0') {
		return ErrCNPJInvalid
	}
	return nil
}

// cnpjCheckDigit computes the verifier digit for a 12 or 13 digit prefix,
// per the Receita Federal modulus 11 scheme.
func cnpjCheckDigit(prefix string) int {
	weight := len(prefix) - 7
	sum := 0
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
