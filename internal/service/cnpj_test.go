package service

import (
	"errors"
	"testing"
)

func TestValidateCNPJAcceptsKnownGood(t *testing.T) {
	valid := []string{
		"11.222.333/0001-81",
		"11222333000181",
		"06.990.590/0001-23", // Google Brasil
		"33.000.167/0001-01", // Petrobras
	}
	for _, cnpj := range valid {
		if err := ValidateCNPJ(cnpj); err != nil {
			t.Fatalf("ValidateCNPJ(%q) = %v, want nil", cnpj, err)
		}
	}
}

func TestValidateCNPJRejectsBadChecksum(t *testing.T) {
	invalid := []string{
		"11.222.333/0001-80",
		"11222333000182",
		"12345678901234",
	}
	for _, cnpj := range invalid {
		if err := ValidateCNPJ(cnpj); !errors.Is(err, ErrCNPJInvalid) {
			t.Fatalf("ValidateCNPJ(%q) = %v, want ErrCNPJInvalid", cnpj, err)
		}
	}
}

func TestValidateCNPJRejectsRepeatedDigits(t *testing.T) {
	if err := ValidateCNPJ("11111111111111"); !errors.Is(err, ErrCNPJInvalid) {
		t.Fatalf("expected ErrCNPJInvalid for repeated digits, got %v", err)
	}
}

func TestValidateCNPJRejectsWrongLength(t *testing.T) {
	for _, cnpj := range []string{"", "123", "112223330001811"} {
		if err := ValidateCNPJ(cnpj); !errors.Is(err, ErrCNPJInvalid) {
			t.Fatalf("ValidateCNPJ(%q) = %v, want ErrCNPJInvalid", cnpj, err)
		}
	}
}

func TestNormalizeCNPJ(t *testing.T) {
	if got := NormalizeCNPJ("11.222.333/0001-81"); got != "11222333000181" {
		t.Fatalf("NormalizeCNPJ = %q", got)
	}
}
