// Package schedule holds the installment arithmetic shared by loan creation
// and card-term updates. Everything is integer ceiling division; currency has
// no fractional units in this system.
package schedule

import (
	"fmt"

	"github.com/jdrojas/cobranza_app/internal/core/domain"
)

// CeilDiv returns ceil(a/b) for positive integers.
func CeilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

// Derive computes the installment count and amount for a loan.
// installmentCount = ceil(termDays / frequencyDivisor)
// installment      = ceil(principal / installmentCount)
func Derive(principal int64, termDays int, frequency domain.PaymentFrequency) (domain.LoanTerms, error) {
	if principal <= 0 {
		return domain.LoanTerms{}, fmt.Errorf("principal must be positive, got %d", principal)
	}
	if termDays <= 0 {
		return domain.LoanTerms{}, fmt.Errorf("term must be positive, got %d days", termDays)
	}
	if !frequency.Valid() {
		return domain.LoanTerms{}, fmt.Errorf("unknown payment frequency %q", frequency)
	}

	divisor := frequency.Divisor()
	count := CeilDiv(int64(termDays), divisor)

	return domain.LoanTerms{
		Frequency:        frequency,
		FrequencyDays:    divisor,
		InstallmentCount: int(count),
		Installment:      CeilDiv(principal, count),
	}, nil
}
