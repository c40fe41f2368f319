package shared

import "errors"

var (
	ErrCurrencyMismatch = errors.New("cannot combine money values with different currencies")
	ErrAmountOverflow   = errors.New("money amount overflow")
)

// Money value object. Amounts are stored in minor currency units (cents).
type Money struct {
	amount   int64
	currency string
}

// NewMoney creates a Money value from minor units.
func NewMoney(amount int64, currency string) Money {
	return Money{amount: amount, currency: currency}
}

// Zero is the additive identity for the given currency.
func Zero(currency string) Money {
	return Money{amount: 0, currency: currency}
}

// Amount returns the amount in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() string {
	return m.currency
}

// Add returns the sum of both amounts.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	sum := m.amount + other.amount
	if (other.amount > 0 && sum < m.amount) || (other.amount < 0 && sum > m.amount) {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// Subtract returns this amount with the other deducted.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// Multiply scales the amount by a non-negative factor, with overflow check.
func (m Money) Multiply(factor int) (Money, error) {
	if factor < 0 {
		return Money{}, errors.New("money multiply factor must not be negative")
	}
	if factor != 0 && m.amount > 0 && m.amount > (1<<62)/int64(factor) {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: m.amount * int64(factor), currency: m.currency}, nil
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// IsGreaterThan compares this amount against another.
func (m Money) IsGreaterThan(other Money) bool {
	return m.amount > other.amount
}

// Equals compares two Money values.
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}
