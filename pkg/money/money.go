// Package money provides currency-safe financial arithmetic using integer
// stotinki and the Fowler Money pattern. Bid amounts are Bulgarian lev
// unless a document says otherwise.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	BGN = "BGN" // Bulgarian Lev
	EUR = "EUR" // Euro
	USD = "USD" // US Dollar
)

// StandardVATRate is the Bulgarian VAT rate applied to procurement bids.
var StandardVATRate = decimal.NewFromFloat(0.20)

// Money represents a monetary value with currency.
// It wraps go-money for safe arithmetic and shopspring/decimal for precision.
type Money struct {
	m *money.Money
}

// New creates a new Money value from minor units and currency code.
func New(amountMinor int64, currencyCode string) *Money {
	return &Money{
		m: money.New(amountMinor, currencyCode),
	}
}

// NewFromDecimal creates Money from a decimal.Decimal value.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(BGN)
	}

	multiplier := decimal.New(1, int32(currency.Fraction))
	minor := amount.Mul(multiplier).Round(0).IntPart()

	return New(minor, currencyCode)
}

// NewFromString parses a European-format amount: "." groups thousands,
// "," separates decimals, as in "2.000,00".
func NewFromString(amount string, currencyCode string) (*Money, error) {
	amount = strings.TrimSpace(amount)
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, "лв.", "")
	amount = strings.ReplaceAll(amount, ".", "")
	amount = strings.ReplaceAll(amount, ",", ".")

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	return NewFromDecimal(d, currencyCode), nil
}

// Zero returns a zero Money value for the given currency
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Amount returns the amount in minor units
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 currency code
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

// IsZero returns true if the amount is zero
func (m *Money) IsZero() bool {
	return m.Amount() == 0
}

// Add returns the sum, or an error on currency mismatch.
func (m *Money) Add(other *Money) (*Money, error) {
	if !m.SameCurrency(other) {
		return nil, errors.New("currency mismatch")
	}
	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Subtract returns the difference, or an error on currency mismatch.
func (m *Money) Subtract(other *Money) (*Money, error) {
	if !m.SameCurrency(other) {
		return nil, errors.New("currency mismatch")
	}
	result, err := m.m.Subtract(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Equals reports amount and currency equality.
func (m *Money) Equals(other *Money) bool {
	if m == nil || other == nil {
		return m == other
	}
	eq, err := m.m.Equals(other.m)
	return err == nil && eq
}

// SameCurrency reports whether both values carry the same currency.
func (m *Money) SameCurrency(other *Money) bool {
	if m == nil || other == nil || m.m == nil || other.m == nil {
		return false
	}
	return m.m.SameCurrency(other.m)
}

// WithinTolerance reports whether the absolute difference to other is at
// most tolerance minor units. Scanned documents lose a stotinka to
// rounding now and then, so exact equality is too strict for
// consistency checks.
func (m *Money) WithinTolerance(other *Money, tolerance int64) bool {
	if !m.SameCurrency(other) {
		return false
	}
	diff := m.Amount() - other.Amount()
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// MultiplyDecimal scales the amount by an arbitrary decimal factor,
// rounding to the currency's minor unit.
func (m *Money) MultiplyDecimal(factor decimal.Decimal) *Money {
	return NewFromDecimal(m.ToDecimal().Mul(factor), m.Currency())
}

// VAT returns the value-added tax on this net amount at the given rate.
func (m *Money) VAT(rate decimal.Decimal) *Money {
	return m.MultiplyDecimal(rate)
}

// WithVAT returns the gross amount: net plus VAT at the given rate.
func (m *Money) WithVAT(rate decimal.Decimal) *Money {
	return m.MultiplyDecimal(decimal.NewFromInt(1).Add(rate))
}

// ToDecimal converts to a decimal in major units.
func (m *Money) ToDecimal() decimal.Decimal {
	currency := money.GetCurrency(m.Currency())
	fraction := 2
	if currency != nil {
		fraction = currency.Fraction
	}
	return decimal.New(m.Amount(), -int32(fraction))
}

// Display formats the amount with its currency symbol.
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Display()
}

// String implements fmt.Stringer.
func (m *Money) String() string {
	return m.Display()
}

type moneyJSON struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// MarshalJSON implements json.Marshaler.
func (m *Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.Amount(), Currency: m.Currency()})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.m = money.New(raw.Amount, raw.Currency)
	return nil
}

// Scan implements sql.Scanner; amounts are stored as minor-unit integers.
func (m *Money) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		m.m = money.New(v, BGN)
		return nil
	case nil:
		m.m = money.New(0, BGN)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
}

// Value implements driver.Valuer.
func (m *Money) Value() (driver.Value, error) {
	return m.Amount(), nil
}
