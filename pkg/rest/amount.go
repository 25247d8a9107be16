package rest

import (
	"bytes"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a money or ratio value. Decoding never fails: null, empty,
// non-numeric and negative input all read as zero, the way the intake
// spreadsheet treats a blank cell.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	a.Decimal = parseAmount(data)
	return nil
}

func parseAmount(data []byte) decimal.Decimal {
	s := string(bytes.TrimSpace(data))
	s = strings.Trim(s, `"`)
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)

	if s == "" || s == "null" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}

	return d
}

const dateLayout = time.DateOnly

// Date is a calendar day in YYYY-MM-DD form.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}

	d.Time = t

	return nil
}
