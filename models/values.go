// ABOUTME: Wire-tolerant scalar types for values returned by the CiviCRM query engine
// ABOUTME: ID/Count accept numbers or numeric strings, Amount keeps unparseable money text
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ID is a CiviCRM entity id. The query engine emits ids as JSON numbers,
// but joined and option-value columns frequently arrive as strings.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	n, err := parseLooseInt(b)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = ID(n)
	return nil
}

// Count is a non-identifier integer column such as max_participants.
type Count int64

func (c *Count) UnmarshalJSON(b []byte) error {
	n, err := parseLooseInt(b)
	if err != nil {
		return fmt.Errorf("invalid count %s: %w", b, err)
	}
	*c = Count(n)
	return nil
}

func parseLooseInt(b []byte) (int64, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return 0, nil
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return 0, err
	}

	switch v := raw.(type) {
	case json.Number:
		return cast.ToInt64E(v.String())
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		return cast.ToInt64E(strings.TrimSpace(v))
	default:
		return cast.ToInt64E(v)
	}
}

// IDList accepts a single id, an array of ids, or null. Activity contact
// columns switch between these shapes depending on the CiviCRM version.
type IDList []ID

func (l *IDList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	if b[0] != '[' {
		var id ID
		if err := id.UnmarshalJSON(b); err != nil {
			return err
		}
		*l = IDList{id}
		return nil
	}

	var ids []ID
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*l = ids
	return nil
}

// Amount is a money value as reported by CiviCRM. Raw keeps the original
// text so an unparseable amount can still be shown; Valid is false for it.
type Amount struct {
	Value decimal.Decimal
	Raw   string
	Valid bool
}

// ParseAmount parses s leniently. Unparseable input yields an invalid Amount.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Raw: s}
	}
	return Amount{Value: d, Raw: s, Valid: true}
}

// OrZero returns the parsed value, or zero for invalid amounts.
func (a Amount) OrZero() decimal.Decimal {
	if !a.Valid {
		return decimal.Zero
	}
	return a.Value
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*a = Amount{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = ParseAmount(s)
		return nil
	}
	*a = ParseAmount(string(b))
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.Valid:
		return []byte(a.Value.String()), nil
	case a.Raw == "":
		return []byte("null"), nil
	default:
		return json.Marshal(a.Raw)
	}
}

// Money is a computed sum. Unlike decimal.Decimal it encodes as a bare
// JSON number, matching how Amount writes parsed values.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// Add returns m + d.
func (m Money) Add(d decimal.Decimal) Money {
	return Money{Decimal: m.Decimal.Add(d)}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Decimal.UnmarshalJSON(b)
}
