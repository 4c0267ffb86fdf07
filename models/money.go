package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidMoney is returned for amounts that are not plain decimal numbers
var ErrInvalidMoney = errors.New("invalid monetary amount")

// maxMajor keeps major*100 well inside int64
const maxMajor = 1e15

// Money is an amount in minor currency units (cents, paise).
//
// Decimal input is converted exactly: the value is multiplied by 100 and
// truncated toward zero, so 19.999 becomes 1999 and 0.29 becomes 29.
type Money int64

// ParseMoney converts a decimal string in major units to Money
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= maxMajor {
			return 0, ErrInvalidMoney
		}
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidMoney
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return 0, ErrInvalidMoney
	}
	if len(strings.TrimLeft(intPart, "0")) > 15 {
		return 0, ErrInvalidMoney
	}

	fracPart = (fracPart + "00")[:2]
	major, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidMoney
	}
	minor, _ := strconv.ParseInt(fracPart, 10, 64)

	v := major*100 + minor
	if neg {
		v = -v
	}
	return Money(v), nil
}

// MoneyFromFloat converts a float major amount through its shortest decimal
// representation, so 0.29 yields 29 rather than 28.
func MoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidMoney
	}
	return ParseMoney(strconv.FormatFloat(f, 'f', -1, 64))
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Minor returns the amount in minor units
func (m Money) Minor() int64 {
	return int64(m)
}

// Major returns the amount in major units for display and spreadsheets
func (m Money) Major() float64 {
	return float64(m) / 100
}

// String formats the amount with two decimals
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON emits a JSON number in major units
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	v, err := ParseMoney(s)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMoney, string(data))
	}
	*m = v
	return nil
}

// MarshalBSONValue stores the major amount as Decimal128
func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d, err := primitive.ParseDecimal128(m.String())
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(d)
}

// UnmarshalBSONValue reads Decimal128 as well as the doubles and integers
// written by older clients.
func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	var (
		v   Money
		err error
	)
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*m = 0
		return nil
	case bsontype.Decimal128:
		v, err = ParseMoney(rv.Decimal128().String())
	case bsontype.Double:
		v, err = MoneyFromFloat(rv.Double())
	case bsontype.Int32:
		v = Money(int64(rv.Int32()) * 100)
	case bsontype.Int64:
		v = Money(rv.Int64() * 100)
	case bsontype.String:
		v, err = ParseMoney(rv.StringValue())
	default:
		return fmt.Errorf("cannot decode BSON %s into Money", t)
	}
	if err != nil {
		return err
	}
	*m = v
	return nil
}
