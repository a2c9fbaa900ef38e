package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in currency minor units (paise). On the wire it is a
// plain decimal number of major units, e.g. 500 or 19.99.
type Money int64

// maxMajorAmount bounds decoded amounts so a line of MaxLineQuantity units
// still fits in int64 minor units.
const maxMajorAmount = 1e13

func FromMajor(amount float64) Money {
	return Money(math.Round(amount * 100))
}

func (m Money) Major() float64 {
	return float64(m) / 100
}

func (m Money) Mul(quantity int) Money {
	return m * Money(quantity)
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v%100 == 0 {
		return sign + strconv.FormatInt(v/100, 10)
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", data, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxMajorAmount {
		return fmt.Errorf("invalid amount %q", data)
	}

	*m = FromMajor(f)
	return nil
}
