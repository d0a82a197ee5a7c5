// internal/models/common.go
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a numeric value the backend may encode either as a JSON number
// or as a numeric string. Unparseable strings decode as zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*a = 0
			return nil
		}
		*a = Amount(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// ParseAmount reads a form value the same way UnmarshalJSON reads a
// string: anything unparseable is zero.
func ParseAmount(s string) Amount {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Amount(f)
}

func (a Amount) Float64() float64 {
	return float64(a)
}

// String formats the amount the way a JavaScript number prints.
func (a Amount) String() string {
	return FormatNumber(float64(a))
}

// FormatNumber renders f without trailing zeros ("0.5", "12", "1.25").
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Labels are the fixed words used when rendering license terms.
type Labels struct {
	Allowed       string
	NotAllowed    string
	No            string
	Yes           string
	Lifetime      string
	LicensedAsset string
}

// EnglishLabels is the default label set.
var EnglishLabels = Labels{
	Allowed:       "Allowed",
	NotAllowed:    "Not Allowed",
	No:            "No",
	Yes:           "Yes",
	Lifetime:      "Lifetime",
	LicensedAsset: "Licensed Asset",
}

// Allow renders a permission flag; no is the word for a refused flag.
func (l Labels) Allow(flag bool, no string) string {
	if flag {
		return l.Allowed
	}
	return no
}

// YesNo renders a boolean as Yes / No.
func (l Labels) YesNo(flag bool) string {
	if flag {
		return l.Yes
	}
	return l.No
}
