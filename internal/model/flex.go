package model

import (
	"encoding/json"

	"github.com/posadmin/reports-gateway/pkg/format"
)

// The backend's report payloads are not strictly typed: numeric fields may
// arrive as JSON numbers, quoted strings, null, or be missing entirely
// depending on the endpoint. Flex types absorb all of that; anything that
// cannot be read as a finite number decodes to 0 so partial data still
// renders.

// FlexFloat is a float64 that decodes best-effort.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat(coerce(b))
	return nil
}

// FlexInt is an int64 that decodes best-effort, truncating fractions.
type FlexInt int64

func (i *FlexInt) UnmarshalJSON(b []byte) error {
	*i = FlexInt(coerce(b))
	return nil
}

func (f FlexFloat) Float() float64 { return float64(f) }
func (i FlexInt) Int() int64       { return int64(i) }

func coerce(b []byte) float64 {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return 0
	}
	return format.Sanitize(raw)
}
