package rankingdomain

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSegment is one positional part of a mixed-radix display format.
// A zero Multiplier means 1 and a zero Digits means no zero-padding.
type FormatSegment struct {
	Multiplier int64  `json:"multiplier,omitempty"`
	Digits     int    `json:"digits,omitempty"`
	Suffix     string `json:"suffix,omitempty"`
}

// FormatSpec renders integer record values, e.g. milliseconds as 1'23"456.
// Segment order is both numeric significance and string position.
type FormatSpec []FormatSegment

// Validate rejects negative multipliers and digit counts.
func (s FormatSpec) Validate() error {
	for i, seg := range s {
		if seg.Multiplier < 0 {
			return fmt.Errorf("segment %d multiplier %d: %w", i, seg.Multiplier, ErrInvalidFormatSpec)
		}
		if seg.Digits < 0 {
			return fmt.Errorf("segment %d digits %d: %w", i, seg.Digits, ErrInvalidFormatSpec)
		}
	}
	return nil
}

// totalMultipliers returns each segment's place value: the product of its own
// multiplier and the multipliers of every segment after it.
func (s FormatSpec) totalMultipliers() []int64 {
	totals := make([]int64, len(s))
	total := int64(1)
	for i := len(s) - 1; i >= 0; i-- {
		m := s[i].Multiplier
		if m == 0 {
			m = 1
		}
		total *= m
		totals[i] = total
	}
	return totals
}

// Format renders value through the spec. Values must be non-negative.
func (s FormatSpec) Format(value int64) (string, error) {
	if value < 0 {
		return "", fmt.Errorf("value %d: %w", value, ErrNegativeValue)
	}
	if err := s.Validate(); err != nil {
		return "", err
	}

	totals := s.totalMultipliers()
	remaining := value

	var b strings.Builder
	for i, seg := range s {
		item := remaining / totals[i]
		remaining %= totals[i]

		digits := strconv.FormatInt(item, 10)
		if pad := seg.Digits - len(digits); pad > 0 {
			b.WriteString(strings.Repeat("0", pad))
		}
		b.WriteString(digits)
		b.WriteString(seg.Suffix)
	}
	return b.String(), nil
}

// Decompose returns the per-segment item values of Format without rendering
// them. Summing item*place over the segments gives back value whenever the
// last segment's multiplier is 1.
func (s FormatSpec) Decompose(value int64) (items []int64, places []int64, err error) {
	if value < 0 {
		return nil, nil, fmt.Errorf("value %d: %w", value, ErrNegativeValue)
	}
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	places = s.totalMultipliers()
	items = make([]int64, len(s))
	remaining := value
	for i := range s {
		items[i] = remaining / places[i]
		remaining %= places[i]
	}
	return items, places, nil
}
