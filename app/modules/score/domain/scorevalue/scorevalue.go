// Package scorevalue converts masked judge input into canonical numeric values
// and back into display strings. All functions are pure.
package scorevalue

import (
	"fmt"
	"strconv"
	"strings"
)

// Format tags how a field's raw input is masked and canonicalized.
type Format string

const (
	FormatTime     Format = "time"     // MM:SS.mmm, canonical value in milliseconds
	FormatDistance Format = "distance" // meters,centimeters, canonical value in meters
	FormatPoints   Format = "points"   // integer.decimal, canonical value as float
	FormatNone     Format = ""         // free numeric input
)

// ParseError reports input that could not be canonicalized. Unparseable input
// is never silently coerced to zero; callers must handle the error.
type ParseError struct {
	Raw    string
	Format Format
	Reason string
}

func (e *ParseError) Error() string {
	f := string(e.Format)
	if f == "" {
		f = "none"
	}
	return fmt.Sprintf("cannot parse %q as %s value: %s", e.Raw, f, e.Reason)
}

// Parse converts raw masked input into its canonical numeric value.
func Parse(raw string, format Format) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, &ParseError{Raw: raw, Format: format, Reason: "empty input"}
	}

	switch format {
	case FormatTime:
		return parseTime(trimmed)
	case FormatDistance:
		return parseDistance(trimmed)
	case FormatPoints:
		return parsePoints(trimmed)
	default:
		return parseLoose(trimmed)
	}
}

// FormatValue renders a canonical numeric value for display, inverse of Parse.
func FormatValue(value float64, format Format) string {
	switch format {
	case FormatTime:
		return formatTime(value)
	case FormatDistance:
		return fmt.Sprintf("%s m", strings.Replace(fmt.Sprintf("%.2f", value), ".", ",", 1))
	case FormatPoints:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
}

// digitsOf strips everything but digits, preserving their order. Masked inputs
// are positional, so grouping is done over the bare digit string.
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseTime groups digits progressively into MM:SS.mmm and returns total
// milliseconds. "01:05.250" -> 65250.
func parseTime(raw string) (float64, error) {
	digits := digitsOf(raw)
	if digits == "" {
		return 0, &ParseError{Raw: raw, Format: FormatTime, Reason: "no digits"}
	}
	if len(digits) > 7 {
		return 0, &ParseError{Raw: raw, Format: FormatTime, Reason: "too many digits for MM:SS.mmm"}
	}
	// Right-align into mm (2), ss (2), mmm (3).
	padded := strings.Repeat("0", 7-len(digits)) + digits
	minutes, _ := strconv.Atoi(padded[:2])
	seconds, _ := strconv.Atoi(padded[2:4])
	millis, _ := strconv.Atoi(padded[4:])
	if seconds >= 60 {
		return 0, &ParseError{Raw: raw, Format: FormatTime, Reason: "seconds out of range"}
	}
	return float64(minutes*60_000 + seconds*1_000 + millis), nil
}

func formatTime(totalMillis float64) string {
	ms := int(totalMillis)
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60_000
	seconds := (ms % 60_000) / 1_000
	millis := ms % 1_000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// parseDistance groups digits into meters,centimeters. "1,05 m" -> 1.05.
func parseDistance(raw string) (float64, error) {
	digits := digitsOf(raw)
	if digits == "" {
		return 0, &ParseError{Raw: raw, Format: FormatDistance, Reason: "no digits"}
	}
	padded := digits
	if len(padded) < 3 {
		padded = strings.Repeat("0", 3-len(padded)) + padded
	}
	meters := padded[:len(padded)-2]
	centimeters := padded[len(padded)-2:]
	value, err := strconv.ParseFloat(meters+"."+centimeters, 64)
	if err != nil {
		return 0, &ParseError{Raw: raw, Format: FormatDistance, Reason: err.Error()}
	}
	return value, nil
}

// parsePoints groups digits into integer.decimal. Inputs that already carry a
// decimal separator keep their own grouping.
func parsePoints(raw string) (float64, error) {
	digits := digitsOf(raw)
	if digits == "" {
		return 0, &ParseError{Raw: raw, Format: FormatPoints, Reason: "no digits"}
	}
	normalized := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	if strings.Contains(normalized, ".") {
		cleaned := strings.TrimFunc(normalized, func(r rune) bool {
			return (r < '0' || r > '9') && r != '.'
		})
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return v, nil
		}
	}
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, &ParseError{Raw: raw, Format: FormatPoints, Reason: err.Error()}
	}
	return value, nil
}

// parseLoose accepts free-form numeric input, stripping everything except
// digits, a leading sign, and a single decimal separator.
func parseLoose(raw string) (float64, error) {
	normalized := strings.Replace(raw, ",", ".", 1)
	var b strings.Builder
	seenDot := false
	for i, r := range normalized {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return 0, &ParseError{Raw: raw, Format: FormatNone, Reason: "no numeric content"}
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &ParseError{Raw: raw, Format: FormatNone, Reason: err.Error()}
	}
	return value, nil
}
