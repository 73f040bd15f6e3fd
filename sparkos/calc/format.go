package calc

import (
	"math"
	"strconv"
	"strings"
)

// Loading is shown while no entry value is available.
const Loading = "Loading..."

// MaxSafeInteger is the largest integer n such that n and n+1 are both exactly
// representable as float64.
const MaxSafeInteger = 1<<53 - 1

const (
	longLen    = 23
	longDigits = 14
	wideLen    = 20
	wideDigits = 15

	// Enough digits for the exact decimal expansion of any float64.
	exactDigits = 767
)

// Format returns the display text for an optional entry value.
func Format(v *float64) string {
	if v == nil {
		return Loading
	}
	return FormatFloat(*v)
}

// FormatFloat clamps f to the fixed-width result line.
//
// Safe integers print as plain digits. Anything else uses the shortest
// round-trip text; if that is longer than 20 characters it is redone with 15
// significant digits, or 14 when it reaches 23 characters. Non-finite values
// print as NaN, Infinity and -Infinity.
func FormatFloat(f float64) string {
	if IsSafeInteger(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	out := Shortest(f)
	switch {
	case len(out) >= longLen:
		out = Precision(f, longDigits)
	case len(out) > wideLen:
		out = Precision(f, wideDigits)
	}
	return out
}

// IsSafeInteger reports whether f is integral with |f| <= MaxSafeInteger.
func IsSafeInteger(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return f == math.Trunc(f) && math.Abs(f) <= MaxSafeInteger
}

// Shortest returns the shortest text that parses back to f. Values with
// 1e-7 <= |f| < 1e21 use fixed notation, all others d.ddde±x.
func Shortest(f float64) string {
	if s, ok := nonFinite(f); ok {
		return s
	}
	if f == 0 {
		return "0"
	}

	var b strings.Builder
	if f < 0 {
		b.WriteByte('-')
		f = -f
	}

	digits, exp := splitExp(strconv.FormatFloat(f, 'e', -1, 64))
	k := len(digits)
	n := exp + 1 // f = 0.digits * 10^n
	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteByte(digits[0])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		writeExp(&b, n-1)
	}
	return b.String()
}

// Precision returns f rounded to p significant digits (1 <= p <= 100).
// Trailing zeros are kept. Exponent form is used when the decimal exponent is
// below -6 or at least p. Halfway cases round away from zero.
func Precision(f float64, p int) string {
	if s, ok := nonFinite(f); ok {
		return s
	}
	if p < 1 {
		p = 1
	} else if p > 100 {
		p = 100
	}

	var b strings.Builder
	if f < 0 {
		b.WriteByte('-')
		f = -f
	}

	var digits string
	var e int
	if f == 0 {
		digits = strings.Repeat("0", p)
	} else {
		digits, e = roundDigits(f, p)
	}

	if e < -6 || e >= p {
		b.WriteByte(digits[0])
		if p > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		writeExp(&b, e)
		return b.String()
	}

	switch {
	case e == p-1:
		b.WriteString(digits)
	case e >= 0:
		b.WriteString(digits[:e+1])
		b.WriteByte('.')
		b.WriteString(digits[e+1:])
	default:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -(e + 1)))
		b.WriteString(digits)
	}
	return b.String()
}

// roundDigits returns the first p significant digits of f > 0 and the
// decimal exponent of the first digit.
func roundDigits(f float64, p int) (string, int) {
	all, e := splitExp(strconv.FormatFloat(f, 'e', exactDigits, 64))
	d := []byte(all[:p])
	if all[p] < '5' {
		return string(d), e
	}

	i := p - 1
	for ; i >= 0; i-- {
		if d[i] == '9' {
			d[i] = '0'
			continue
		}
		d[i]++
		break
	}
	if i < 0 {
		// 99..9 carried into a new leading digit.
		d = append([]byte{'1'}, d[:p-1]...)
		e++
	}
	return string(d), e
}

// splitExp splits strconv 'e' output ("d.ddde±xx") into its digits and exponent.
func splitExp(s string) (string, int) {
	mant, exp, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exp)
	return strings.Replace(mant, ".", "", 1), e
}

func writeExp(b *strings.Builder, e int) {
	b.WriteByte('e')
	if e < 0 {
		b.WriteByte('-')
		e = -e
	} else {
		b.WriteByte('+')
	}
	b.WriteString(strconv.Itoa(e))
}

func nonFinite(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "NaN", true
	case math.IsInf(f, 1):
		return "Infinity", true
	case math.IsInf(f, -1):
		return "-Infinity", true
	}
	return "", false
}
