// Package jancode validates JAN/EAN barcode numbers and computes their
// modulus-10 check digits.
package jancode

// IsDigits reports whether s is non-empty and entirely ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CheckDigit computes the modulus-10 check digit for a code body.
// Digits are weighted 3 and 1 alternating from the rightmost position.
func CheckDigit(body string) (int, bool) {
	if !IsDigits(body) {
		return 0, false
	}
	sum := 0
	weight := 3
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		if weight == 3 {
			weight = 1
		} else {
			weight = 3
		}
	}
	return (10 - sum%10) % 10, true
}

// Valid reports whether code is a well-formed JAN-8 or JAN-13 number with a
// correct check digit.
func Valid(code string) bool {
	if len(code) != 8 && len(code) != 13 {
		return false
	}
	if !IsDigits(code) {
		return false
	}
	cd, ok := CheckDigit(code[:len(code)-1])
	if !ok {
		return false
	}
	return cd == int(code[len(code)-1]-'0')
}

// WithCheckDigit appends the computed check digit to a code body. The
// second return is false when the body contains non-digits.
func WithCheckDigit(body string) (string, bool) {
	cd, ok := CheckDigit(body)
	if !ok {
		return "", false
	}
	return body + string(rune('0'+cd)), true
}
