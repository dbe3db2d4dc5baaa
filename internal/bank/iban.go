// Package bank converts Czech national bank account notation to IBAN.
package bank

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedAccount is an advisory error: Convert still returns the input
// unchanged so callers can embed it as-is, but they may want to log it.
var ErrMalformedAccount = errors.New("bank: malformed account notation")

const (
	countryCode = "CZ"
	// CZ mapped to digits per ISO 13616: C=12, Z=35.
	countryDigits = "1235"

	accountDigits = 16
	chunkSize     = 6
)

// Convert turns "<prefix>-<accountNumber>/<bankCode>" into a CZ IBAN.
// The prefix part may be absent. Malformed input (not exactly one "/")
// is returned unchanged together with ErrMalformedAccount — the caller
// decides whether degraded output is acceptable.
func Convert(account string) (string, error) {
	parts := strings.Split(account, "/")
	if len(parts) != 2 {
		return account, ErrMalformedAccount
	}
	number := strings.ReplaceAll(parts[0], "-", "")
	bankCode := parts[1]

	pad := accountDigits - len(number)
	if pad < 0 {
		pad = 0
	}
	bban := bankCode + strings.Repeat("0", pad) + number

	check := 98 - mod97(bban+countryDigits+"00")
	return fmt.Sprintf("%s%02d%s", countryCode, check, bban), nil
}

// mod97 reduces a decimal numeral string modulo 97, walking it left to
// right in fixed 6-character chunks and carrying the running remainder.
// Chunking keeps intermediate values inside int64 regardless of length.
func mod97(numeral string) int {
	rem := 0
	for i := 0; i < len(numeral); i += chunkSize {
		end := i + chunkSize
		if end > len(numeral) {
			end = len(numeral)
		}
		chunk := strconv.Itoa(rem) + numeral[i:end]
		n, err := strconv.ParseInt(chunk, 10, 64)
		if err != nil {
			// Non-digit input cannot produce a meaningful checksum;
			// fold it to zero so Convert still emits an IBAN-shaped string.
			n = 0
		}
		rem = int(n % 97)
	}
	return rem
}
