package match

import (
	"strings"
	"unicode"
)

// strippedSuffixes are tokens that often decorate otherwise equal names,
// longest first so "ids" wins over "id".
var strippedSuffixes = []string{"timestamp", "ids", "utc", "id", "at"}

// Normalize folds an identifier for fuzzy comparison:
// "OrderID", "order_id", "order-id" and "orderId" all become "orderid".
func Normalize(s string) string {
	return strings.Join(Tokens(s), "")
}

// NormalizeStripped is Normalize with one trailing suffix token removed
// ("CustomerID" becomes "customer"). A name made of the suffix alone is kept.
func NormalizeStripped(s string) string {
	n := Normalize(s)

	for _, suffix := range strippedSuffixes {
		if len(n) > len(suffix) && strings.HasSuffix(n, suffix) {
			return strings.TrimSuffix(n, suffix)
		}
	}

	return n
}

// Tokens splits an identifier at separators and case boundaries and lowercases the parts.
//
//	"OrderID"         -> order, id
//	"getHTTPResponse" -> get, http, response
//	"price_cents"     -> price, cents
func Tokens(s string) []string {
	runes := []rune(s)

	var (
		tokens []string
		start  = -1
	)

	flush := func(end int) {
		if start >= 0 && end > start {
			tokens = append(tokens, strings.ToLower(string(runes[start:end])))
		}
		start = -1
	}

	for i, r := range runes {
		if isSeparator(r) {
			flush(i)
			continue
		}

		if start >= 0 && boundary(runes, i) {
			flush(i)
		}

		if start < 0 {
			start = i
		}
	}

	flush(len(runes))

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// boundary reports whether a new token starts at i: a lower-to-upper change
// ("orderId"), or the last capital of an acronym followed by lowercase ("XMLParser").
func boundary(runes []rune, i int) bool {
	if i == 0 || !unicode.IsUpper(runes[i]) {
		return false
	}

	prev := runes[i-1]
	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
