// Package matching implements the pure scoring functions used to pair bank
// movements with open financial records.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinTokenLength is the shortest token kept by Tokenize.
const MinTokenLength = 3

// stopWords are banking noise and Portuguese function words that carry no identity.
var stopWords = map[string]struct{}{
	// Banking noise
	"pix":           {},
	"ted":           {},
	"doc":           {},
	"transferencia": {},
	"transf":        {},
	"pagamento":     {},
	"pagto":         {},
	"pgto":          {},
	"banco":         {},
	"conta":         {},
	"valor":         {},
	"debito":        {},
	"credito":       {},
	"recebido":      {},
	"enviado":       {},

	// Articles and prepositions
	"das":  {},
	"dos":  {},
	"para": {},
	"por":  {},
	"com":  {},
	"uma":  {},
	"nos":  {},
	"nas":  {},
	"pelo": {},
	"pela": {},
}

// Normalize lowercases s, strips accents, replaces anything that is not an
// ASCII letter or digit with a space and collapses whitespace.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	lowered := strings.ToLower(s)

	// transform.Chain keeps internal state, so a new chain is built per call.
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize splits the normalized form of s into meaningful tokens, in order.
// Tokens shorter than MinTokenLength and stop words are dropped.
func Tokenize(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < MinTokenLength {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Keywords returns the first n distinct tokens of s.
func Keywords(s string, n int) []string {
	if n <= 0 {
		return nil
	}

	seen := make(map[string]struct{})
	keywords := make([]string, 0, n)
	for _, token := range Tokenize(s) {
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
		if len(keywords) == n {
			break
		}
	}
	return keywords
}
