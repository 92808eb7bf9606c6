package matching

import (
	"strings"
	"unicode"
)

// stopwords are corporate-suffix and noise tokens dropped during
// normalization. Kept in sync with the reference dataset pipeline.
var stopwords = map[string]struct{}{
	"pvt": {}, "private": {}, "ltd": {}, "limited": {}, "llp": {},
	"inc": {}, "co": {}, "company": {}, "corp": {},
	"official": {}, "store": {}, "shop": {}, "online": {},
	"services": {}, "service": {}, "solutions": {},
	"technology": {}, "technologies": {}, "international": {},
	"group": {}, "payments": {}, "pay": {},
}

// Normalize canonicalizes a merchant display name into a comparable token
// string: lower-cased, punctuation stripped, whitespace collapsed, noise
// tokens removed. Pure function; empty or stop-word-only input yields "",
// which downstream callers must treat as "no usable signal".
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, t := range tokens {
		if _, noise := stopwords[t]; !noise {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

// PolicyKey derives the policy lookup key for a merchant name: the first
// token of the normalized name, or "" when nothing survives normalization.
func PolicyKey(name string) string {
	normalized := Normalize(name)
	if normalized == "" {
		return ""
	}
	return strings.Fields(normalized)[0]
}
