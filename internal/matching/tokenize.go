package matching

import (
	"sort"
	"strings"
	"unicode"
)

// Tokenize lowercases text, splits it on commas and whitespace and trims
// surrounding punctuation from every piece. Empty pieces are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsPunct(r)
		})
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// TokenizeAll tokenizes every entry of an ingredient list in order, duplicates kept.
func TokenizeAll(entries []string) []string {
	var tokens []string
	for _, e := range entries {
		tokens = append(tokens, Tokenize(e)...)
	}
	return tokens
}

// TokenSet returns the sorted distinct tokens of an ingredient list.
func TokenSet(entries []string) []string {
	return distinct(TokenizeAll(entries))
}

// NormalizeQuery turns caller supplied ingredient entries into the deduplicated
// query token set. Every entry must yield at least one token and the set must
// hold at least MinQueryTokens tokens.
func NormalizeQuery(entries []string) ([]string, error) {
	var tokens []string
	for _, e := range entries {
		t := Tokenize(e)
		if len(t) == 0 {
			return nil, invalid("ingredients", "ingredient %q is empty after normalization", e)
		}
		tokens = append(tokens, t...)
	}
	set := distinct(tokens)
	if len(set) < MinQueryTokens {
		return nil, invalid("ingredients", "at least %d distinct ingredients are required, got %d", MinQueryTokens, len(set))
	}
	return set, nil
}

func distinct(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
