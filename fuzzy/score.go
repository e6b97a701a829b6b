package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// Scorer rates the similarity of two normalized strings from 0 to 100.
type Scorer func(a, b string) int

// Score normalizes a and b and applies s.
func Score(s Scorer, a, b string) int {
	return s(Normalize(a), Normalize(b))
}

// Normalize lowercases s, turns every rune that is not a letter or digit into
// a space, collapses runs of spaces and trims the result.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func percent(f float64) int {
	v := int(math.Round(f * 100))
	return max(0, min(100, v))
}

// Ratio is the Jaro-Winkler similarity of a and b (boost threshold 0.7,
// prefix 4) as a percentage. Runes are compared, not bytes. Empty input
// scores 0.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	a, b = runeBytes(a, b)
	return percent(smetrics.JaroWinkler(a, b, 0.7, 4))
}

// runeBytes rewrites a and b so that each distinct rune becomes one byte.
// smetrics indexes strings by byte; ASCII input is returned unchanged. Pairs
// with more than 256 distinct runes are left as they are.
func runeBytes(a, b string) (string, string) {
	if isASCII(a) && isASCII(b) {
		return a, b
	}
	codes := make(map[rune]byte, len(a)+len(b))
	enc := func(s string) (string, bool) {
		out := make([]byte, 0, len(s))
		for _, r := range s {
			c, ok := codes[r]
			if !ok {
				if len(codes) == 256 {
					return "", false
				}
				c = byte(len(codes))
				codes[r] = c
			}
			out = append(out, c)
		}
		return string(out), true
	}
	ea, ok := enc(a)
	if !ok {
		return a, b
	}
	eb, ok := enc(b)
	if !ok {
		return a, b
	}
	return ea, eb
}

func isASCII(s string) bool {
	for i := range len(s) {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// LevenshteinRatio is 100 minus the edit distance as a percentage of the
// longer string.
func LevenshteinRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	d := levenshtein.ComputeDistance(a, b)
	return percent(1 - float64(d)/float64(longest))
}

// PartialRatio is the best Ratio of the shorter string against windows of
// the longer one with the same length. Windows start at the beginning, the
// end, each token start and every position sharing the shorter string's
// first rune.
func PartialRatio(a, b string) int {
	return partial(Ratio, a, b)
}

func partial(score Scorer, a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == len(long) {
		return score(a, b)
	}
	s := string(short)
	last := len(long) - len(short)
	best := 0
	for i := 0; i <= last; i++ {
		if i != 0 && i != last && long[i] != short[0] && long[i-1] != ' ' {
			continue
		}
		if v := score(s, string(long[i:i+len(short)])); v > best {
			best = v
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TokenSortRatio is Ratio over the tokens of each string in sorted order.
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// PartialTokenSortRatio is PartialRatio over sorted tokens.
func PartialTokenSortRatio(a, b string) int {
	return PartialRatio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the shared tokens of a and b with each side's
// shared tokens plus its remainder and returns the best Ratio.
func TokenSetRatio(a, b string) int {
	return tokenSet(Ratio, a, b)
}

// PartialTokenSetRatio is TokenSetRatio using PartialRatio.
func PartialTokenSetRatio(a, b string) int {
	return tokenSet(PartialRatio, a, b)
}

func tokenSet(score Scorer, a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	ta, tb := tokenSetOf(a), tokenSetOf(b)
	var inter, onlyA, onlyB []string
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range tb {
		if _, ok := ta[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(inter, " ")
	withA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	return max(score(sect, withA), score(sect, withB), score(withA, withB))
}

func tokenSetOf(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

// WeightedRatio blends the scorers above the way a person reads a match.
// Strings of similar length use Ratio and the token scores (weighted 0.95).
// When one string is at least 1.5 times longer, partial scores are used
// instead, weighted 0.9, or 0.6 beyond a length ratio of 8.
func WeightedRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	const unbase = 0.95
	partialScale := 0.90

	base := float64(Ratio(a, b))
	la, lb := float64(utf8.RuneCountInString(a)), float64(utf8.RuneCountInString(b))
	lenRatio := math.Max(la, lb) / math.Min(la, lb)

	if lenRatio < 1.5 {
		tsor := float64(TokenSortRatio(a, b)) * unbase
		tser := float64(TokenSetRatio(a, b)) * unbase
		return int(math.Round(math.Max(base, math.Max(tsor, tser))))
	}
	if lenRatio > 8 {
		partialScale = 0.6
	}
	p := float64(PartialRatio(a, b)) * partialScale
	ptsor := float64(PartialTokenSortRatio(a, b)) * unbase * partialScale
	ptser := float64(PartialTokenSetRatio(a, b)) * unbase * partialScale
	return int(math.Round(math.Max(math.Max(base, p), math.Max(ptsor, ptser))))
}

// ScorerByName returns "weighted", "ratio", "partial", "token_sort",
// "token_set" or "levenshtein".
func ScorerByName(name string) (Scorer, bool) {
	switch strings.ToLower(name) {
	case "", "weighted":
		return WeightedRatio, true
	case "ratio":
		return Ratio, true
	case "partial":
		return PartialRatio, true
	case "token_sort":
		return TokenSortRatio, true
	case "token_set":
		return TokenSetRatio, true
	case "levenshtein":
		return LevenshteinRatio, true
	default:
		return nil, false
	}
}
