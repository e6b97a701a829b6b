package wikitext

import (
	"regexp"
	"sort"
	"strings"
)

// BaseURL is the page prefix of the SRB2 wiki.
const BaseURL = "https://wiki.srb2.org/wiki/"

var (
	// [[name]] or [[target|name]]
	wikiLinkRe = regexp.MustCompile(`\[\[([^|]+?)\]\]|\[\[(.+?)\|([^\]]+?)\]\]`)

	// `[text](url)` with code ticks around the whole masked link
	brokenLinkRe = regexp.MustCompile("`\\[(.+?)\\]\\((.+?)\\)`")

	// first two sentences; a period must be followed by whitespace to count,
	// so "mobj.valid" does not end a sentence
	twoSentenceRe = regexp.MustCompile(`^([\s\S]+?\.\s[\s\S]+?\.\s[^.]*?)`)

	// like twoSentenceRe, skipping a leading [[File.png]] or {{template}}
	shortDescRe = regexp.MustCompile(`^(?:\[\[.+\.\]\]|\{\{.+\}\})?([\s\S]+?\.\s[\s\S]+?\.\s[^.]*?)`)

	htmlTagRe   = regexp.MustCompile(`<.+?>`)
	wikiTableRe = regexp.MustCompile(`\{\{[\s\S]+?\}\}`)
	newLineRe   = regexp.MustCompile(`\n|\r`)

	// P_ExampleFunction -> ExampleFunction
	truncateNameRe = regexp.MustCompile(`\w+?[_.](\w+)`)

	constructsRe = regexp.MustCompile(`\{{2,4}[\s\S]+?\}{2,4}|_{2,4}[\s\S]+?_{2,4}|={2,4}[\s\S]+?={2,4}`)

	nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9\- .,:—]`)
)

// structNames are the userdata struct names that AddStructSuffix completes
// with "_t". Longest first so "skincolor" wins over "skin".
var structNames = func() []string {
	names := []string{
		"fixed", "angle", "tic",
		"player", "ticcmd", "skin",
		"mobjinfo", "state", "sfxinfo", "hudinfo", "mapheader", "skincolor", "spriteframepivot",
		"mapthing", "sector", "subsector", "line", "side", "vertex", "ffloor", "pslope", "polyobj",
		"camera", "consvar", "patch",
	}
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return names
}()

// replaceSubmatch is regexp.ReplaceAllStringFunc with access to groups.
func replaceSubmatch(re *regexp.Regexp, s string, fn func(groups []string) string) string {
	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(fn(groups))
		last = loc[1]
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// CleanWikiLinks turns "[[item]]" and "[[target|item]]" into "item".
func CleanWikiLinks(s string) string {
	return replaceSubmatch(wikiLinkRe, s, func(g []string) string {
		if g[1] != "" {
			return g[1]
		}
		return g[3]
	})
}

// ConvertWikiLinks turns wiki links into markdown links to BaseURL.
func ConvertWikiLinks(s string) string {
	return replaceSubmatch(wikiLinkRe, s, func(g []string) string {
		if g[1] != "" {
			return "[" + g[1] + "](" + PageURL(g[1]) + ")"
		}
		if g[2] != "" && g[3] != "" {
			return "[" + g[3] + "](" + PageURL(g[2]) + ")"
		}
		return ""
	})
}

// PageURL returns the wiki URL of a page title.
func PageURL(title string) string {
	return BaseURL + strings.ReplaceAll(title, " ", "_")
}

// RepairBrokenLinks moves code ticks inside masked links: `[a](b)` becomes [`a`](b).
func RepairBrokenLinks(s string) string {
	return replaceSubmatch(brokenLinkRe, s, func(g []string) string {
		return "[`" + g[1] + "`](" + g[2] + ")"
	})
}

// FirstTwoSentences returns the first two sentences of s, or s unchanged
// when it has fewer.
func FirstTwoSentences(s string) string {
	if m := twoSentenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// ShortDescription is FirstTwoSentences tuned for the start of a wiki page.
func ShortDescription(s string) string {
	if m := shortDescRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.TrimSpace(s)
}

// RemoveHTMLTags removes every <...> tag.
func RemoveHTMLTags(s string) string {
	return htmlTagRe.ReplaceAllString(s, "")
}

// RemoveWikiTables removes every {{...}} construct.
func RemoveWikiTables(s string) string {
	return wikiTableRe.ReplaceAllString(s, "")
}

// RemoveConstructs removes templates, __MAGIC__ words and == headers ==.
func RemoveConstructs(s string) string {
	return constructsRe.ReplaceAllString(s, "")
}

// CodeTagsToMarkdown replaces <code> and </code> with backticks.
func CodeTagsToMarkdown(s string) string {
	return strings.NewReplacer("<code>", "`", "</code>", "`").Replace(s)
}

// RemoveNewLines removes every \n and \r.
func RemoveNewLines(s string) string {
	return newLineRe.ReplaceAllString(s, "")
}

// RemoveBoldItalics removes ''' and '' markers.
func RemoveBoldItalics(s string) string {
	s = strings.ReplaceAll(s, "'''", "")
	return strings.ReplaceAll(s, "''", "")
}

// BoldItalicsToMarkdown replaces ''' with ** and '' with *.
func BoldItalicsToMarkdown(s string) string {
	s = strings.ReplaceAll(s, "'''", "**")
	return strings.ReplaceAll(s, "''", "*")
}

// TruncateFunctionName drops the prefix of every prefixed identifier in s.
func TruncateFunctionName(s string) string {
	return replaceSubmatch(truncateNameRe, s, func(g []string) string { return g[1] })
}

// MaxDescription is the longest description TruncateDescription keeps.
const MaxDescription = 500

// TruncateDescription shortens descriptions over MaxDescription characters,
// first to a short description, then by cutting with an ellipsis.
func TruncateDescription(s string) string {
	if len([]rune(s)) <= MaxDescription {
		return s
	}
	s = ShortDescription(s)
	if r := []rune(s); len(r) > MaxDescription {
		s = string(r[:MaxDescription-3]) + "..."
	}
	return s
}

// ReplaceHTMLEntities replaces the entities the wiki uses in tables.
func ReplaceHTMLEntities(s string) string {
	return strings.NewReplacer("&ndash;", "—", "&nbsp;", "").Replace(s)
}

// RemoveNonAlphanumeric keeps letters, digits and sentence punctuation.
func RemoveNonAlphanumeric(s string) string {
	return nonAlnumRe.ReplaceAllString(s, "")
}

// AddStructSuffix appends "_t" to bare userdata struct names, so "player"
// becomes "player_t" while "player_t" and "players" are left alone.
func AddStructSuffix(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if i == 0 || !isIdent(s[i-1]) {
			if name, ok := structAt(s, i); ok {
				b.WriteString(name)
				b.WriteString("_t")
				i += len(name)
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func structAt(s string, i int) (string, bool) {
	for _, name := range structNames {
		if !strings.HasPrefix(s[i:], name) {
			continue
		}
		end := i + len(name)
		if end < len(s) && isIdent(s[end]) {
			continue
		}
		return name, true
	}
	return "", false
}

func isIdent(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
