package source

import (
	"context"
	"regexp"
	"strings"

	"github.com/hupe1980/wikidex/blobstore"
	"github.com/hupe1980/wikidex/record"
	"github.com/hupe1980/wikidex/wikitext"
)

var (
	// ===<name>===
	// <description>
	// {| class=...
	// !Accessibility
	// |{{<accessibility>}}
	// ...
	// !Allows custom variables
	// |{{<customvar>}}
	structRe = regexp.MustCompile(`^===(?P<name>\w+?\*?)===[\r\n]+?(?P<description>[\s\S]+?)\{\| c[\s\S]+?!Accessibility[\r\n]+?\|\{\{(?P<accessibility>.+?)\}\}[\r\n]+?[\s\S]+?variables[\r\n]+?\|\{\{(?P<customvar>.+?)\}`)

	// !<code><name></code>
	// |<type>
	// |{{<accessibility>}}
	// |<description>
	fieldRe = regexp.MustCompile(`!(?P<name>.+)[\r\n]+\|(?P<type>.+)[\r\n]+\|(?P<accessibility>.+)[\r\n]+\|(?P<description>.+)[\r\n]`)
)

type structInfo struct {
	category string
	aliases  []string
	// bare adds each alias as a query of its own, not only with suffixes.
	bare bool
}

var structInfos = map[string]structInfo{
	"mobj_t":             {"General", []string{"object"}, true},
	"player_t":           {"General", nil, false},
	"ticcmd_t":           {"General", []string{"button", "button info", "buttons info"}, true},
	"skin_t":             {"General", nil, false},
	"mobjinfo_t":         {"SOC", []string{"mobj info", "object info"}, true},
	"state_t":            {"SOC", nil, false},
	"sfxinfo_t":          {"SOC", []string{"sound info", "sounds info", "sfx info", "sound fx info", "sound effect info", "sound effects info"}, true},
	"hudinfo_t":          {"SOC", []string{"hud info"}, true},
	"mapheader_t":        {"SOC", []string{"map header", "map header info"}, false},
	"skincolor_t":        {"SOC", []string{"skin color"}, false},
	"spriteframepivot_t": {"SOC", []string{"sprite frame pivot"}, true},
	"mapthing_t":         {"Map", []string{"map thing"}, true},
	"sector_t":           {"Map", nil, false},
	"subsector_t":        {"Map", []string{"sub sector"}, true},
	"line_t":             {"Map", nil, false},
	"side_t":             {"Map", nil, false},
	"vertex_t":           {"Map", nil, false},
	"ffloor_t":           {"Map", []string{"fof", "floor over floor"}, false},
	"pslope_t":           {"Map", []string{"slope"}, false},
	"polyobj_t":          {"Map", []string{"poly object"}, false},
	"camera_t":           {"Miscellaneous", nil, false},
	"consvar_t":          {"Miscellaneous", []string{"console", "console variable"}, false},
	"patch_t":            {"Miscellaneous", []string{"graphic", "graphics"}, false},
	"file":               {"Miscellaneous", []string{"file*"}, true},
}

// DefaultCategory is used for structs missing from the category table.
const DefaultCategory = "Miscellaneous"

var structSuffixes = []string{" struct", " userdata", " userdata struct", " userdata structure"}

// Structs parses every blob below prefix as one userdata structure page.
// Blobs that do not look like a structure page are skipped.
func Structs(store blobstore.Store, prefix string) Source {
	return Func("structs:"+prefix, func(ctx context.Context) ([]record.Pair, error) {
		names, err := store.List(ctx, prefix)
		if err != nil {
			return nil, err
		}
		var pairs []record.Pair
		for _, name := range names {
			data, err := blobstore.ReadAll(ctx, store, name)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, ParseStruct(string(data))...)
		}
		return pairs, nil
	})
}

type structField struct {
	rec *record.Field
	// short is the bracket-free query form, empty when the name has no brackets.
	short string
}

// ParseStruct extracts a structure and its fields from one page.
func ParseStruct(text string) []record.Pair {
	m := structRe.FindStringSubmatch(text)
	fieldMatches := fieldRe.FindAllStringSubmatch(text, -1)
	if m == nil || len(fieldMatches) == 0 {
		return nil
	}
	group := func(re *regexp.Regexp, g []string, name string) string { return g[re.SubexpIndex(name)] }

	name := group(structRe, m, "name")
	info, ok := structInfos[name]
	if !ok {
		info = structInfo{category: DefaultCategory}
	}

	desc := wikitext.RemoveBoldItalics(wikitext.RemoveNewLines(wikitext.RemoveWikiTables(
		wikitext.ConvertWikiLinks(wikitext.CodeTagsToMarkdown(group(structRe, m, "description"))))))
	desc = strings.ReplaceAll(desc, "In the examples below", "In some examples")

	st := &record.Struct{
		Entry:                 record.Entry{Name: name, Description: desc},
		Accessibility:         record.ParseAccessibility(group(structRe, m, "accessibility")),
		AllowsCustomVariables: strings.EqualFold(group(structRe, m, "customvar"), "yes"),
		Category:              info.category,
	}

	var fields []structField
	for _, g := range fieldMatches {
		f, ok := parseField(st, g)
		if ok {
			fields = append(fields, f)
		}
	}

	var pairs []record.Pair
	for _, alias := range structAliases(name, info) {
		pairs = append(pairs, record.Pair{Query: alias, Record: st})
		for _, f := range fields {
			if f.short != "" {
				pairs = append(pairs, record.Pair{Query: alias + " " + f.short, Record: f.rec})
			}
			pairs = append(pairs, record.Pair{Query: alias + " " + f.rec.Name, Record: f.rec})
		}
	}
	return pairs
}

func parseField(st *record.Struct, g []string) (structField, bool) {
	group := func(name string) string { return g[fieldRe.SubexpIndex(name)] }

	name := wikitext.RemoveNewLines(wikitext.RemoveHTMLTags(group("name")))
	var short string
	if i := strings.IndexByte(name, '['); i >= 0 {
		switch {
		case strings.Contains(name, "soundsid"):
			short, name = "soundsid", `soundsid["SKSNAME"]`
		case strings.Contains(name, "powers"):
			short, name = "powers", `powers["powername"]`
		case strings.Contains(name, "polyobj:"):
			// a method listed in the table, not a field
			return structField{}, false
		default:
			short = name[:i]
		}
	}

	desc := wikitext.RepairBrokenLinks(wikitext.ReplaceHTMLEntities(wikitext.RemoveBoldItalics(
		wikitext.ConvertWikiLinks(wikitext.RemoveNewLines(wikitext.RemoveWikiTables(
			wikitext.CodeTagsToMarkdown(group("description"))))))))

	return structField{
		rec: &record.Field{
			Entry:         record.Entry{Name: name, Description: desc},
			Parent:        st.Name,
			Category:      st.Category,
			Type:          fieldType(group("type")),
			Accessibility: record.ParseAccessibility(group("accessibility")),
		},
		short: short,
	}, true
}

// fieldType formats a field type as inline code, keeping "array" outside.
func fieldType(raw string) string {
	t := wikitext.ReplaceHTMLEntities(wikitext.ConvertWikiLinks(
		wikitext.RemoveNewLines(wikitext.RemoveHTMLTags(raw))))
	if strings.Contains(strings.ToLower(t), "enum") {
		t = strings.ReplaceAll(t, "enum", "`enum`")
	} else {
		t = "`" + t + "`"
	}
	if strings.Contains(t, "array") {
		t = strings.ReplaceAll(strings.ReplaceAll(t, " array", ""), "array", "") + " array"
	}
	return t
}

func structAliases(name string, info structInfo) []string {
	withSuffixes := func(out []string, n string) []string {
		for _, s := range structSuffixes {
			out = append(out, n+s)
		}
		return out
	}

	aliases := withSuffixes([]string{name}, name)
	if len(name) > 2 && strings.HasSuffix(strings.ToLower(name), "_t") {
		short := name[:len(name)-2]
		aliases = withSuffixes(append(aliases, short), short)
	}
	for _, alt := range info.aliases {
		if info.bare {
			aliases = append(aliases, alt)
		}
		aliases = withSuffixes(aliases, alt)
	}
	return aliases
}
