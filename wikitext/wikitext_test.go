package wikitext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanWikiLinks(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"see [[mobj_t]] for details", "see mobj_t for details"},
		{"a [[Lua/Functions|function]] call", "a function call"},
		{"[[a]] and [[b|c]]", "a and c"},
		{"no links", "no links"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanWikiLinks(tt.in), tt.in)
	}
}

func TestConvertWikiLinks(t *testing.T) {
	assert.Equal(t,
		"see [mobj_t](https://wiki.srb2.org/wiki/mobj_t)",
		ConvertWikiLinks("see [[mobj_t]]"))
	assert.Equal(t,
		"[flags](https://wiki.srb2.org/wiki/Object_flags)",
		ConvertWikiLinks("[[Object flags|flags]]"))
}

func TestRepairBrokenLinks(t *testing.T) {
	assert.Equal(t, "[`MF_SOLID`](https://x)", RepairBrokenLinks("`[MF_SOLID](https://x)`"))
}

func TestFirstTwoSentences(t *testing.T) {
	assert.Equal(t, "One. Two. ", FirstTwoSentences("One. Two. Three."))
	assert.Equal(t, "Only one.", FirstTwoSentences("Only one."))
	// Member access does not end a sentence.
	assert.Equal(t, "Uses mobj.valid here. Then more. ",
		FirstTwoSentences("Uses mobj.valid here. Then more. And more."))
}

func TestShortDescription(t *testing.T) {
	assert.Equal(t, "Intro one. Intro two.",
		ShortDescription("{{Infobox}}Intro one. Intro two. Rest here."))
}

func TestStripping(t *testing.T) {
	assert.Equal(t, "a b", RemoveHTMLTags("a <span>b</span>"))
	assert.Equal(t, "ab", RemoveWikiTables("a{{table\n|x}}b"))
	assert.Equal(t, "ab", RemoveNewLines("a\r\nb"))
	assert.Equal(t, "bold italic", RemoveBoldItalics("'''bold''' ''italic''"))
	assert.Equal(t, "**bold** *italic*", BoldItalicsToMarkdown("'''bold''' ''italic''"))
	assert.Equal(t, "`x`", CodeTagsToMarkdown("<code>x</code>"))
	assert.Equal(t, "a—b", ReplaceHTMLEntities("a&ndash;b&nbsp;"))
	assert.Equal(t, "text", RemoveConstructs("{{tpl}}__TOC__text==Head=="))
	assert.Equal(t, "abc 1.", RemoveNonAlphanumeric("a#b$c 1."))
}

func TestTruncateFunctionName(t *testing.T) {
	assert.Equal(t, "Example", TruncateFunctionName("P_Example"))
	assert.Equal(t, "example", TruncateFunctionName("p_example"))
	assert.Equal(t, "valid", TruncateFunctionName("mobj.valid"))
}

func TestTruncateDescription(t *testing.T) {
	short := "Short text."
	assert.Equal(t, short, TruncateDescription(short))

	long := strings.Repeat("x", 700)
	got := TruncateDescription(long)
	assert.Len(t, got, MaxDescription)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestAddStructSuffix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"player", "player_t"},
		{"player_t", "player_t"},
		{"mobj player skincolor", "mobj player_t skincolor_t"},
		{"ticcmd", "ticcmd_t"},
		{"players", "players"},
		{"(sector, line)", "(sector_t, line_t)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AddStructSuffix(tt.in), tt.in)
	}
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://wiki.srb2.org/wiki/Lua/Userdata_structures", PageURL("Lua/Userdata structures"))
}
