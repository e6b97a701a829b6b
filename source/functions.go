package source

import (
	"context"
	"regexp"
	"strings"

	"github.com/hupe1980/wikidex/blobstore"
	"github.com/hupe1980/wikidex/record"
	"github.com/hupe1980/wikidex/wikitext"
)

// A row of the functions table:
//
//	|-
//	|{{anchor|text}}<code>'''<name>'''(''item'' a)</code>
//	|<returntype>
//	|<description>
var functionRe = regexp.MustCompile(`<code>'''(?P<function>(?P<name>[\w.]+?)'.*?)<.*\n\|(?P<returntype>.*?)\n\|(?P<description>[\S\s]+?)(?:\{\||===|\|-|\|\})`)

var luaPrefixes = []string{"", "lua ", "lua function ", "lua functions ", "function ", "functions "}

// Functions parses the Lua functions page stored in blob.
func Functions(store blobstore.Store, blob string) Source {
	return Func("functions:"+blob, func(ctx context.Context) ([]record.Pair, error) {
		data, err := blobstore.ReadAll(ctx, store, blob)
		if err != nil {
			return nil, err
		}
		return ParseFunctions(string(data)), nil
	})
}

// ParseFunctions extracts every function of the functions page text.
func ParseFunctions(text string) []record.Pair {
	var pairs []record.Pair
	idx := func(name string) int { return functionRe.SubexpIndex(name) }
	for _, m := range functionRe.FindAllStringSubmatch(text, -1) {
		name := m[idx("name")]

		fn := &record.Function{
			Entry: record.Entry{
				Name: name,
				Description: wikitext.CleanWikiLinks(wikitext.RemoveHTMLTags(
					wikitext.CodeTagsToMarkdown(wikitext.RemoveBoldItalics(m[idx("description")])))),
			},
			Signature: wikitext.AddStructSuffix(wikitext.CleanWikiLinks(
				wikitext.RemoveBoldItalics(m[idx("function")]))),
			ReturnType: wikitext.AddStructSuffix(wikitext.CleanWikiLinks(
				wikitext.RemoveHTMLTags(wikitext.RemoveNewLines(m[idx("returntype")])))),
		}

		for _, q := range FunctionQueries(name) {
			pairs = append(pairs, record.Pair{Query: q, Record: fn})
		}
	}
	return pairs
}

// FunctionQueries returns the aliases a function is found under.
func FunctionQueries(name string) []string {
	name = strings.ToLower(name)
	bases := []string{name, name + "()"}
	if strings.Contains(name, "_") {
		bases = append(bases, strings.ReplaceAll(name, "_", " "), wikitext.TruncateFunctionName(name))
	}
	if strings.Contains(name, ".") {
		bases = append(bases, strings.ReplaceAll(name, ".", " "))
	}

	queries := make([]string, 0, len(bases)*len(luaPrefixes))
	for _, b := range bases {
		for _, p := range luaPrefixes {
			queries = append(queries, p+b)
		}
	}
	return queries
}
