// Package wikitext cleans MediaWiki markup into plain text.
//
// The helpers are small string transforms meant to be chained. Order matters:
// RemoveHTMLTags erases the <code> tags CodeTagsToMarkdown would convert, and
// CleanWikiLinks drops the targets ConvertWikiLinks would keep.
//
//	desc := wikitext.CleanWikiLinks(wikitext.RemoveHTMLTags(
//	    wikitext.CodeTagsToMarkdown(wikitext.RemoveBoldItalics(raw))))
package wikitext
