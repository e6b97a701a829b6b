package record

import (
	"fmt"
	"strings"

	"github.com/hupe1980/wikidex/wikitext"
)

// NoDescription is shown for records without a description.
const NoDescription = "Could not find a description for this item."

// Renderer is implemented by records with their own presentation.
type Renderer interface {
	Render() string
}

// Render formats r as plain text for a user. Records implementing Renderer
// format themselves; anything else gets its name and description.
func Render(r Record) string {
	if r == nil {
		return ""
	}
	if rr, ok := r.(Renderer); ok {
		return rr.Render()
	}
	h := r.Header()
	return h.Name + "\n\n" + describe(h.Description, wikitext.TruncateDescription)
}

func describe(desc string, shorten func(string) string) string {
	if strings.TrimSpace(desc) == "" {
		return NoDescription
	}
	return shorten(desc)
}

// Render implements Renderer.
func (c *Common) Render() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.URL != "" {
		fmt.Fprintf(&b, " <%s>", c.URL)
	}
	b.WriteString("\n\n")
	b.WriteString(c.Description)
	return b.String()
}

// Render implements Renderer.
func (f *Function) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <%s#%s>\n", f.Name, wikitext.PageURL("Lua/Functions"), f.Name)
	b.WriteString("Lua → Functions\n\n")
	sig := strings.TrimSpace(f.ReturnType + " " + f.Signature)
	fmt.Fprintf(&b, "    %s\n\n", sig)
	b.WriteString(describe(f.Description, wikitext.FirstTwoSentences))
	return b.String()
}

// Render implements Renderer.
func (s *Struct) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <%s#%s>\n", s.Name, wikitext.PageURL("Lua/Userdata structures"), s.Name)
	fmt.Fprintf(&b, "Lua → Userdata Structs → %s\n\n", s.Category)
	fmt.Fprintf(&b, "Accessibility: %s\n", s.Accessibility)
	fmt.Fprintf(&b, "Allows Custom Variables: %s\n\n", yesNo(s.AllowsCustomVariables))
	b.WriteString(describe(s.Description, shortenOneLine))
	return b.String()
}

// Render implements Renderer.
func (f *Field) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s.%s <%s#%s>\n", f.Parent, f.Name, wikitext.PageURL("Lua/Userdata structures"), f.Parent)
	fmt.Fprintf(&b, "Lua → Userdata Structs → %s\n\n", f.Category)
	fmt.Fprintf(&b, "Type: %s\n", f.Type)
	fmt.Fprintf(&b, "Accessibility: %s\n\n", f.Accessibility)
	b.WriteString(describe(f.Description, shortenOneLine))
	return b.String()
}

// Render implements Renderer.
func (f *Flag) Render() string {
	var b strings.Builder
	b.WriteString(f.Name)
	if f.Decimal != "" || f.Hexadecimal != "" {
		fmt.Fprintf(&b, " (%s / %s)", f.Decimal, f.Hexadecimal)
	}
	b.WriteString("\n\n")
	b.WriteString(describe(f.Description, wikitext.TruncateDescription))
	return b.String()
}

func shortenOneLine(s string) string {
	return wikitext.RemoveNewLines(wikitext.TruncateDescription(s))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
