package record

import "strings"

func init() {
	Register(TagCommon, "common", func() Record { return &Common{} })
	Register(TagFunction, "function", func() Record { return &Function{} })
	Register(TagStruct, "struct", func() Record { return &Struct{} })
	Register(TagField, "field", func() Record { return &Field{} })
	Register(TagFlag, "flag", func() Record { return &Flag{} })
}

// Common is a canned answer that links to a wiki page.
type Common struct {
	Entry `yaml:",inline"`
	URL   string `cbor:"3,keyasint,omitempty" json:"url,omitempty" yaml:"url,omitempty"`
}

// Tag implements Record.
func (*Common) Tag() Tag { return TagCommon }

// Function is a Lua function from the functions page.
type Function struct {
	Entry `yaml:",inline"`
	// Signature is the full call form, e.g. "P_Example(mobj_t mo)".
	Signature  string `cbor:"3,keyasint" json:"signature" yaml:"signature"`
	ReturnType string `cbor:"4,keyasint,omitempty" json:"return_type,omitempty" yaml:"return_type,omitempty"`
}

// Tag implements Record.
func (*Function) Tag() Tag { return TagFunction }

// Struct is a Lua userdata structure.
type Struct struct {
	Entry                 `yaml:",inline"`
	Accessibility         Accessibility `cbor:"3,keyasint" json:"accessibility" yaml:"accessibility"`
	AllowsCustomVariables bool          `cbor:"4,keyasint" json:"allows_custom_variables" yaml:"allows_custom_variables"`
	Category              string        `cbor:"5,keyasint,omitempty" json:"category,omitempty" yaml:"category,omitempty"`
}

// Tag implements Record.
func (*Struct) Tag() Tag { return TagStruct }

// Field is a member of a userdata structure.
type Field struct {
	Entry         `yaml:",inline"`
	Parent        string        `cbor:"3,keyasint" json:"parent" yaml:"parent"`
	Category      string        `cbor:"4,keyasint,omitempty" json:"category,omitempty" yaml:"category,omitempty"`
	Type          string        `cbor:"5,keyasint,omitempty" json:"type,omitempty" yaml:"type,omitempty"`
	Accessibility Accessibility `cbor:"6,keyasint" json:"accessibility" yaml:"accessibility"`
}

// Tag implements Record.
func (*Field) Tag() Tag { return TagField }

// Flag is a named constant with its numeric forms.
type Flag struct {
	Entry       `yaml:",inline"`
	Decimal     string `cbor:"3,keyasint,omitempty" json:"decimal,omitempty" yaml:"decimal,omitempty"`
	Hexadecimal string `cbor:"4,keyasint,omitempty" json:"hexadecimal,omitempty" yaml:"hexadecimal,omitempty"`
}

// Tag implements Record.
func (*Flag) Tag() Tag { return TagFlag }

// Accessibility describes whether Lua may write a struct or field.
type Accessibility uint8

const (
	AccessNone Accessibility = iota
	AccessReadOnly
	AccessPartiallyReadOnly
	AccessReadWrite
)

// String returns the display form.
func (a Accessibility) String() string {
	switch a {
	case AccessReadOnly:
		return "Read-Only"
	case AccessPartiallyReadOnly:
		return "Partially Read-Only"
	case AccessReadWrite:
		return "Read & Write"
	default:
		return "N/A"
	}
}

// ParseAccessibility reads the accessibility cell of a wiki table, e.g.
// "yes", "no", "partial", "read+write" or "read-only".
func ParseAccessibility(s string) Accessibility {
	s = strings.ToLower(s)
	rw := strings.Contains(s, "read+write")
	ro := strings.Contains(s, "read-only")
	switch {
	case strings.HasPrefix(s, "partial") || (rw && ro):
		return AccessPartiallyReadOnly
	case strings.HasPrefix(s, "yes") || rw:
		return AccessReadWrite
	case strings.HasPrefix(s, "no") || ro:
		return AccessReadOnly
	default:
		return AccessNone
	}
}
