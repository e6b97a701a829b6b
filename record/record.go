package record

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Tag identifies the concrete type of an encoded record.
type Tag uint8

// Built-in tags. Zero is never a valid tag.
const (
	TagInvalid Tag = iota
	TagCommon
	TagFunction
	TagStruct
	TagField
	TagFlag
)

// String returns the registered name of the tag.
func (t Tag) String() string {
	registry.RLock()
	defer registry.RUnlock()
	if e, ok := registry.byTag[t]; ok {
		return e.name
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// ParseTag returns the tag registered under name (case-insensitive).
func ParseTag(name string) (Tag, bool) {
	registry.RLock()
	defer registry.RUnlock()
	t, ok := registry.byName[strings.ToLower(name)]
	return t, ok
}

// Entry holds the text every record exposes.
type Entry struct {
	Name        string `cbor:"1,keyasint" json:"name" yaml:"name"`
	Description string `cbor:"2,keyasint,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
}

// Header returns the entry itself; embedding promotes it to every record.
func (e Entry) Header() Entry { return e }

// Record is a searchable unit.
type Record interface {
	// Tag reports the concrete type.
	Tag() Tag
	// Header returns the name and description.
	Header() Entry
}

type registration struct {
	name    string
	factory func() Record
}

var registry = struct {
	sync.RWMutex
	byTag  map[Tag]registration
	byName map[string]Tag
}{
	byTag:  make(map[Tag]registration),
	byName: make(map[string]Tag),
}

// Register adds a record type. factory must return a fresh pointer whose Tag
// equals tag. Register panics on the invalid tag or a duplicate tag or name.
func Register(tag Tag, name string, factory func() Record) {
	if tag == TagInvalid {
		panic("record: register of invalid tag")
	}
	if factory == nil {
		panic("record: nil factory for " + name)
	}
	key := strings.ToLower(name)

	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.byTag[tag]; dup {
		panic(fmt.Sprintf("record: tag %d registered twice", uint8(tag)))
	}
	if _, dup := registry.byName[key]; dup {
		panic("record: name " + name + " registered twice")
	}
	registry.byTag[tag] = registration{name: key, factory: factory}
	registry.byName[key] = tag
}

// New returns an empty record for tag.
func New(tag Tag) (Record, bool) {
	registry.RLock()
	e, ok := registry.byTag[tag]
	registry.RUnlock()
	if !ok {
		return nil, false
	}
	return e.factory(), true
}

// Registered reports whether tag has a factory.
func Registered(tag Tag) bool {
	registry.RLock()
	defer registry.RUnlock()
	_, ok := registry.byTag[tag]
	return ok
}

// Tags returns every registered tag in ascending order.
func Tags() []Tag {
	registry.RLock()
	tags := make([]Tag, 0, len(registry.byTag))
	for t := range registry.byTag {
		tags = append(tags, t)
	}
	registry.RUnlock()
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Pair is one query string and the record it finds.
type Pair struct {
	Query  string
	Record Record
}
