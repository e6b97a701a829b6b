package source

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/wikidex/blobstore"
	"github.com/hupe1980/wikidex/record"
)

// Sections of the common searches file.
const (
	SectionCommons    = "commons"
	SectionPrimitives = "primitives"
)

// A template lists the queries that answer with one record. Type names a
// registered record tag and defaults to "common".
type template[T any] struct {
	Queries []string `json:"queries" yaml:"queries"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty"`
	Object  T        `json:"object" yaml:"object"`
}

// Commons reads one section of a common searches file. Files ending in
// .json are decoded as JSON, anything else as YAML.
func Commons(store blobstore.Store, blob, section string) Source {
	return Func(section+":"+blob, func(ctx context.Context) ([]record.Pair, error) {
		data, err := blobstore.ReadAll(ctx, store, blob)
		if err != nil {
			return nil, err
		}
		var pairs []record.Pair
		if strings.EqualFold(path.Ext(blob), ".json") {
			pairs, err = ParseCommonsJSON(data, section)
		} else {
			pairs, err = ParseCommonsYAML(data, section)
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", blob, err)
		}
		return pairs, nil
	})
}

func newRecord(typ string) (record.Record, error) {
	if typ == "" {
		typ = record.TagCommon.String()
	}
	tag, ok := record.ParseTag(typ)
	if !ok {
		return nil, fmt.Errorf("unknown record type %q", typ)
	}
	r, _ := record.New(tag)
	return r, nil
}

func expand(queries []string, r record.Record) []record.Pair {
	pairs := make([]record.Pair, 0, len(queries))
	for _, q := range queries {
		pairs = append(pairs, record.Pair{Query: q, Record: r})
	}
	return pairs
}

// ParseCommonsYAML decodes section of a YAML common searches document.
func ParseCommonsYAML(data []byte, section string) ([]record.Pair, error) {
	var doc map[string][]template[yaml.Node]
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var pairs []record.Pair
	for i, t := range doc[section] {
		r, err := newRecord(t.Type)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		if err := t.Object.Decode(r); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		pairs = append(pairs, expand(t.Queries, r)...)
	}
	return pairs, nil
}

// ParseCommonsJSON decodes section of a JSON common searches document.
func ParseCommonsJSON(data []byte, section string) ([]record.Pair, error) {
	var doc map[string][]template[json.RawMessage]
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var pairs []record.Pair
	for i, t := range doc[section] {
		r, err := newRecord(t.Type)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		dec := json.NewDecoder(bytes.NewReader(t.Object))
		dec.DisallowUnknownFields()
		if err := dec.Decode(r); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		pairs = append(pairs, expand(t.Queries, r)...)
	}
	return pairs, nil
}
