// Package record defines the searchable units stored in the index.
//
// Every record embeds an Entry (Name and Description) and reports a Tag,
// the discriminator the codec writes next to the encoded bytes so the
// concrete type can be rebuilt later. Concrete types register a factory
// for their tag; the codec decodes into whatever New returns.
//
//	record.Register(TagWidget, "widget", func() record.Record { return &Widget{} })
//
// Records are immutable once produced by a source.
package record
