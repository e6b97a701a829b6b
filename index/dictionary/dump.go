package dictionary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/wikidex/codec"
	"github.com/hupe1980/wikidex/internal/container"
	"github.com/hupe1980/wikidex/internal/conv"
	"github.com/hupe1980/wikidex/internal/hash"
	"github.com/hupe1980/wikidex/record"
)

// Dump layout:
//
//	magic "WDXD" | version u8 | compression u8 | codec name (uvarint len + bytes)
//	body:   uvarint values | values (uvarint len + bytes)...
//	        uvarint keys   | keys (uvarint len + bytes, tag u8, uvarint slot)...
//	blake3(body) [32] | crc32c(everything before) u32 LE
const (
	dumpMagic   = "WDXD"
	dumpVersion = 1
)

// ErrBadDump is returned by ReadDump and Load for malformed or damaged dumps.
var ErrBadDump = errors.New("dictionary: bad dump")

// DumpInfo describes a verified dump.
type DumpInfo struct {
	Version     uint8
	Codec       string
	Compression codec.Compression
	Keys        int
	Values      int
	Digest      [hash.DigestSize]byte
}

// SerializeAll writes the whole store as one blob.
func (d *Dictionary) SerializeAll() ([]byte, error) {
	var body bytes.Buffer
	putUvarint(&body, uint64(len(d.arena)))
	for _, v := range d.arena {
		putBytes(&body, v)
	}
	putUvarint(&body, uint64(d.keys.Len()))
	for ek, ref := range d.keys.All() {
		putBytes(&body, ek)
		body.WriteByte(byte(ref.tag))
		putUvarint(&body, uint64(ref.slot))
	}

	var out bytes.Buffer
	out.WriteString(dumpMagic)
	out.WriteByte(dumpVersion)
	out.WriteByte(byte(d.opts.Compression))
	putBytes(&out, []byte(codecName(d.opts)))
	out.Write(body.Bytes())
	digest := hash.Digest(body.Bytes())
	out.Write(digest[:])

	var crc [4]byte
	binary.LittleEndian.PutUint32(crc[:], hash.CRC32C(out.Bytes()))
	out.Write(crc[:])
	return out.Bytes(), nil
}

func codecName(o codec.Options) string {
	if o.Codec == nil {
		return codec.Default.Name()
	}
	return o.Codec.Name()
}

// ReadDump verifies data and returns its header and counts.
func ReadDump(data []byte) (DumpInfo, error) {
	info, _, err := parseDump(data)
	return info, err
}

// Load rebuilds a frozen Dictionary from a dump.
func Load(data []byte) (*Dictionary, error) {
	info, d, err := parseDump(data)
	if err != nil {
		return nil, err
	}
	d.stats = Stats{
		Keys:           info.Keys,
		DistinctValues: info.Values,
	}
	for ek := range d.keys.All() {
		d.stats.KeyBytes += len(ek)
	}
	for _, v := range d.arena {
		d.stats.ValueBytes += len(v)
	}
	return d, nil
}

func parseDump(data []byte) (DumpInfo, *Dictionary, error) {
	var info DumpInfo
	if len(data) < len(dumpMagic)+2+hash.DigestSize+4 || string(data[:len(dumpMagic)]) != dumpMagic {
		return info, nil, fmt.Errorf("%w: missing header", ErrBadDump)
	}
	crcAt := len(data) - 4
	if hash.CRC32C(data[:crcAt]) != binary.LittleEndian.Uint32(data[crcAt:]) {
		return info, nil, fmt.Errorf("%w: checksum mismatch", ErrBadDump)
	}

	r := &reader{buf: data[:crcAt-hash.DigestSize], off: len(dumpMagic)}
	info.Version = r.readByte()
	if info.Version != dumpVersion {
		return info, nil, fmt.Errorf("%w: unsupported version %d", ErrBadDump, info.Version)
	}
	info.Compression = codec.Compression(r.readByte())
	info.Codec = string(r.readBytes())
	c, ok := codec.ByName(info.Codec)
	if r.err == nil && !ok {
		return info, nil, fmt.Errorf("%w: unknown codec %q", ErrBadDump, info.Codec)
	}

	bodyStart := r.off
	nValues := r.count()
	arena := make([][]byte, 0, min(nValues, 1<<16))
	for i := 0; i < nValues && r.err == nil; i++ {
		arena = append(arena, r.readBytes())
	}
	nKeys := r.count()
	keys := container.NewByteMap[slotRef](hash.Content{}, min(nKeys, 1<<16))
	for i := 0; i < nKeys && r.err == nil; i++ {
		ek := r.readBytes()
		tag := record.Tag(r.readByte())
		slot := r.count()
		if r.err == nil && slot >= len(arena) {
			r.err = fmt.Errorf("slot %d out of range", slot)
		}
		s, err := conv.IntToUint32(slot)
		if err != nil && r.err == nil {
			r.err = err
		}
		keys.Put(ek, slotRef{slot: s, tag: tag})
	}
	if r.err != nil {
		return info, nil, fmt.Errorf("%w: %w", ErrBadDump, r.err)
	}
	if r.off != len(r.buf) {
		return info, nil, fmt.Errorf("%w: %d trailing bytes", ErrBadDump, len(r.buf)-r.off)
	}

	copy(info.Digest[:], data[crcAt-hash.DigestSize:crcAt])
	if hash.Digest(r.buf[bodyStart:]) != info.Digest {
		return info, nil, fmt.Errorf("%w: digest mismatch", ErrBadDump)
	}
	info.Keys = keys.Len()
	info.Values = len(arena)

	return info, &Dictionary{
		opts:  codec.Options{Codec: c, Compression: info.Compression},
		keys:  keys,
		arena: arena,
	}, nil
}

func putUvarint(b *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	b.Write(tmp[:n])
}

func putBytes(b *bytes.Buffer, p []byte) {
	putUvarint(b, uint64(len(p)))
	b.Write(p)
}

// reader decodes the dump body; the first error sticks.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) readByte() byte {
	if r.err != nil {
		return 0
	}
	if r.off >= len(r.buf) {
		r.err = errors.New("unexpected end of dump")
		return 0
	}
	c := r.buf[r.off]
	r.off++
	return c
}

func (r *reader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf[r.off:])
	if n <= 0 {
		r.err = errors.New("bad varint")
		return 0
	}
	r.off += n
	return v
}

func (r *reader) count() int {
	v := r.uvarint()
	if r.err != nil {
		return 0
	}
	n, err := conv.Uint64ToInt(v)
	if err != nil {
		r.err = err
		return 0
	}
	return n
}

func (r *reader) readBytes() []byte {
	n := r.count()
	if r.err != nil {
		return nil
	}
	if n > len(r.buf)-r.off {
		r.err = errors.New("length exceeds dump")
		return nil
	}
	p := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return p
}
