package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression applied to encoded bytes.
type Compression uint8

const (
	// CompressionNone stores encoded bytes behind a header only.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression.
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression.
	CompressionZSTD Compression = 2
)

// String returns the config name of c.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Frame layout: [uncompressed u32 LE][compressed u32 LE][payload].
// A compressed size of 0 means the payload is stored raw.
const headerSize = 8

// MaxFrameSize bounds the uncompressed size a frame may claim.
const MaxFrameSize = 64 << 20

// ErrCorrupt is returned for frames that cannot be decompressed.
var ErrCorrupt = errors.New("codec: corrupt frame")

// Compress wraps data in a frame, compressing it with c when that saves
// more than 10%.
func Compress(data []byte, c Compression) ([]byte, error) {
	var packed []byte
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		packed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		packed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("codec: unknown compression %d", uint8(c))
	}

	if len(data) > MaxFrameSize {
		return nil, fmt.Errorf("codec: %d bytes exceed frame limit", len(data))
	}
	out := make([]byte, headerSize, headerSize+len(data))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	if len(packed) == 0 || float64(len(packed)) > float64(len(data))*0.9 {
		return append(out, data...), nil
	}
	binary.LittleEndian.PutUint32(out[4:], uint32(len(packed)))
	return append(out, packed...), nil
}

// Decompress reverses Compress. The result may alias frame.
func Decompress(frame []byte, c Compression) ([]byte, error) {
	if len(frame) < headerSize {
		return nil, fmt.Errorf("%w: short header", ErrCorrupt)
	}
	size := binary.LittleEndian.Uint32(frame[0:])
	packed := binary.LittleEndian.Uint32(frame[4:])
	body := frame[headerSize:]
	if size > MaxFrameSize {
		return nil, fmt.Errorf("%w: frame claims %d bytes", ErrCorrupt, size)
	}

	if packed == 0 {
		if uint64(len(body)) != uint64(size) {
			return nil, fmt.Errorf("%w: raw size mismatch", ErrCorrupt)
		}
		return body, nil
	}
	if uint64(len(body)) != uint64(packed) {
		return nil, fmt.Errorf("%w: compressed size mismatch", ErrCorrupt)
	}

	switch c {
	case CompressionLZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(body, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(out)) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: compressed frame under %s", ErrCorrupt, c)
	}
}
