package grid

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/hupe1980/waypoint/blobstore"
	"github.com/hupe1980/waypoint/codec"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrInvalidSnapshot is returned when snapshot bytes cannot be decoded.
var ErrInvalidSnapshot = errors.New("grid: invalid snapshot")

// Compression selects how the node body of a snapshot is stored.
type Compression uint8

const (
	// CompressionNone stores the body verbatim.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

// String returns the compression name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("grid: unknown compression %q", s)
	}
}

// Snapshot layout:
//
//	magic[8] version u8 compression u8
//	codecNameLen u16 codecName
//	headerLen u32 header (codec encoded snapshotHeader)
//	rawLen u32 storedLen u32 body
//
// The raw body holds one record per node: flags u8, tag u8, penalty u32.
// storedLen 0 means the body is stored uncompressed.
const (
	snapshotVersion = 1
	nodeRecordSize  = 6
	nodeWalkable    = 1 << 0
)

var snapshotMagic = [8]byte{'W', 'P', 'G', 'R', 'I', 'D', 0, 1}

type snapshotHeader struct {
	Width      int     `json:"width"`
	Depth      int     `json:"depth"`
	NodeSize   float64 `json:"node_size"`
	Topology   string  `json:"topology"`
	CutCorners bool    `json:"cut_corners"`
	GraphIndex uint32  `json:"graph_index"`
}

// SnapshotOptions configures Encode.
type SnapshotOptions struct {
	// Codec encodes the header. Defaults to codec.Default.
	Codec codec.Codec
	// Compression of the node body.
	Compression Compression
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

// Encode writes a snapshot of the graph to w.
func (g *Graph) Encode(w io.Writer, opts SnapshotOptions) error {
	c := opts.Codec
	if c == nil {
		c = codec.Default
	}

	header, err := c.Marshal(snapshotHeader{
		Width:      g.width,
		Depth:      g.depth,
		NodeSize:   g.nodeSize,
		Topology:   g.topology.String(),
		CutCorners: g.cutCorners,
		GraphIndex: g.graphIndex,
	})
	if err != nil {
		return fmt.Errorf("grid: encode header: %w", err)
	}

	raw := make([]byte, g.NodeCount()*nodeRecordSize)
	for i := 0; i < g.NodeCount(); i++ {
		rec := raw[i*nodeRecordSize:]
		if g.walkable.Test(uint(i)) {
			rec[0] = nodeWalkable
		}
		rec[1] = g.tags[i]
		binary.LittleEndian.PutUint32(rec[2:], g.penalties[i])
	}

	stored, err := compress(raw, opts.Compression)
	if err != nil {
		return fmt.Errorf("grid: compress body: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(snapshotMagic) + 2 + 2 + len(c.Name()) + 4 + len(header) + 8 + len(stored))
	buf.Write(snapshotMagic[:])
	buf.WriteByte(snapshotVersion)
	buf.WriteByte(byte(opts.Compression))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(c.Name())))
	buf.WriteString(c.Name())
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(header)))
	buf.Write(header)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(raw)))
	if stored == nil {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
		buf.Write(raw)
	} else {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(stored)))
		buf.Write(stored)
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// compress returns nil when the body should be stored uncompressed.
func compress(raw []byte, c Compression) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var out []byte
	switch c {
	case CompressionNone:
		return nil, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, dst, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			// Incompressible
			return nil, nil
		}
		out = dst[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		out = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("unknown compression %d", c)
	}

	if len(out) >= len(raw) {
		return nil, nil
	}
	return out, nil
}

func decompress(stored []byte, rawLen int, c Compression) ([]byte, error) {
	switch c {
	case CompressionLZ4:
		raw := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(stored, raw)
		if err != nil {
			return nil, err
		}
		if n != rawLen {
			return nil, fmt.Errorf("lz4 size mismatch: %d != %d", n, rawLen)
		}
		return raw, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		raw, err := dec.DecodeAll(stored, make([]byte, 0, rawLen))
		if err != nil {
			return nil, err
		}
		if len(raw) != rawLen {
			return nil, fmt.Errorf("zstd size mismatch: %d != %d", len(raw), rawLen)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown compression %d", c)
	}
}

type snapshotReader struct {
	data []byte
	off  int
}

func (r *snapshotReader) next(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *snapshotReader) u16() (int, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint16(b)), nil
}

func (r *snapshotReader) u32() (int, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint32(b)), nil
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	g, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return g, nil
}

func decode(data []byte) (*Graph, error) {
	r := &snapshotReader{data: data}

	magic, err := r.next(len(snapshotMagic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, snapshotMagic[:]) {
		return nil, errors.New("bad magic")
	}

	meta, err := r.next(2)
	if err != nil {
		return nil, err
	}
	if meta[0] != snapshotVersion {
		return nil, fmt.Errorf("unsupported version %d", meta[0])
	}
	comp := Compression(meta[1])

	nameLen, err := r.u16()
	if err != nil {
		return nil, err
	}
	name, err := r.next(nameLen)
	if err != nil {
		return nil, err
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", name)
	}

	headerLen, err := r.u32()
	if err != nil {
		return nil, err
	}
	headerBytes, err := r.next(headerLen)
	if err != nil {
		return nil, err
	}
	var h snapshotHeader
	if err := c.Unmarshal(headerBytes, &h); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	rawLen, err := r.u32()
	if err != nil {
		return nil, err
	}
	if h.Width <= 0 || h.Depth <= 0 || h.Width > math.MaxInt32/nodeRecordSize/h.Depth || h.Width*h.Depth*nodeRecordSize != rawLen {
		return nil, fmt.Errorf("body size %d does not match %dx%d grid", rawLen, h.Width, h.Depth)
	}

	storedLen, err := r.u32()
	if err != nil {
		return nil, err
	}

	var raw []byte
	if storedLen == 0 {
		if raw, err = r.next(rawLen); err != nil {
			return nil, err
		}
	} else {
		stored, err := r.next(storedLen)
		if err != nil {
			return nil, err
		}
		if raw, err = decompress(stored, rawLen, comp); err != nil {
			return nil, err
		}
	}

	topo, err := ParseTopology(h.Topology)
	if err != nil {
		return nil, err
	}
	g, err := New(Options{
		Width:      h.Width,
		Depth:      h.Depth,
		NodeSize:   h.NodeSize,
		Topology:   topo,
		CutCorners: h.CutCorners,
		GraphIndex: h.GraphIndex,
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < g.NodeCount(); i++ {
		rec := raw[i*nodeRecordSize:]
		g.walkable.SetTo(uint(i), rec[0]&nodeWalkable != 0)
		g.tags[i] = rec[1] & 31
		g.penalties[i] = binary.LittleEndian.Uint32(rec[2:])
	}
	g.areasDirty = true

	return g, nil
}

// SaveSnapshot encodes the graph and stores it under name.
func (g *Graph) SaveSnapshot(ctx context.Context, store blobstore.Store, name string, opts SnapshotOptions) error {
	var buf bytes.Buffer
	if err := g.Encode(&buf, opts); err != nil {
		return err
	}
	return store.Put(ctx, name, buf.Bytes())
}

// LoadSnapshot reads and decodes the snapshot stored under name.
func LoadSnapshot(ctx context.Context, store blobstore.Store, name string) (*Graph, error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}
