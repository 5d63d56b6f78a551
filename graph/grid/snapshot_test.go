package grid

import (
	"bytes"
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/hupe1980/waypoint/blobstore"
	"github.com/hupe1980/waypoint/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func largeMap() string {
	var sb strings.Builder
	for z := 0; z < 40; z++ {
		for x := 0; x < 40; x++ {
			switch {
			case x == 20 && z < 30:
				sb.WriteByte('#')
			case z == 10:
				sb.WriteByte('~')
			case x == 5:
				sb.WriteByte('4')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestSnapshotRoundTrip(t *testing.T) {
	src, _ := mustParse(t, largeMap(), Options{NodeSize: 0.5, Topology: Four, GraphIndex: 3})
	src.SetPenalty(1, 1, 12345)

	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
			t.Run(c.Name()+"/"+comp.String(), func(t *testing.T) {
				var buf bytes.Buffer
				require.NoError(t, src.Encode(&buf, SnapshotOptions{Codec: c, Compression: comp}))

				got, err := Decode(&buf)
				require.NoError(t, err)

				assert.Equal(t, src.Width(), got.Width())
				assert.Equal(t, src.Depth(), got.Depth())
				assert.Equal(t, src.NodeSize(), got.NodeSize())
				assert.Equal(t, src.Topology(), got.Topology())
				assert.Equal(t, src.GraphIndex(), got.GraphIndex())
				assert.Equal(t, src.Render(nil), got.Render(nil))
				assert.Equal(t, uint32(12345), got.Penalty(got.NodeAt(1, 1)))
				assert.Equal(t, src.AreaCount(), got.AreaCount())
				assert.Equal(t, src.Position(src.NodeAt(7, 9)), got.Position(got.NodeAt(7, 9)))
			})
		}
	}
}

func TestSnapshotCompresses(t *testing.T) {
	src, _ := mustParse(t, largeMap(), Options{})

	var plain, packed bytes.Buffer
	require.NoError(t, src.Encode(&plain, SnapshotOptions{}))
	require.NoError(t, src.Encode(&packed, SnapshotOptions{Compression: CompressionZSTD}))
	assert.Less(t, packed.Len(), plain.Len())
}

func TestDecodeInvalid(t *testing.T) {
	src, _ := mustParse(t, "..\n..\n", Options{})
	var buf bytes.Buffer
	require.NoError(t, src.Encode(&buf, SnapshotOptions{}))
	data := buf.Bytes()

	tests := map[string][]byte{
		"Empty":        nil,
		"BadMagic":     append([]byte("XXXXXXXX"), data[8:]...),
		"Truncated":    data[:len(data)-3],
		"Huge":         rawSnapshot(`{"width":4294967296,"depth":4294967296,"topology":"eight"}`, 0, nil),
		"Overflow":     rawSnapshot(`{"width":3037000500,"depth":3037000500,"topology":"eight"}`, 0, nil),
		"Negative":     rawSnapshot(`{"width":-2,"depth":-3,"topology":"eight"}`, 36, make([]byte, 36)),
		"SizeMismatch": rawSnapshot(`{"width":4,"depth":4,"topology":"eight"}`, 12, make([]byte, 12)),
		"ShortBody":    rawSnapshot(`{"width":2,"depth":2,"topology":"eight"}`, 24, make([]byte, 10)),
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(in))
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}

	t.Run("HandFramed", func(t *testing.T) {
		g, err := Decode(bytes.NewReader(rawSnapshot(`{"width":2,"depth":2,"topology":"four"}`, 24, make([]byte, 24))))
		require.NoError(t, err)
		assert.Equal(t, 4, g.NodeCount())
		assert.Equal(t, Four, g.Topology())
		assert.False(t, g.Walkable(0))
	})
}

// rawSnapshot frames an uncompressed snapshot around a go-json header.
func rawSnapshot(header string, rawLen uint32, body []byte) []byte {
	var buf bytes.Buffer
	buf.Write(snapshotMagic[:])
	buf.WriteByte(snapshotVersion)
	buf.WriteByte(byte(CompressionNone))
	name := codec.GoJSON{}.Name()
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(name)))
	buf.WriteString(name)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(header)))
	buf.WriteString(header)
	_ = binary.Write(&buf, binary.LittleEndian, rawLen)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.Write(body)
	return buf.Bytes()
}

func TestSaveLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	src, _ := mustParse(t, largeMap(), Options{})
	require.NoError(t, src.SaveSnapshot(ctx, store, "maps/large.wpg", SnapshotOptions{Compression: CompressionLZ4}))

	got, err := LoadSnapshot(ctx, store, "maps/large.wpg")
	require.NoError(t, err)
	assert.Equal(t, src.Render(nil), got.Render(nil))

	_, err = LoadSnapshot(ctx, store, "maps/missing.wpg")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}
