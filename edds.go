package dds

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed EDDS block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4-compressed EDDS block.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the Enfusion chunk size for LZ4 streams.
	ChunkSize = 64 * 1024

	blockTableEntrySize = 8
	chunkHeaderSize     = 4
	chunkLastFlag       = 0x80
	maxChunkSize        = 0x7FFFFF
	minCompressSize     = 1024
	compressRatioLimit  = 0.85
)

// eddsBlock is one mip body as stored on disk.
type eddsBlock struct {
	magic string
	data  []byte
}

// size is the value written to the block table.
func (b *eddsBlock) size() int {
	if b.magic == BlockMagicLZ4 {
		return 4 + len(b.data)
	}

	return len(b.data)
}

// EncodeEDDS serializes s as an Enfusion EDDS file: the DDS headers, a
// block table listing one block per mip from smallest to largest, then the
// block bodies in the same order. With compress set, blocks that shrink
// enough are stored as LZ4 chunk streams; the rest are stored as COPY.
func EncodeEDDS(s *Surface, compress bool) ([]byte, error) {
	if s == nil {
		return nil, ErrNilSurface
	}
	if err := checkEDDSLayout(&s.header); err != nil {
		return nil, err
	}

	raw, dx10, err := rawFromHeader(&s.header)
	if err != nil {
		return nil, err
	}
	raw.Reserved1 = enfusionReserved1()

	blocks := make([]*eddsBlock, len(s.levels))
	for i, l := range s.levels {
		if !compress {
			blocks[i] = &eddsBlock{magic: BlockMagicCOPY, data: l.data}
			continue
		}
		block, err := compressBlock(l.data)
		if err != nil {
			return nil, fmt.Errorf("mipmap %d: %w", i, err)
		}
		blocks[i] = block
	}

	var buf bytes.Buffer
	if err := writeRawHeaders(&buf, raw, dx10); err != nil {
		return nil, err
	}

	for i := len(blocks) - 1; i >= 0; i-- {
		size, err := i32FromInt(blocks[i].size())
		if err != nil {
			return nil, fmt.Errorf("mipmap %d: %w", i, err)
		}
		buf.WriteString(blocks[i].magic)
		_ = binary.Write(&buf, binary.LittleEndian, size)
	}

	for i := len(blocks) - 1; i >= 0; i-- {
		block := blocks[i]
		if block.magic == BlockMagicLZ4 {
			// #nosec G115 -- block sizes were bounded by compressBlock.
			_ = binary.Write(&buf, binary.LittleEndian, uint32(len(s.levels[i].data)))
		}
		buf.Write(block.data)
	}

	return buf.Bytes(), nil
}

// DecodeEDDS parses an Enfusion EDDS file into a surface.
func DecodeEDDS(data []byte) (*Surface, error) {
	raw, dx10, offset, err := readRawHeaders(data)
	if err != nil {
		return nil, err
	}
	h, err := headerFromRaw(raw, dx10)
	if err != nil {
		return nil, err
	}
	if err := checkEDDSLayout(&h); err != nil {
		return nil, err
	}

	levels, err := readBlockLevels(data[offset:], &h)
	if err != nil {
		if h.MipMapCount != 1 {
			return nil, err
		}
		level, legacyErr := readLegacySingleBlock(data[offset:], &h)
		if legacyErr != nil {
			return nil, err
		}
		levels = []MipLevel{level}
	}

	return &Surface{header: h, levels: levels}, nil
}

// readBlockLevels reads the block table and every block body after it.
func readBlockLevels(payload []byte, h *Header) ([]MipLevel, error) {
	r := bytes.NewReader(payload)
	table, err := readBlockTable(r, h.MipMapCount)
	if err != nil {
		return nil, err
	}

	levels := make([]MipLevel, h.MipMapCount)
	for i, entry := range table {
		mip := h.MipMapCount - uint32(i) - 1

		if int64(entry.size) > int64(r.Len()) {
			return nil, fmt.Errorf("%w: mipmap %d: need %d bytes, have %d", ErrBlockBodyTruncated, mip, entry.size, r.Len())
		}
		body := make([]byte, entry.size)
		_, _ = r.Read(body)

		expected := h.MipSize(mip)
		if expected > uint64(maxInt32) {
			return nil, fmt.Errorf("%w: mipmap %d: %d bytes", ErrSizeOverflow, mip, expected)
		}
		out, err := decompressBlock(&eddsBlock{magic: entry.magic, data: body}, int(expected))
		if err != nil {
			return nil, fmt.Errorf("%w: mipmap %d: %w", ErrDecompressBlock, mip, err)
		}
		levels[mip] = MipLevel{data: out}
	}

	return levels, nil
}

// readLegacySingleBlock reads older single-mip files that store one payload
// without a block table. The payload is tried as an LZ4 body first and is
// accepted raw when it already has the level size.
func readLegacySingleBlock(payload []byte, h *Header) (MipLevel, error) {
	expected := h.MipSize(0)
	if expected > uint64(maxInt32) {
		return MipLevel{}, fmt.Errorf("%w: %d bytes", ErrSizeOverflow, expected)
	}

	out, err := decompressBlock(&eddsBlock{magic: BlockMagicLZ4, data: payload}, int(expected))
	if err == nil {
		return MipLevel{data: out}, nil
	}
	if uint64(len(payload)) == expected {
		return MipLevel{data: bytes.Clone(payload)}, nil
	}

	return MipLevel{}, fmt.Errorf("%w: %v", ErrParseSingleBlock, err)
}

// checkEDDSLayout rejects surfaces with more than one slice per mip.
func checkEDDSLayout(h *Header) error {
	if h.Flags.Has(FlagVolume) || h.Flags.Has(FlagCubemap) || h.ArraySize > 1 {
		return ErrEDDSLayout
	}

	return nil
}

// enfusionReserved1 returns the reserved words with the "ENF1" marker.
func enfusionReserved1() [11]uint32 {
	return [11]uint32{
		0,
		0x31464e45, // "ENF1"
		0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
}

type blockTableEntry struct {
	magic string
	size  int32
}

func readBlockTable(r *bytes.Reader, mipMapCount uint32) ([]blockTableEntry, error) {
	if uint64(mipMapCount)*blockTableEntrySize > uint64(r.Len()) {
		return nil, fmt.Errorf("%w: %d entries, %d bytes", ErrBlockTableTruncated, mipMapCount, r.Len())
	}

	entries := make([]blockTableEntry, mipMapCount)
	var raw [blockTableEntrySize]byte
	for i := range entries {
		_, _ = r.Read(raw[:])

		magic := string(raw[:4])
		// #nosec G115 -- two's complement reinterpretation of the on-disk int32.
		size := int32(binary.LittleEndian.Uint32(raw[4:]))
		if magic != BlockMagicCOPY && magic != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: entry %d: %q", ErrUnknownBlockMagic, i, magic)
		}
		if size < 0 || (magic == BlockMagicLZ4 && size < 4) {
			return nil, fmt.Errorf("%w: entry %d: %d", ErrBlockTableInvalidSize, i, size)
		}

		entries[i] = blockTableEntry{magic: magic, size: size}
	}

	return entries, nil
}

// compressBlock compresses data into an LZ4 chunk stream, or keeps it as
// COPY when it is small or does not shrink enough.
func compressBlock(data []byte) (*eddsBlock, error) {
	if len(data) > maxInt32-4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}

	copyBlock := &eddsBlock{magic: BlockMagicCOPY, data: data}
	if len(data) < minCompressSize {
		return copyBlock, nil
	}

	var stream bytes.Buffer
	scratch := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for start := 0; start < len(data); start += ChunkSize {
		end := min(start+ChunkSize, len(data))
		chunk := data[start:end]

		n, err := lz4.CompressBlockHC(chunk, scratch, 0, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if n == 0 || float64(n) > float64(len(chunk))*compressRatioLimit {
			return copyBlock, nil
		}
		if n > maxChunkSize {
			return nil, fmt.Errorf("%w: %d", ErrChunkTooLarge, n)
		}

		flags := byte(0)
		if end == len(data) {
			flags = chunkLastFlag
		}
		stream.Write([]byte{byte(n), byte(n >> 8), byte(n >> 16), flags})
		stream.Write(scratch[:n])
	}

	total := 4 + stream.Len()
	if total > maxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCompressedDataTooLarge, total)
	}
	if float64(total) > float64(len(data))*compressRatioLimit {
		return copyBlock, nil
	}

	return &eddsBlock{magic: BlockMagicLZ4, data: stream.Bytes()}, nil
}

// decompressBlock inflates a block body into exactly expected bytes.
// LZ4 bodies start with the uncompressed size, then the chunk stream; each
// chunk may reference the previous 64KB of output.
func decompressBlock(block *eddsBlock, expected int) ([]byte, error) {
	switch block.magic {
	case BlockMagicCOPY:
		if len(block.data) != expected {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, expected, len(block.data))
		}
		return block.data, nil
	case BlockMagicLZ4:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, block.magic)
	}

	if len(block.data) < 4 {
		return nil, fmt.Errorf("%w: missing uncompressed size", ErrChunkStreamTruncated)
	}
	declared := binary.LittleEndian.Uint32(block.data[:4])
	if uint64(declared) != uint64(expected) {
		return nil, fmt.Errorf("%w: expected %d, header says %d", ErrDecodedSizeMismatch, expected, declared)
	}

	stream := block.data[4:]
	target := make([]byte, expected)
	out := 0

	for {
		if len(stream) < chunkHeaderSize {
			return nil, fmt.Errorf("%w: need %d bytes header, have %d", ErrChunkStreamTruncated, chunkHeaderSize, len(stream))
		}
		cSize := int(stream[0]) | int(stream[1])<<8 | int(stream[2])<<16
		flags := stream[3]
		stream = stream[chunkHeaderSize:]

		if flags&^chunkLastFlag != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if cSize <= 0 || cSize > len(stream) {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, cSize, len(stream))
		}
		if out >= expected {
			return nil, ErrDecodeOverrun
		}

		dictStart := max(out-ChunkSize, 0)
		want := min(ChunkSize, expected-out)
		n, err := lz4.UncompressBlockWithDict(stream[:cSize], target[out:out+want], target[dictStart:out])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		out += n
		stream = stream[cSize:]

		if flags&chunkLastFlag != 0 {
			break
		}
	}

	if out != expected {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, expected, out)
	}
	if len(stream) != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, len(stream))
	}

	return target, nil
}
