package dds

import (
	"bytes"
	"fmt"
)

// Flags is the set of layout properties recorded in the header.
type Flags uint32

const (
	// FlagMipmaps marks a header that declares a mip count.
	FlagMipmaps Flags = 1 << iota
	// FlagPitch marks PitchOrLinearSize as the row pitch.
	FlagPitch
	// FlagLinearSize marks PitchOrLinearSize as the top level byte size.
	FlagLinearSize
	// FlagVolume marks a volume texture with Depth slices per level.
	FlagVolume
	// FlagCubemap marks a cubemap with six faces.
	FlagCubemap
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Header describes the shape and format of a surface.
type Header struct {
	Width             uint32
	Height            uint32
	PitchOrLinearSize uint32
	MipMapCount       uint32
	Depth             uint32
	// ArraySize is the texture array length, only stored by the extended header.
	ArraySize uint32
	// AlphaMode is the extended header alpha mode (0 unknown, 1 straight, 2 premultiplied...).
	AlphaMode uint32
	Format    PixelFormat
	Flags     Flags
}

// Faces returns 6 for cubemaps and 1 otherwise.
func (h Header) Faces() uint32 {
	if h.Flags.Has(FlagCubemap) {
		return cubemapFaceCount
	}

	return 1
}

// LevelCount returns the number of level buffers the surface holds.
func (h Header) LevelCount() uint64 {
	return uint64(max(h.ArraySize, 1)) * uint64(h.Faces()) * uint64(max(h.MipMapCount, 1)) * uint64(max(h.Depth, 1))
}

// MipDimensions returns width and height of mip level mip, each floored at 1.
func (h Header) MipDimensions(mip uint32) (uint32, uint32) {
	return mipDimension(h.Width, mip), mipDimension(h.Height, mip)
}

// MipSize returns the byte length of one slice of mip level mip.
func (h Header) MipSize(mip uint32) uint64 {
	w, ht := h.MipDimensions(mip)
	return h.Format.levelSize(w, ht)
}

// MipLevel is one slice of one mip level. Its dimensions follow from the
// owning surface and its position there.
type MipLevel struct {
	data []byte
}

// Len returns the size of the level in bytes.
func (l MipLevel) Len() int {
	return len(l.data)
}

// Bytes returns a copy of the level data.
func (l MipLevel) Bytes() []byte {
	return bytes.Clone(l.data)
}

// Surface is a validated, immutable DDS texture.
//
// Levels are ordered by array element, then cube face, then mip level,
// then depth slice, with the depth slice varying fastest.
type Surface struct {
	header Header
	levels []MipLevel
}

// Header returns the surface header.
func (s *Surface) Header() Header {
	return s.header
}

// Format returns the pixel format.
func (s *Surface) Format() PixelFormat {
	return s.header.Format
}

// Width returns the top level width.
func (s *Surface) Width() int {
	return int(s.header.Width)
}

// Height returns the top level height.
func (s *Surface) Height() int {
	return int(s.header.Height)
}

// NumLevels returns how many level buffers the surface holds.
func (s *Surface) NumLevels() int {
	return len(s.levels)
}

// Level returns the level buffer at index i.
func (s *Surface) Level(i int) (MipLevel, error) {
	if i < 0 || i >= len(s.levels) {
		return MipLevel{}, fmt.Errorf("%w: %d of %d", ErrLevelIndex, i, len(s.levels))
	}

	return s.levels[i], nil
}

// LevelIndex returns the index of (element, mip, slice), where element
// counts array items times cube faces.
func (s *Surface) LevelIndex(element, mip, slice int) (int, error) {
	h := s.header
	elements := int(max(h.ArraySize, 1) * h.Faces())
	mips := int(h.MipMapCount)
	depth := int(h.Depth)
	if element < 0 || element >= elements || mip < 0 || mip >= mips || slice < 0 || slice >= depth {
		return 0, fmt.Errorf("%w: element %d mip %d slice %d", ErrLevelIndex, element, mip, slice)
	}

	return (element*mips+mip)*depth + slice, nil
}

// LevelDimensions returns the width and height of the level at index i.
func (s *Surface) LevelDimensions(i int) (int, int, error) {
	if i < 0 || i >= len(s.levels) {
		return 0, 0, fmt.Errorf("%w: %d of %d", ErrLevelIndex, i, len(s.levels))
	}

	mip := (uint32(i) / s.header.Depth) % s.header.MipMapCount
	w, h := s.header.MipDimensions(mip)

	return int(w), int(h), nil
}

// Builder assembles a Surface from caller supplied levels.
type Builder struct {
	header Header
	levels [][]byte
}

// NewBuilder starts a single-level 2D surface of the given size and format.
func NewBuilder(width, height uint32, format PixelFormat) *Builder {
	return &Builder{header: Header{
		Width:       width,
		Height:      height,
		MipMapCount: 1,
		Depth:       1,
		ArraySize:   1,
		Format:      format,
	}}
}

// Mipmaps sets the number of mip levels.
func (b *Builder) Mipmaps(n uint32) *Builder {
	b.header.MipMapCount = n
	b.header.Flags |= FlagMipmaps
	return b
}

// Depth makes the surface a volume texture with d slices per level.
func (b *Builder) Depth(d uint32) *Builder {
	b.header.Depth = d
	b.header.Flags |= FlagVolume
	return b
}

// Cubemap makes the surface a cubemap.
func (b *Builder) Cubemap() *Builder {
	b.header.Flags |= FlagCubemap
	return b
}

// ArraySize sets the texture array length. Values above 1 need a format
// the extended header can carry.
func (b *Builder) ArraySize(n uint32) *Builder {
	b.header.ArraySize = n
	return b
}

// AlphaMode sets the extended header alpha mode.
func (b *Builder) AlphaMode(mode uint32) *Builder {
	b.header.AlphaMode = mode
	return b
}

// AddLevel appends the next level buffer in surface order.
func (b *Builder) AddLevel(data []byte) *Builder {
	b.levels = append(b.levels, data)
	return b
}

// Build validates the header and levels and returns an immutable Surface.
// Level buffers are copied.
func (b *Builder) Build() (*Surface, error) {
	h := b.header
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	}
	if h.MipMapCount == 0 || h.Depth == 0 || h.ArraySize == 0 {
		return nil, fmt.Errorf("%w: mips=%d depth=%d array=%d", ErrInvalidDimensions, h.MipMapCount, h.Depth, h.ArraySize)
	}
	if h.Flags.Has(FlagVolume) && h.Flags.Has(FlagCubemap) {
		return nil, fmt.Errorf("%w: volume cubemap", ErrInvalidDimensions)
	}
	if err := h.Format.validate(); err != nil {
		return nil, err
	}
	if h.Format.DXGI == 0 {
		if h.ArraySize > 1 || h.AlphaMode != 0 {
			return nil, fmt.Errorf("%w: %s needs the extended header", ErrUnsupportedFormatForEncode, h.Format)
		}
		if h.Format.Kind == KindUncompressed && h.Format.FourCC == 0 && h.Format.BitsPerPixel > 32 {
			return nil, fmt.Errorf("%w: %d-bit mask format", ErrUnsupportedFormatForEncode, h.Format.BitsPerPixel)
		}
		if h.Format.Kind == KindPacked {
			return nil, fmt.Errorf("%w: packed format needs the extended header", ErrUnsupportedFormatForEncode)
		}
	}
	if h.AlphaMode > alphaModeMask {
		return nil, fmt.Errorf("%w: alpha mode %d", ErrUnsupportedFormatForEncode, h.AlphaMode)
	}

	normalizeHeader(&h)

	if uint64(len(b.levels)) != h.LevelCount() {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrLevelCountMismatch, h.LevelCount(), len(b.levels))
	}

	levels := make([]MipLevel, len(b.levels))
	for i, data := range b.levels {
		mip := (uint32(i) / h.Depth) % h.MipMapCount
		expected := h.MipSize(mip)
		if uint64(len(data)) != expected {
			return nil, fmt.Errorf("%w: level %d (mip %d): expected %d, got %d", ErrInconsistentLevelSize, i, mip, expected, len(data))
		}
		levels[i] = MipLevel{data: bytes.Clone(data)}
	}

	return &Surface{header: h, levels: levels}, nil
}

// normalizeHeader sets the flags and PitchOrLinearSize a writer would.
func normalizeHeader(h *Header) {
	if h.MipMapCount > 1 {
		h.Flags |= FlagMipmaps
	}
	if !h.Flags.Has(FlagVolume) {
		h.Depth = 1
	}

	h.Flags &^= FlagPitch | FlagLinearSize
	if h.Format.Kind == KindBlockCompressed {
		h.Flags |= FlagLinearSize
		h.PitchOrLinearSize = clampU32(h.MipSize(0))
		return
	}
	h.Flags |= FlagPitch
	h.PitchOrLinearSize = clampU32(h.Format.pitch(h.Width))
}
