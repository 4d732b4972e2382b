package dds

import (
	"fmt"
	"math/bits"

	"github.com/woozymasta/bcn"
)

// FourCC is a four character code stored little-endian in a uint32.
type FourCC uint32

// MakeFourCC packs four characters into a FourCC.
func MakeFourCC(a, b, c, d byte) FourCC {
	return FourCC(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// String returns the code as text, or as a number for legacy D3D format codes.
func (f FourCC) String() string {
	if f != 0 && f < 0x100 {
		return fmt.Sprintf("%d", uint32(f))
	}

	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}

// Known FourCC tags.
var (
	FourCCDXT1 = MakeFourCC('D', 'X', 'T', '1')
	FourCCDXT2 = MakeFourCC('D', 'X', 'T', '2')
	FourCCDXT3 = MakeFourCC('D', 'X', 'T', '3')
	FourCCDXT4 = MakeFourCC('D', 'X', 'T', '4')
	FourCCDXT5 = MakeFourCC('D', 'X', 'T', '5')
	FourCCATI1 = MakeFourCC('A', 'T', 'I', '1')
	FourCCATI2 = MakeFourCC('A', 'T', 'I', '2')
	FourCCBC4U = MakeFourCC('B', 'C', '4', 'U')
	FourCCBC4S = MakeFourCC('B', 'C', '4', 'S')
	FourCCBC5U = MakeFourCC('B', 'C', '5', 'U')
	FourCCBC5S = MakeFourCC('B', 'C', '5', 'S')
	// FourCCDX10 announces the extended header.
	FourCCDX10 = MakeFourCC('D', 'X', '1', '0')
)

// Kind selects the active PixelFormat variant.
type Kind uint8

const (
	// KindUnknown is the zero value and never valid.
	KindUnknown Kind = iota
	// KindUncompressed stores whole pixels described by a bit count.
	KindUncompressed
	// KindBlockCompressed stores fixed-size 4x4 blocks.
	KindBlockCompressed
	// KindPacked stores horizontal pixel pairs sharing one BlockSize group.
	KindPacked
)

// Codec is a block compression algorithm.
type Codec uint8

// Supported block codecs.
const (
	CodecNone Codec = iota
	CodecBC1
	CodecBC2
	CodecBC3
	CodecBC4
	CodecBC4S
	CodecBC5
	CodecBC5S
	CodecBC6H
	CodecBC6HS
	CodecBC7
)

var codecNames = [...]string{
	CodecNone:  "none",
	CodecBC1:   "BC1",
	CodecBC2:   "BC2",
	CodecBC3:   "BC3",
	CodecBC4:   "BC4",
	CodecBC4S:  "BC4S",
	CodecBC5:   "BC5",
	CodecBC5S:  "BC5S",
	CodecBC6H:  "BC6H",
	CodecBC6HS: "BC6HS",
	CodecBC7:   "BC7",
}

func (c Codec) String() string {
	if int(c) < len(codecNames) {
		return codecNames[c]
	}

	return fmt.Sprintf("Codec(%d)", uint8(c))
}

// BlockSize returns the size in bytes of one 4x4 block, or 0 for CodecNone.
func (c Codec) BlockSize() uint32 {
	switch c {
	case CodecBC1, CodecBC4, CodecBC4S:
		return 8
	case CodecBC2, CodecBC3, CodecBC5, CodecBC5S, CodecBC6H, CodecBC6HS, CodecBC7:
		return 16
	default:
		return 0
	}
}

// ChannelMasks holds the bit positions of each channel inside one pixel.
type ChannelMasks struct {
	R, G, B, A uint32
}

// PixelFormat describes how level bytes are laid out.
//
// Kind selects the variant: uncompressed formats use BitsPerPixel and
// Masks, block compressed formats use Codec and BlockSize, packed formats
// use BlockSize for each 2x1 pixel pair. FourCC,
// LegacyFlags and DXGI record how the format is carried on disk, so a
// decoded format re-encodes the same way.
type PixelFormat struct {
	Kind         Kind
	BitsPerPixel uint32
	Masks        ChannelMasks
	Codec        Codec
	BlockSize    uint32

	// FourCC is set for formats carried by a legacy FourCC tag.
	FourCC FourCC
	// LegacyFlags are the pixel format flags of a mask-described format.
	LegacyFlags uint32
	// DXGI is set for formats carried by the extended header.
	DXGI DXGIFormat
}

// Uncompressed returns a mask-described format carried by the legacy header.
func Uncompressed(bitsPerPixel uint32, masks ChannelMasks) PixelFormat {
	var flags uint32
	switch {
	case masks.R|masks.G|masks.B != 0:
		flags = bcn.DDSPFRGB
		if masks.A != 0 {
			flags |= bcn.DDSPFAlphaPixels
		}
	case masks.A != 0:
		flags = bcn.DDSPFAlpha
	}

	return PixelFormat{
		Kind:         KindUncompressed,
		BitsPerPixel: bitsPerPixel,
		Masks:        masks,
		LegacyFlags:  flags,
	}
}

// Luminance returns a legacy luminance format (L8, A8L8, L16).
func Luminance(bitsPerPixel uint32, masks ChannelMasks) PixelFormat {
	flags := uint32(bcn.DDSPFLuminance)
	if masks.A != 0 {
		flags |= bcn.DDSPFAlphaPixels
	}

	return PixelFormat{
		Kind:         KindUncompressed,
		BitsPerPixel: bitsPerPixel,
		Masks:        masks,
		LegacyFlags:  flags,
	}
}

// BlockCompressed returns the format for codec. BC1 to BC5 use their
// legacy FourCC; BC6H and BC7 have none and use the extended header.
func BlockCompressed(codec Codec) PixelFormat {
	pf := PixelFormat{
		Kind:      KindBlockCompressed,
		Codec:     codec,
		BlockSize: codec.BlockSize(),
	}

	switch codec {
	case CodecBC1:
		pf.FourCC = FourCCDXT1
	case CodecBC2:
		pf.FourCC = FourCCDXT3
	case CodecBC3:
		pf.FourCC = FourCCDXT5
	case CodecBC4:
		pf.FourCC = FourCCATI1
	case CodecBC4S:
		pf.FourCC = FourCCBC4S
	case CodecBC5:
		pf.FourCC = FourCCATI2
	case CodecBC5S:
		pf.FourCC = FourCCBC5S
	case CodecBC6H:
		pf.DXGI = DXGIFormatBC6HUF16
	case CodecBC6HS:
		pf.DXGI = DXGIFormatBC6HSF16
	case CodecBC7:
		pf.DXGI = DXGIFormatBC7UNorm
	}

	return pf
}

// Common formats.
var (
	FormatRGBA8    = Uncompressed(32, ChannelMasks{R: 0x000000ff, G: 0x0000ff00, B: 0x00ff0000, A: 0xff000000})
	FormatBGRA8    = Uncompressed(32, ChannelMasks{R: 0x00ff0000, G: 0x0000ff00, B: 0x000000ff, A: 0xff000000})
	FormatBGRX8    = Uncompressed(32, ChannelMasks{R: 0x00ff0000, G: 0x0000ff00, B: 0x000000ff})
	FormatBGR8     = Uncompressed(24, ChannelMasks{R: 0xff0000, G: 0x00ff00, B: 0x0000ff})
	FormatR5G6B5   = Uncompressed(16, ChannelMasks{R: 0xf800, G: 0x07e0, B: 0x001f})
	FormatA1R5G5B5 = Uncompressed(16, ChannelMasks{R: 0x7c00, G: 0x03e0, B: 0x001f, A: 0x8000})
	FormatA4R4G4B4 = Uncompressed(16, ChannelMasks{R: 0x0f00, G: 0x00f0, B: 0x000f, A: 0xf000})
	FormatA8       = Uncompressed(8, ChannelMasks{A: 0xff})
	FormatL8       = Luminance(8, ChannelMasks{R: 0xff})

	FormatBC1 = BlockCompressed(CodecBC1)
	FormatBC2 = BlockCompressed(CodecBC2)
	FormatBC3 = BlockCompressed(CodecBC3)
	FormatBC4 = BlockCompressed(CodecBC4)
	FormatBC5 = BlockCompressed(CodecBC5)
	FormatBC7 = BlockCompressed(CodecBC7)
)

// String describes the format for error messages.
func (pf PixelFormat) String() string {
	switch {
	case pf.DXGI != 0:
		return pf.DXGI.String()
	case pf.Kind == KindBlockCompressed:
		return pf.Codec.String()
	case pf.Kind == KindPacked:
		return "packed"
	case pf.Kind == KindUncompressed && pf.FourCC != 0:
		return "D3DFMT " + pf.FourCC.String()
	case pf.Kind == KindUncompressed:
		return fmt.Sprintf("%dbpp R%08x G%08x B%08x A%08x",
			pf.BitsPerPixel, pf.Masks.R, pf.Masks.G, pf.Masks.B, pf.Masks.A)
	default:
		return "unknown"
	}
}

// IsCompressed reports whether the format stores blocks.
func (pf PixelFormat) IsCompressed() bool {
	return pf.Kind == KindBlockCompressed
}

// legacyFourCCFormats maps FourCC tags that carry a format on their own.
var legacyFourCCFormats = map[FourCC]PixelFormat{
	FourCCDXT1: {Kind: KindBlockCompressed, Codec: CodecBC1, BlockSize: 8, FourCC: FourCCDXT1},
	FourCCDXT2: {Kind: KindBlockCompressed, Codec: CodecBC2, BlockSize: 16, FourCC: FourCCDXT2},
	FourCCDXT3: {Kind: KindBlockCompressed, Codec: CodecBC2, BlockSize: 16, FourCC: FourCCDXT3},
	FourCCDXT4: {Kind: KindBlockCompressed, Codec: CodecBC3, BlockSize: 16, FourCC: FourCCDXT4},
	FourCCDXT5: {Kind: KindBlockCompressed, Codec: CodecBC3, BlockSize: 16, FourCC: FourCCDXT5},
	FourCCATI1: {Kind: KindBlockCompressed, Codec: CodecBC4, BlockSize: 8, FourCC: FourCCATI1},
	FourCCBC4U: {Kind: KindBlockCompressed, Codec: CodecBC4, BlockSize: 8, FourCC: FourCCBC4U},
	FourCCBC4S: {Kind: KindBlockCompressed, Codec: CodecBC4S, BlockSize: 8, FourCC: FourCCBC4S},
	FourCCATI2: {Kind: KindBlockCompressed, Codec: CodecBC5, BlockSize: 16, FourCC: FourCCATI2},
	FourCCBC5U: {Kind: KindBlockCompressed, Codec: CodecBC5, BlockSize: 16, FourCC: FourCCBC5U},
	FourCCBC5S: {Kind: KindBlockCompressed, Codec: CodecBC5S, BlockSize: 16, FourCC: FourCCBC5S},

	// D3DFORMAT values written as FourCC for wide uncompressed formats.
	36:  {Kind: KindUncompressed, BitsPerPixel: 64, FourCC: 36},   // A16B16G16R16
	110: {Kind: KindUncompressed, BitsPerPixel: 64, FourCC: 110},  // Q16W16V16U16
	111: {Kind: KindUncompressed, BitsPerPixel: 16, FourCC: 111},  // R16F
	112: {Kind: KindUncompressed, BitsPerPixel: 32, FourCC: 112},  // G16R16F
	113: {Kind: KindUncompressed, BitsPerPixel: 64, FourCC: 113},  // A16B16G16R16F
	114: {Kind: KindUncompressed, BitsPerPixel: 32, FourCC: 114},  // R32F
	115: {Kind: KindUncompressed, BitsPerPixel: 64, FourCC: 115},  // G32R32F
	116: {Kind: KindUncompressed, BitsPerPixel: 128, FourCC: 116}, // A32B32G32R32F
}

// formatFromLegacy maps the legacy pixel format record to a PixelFormat.
func formatFromLegacy(raw *bcn.DDSPixelFormat) (PixelFormat, error) {
	if raw.Flags&bcn.DDSPFFourCC != 0 {
		fourCC := FourCC(raw.FourCC)
		pf, ok := legacyFourCCFormats[fourCC]
		if !ok {
			return PixelFormat{}, fmt.Errorf("%w: FourCC %q", ErrUnknownFormat, fourCC.String())
		}
		return pf, nil
	}

	pf := PixelFormat{
		Kind:         KindUncompressed,
		BitsPerPixel: raw.RGBBitCount,
		Masks: ChannelMasks{
			R: raw.RBitMask,
			G: raw.GBitMask,
			B: raw.BBitMask,
			A: raw.ABitMask,
		},
		LegacyFlags: raw.Flags,
	}
	if err := validateMasks(pf.BitsPerPixel, pf.Masks); err != nil {
		return PixelFormat{}, err
	}

	return pf, nil
}

// validateMasks checks that a mask-described pixel has a whole byte size
// and that the channel masks are contiguous, disjoint and fit in it.
func validateMasks(bitsPerPixel uint32, m ChannelMasks) error {
	switch bitsPerPixel {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: bit count %d", ErrInvalidMasks, bitsPerPixel)
	}

	masks := [...]uint32{m.R, m.G, m.B, m.A}
	var seen uint32
	for i, mask := range masks {
		if mask == 0 {
			continue
		}
		if bitsPerPixel < 32 && mask>>bitsPerPixel != 0 {
			return fmt.Errorf("%w: mask %d (0x%08x) exceeds %d bits", ErrInvalidMasks, i, mask, bitsPerPixel)
		}
		if seen&mask != 0 {
			return fmt.Errorf("%w: mask %d (0x%08x) overlaps", ErrInvalidMasks, i, mask)
		}
		if run := mask >> bits.TrailingZeros32(mask); bits.OnesCount32(run) != bits.Len32(run) {
			return fmt.Errorf("%w: mask %d (0x%08x) is not contiguous", ErrInvalidMasks, i, mask)
		}
		seen |= mask
	}
	if seen == 0 {
		return fmt.Errorf("%w: all masks empty", ErrInvalidMasks)
	}

	return nil
}

// validate checks that exactly one variant is active and consistent, and
// that the on-disk tag describes the same layout.
func (pf PixelFormat) validate() error {
	switch pf.Kind {
	case KindBlockCompressed:
		if pf.Codec == CodecNone || pf.BlockSize == 0 || pf.BlockSize != pf.Codec.BlockSize() {
			return fmt.Errorf("%w: block format %s with block size %d", ErrUnknownFormat, pf.Codec, pf.BlockSize)
		}
		if pf.BitsPerPixel != 0 || pf.Masks != (ChannelMasks{}) {
			return fmt.Errorf("%w: block format %s carries pixel masks", ErrUnknownFormat, pf.Codec)
		}
	case KindPacked:
		if pf.BlockSize != packedPairSize || pf.Codec != CodecNone || pf.BitsPerPixel != 0 || pf.Masks != (ChannelMasks{}) {
			return fmt.Errorf("%w: packed format with block size %d", ErrUnknownFormat, pf.BlockSize)
		}
	case KindUncompressed:
		if pf.Codec != CodecNone || pf.BlockSize != 0 {
			return fmt.Errorf("%w: uncompressed format with block codec %s", ErrUnknownFormat, pf.Codec)
		}
		if pf.BitsPerPixel == 0 || pf.BitsPerPixel%8 != 0 {
			return fmt.Errorf("%w: bit count %d", ErrInvalidMasks, pf.BitsPerPixel)
		}
		if pf.DXGI == 0 && pf.FourCC == 0 {
			if pf.LegacyFlags&bcn.DDSPFFourCC != 0 {
				return fmt.Errorf("%w: mask format flagged as FourCC", ErrUnknownFormat)
			}
			return validateMasks(pf.BitsPerPixel, pf.Masks)
		}
	default:
		return fmt.Errorf("%w: no variant selected", ErrUnknownFormat)
	}

	return pf.validateTag()
}

// validateTag requires a FourCC or DXGI tagged format to equal the format
// Decode produces for that tag.
func (pf PixelFormat) validateTag() error {
	switch {
	case pf.DXGI != 0:
		want, err := FromDXGI(pf.DXGI)
		if err != nil {
			return err
		}
		if pf != want {
			return fmt.Errorf("%w: fields disagree with %s", ErrUnknownFormat, pf.DXGI)
		}
	case pf.FourCC != 0:
		want, ok := legacyFourCCFormats[pf.FourCC]
		if !ok {
			return fmt.Errorf("%w: FourCC %q", ErrUnknownFormat, pf.FourCC.String())
		}
		if pf != want {
			return fmt.Errorf("%w: fields disagree with FourCC %q", ErrUnknownFormat, pf.FourCC.String())
		}
	case pf.LegacyFlags != 0 && pf.Kind != KindUncompressed:
		return fmt.Errorf("%w: legacy flags on %s", ErrUnknownFormat, pf)
	}

	return nil
}

// bytesPerPixel returns the whole-byte pixel size of an uncompressed format.
func (pf PixelFormat) bytesPerPixel() uint64 {
	return uint64(pf.BitsPerPixel) / 8
}

// pitch returns the row pitch for an uncompressed or packed level of width w.
func (pf PixelFormat) pitch(w uint32) uint64 {
	if pf.Kind == KindPacked {
		return (uint64(w) + 1) / 2 * uint64(pf.BlockSize)
	}

	return (uint64(w)*uint64(pf.BitsPerPixel) + 7) / 8
}

// levelSize returns the byte length of one w x h level or slice.
func (pf PixelFormat) levelSize(w, h uint32) uint64 {
	if pf.Kind == KindBlockCompressed {
		blocksW := (uint64(w) + 3) / 4
		blocksH := (uint64(h) + 3) / 4
		return blocksW * blocksH * uint64(pf.BlockSize)
	}

	return pf.pitch(w) * uint64(h)
}

// channelShift returns the shift and width of a contiguous mask.
func channelShift(mask uint32) (shift, width int) {
	if mask == 0 {
		return 0, 0
	}
	shift = bits.TrailingZeros32(mask)
	width = bits.OnesCount32(mask >> shift)

	return shift, width
}
