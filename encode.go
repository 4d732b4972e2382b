package dds

import (
	"bytes"
	"fmt"

	"github.com/woozymasta/bcn"
)

// Encode serializes s. Decode(Encode(s)) yields a surface equal to s.
func Encode(s *Surface) ([]byte, error) {
	if s == nil {
		return nil, ErrNilSurface
	}

	raw, dx10, err := rawFromHeader(&s.header)
	if err != nil {
		return nil, err
	}

	size := magicSize + HeaderSize
	if dx10 != nil {
		size += HeaderDX10Size
	}
	for _, l := range s.levels {
		size += len(l.data)
	}

	var buf bytes.Buffer
	buf.Grow(size)

	if err := writeRawHeaders(&buf, raw, dx10); err != nil {
		return nil, err
	}
	for _, l := range s.levels {
		buf.Write(l.data)
	}

	return buf.Bytes(), nil
}

// rawFromHeader builds the on-disk headers. Flags and caps are derived from
// the mip count, depth, cubemap flag and format; reserved fields stay zero.
func rawFromHeader(h *Header) (*bcn.DDSHeader, *bcn.DDSHeaderDX10, error) {
	raw := &bcn.DDSHeader{
		Size:              HeaderSize,
		Flags:             bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat,
		Height:            h.Height,
		Width:             h.Width,
		PitchOrLinearSize: h.PitchOrLinearSize,
		Caps:              bcn.DDSCapsTexture,
	}
	raw.PixelFormat.Size = PixelFormatSize

	if h.Flags.Has(FlagMipmaps) || h.MipMapCount > 1 {
		raw.Flags |= bcn.DDSFlagMipmapCount
		raw.MipMapCount = h.MipMapCount
	}
	if h.MipMapCount > 1 {
		raw.Caps |= bcn.DDSCapsComplex | bcn.DDSCapsMipmap
	}
	if h.Flags.Has(FlagPitch) {
		raw.Flags |= bcn.DDSFlagPitch
	}
	if h.Flags.Has(FlagLinearSize) {
		raw.Flags |= bcn.DDSFlagLinearSize
	}
	if h.Flags.Has(FlagVolume) {
		raw.Flags |= bcn.DDSFlagDepth
		raw.Depth = h.Depth
		raw.Caps |= bcn.DDSCapsComplex
		raw.Caps2 |= ddsCaps2Volume
	}
	if h.Flags.Has(FlagCubemap) {
		raw.Caps |= bcn.DDSCapsComplex
		raw.Caps2 |= ddsCaps2CubemapAll
	}

	pf := h.Format
	switch {
	case pf.DXGI != 0:
		if _, ok := dxgiFormats[pf.DXGI]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormatForEncode, pf.DXGI)
		}
		raw.PixelFormat.Flags = bcn.DDSPFFourCC
		raw.PixelFormat.FourCC = bcn.DDSFourCCDX10

		dx10 := &bcn.DDSHeaderDX10{
			DXGIFormat:        uint32(pf.DXGI),
			ResourceDimension: dimensionTexture2D,
			ArraySize:         max(h.ArraySize, 1),
			MiscFlags2:        h.AlphaMode & alphaModeMask,
		}
		if h.Flags.Has(FlagVolume) {
			dx10.ResourceDimension = dimensionTexture3D
		}
		if h.Flags.Has(FlagCubemap) {
			dx10.MiscFlag |= miscTextureCube
		}
		return raw, dx10, nil

	case pf.FourCC != 0:
		if _, ok := legacyFourCCFormats[pf.FourCC]; !ok {
			return nil, nil, fmt.Errorf("%w: FourCC %q", ErrUnsupportedFormatForEncode, pf.FourCC.String())
		}
		raw.PixelFormat.Flags = bcn.DDSPFFourCC
		raw.PixelFormat.FourCC = uint32(pf.FourCC)

	case pf.Kind == KindUncompressed && pf.BitsPerPixel <= 32:
		raw.PixelFormat.Flags = pf.LegacyFlags &^ bcn.DDSPFFourCC
		raw.PixelFormat.RGBBitCount = pf.BitsPerPixel
		raw.PixelFormat.RBitMask = pf.Masks.R
		raw.PixelFormat.GBitMask = pf.Masks.G
		raw.PixelFormat.BBitMask = pf.Masks.B
		raw.PixelFormat.ABitMask = pf.Masks.A

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormatForEncode, pf)
	}

	if h.ArraySize > 1 || h.AlphaMode != 0 {
		return nil, nil, fmt.Errorf("%w: %s cannot carry array size or alpha mode", ErrUnsupportedFormatForEncode, pf)
	}

	return raw, nil, nil
}
