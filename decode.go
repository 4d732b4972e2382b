package dds

import (
	"bytes"
	"fmt"

	"github.com/woozymasta/bcn"
)

// Decode parses a complete DDS file held in data.
//
// Every level declared by the header must be present; bytes after the
// last level are ignored. The returned surface does not alias data.
func Decode(data []byte) (*Surface, error) {
	raw, dx10, offset, err := readRawHeaders(data)
	if err != nil {
		return nil, err
	}

	h, err := headerFromRaw(raw, dx10)
	if err != nil {
		return nil, err
	}

	levels, err := readLevels(data[offset:], &h)
	if err != nil {
		return nil, err
	}

	return &Surface{header: h, levels: levels}, nil
}

// DecodeHeader parses only the headers of a DDS file.
func DecodeHeader(data []byte) (Header, error) {
	raw, dx10, _, err := readRawHeaders(data)
	if err != nil {
		return Header{}, err
	}

	return headerFromRaw(raw, dx10)
}

// headerFromRaw validates the on-disk headers and resolves defaults.
func headerFromRaw(raw *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) (Header, error) {
	if raw.Width == 0 || raw.Height == 0 {
		return Header{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, raw.Width, raw.Height)
	}

	h := Header{
		Width:             raw.Width,
		Height:            raw.Height,
		PitchOrLinearSize: raw.PitchOrLinearSize,
		MipMapCount:       1,
		Depth:             1,
		ArraySize:         1,
	}

	if raw.Flags&bcn.DDSFlagMipmapCount != 0 {
		h.Flags |= FlagMipmaps
		h.MipMapCount = max(raw.MipMapCount, 1)
	}
	if raw.Flags&bcn.DDSFlagPitch != 0 {
		h.Flags |= FlagPitch
	}
	if raw.Flags&bcn.DDSFlagLinearSize != 0 {
		h.Flags |= FlagLinearSize
	}
	if raw.Flags&bcn.DDSFlagDepth != 0 || raw.Caps2&ddsCaps2Volume != 0 {
		h.Flags |= FlagVolume
		h.Depth = max(raw.Depth, 1)
	}
	if raw.Caps2&bcn.DDSCaps2Cubemap != 0 {
		if raw.Caps2&ddsCaps2AllFaces != ddsCaps2AllFaces {
			return Header{}, fmt.Errorf("%w: partial cubemap (caps2 0x%x)", ErrInvalidHeader, raw.Caps2)
		}
		h.Flags |= FlagCubemap
	}

	if dx10 != nil {
		pf, err := FromDXGI(DXGIFormat(dx10.DXGIFormat))
		if err != nil {
			return Header{}, err
		}
		h.Format = pf

		if dx10.ResourceDimension == dimensionTexture3D && !h.Flags.Has(FlagVolume) {
			h.Flags |= FlagVolume
			h.Depth = max(raw.Depth, 1)
		}
		if dx10.MiscFlag&miscTextureCube != 0 {
			h.Flags |= FlagCubemap
		}
		h.ArraySize = max(dx10.ArraySize, 1)
		h.AlphaMode = dx10.MiscFlags2 & alphaModeMask
	} else {
		pf, err := formatFromLegacy(&raw.PixelFormat)
		if err != nil {
			return Header{}, err
		}
		h.Format = pf
	}

	if h.Flags.Has(FlagVolume) && h.Flags.Has(FlagCubemap) {
		return Header{}, fmt.Errorf("%w: volume cubemap", ErrInvalidHeader)
	}

	return h, nil
}

// readLevels slices every level out of payload in surface order.
func readLevels(payload []byte, h *Header) ([]MipLevel, error) {
	count := h.LevelCount()

	// Every level holds at least one byte, so a count above the payload
	// length is truncated no matter what the sizes are.
	if count > uint64(len(payload)) {
		return nil, fmt.Errorf("%w: %d levels declared, %d bytes available", ErrTruncatedData, count, len(payload))
	}

	elements := uint64(max(h.ArraySize, 1)) * uint64(h.Faces())
	levels := make([]MipLevel, 0, count)
	r := bytes.NewReader(payload)

	for e := uint64(0); e < elements; e++ {
		for mip := uint32(0); mip < h.MipMapCount; mip++ {
			size := h.MipSize(mip)
			for slice := uint32(0); slice < h.Depth; slice++ {
				if size > uint64(r.Len()) {
					return nil, fmt.Errorf("%w: element %d mip %d slice %d: need %d bytes, have %d",
						ErrTruncatedData, e, mip, slice, size, r.Len())
				}

				buf := make([]byte, size)
				// Cannot fail: the length was checked above.
				_, _ = r.Read(buf)
				levels = append(levels, MipLevel{data: buf})
			}
		}
	}

	return levels, nil
}
