package dds

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/woozymasta/bcn"
)

const (
	// Magic is the four byte token every DDS file starts with.
	Magic = "DDS "

	// HeaderSize is the size of the classic header that follows the magic.
	HeaderSize = bcn.DDSHeaderSize
	// PixelFormatSize is the size of the pixel format record inside the header.
	PixelFormatSize = bcn.DDSPixelFormatSize
	// HeaderDX10Size is the size of the extended header present for FourCC "DX10".
	HeaderDX10Size = 20

	magicSize = 4
)

// Bits the bcn header constants do not name.
const (
	ddpfBumpDuDv = 0x80000

	ddsCaps2AllFaces   = 0xFC00
	ddsCaps2Volume     = 0x200000
	ddsCaps2CubemapAll = bcn.DDSCaps2Cubemap | ddsCaps2AllFaces
	cubemapFaceCount   = 6

	dimensionTexture2D = 3
	dimensionTexture3D = 4

	miscTextureCube = 0x4
	alphaModeMask   = 0x7
)

// readRawHeaders parses the magic, the classic header and, when the
// FourCC asks for it, the extended header. It returns the offset of
// the first level byte.
func readRawHeaders(data []byte) (*bcn.DDSHeader, *bcn.DDSHeaderDX10, int, error) {
	if len(data) < magicSize || string(data[:magicSize]) != Magic {
		return nil, nil, 0, ErrBadMagic
	}
	if len(data)-magicSize < HeaderSize {
		return nil, nil, 0, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedHeader, HeaderSize, len(data)-magicSize)
	}

	r := bytes.NewReader(data)
	hdr, err := bcn.ReadDDSHeader(r)
	if err != nil {
		// Magic and length are checked above, only the size fields can fail.
		return nil, nil, 0, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	offset := magicSize + HeaderSize

	if hdr.PixelFormat.Flags&bcn.DDSPFFourCC == 0 || hdr.PixelFormat.FourCC != bcn.DDSFourCCDX10 {
		return hdr, nil, offset, nil
	}
	if len(data)-offset < HeaderDX10Size {
		return nil, nil, 0, fmt.Errorf("%w: need %d bytes for DX10 header, have %d", ErrTruncatedHeader, HeaderDX10Size, len(data)-offset)
	}

	dx10, err := bcn.ReadDDSHeaderDX10(r, hdr)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w: %v", ErrTruncatedHeader, err)
	}

	return hdr, dx10, offset + HeaderDX10Size, nil
}

// writeRawHeaders writes the magic, the classic header and the optional
// extended header.
func writeRawHeaders(w io.Writer, hdr *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) error {
	if err := bcn.WriteDDSMagic(w); err != nil {
		return err
	}
	if err := bcn.WriteDDSHeader(w, hdr); err != nil {
		return err
	}
	if dx10 == nil {
		return nil
	}

	return binary.Write(w, binary.LittleEndian, dx10)
}
