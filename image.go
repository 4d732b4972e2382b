package dds

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/woozymasta/bcn"
)

func init() {
	image.RegisterFormat("dds", Magic, DecodeImage, DecodeConfig)
}

// ImageOptions configures level to image conversion.
type ImageOptions struct {
	// DecodeOptions are passed to the BCn decoder (e.g. Workers).
	DecodeOptions *bcn.DecodeOptions
}

// FromImageOptions configures FromImage.
type FromImageOptions struct {
	// Format of the produced surface. The zero value means FormatBGRA8.
	// Supported: BC1, BC2, BC3, BC4, BC5, FormatRGBA8 and FormatBGRA8.
	Format PixelFormat
	// MaxMipMaps limits the chain length; 0 means a full chain.
	MaxMipMaps int
	// EncodeOptions are passed to the BCn encoder.
	EncodeOptions *bcn.EncodeOptions
}

// DecodeConfig reads the header of a DDS stream and reports its size.
func DecodeConfig(r io.Reader) (image.Config, error) {
	buf := make([]byte, magicSize+HeaderSize+HeaderDX10Size)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return image.Config{}, fmt.Errorf("%w: %v", ErrReadFile, err)
	}

	h, err := DecodeHeader(buf[:n])
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      int(h.Width),
		Height:     int(h.Height),
		ColorModel: color.NRGBAModel,
	}, nil
}

// DecodeImage reads a DDS stream and returns its largest level as an image.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFile, err)
	}

	s, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return s.Image(0, nil)
}

// Image converts the level at index i into an image.
// Nil opts uses default decoding.
func (s *Surface) Image(i int, opts *ImageOptions) (image.Image, error) {
	w, h, err := s.LevelDimensions(i)
	if err != nil {
		return nil, err
	}
	data := s.levels[i].data
	pf := s.header.Format

	if format, ok := bcnFormat(pf); ok {
		var decOpts *bcn.DecodeOptions
		if opts != nil {
			decOpts = opts.DecodeOptions
		}
		img, err := bcn.DecodeImageWithOptions(data, w, h, format, decOpts)
		if err != nil {
			return nil, fmt.Errorf("%w: level %d: %v", ErrDecodeImage, i, err)
		}
		return img, nil
	}

	if pf.LegacyFlags&ddpfBumpDuDv != 0 {
		return nil, fmt.Errorf("%w: signed bump format %s", ErrImageUnsupported, pf)
	}
	if pf.Kind == KindUncompressed && pf.BitsPerPixel <= 32 && pf.Masks != (ChannelMasks{}) {
		return unpackMasked(data, w, h, pf), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrImageUnsupported, pf)
}

// FromImage builds a surface from img, generating mip levels and
// encoding each one into the requested format.
func FromImage(img image.Image, opts *FromImageOptions) (*Surface, error) {
	if opts == nil {
		opts = &FromImageOptions{}
	}

	pf := opts.Format
	if pf.Kind == KindUnknown {
		pf = FormatBGRA8
	}
	format, ok := bcnFormat(pf)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormatForEncode, pf)
	}

	bounds := img.Bounds()
	width, err := u32FromInt(bounds.Dx())
	if err != nil {
		return nil, err
	}
	height, err := u32FromInt(bounds.Dy())
	if err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return nil, ErrEmptyImage
	}

	mipMapCount := int(fullMipMapCount(width, height))
	if opts.MaxMipMaps > 0 && opts.MaxMipMaps < mipMapCount {
		mipMapCount = opts.MaxMipMaps
	}

	mips := bcn.GenerateMipmaps(img, false)
	if len(mips) > mipMapCount {
		mips = mips[:mipMapCount]
	}
	count, err := u32FromInt(len(mips))
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrEmptyImage
	}

	b := NewBuilder(width, height, pf).Mipmaps(count)
	for i, mip := range mips {
		data, _, _, err := bcn.EncodeImageWithOptions(mip, format, opts.EncodeOptions)
		if err != nil {
			return nil, fmt.Errorf("%w: mipmap %d: %v", ErrEncodeImage, i, err)
		}
		b.AddLevel(data)
	}

	return b.Build()
}

// bcnFormat maps pf to the bcn codec that can decode and encode it.
func bcnFormat(pf PixelFormat) (bcn.Format, bool) {
	switch pf.Kind {
	case KindBlockCompressed:
		switch pf.Codec {
		case CodecBC1:
			return bcn.FormatDXT1, true
		case CodecBC2:
			return bcn.FormatDXT3, true
		case CodecBC3:
			return bcn.FormatDXT5, true
		case CodecBC4:
			return bcn.FormatBC4, true
		case CodecBC5:
			return bcn.FormatBC5, true
		}
	case KindUncompressed:
		if pf.BitsPerPixel != 32 {
			break
		}
		switch pf.Masks {
		case masksRGBA8:
			return bcn.FormatRGBA8, true
		case masksBGRA8:
			return bcn.FormatBGRA8, true
		}
	}

	return bcn.FormatUnknown, false
}

// unpackMasked expands a mask-described level into NRGBA. Missing color
// channels read as zero and a missing alpha channel as opaque; luminance
// formats replicate the red channel.
func unpackMasked(data []byte, w, h int, pf PixelFormat) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	bpp := int(pf.bytesPerPixel())
	pitch := int(pf.pitch(uint32(w)))
	luminance := pf.LegacyFlags&bcn.DDSPFLuminance != 0

	for y := 0; y < h; y++ {
		row := data[y*pitch:]
		for x := 0; x < w; x++ {
			var v uint32
			for k := 0; k < bpp; k++ {
				v |= uint32(row[x*bpp+k]) << (8 * k)
			}

			r := expandChannel(v, pf.Masks.R, 0)
			g := expandChannel(v, pf.Masks.G, 0)
			b := expandChannel(v, pf.Masks.B, 0)
			a := expandChannel(v, pf.Masks.A, 0xff)
			if luminance {
				g, b = r, r
			}

			o := img.PixOffset(x, y)
			img.Pix[o+0] = r
			img.Pix[o+1] = g
			img.Pix[o+2] = b
			img.Pix[o+3] = a
		}
	}

	return img
}

// expandChannel extracts the masked bits of v and rescales them to 8 bits.
func expandChannel(v, mask uint32, missing uint8) uint8 {
	if mask == 0 {
		return missing
	}

	shift, width := channelShift(mask)
	maxVal := uint64(1)<<width - 1
	val := uint64((v & mask) >> shift)

	return uint8((val*255 + maxVal/2) / maxVal)
}
