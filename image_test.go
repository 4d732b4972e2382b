package dds

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/woozymasta/bcn"
)

// testImage builds a deterministic opaque image.
func testImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 30), //nolint:gosec // bounded
				G: uint8(y * 30), //nolint:gosec // bounded
				B: 100,
				A: 255,
			})
		}
	}
	return img
}

func samePixels(t *testing.T, got, want image.Image) {
	t.Helper()

	if got.Bounds().Size() != want.Bounds().Size() {
		t.Fatalf("size %v, want %v", got.Bounds().Size(), want.Bounds().Size())
	}
	gb, wb := got.Bounds(), want.Bounds()
	for y := 0; y < wb.Dy(); y++ {
		for x := 0; x < wb.Dx(); x++ {
			g := color.NRGBAModel.Convert(got.At(gb.Min.X+x, gb.Min.Y+y))
			w := color.NRGBAModel.Convert(want.At(wb.Min.X+x, wb.Min.Y+y))
			if g != w {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, g, w)
			}
		}
	}
}

func TestFromImageImageRoundTrip(t *testing.T) {
	t.Parallel()

	for _, format := range []PixelFormat{FormatBGRA8, FormatRGBA8} {
		format := format
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()

			img := testImage(8, 8)
			s, err := FromImage(img, &FromImageOptions{Format: format})
			if err != nil {
				t.Fatalf("FromImage: %v", err)
			}
			if s.Format() != format {
				t.Fatalf("format = %s, want %s", s.Format(), format)
			}
			if s.Header().MipMapCount != 4 {
				t.Fatalf("mips = %d, want 4", s.Header().MipMapCount)
			}

			data, err := Encode(s)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := DecodeImage(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("DecodeImage: %v", err)
			}
			samePixels(t, got, img)
		})
	}
}

func TestFromImageBlockFormat(t *testing.T) {
	t.Parallel()

	img := testImage(16, 16)
	s, err := FromImage(img, &FromImageOptions{
		Format:     FormatBC3,
		MaxMipMaps: 1,
		EncodeOptions: &bcn.EncodeOptions{
			QualityLevel: 8,
		},
	})
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}

	h := s.Header()
	if h.MipMapCount != 1 || s.NumLevels() != 1 {
		t.Fatalf("mips = %d, levels = %d", h.MipMapCount, s.NumLevels())
	}
	if level, _ := s.Level(0); level.Len() != 16*16 {
		t.Fatalf("level length = %d, want 256", level.Len())
	}

	got, err := s.Image(0, &ImageOptions{DecodeOptions: &bcn.DecodeOptions{Workers: 1}})
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if got.Bounds().Dx() != 16 || got.Bounds().Dy() != 16 {
		t.Fatalf("unexpected size: %v", got.Bounds())
	}
}

func TestFromImageErrors(t *testing.T) {
	t.Parallel()

	if _, err := FromImage(testImage(4, 4), &FromImageOptions{Format: FormatBC7}); !errors.Is(err, ErrUnsupportedFormatForEncode) {
		t.Fatalf("expected ErrUnsupportedFormatForEncode, got %v", err)
	}
	if _, err := FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 4)), nil); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("expected ErrEmptyImage, got %v", err)
	}
}

func TestImageMaskedFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format PixelFormat
		pixel  []byte
		want   color.NRGBA
	}{
		{name: "r5g6b5-red", format: FormatR5G6B5, pixel: []byte{0x00, 0xf8}, want: color.NRGBA{R: 255, A: 255}},
		{name: "r5g6b5-green", format: FormatR5G6B5, pixel: []byte{0xe0, 0x07}, want: color.NRGBA{G: 255, A: 255}},
		{name: "a1r5g5b5", format: FormatA1R5G5B5, pixel: []byte{0x1f, 0x80}, want: color.NRGBA{B: 255, A: 255}},
		{name: "a4r4g4b4", format: FormatA4R4G4B4, pixel: []byte{0x0f, 0x80}, want: color.NRGBA{B: 255, A: 136}},
		{name: "bgr8", format: FormatBGR8, pixel: []byte{0x10, 0x20, 0x30}, want: color.NRGBA{R: 0x30, G: 0x20, B: 0x10, A: 255}},
		{name: "bgrx8", format: FormatBGRX8, pixel: []byte{1, 2, 3, 0}, want: color.NRGBA{R: 3, G: 2, B: 1, A: 255}},
		{name: "a8", format: FormatA8, pixel: []byte{0x40}, want: color.NRGBA{A: 0x40}},
		{name: "l8", format: FormatL8, pixel: []byte{0x80}, want: color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 255}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewBuilder(1, 1, tc.format).AddLevel(tc.pixel).Build()
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			img, err := s.Image(0, nil)
			if err != nil {
				t.Fatalf("Image: %v", err)
			}
			if got := color.NRGBAModel.Convert(img.At(0, 0)); got != tc.want {
				t.Fatalf("pixel = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestImageUnsupported(t *testing.T) {
	t.Parallel()

	s := fillLevels(t, NewBuilder(4, 4, FormatBC7))
	if _, err := s.Image(0, nil); !errors.Is(err, ErrImageUnsupported) {
		t.Fatalf("expected ErrImageUnsupported, got %v", err)
	}
	if _, err := s.Image(1, nil); !errors.Is(err, ErrLevelIndex) {
		t.Fatalf("expected ErrLevelIndex, got %v", err)
	}
}

func TestImageSignedBumpUnsupported(t *testing.T) {
	t.Parallel()

	v8u8 := Uncompressed(16, ChannelMasks{R: 0x00ff, G: 0xff00})
	v8u8.LegacyFlags = ddpfBumpDuDv

	s, err := NewBuilder(1, 1, v8u8).AddLevel([]byte{0x80, 0x7f}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := s.Image(0, nil); !errors.Is(err, ErrImageUnsupported) {
		t.Fatalf("expected ErrImageUnsupported, got %v", err)
	}

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Format() != v8u8 {
		t.Fatalf("format = %+v, want %+v", got.Format(), v8u8)
	}
}

func TestImagePackedUnsupported(t *testing.T) {
	t.Parallel()

	pf, err := FromDXGI(DXGIFormatG8R8G8B8UNorm)
	if err != nil {
		t.Fatalf("FromDXGI: %v", err)
	}
	s := fillLevels(t, NewBuilder(2, 2, pf))
	if _, err := s.Image(0, nil); !errors.Is(err, ErrImageUnsupported) {
		t.Fatalf("expected ErrImageUnsupported, got %v", err)
	}
}

func TestImageRegistration(t *testing.T) {
	t.Parallel()

	s, err := FromImage(testImage(6, 5), &FromImageOptions{MaxMipMaps: 1})
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image.DecodeConfig: %v", err)
	}
	if name != "dds" || cfg.Width != 6 || cfg.Height != 5 {
		t.Fatalf("unexpected config %q %dx%d", name, cfg.Width, cfg.Height)
	}

	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image.Decode: %v", err)
	}
	if name != "dds" {
		t.Fatalf("format name = %q", name)
	}
	samePixels(t, img, testImage(6, 5))
}

func TestDecodeConfigErrors(t *testing.T) {
	t.Parallel()

	if _, err := DecodeConfig(bytes.NewReader([]byte("DDS "))); !errors.Is(err, ErrTruncatedHeader) {
		t.Fatalf("expected ErrTruncatedHeader, got %v", err)
	}
	if _, err := DecodeConfig(bytes.NewReader(nil)); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}
