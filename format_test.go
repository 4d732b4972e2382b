package dds

import (
	"errors"
	"testing"
)

func TestLevelSizeTable(t *testing.T) {
	t.Parallel()

	r32g32b32, _ := FromDXGI(DXGIFormatR32G32B32Float)
	rgbg, _ := FromDXGI(DXGIFormatR8G8B8G8UNorm)

	tests := []struct {
		name   string
		format PixelFormat
		w      uint32
		h      uint32
		want   uint64
	}{
		{name: "bc1-4x4", format: FormatBC1, w: 4, h: 4, want: 8},
		{name: "bc1-5x7", format: FormatBC1, w: 5, h: 7, want: 32},
		{name: "bc1-1x1", format: FormatBC1, w: 1, h: 1, want: 8},
		{name: "bc3-4x4", format: FormatBC3, w: 4, h: 4, want: 16},
		{name: "bc7-9x3", format: FormatBC7, w: 9, h: 3, want: 48},
		{name: "bgra8-1x1", format: FormatBGRA8, w: 1, h: 1, want: 4},
		{name: "bgra8-5x7", format: FormatBGRA8, w: 5, h: 7, want: 140},
		{name: "bgr8-3x2", format: FormatBGR8, w: 3, h: 2, want: 18},
		{name: "r5g6b5-3x3", format: FormatR5G6B5, w: 3, h: 3, want: 18},
		{name: "a8-7x1", format: FormatA8, w: 7, h: 1, want: 7},
		{name: "rgb32f-2x2", format: r32g32b32, w: 2, h: 2, want: 48},
		{name: "rgbg-1x1", format: rgbg, w: 1, h: 1, want: 4},
		{name: "rgbg-3x2", format: rgbg, w: 3, h: 2, want: 16},
		{name: "rgbg-4x3", format: rgbg, w: 4, h: 3, want: 24},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := tc.format.levelSize(tc.w, tc.h)
			if got != tc.want {
				t.Fatalf("levelSize(%s,%d,%d) = %d, want %d", tc.format, tc.w, tc.h, got, tc.want)
			}
		})
	}
}

func TestMipDimensionsFloor(t *testing.T) {
	t.Parallel()

	headers := []Header{
		{Width: 1, Height: 1},
		{Width: 1, Height: 64},
		{Width: 257, Height: 1},
		{Width: 0xffffffff, Height: 3},
	}

	for _, h := range headers {
		for mip := uint32(0); mip < 40; mip++ {
			w, ht := h.MipDimensions(mip)
			if w < 1 || ht < 1 {
				t.Fatalf("%dx%d mip %d produced %dx%d", h.Width, h.Height, mip, w, ht)
			}
		}
	}

	if w, ht := (Header{Width: 1, Height: 64}).MipDimensions(3); w != 1 || ht != 8 {
		t.Fatalf("1x64 mip 3 = %dx%d, want 1x8", w, ht)
	}
}

func TestFullMipMapCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w, h uint32
		want uint32
	}{
		{w: 1, h: 1, want: 1},
		{w: 2, h: 1, want: 2},
		{w: 8, h: 8, want: 4},
		{w: 16, h: 4, want: 5},
		{w: 4096, h: 4096, want: maxMipMapCount},
	}

	for _, tc := range tests {
		if got := fullMipMapCount(tc.w, tc.h); got != tc.want {
			t.Fatalf("fullMipMapCount(%d,%d) = %d, want %d", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestValidateMasks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bpp     uint32
		masks   ChannelMasks
		wantErr bool
	}{
		{name: "rgba8", bpp: 32, masks: FormatRGBA8.Masks},
		{name: "r5g6b5", bpp: 16, masks: FormatR5G6B5.Masks},
		{name: "a2b10g10r10", bpp: 32, masks: ChannelMasks{R: 0x3ff, G: 0xffc00, B: 0x3ff00000, A: 0xc0000000}},
		{name: "r3g3b2", bpp: 8, masks: ChannelMasks{R: 0xe0, G: 0x1c, B: 0x03}},
		{name: "overlap", bpp: 32, masks: ChannelMasks{R: 0xff, G: 0x1ff}, wantErr: true},
		{name: "overlap-alpha", bpp: 16, masks: ChannelMasks{R: 0x0f00, A: 0xff00}, wantErr: true},
		{name: "exceeds-bits", bpp: 24, masks: ChannelMasks{R: 0xff000000}, wantErr: true},
		{name: "empty", bpp: 32, wantErr: true},
		{name: "non-contiguous", bpp: 16, masks: ChannelMasks{R: 0x0005, G: 0xff00}, wantErr: true},
		{name: "split-alpha", bpp: 32, masks: ChannelMasks{R: 0xff, A: 0x0f000f00}, wantErr: true},
		{name: "zero-bits", bpp: 0, masks: ChannelMasks{R: 1}, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := validateMasks(tc.bpp, tc.masks)
			if tc.wantErr && !errors.Is(err, ErrInvalidMasks) {
				t.Fatalf("expected ErrInvalidMasks, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPixelFormatVariants(t *testing.T) {
	t.Parallel()

	for codec := CodecBC1; codec <= CodecBC7; codec++ {
		pf := BlockCompressed(codec)
		if err := pf.validate(); err != nil {
			t.Fatalf("%s: %v", codec, err)
		}
		if pf.BlockSize == 0 || pf.BitsPerPixel != 0 {
			t.Fatalf("%s: block size %d, bpp %d", codec, pf.BlockSize, pf.BitsPerPixel)
		}
		if (pf.FourCC == 0) == (pf.DXGI == 0) {
			t.Fatalf("%s: expected exactly one on-disk carrier", codec)
		}
	}

	for d := range dxgiFormats {
		pf, err := FromDXGI(d)
		if err != nil {
			t.Fatalf("FromDXGI(%s): %v", d, err)
		}
		if err := pf.validate(); err != nil {
			t.Fatalf("FromDXGI(%s) invalid: %v", d, err)
		}
		if pf.IsCompressed() && pf.BlockSize == 0 {
			t.Fatalf("%s: compressed with no block size", d)
		}
	}

	for fourCC, pf := range legacyFourCCFormats {
		if err := pf.validate(); err != nil {
			t.Fatalf("FourCC %s invalid: %v", fourCC, err)
		}
	}
}

func TestFromDXGIUnknown(t *testing.T) {
	t.Parallel()

	if _, err := FromDXGI(0); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if got := DXGIFormat(1234).String(); got != "DXGI(1234)" {
		t.Fatalf("String() = %q", got)
	}
	if got := DXGIFormatBC7UNormSRGB.String(); got != "BC7_UNORM_SRGB" {
		t.Fatalf("String() = %q", got)
	}
}

func TestFourCCString(t *testing.T) {
	t.Parallel()

	if got := FourCCDXT5.String(); got != "DXT5" {
		t.Fatalf("FourCCDXT5 = %q", got)
	}
	if got := FourCC(113).String(); got != "113" {
		t.Fatalf("FourCC(113) = %q", got)
	}
	if MakeFourCC('D', 'X', '1', '0') != FourCC(0x30315844) {
		t.Fatalf("MakeFourCC byte order")
	}
}
