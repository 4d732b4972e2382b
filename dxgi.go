package dds

import "fmt"

// DXGIFormat is the format enum carried by the extended header.
type DXGIFormat uint32

// Supported DXGI formats.
const (
	DXGIFormatR32G32B32A32Float DXGIFormat = 2
	DXGIFormatR32G32B32A32UInt  DXGIFormat = 3
	DXGIFormatR32G32B32A32SInt  DXGIFormat = 4
	DXGIFormatR32G32B32Float    DXGIFormat = 6
	DXGIFormatR32G32B32UInt     DXGIFormat = 7
	DXGIFormatR32G32B32SInt     DXGIFormat = 8
	DXGIFormatR16G16B16A16Float DXGIFormat = 10
	DXGIFormatR16G16B16A16UNorm DXGIFormat = 11
	DXGIFormatR16G16B16A16UInt  DXGIFormat = 12
	DXGIFormatR16G16B16A16SNorm DXGIFormat = 13
	DXGIFormatR16G16B16A16SInt  DXGIFormat = 14
	DXGIFormatR32G32Float       DXGIFormat = 16
	DXGIFormatR32G32UInt        DXGIFormat = 17
	DXGIFormatR32G32SInt        DXGIFormat = 18
	DXGIFormatR10G10B10A2UNorm  DXGIFormat = 24
	DXGIFormatR10G10B10A2UInt   DXGIFormat = 25
	DXGIFormatR11G11B10Float    DXGIFormat = 26
	DXGIFormatR8G8B8A8UNorm     DXGIFormat = 28
	DXGIFormatR8G8B8A8UNormSRGB DXGIFormat = 29
	DXGIFormatR8G8B8A8UInt      DXGIFormat = 30
	DXGIFormatR8G8B8A8SNorm     DXGIFormat = 31
	DXGIFormatR8G8B8A8SInt      DXGIFormat = 32
	DXGIFormatR16G16Float       DXGIFormat = 34
	DXGIFormatR16G16UNorm       DXGIFormat = 35
	DXGIFormatR16G16UInt        DXGIFormat = 36
	DXGIFormatR16G16SNorm       DXGIFormat = 37
	DXGIFormatR16G16SInt        DXGIFormat = 38
	DXGIFormatR32Float          DXGIFormat = 41
	DXGIFormatR32UInt           DXGIFormat = 42
	DXGIFormatR32SInt           DXGIFormat = 43
	DXGIFormatR8G8UNorm         DXGIFormat = 49
	DXGIFormatR8G8UInt          DXGIFormat = 50
	DXGIFormatR8G8SNorm         DXGIFormat = 51
	DXGIFormatR8G8SInt          DXGIFormat = 52
	DXGIFormatR16Float          DXGIFormat = 54
	DXGIFormatR16UNorm          DXGIFormat = 56
	DXGIFormatR16UInt           DXGIFormat = 57
	DXGIFormatR16SNorm          DXGIFormat = 58
	DXGIFormatR16SInt           DXGIFormat = 59
	DXGIFormatR8UNorm           DXGIFormat = 61
	DXGIFormatR8UInt            DXGIFormat = 62
	DXGIFormatR8SNorm           DXGIFormat = 63
	DXGIFormatR8SInt            DXGIFormat = 64
	DXGIFormatA8UNorm           DXGIFormat = 65
	DXGIFormatR9G9B9E5SharedExp DXGIFormat = 67
	DXGIFormatR8G8B8G8UNorm     DXGIFormat = 68
	DXGIFormatG8R8G8B8UNorm     DXGIFormat = 69
	DXGIFormatBC1UNorm          DXGIFormat = 71
	DXGIFormatBC1UNormSRGB      DXGIFormat = 72
	DXGIFormatBC2UNorm          DXGIFormat = 74
	DXGIFormatBC2UNormSRGB      DXGIFormat = 75
	DXGIFormatBC3UNorm          DXGIFormat = 77
	DXGIFormatBC3UNormSRGB      DXGIFormat = 78
	DXGIFormatBC4UNorm          DXGIFormat = 80
	DXGIFormatBC4SNorm          DXGIFormat = 81
	DXGIFormatBC5UNorm          DXGIFormat = 83
	DXGIFormatBC5SNorm          DXGIFormat = 84
	DXGIFormatB5G6R5UNorm       DXGIFormat = 85
	DXGIFormatB5G5R5A1UNorm     DXGIFormat = 86
	DXGIFormatB8G8R8A8UNorm     DXGIFormat = 87
	DXGIFormatB8G8R8X8UNorm     DXGIFormat = 88
	DXGIFormatB8G8R8A8UNormSRGB DXGIFormat = 91
	DXGIFormatB8G8R8X8UNormSRGB DXGIFormat = 93
	DXGIFormatBC6HUF16          DXGIFormat = 95
	DXGIFormatBC6HSF16          DXGIFormat = 96
	DXGIFormatBC7UNorm          DXGIFormat = 98
	DXGIFormatBC7UNormSRGB      DXGIFormat = 99
	DXGIFormatB4G4R4A4UNorm     DXGIFormat = 115
)

// packedPairSize is the byte size of one 2x1 pixel pair in packed formats.
const packedPairSize = 4

type dxgiInfo struct {
	name   string
	bpp    uint32
	codec  Codec
	masks  ChannelMasks
	packed bool
}

var (
	masksRGBA8 = ChannelMasks{R: 0x000000ff, G: 0x0000ff00, B: 0x00ff0000, A: 0xff000000}
	masksBGRA8 = ChannelMasks{R: 0x00ff0000, G: 0x0000ff00, B: 0x000000ff, A: 0xff000000}
	masksBGRX8 = ChannelMasks{R: 0x00ff0000, G: 0x0000ff00, B: 0x000000ff}
)

// dxgiFormats is the closed set of extended header formats Decode accepts.
// Masks are filled only where the channels are plain unsigned normalized bits.
var dxgiFormats = map[DXGIFormat]dxgiInfo{
	DXGIFormatR32G32B32A32Float: {name: "R32G32B32A32_FLOAT", bpp: 128},
	DXGIFormatR32G32B32A32UInt:  {name: "R32G32B32A32_UINT", bpp: 128},
	DXGIFormatR32G32B32A32SInt:  {name: "R32G32B32A32_SINT", bpp: 128},
	DXGIFormatR32G32B32Float:    {name: "R32G32B32_FLOAT", bpp: 96},
	DXGIFormatR32G32B32UInt:     {name: "R32G32B32_UINT", bpp: 96},
	DXGIFormatR32G32B32SInt:     {name: "R32G32B32_SINT", bpp: 96},
	DXGIFormatR16G16B16A16Float: {name: "R16G16B16A16_FLOAT", bpp: 64},
	DXGIFormatR16G16B16A16UNorm: {name: "R16G16B16A16_UNORM", bpp: 64},
	DXGIFormatR16G16B16A16UInt:  {name: "R16G16B16A16_UINT", bpp: 64},
	DXGIFormatR16G16B16A16SNorm: {name: "R16G16B16A16_SNORM", bpp: 64},
	DXGIFormatR16G16B16A16SInt:  {name: "R16G16B16A16_SINT", bpp: 64},
	DXGIFormatR32G32Float:       {name: "R32G32_FLOAT", bpp: 64},
	DXGIFormatR32G32UInt:        {name: "R32G32_UINT", bpp: 64},
	DXGIFormatR32G32SInt:        {name: "R32G32_SINT", bpp: 64},
	DXGIFormatR10G10B10A2UNorm:  {name: "R10G10B10A2_UNORM", bpp: 32, masks: ChannelMasks{R: 0x000003ff, G: 0x000ffc00, B: 0x3ff00000, A: 0xc0000000}},
	DXGIFormatR10G10B10A2UInt:   {name: "R10G10B10A2_UINT", bpp: 32},
	DXGIFormatR11G11B10Float:    {name: "R11G11B10_FLOAT", bpp: 32},
	DXGIFormatR8G8B8A8UNorm:     {name: "R8G8B8A8_UNORM", bpp: 32, masks: masksRGBA8},
	DXGIFormatR8G8B8A8UNormSRGB: {name: "R8G8B8A8_UNORM_SRGB", bpp: 32, masks: masksRGBA8},
	DXGIFormatR8G8B8A8UInt:      {name: "R8G8B8A8_UINT", bpp: 32},
	DXGIFormatR8G8B8A8SNorm:     {name: "R8G8B8A8_SNORM", bpp: 32},
	DXGIFormatR8G8B8A8SInt:      {name: "R8G8B8A8_SINT", bpp: 32},
	DXGIFormatR16G16Float:       {name: "R16G16_FLOAT", bpp: 32},
	DXGIFormatR16G16UNorm:       {name: "R16G16_UNORM", bpp: 32, masks: ChannelMasks{R: 0x0000ffff, G: 0xffff0000}},
	DXGIFormatR16G16UInt:        {name: "R16G16_UINT", bpp: 32},
	DXGIFormatR16G16SNorm:       {name: "R16G16_SNORM", bpp: 32},
	DXGIFormatR16G16SInt:        {name: "R16G16_SINT", bpp: 32},
	DXGIFormatR32Float:          {name: "R32_FLOAT", bpp: 32},
	DXGIFormatR32UInt:           {name: "R32_UINT", bpp: 32},
	DXGIFormatR32SInt:           {name: "R32_SINT", bpp: 32},
	DXGIFormatR8G8UNorm:         {name: "R8G8_UNORM", bpp: 16, masks: ChannelMasks{R: 0x00ff, G: 0xff00}},
	DXGIFormatR8G8UInt:          {name: "R8G8_UINT", bpp: 16},
	DXGIFormatR8G8SNorm:         {name: "R8G8_SNORM", bpp: 16},
	DXGIFormatR8G8SInt:          {name: "R8G8_SINT", bpp: 16},
	DXGIFormatR16Float:          {name: "R16_FLOAT", bpp: 16},
	DXGIFormatR16UNorm:          {name: "R16_UNORM", bpp: 16, masks: ChannelMasks{R: 0xffff}},
	DXGIFormatR16UInt:           {name: "R16_UINT", bpp: 16},
	DXGIFormatR16SNorm:          {name: "R16_SNORM", bpp: 16},
	DXGIFormatR16SInt:           {name: "R16_SINT", bpp: 16},
	DXGIFormatR8UNorm:           {name: "R8_UNORM", bpp: 8, masks: ChannelMasks{R: 0xff}},
	DXGIFormatR8UInt:            {name: "R8_UINT", bpp: 8},
	DXGIFormatR8SNorm:           {name: "R8_SNORM", bpp: 8},
	DXGIFormatR8SInt:            {name: "R8_SINT", bpp: 8},
	DXGIFormatA8UNorm:           {name: "A8_UNORM", bpp: 8, masks: ChannelMasks{A: 0xff}},
	DXGIFormatR9G9B9E5SharedExp: {name: "R9G9B9E5_SHAREDEXP", bpp: 32},
	DXGIFormatR8G8B8G8UNorm:     {name: "R8G8_B8G8_UNORM", packed: true},
	DXGIFormatG8R8G8B8UNorm:     {name: "G8R8_G8B8_UNORM", packed: true},
	DXGIFormatBC1UNorm:          {name: "BC1_UNORM", codec: CodecBC1},
	DXGIFormatBC1UNormSRGB:      {name: "BC1_UNORM_SRGB", codec: CodecBC1},
	DXGIFormatBC2UNorm:          {name: "BC2_UNORM", codec: CodecBC2},
	DXGIFormatBC2UNormSRGB:      {name: "BC2_UNORM_SRGB", codec: CodecBC2},
	DXGIFormatBC3UNorm:          {name: "BC3_UNORM", codec: CodecBC3},
	DXGIFormatBC3UNormSRGB:      {name: "BC3_UNORM_SRGB", codec: CodecBC3},
	DXGIFormatBC4UNorm:          {name: "BC4_UNORM", codec: CodecBC4},
	DXGIFormatBC4SNorm:          {name: "BC4_SNORM", codec: CodecBC4S},
	DXGIFormatBC5UNorm:          {name: "BC5_UNORM", codec: CodecBC5},
	DXGIFormatBC5SNorm:          {name: "BC5_SNORM", codec: CodecBC5S},
	DXGIFormatB5G6R5UNorm:       {name: "B5G6R5_UNORM", bpp: 16, masks: ChannelMasks{R: 0xf800, G: 0x07e0, B: 0x001f}},
	DXGIFormatB5G5R5A1UNorm:     {name: "B5G5R5A1_UNORM", bpp: 16, masks: ChannelMasks{R: 0x7c00, G: 0x03e0, B: 0x001f, A: 0x8000}},
	DXGIFormatB8G8R8A8UNorm:     {name: "B8G8R8A8_UNORM", bpp: 32, masks: masksBGRA8},
	DXGIFormatB8G8R8X8UNorm:     {name: "B8G8R8X8_UNORM", bpp: 32, masks: masksBGRX8},
	DXGIFormatB8G8R8A8UNormSRGB: {name: "B8G8R8A8_UNORM_SRGB", bpp: 32, masks: masksBGRA8},
	DXGIFormatB8G8R8X8UNormSRGB: {name: "B8G8R8X8_UNORM_SRGB", bpp: 32, masks: masksBGRX8},
	DXGIFormatBC6HUF16:          {name: "BC6H_UF16", codec: CodecBC6H},
	DXGIFormatBC6HSF16:          {name: "BC6H_SF16", codec: CodecBC6HS},
	DXGIFormatBC7UNorm:          {name: "BC7_UNORM", codec: CodecBC7},
	DXGIFormatBC7UNormSRGB:      {name: "BC7_UNORM_SRGB", codec: CodecBC7},
	DXGIFormatB4G4R4A4UNorm:     {name: "B4G4R4A4_UNORM", bpp: 16, masks: ChannelMasks{R: 0x0f00, G: 0x00f0, B: 0x000f, A: 0xf000}},
}

// String returns the DXGI name without the DXGI_FORMAT_ prefix.
func (d DXGIFormat) String() string {
	if info, ok := dxgiFormats[d]; ok {
		return info.name
	}

	return fmt.Sprintf("DXGI(%d)", uint32(d))
}

// FromDXGI returns the PixelFormat carried by extended header format d.
func FromDXGI(d DXGIFormat) (PixelFormat, error) {
	info, ok := dxgiFormats[d]
	if !ok {
		return PixelFormat{}, fmt.Errorf("%w: DXGI %d", ErrUnknownFormat, uint32(d))
	}

	if info.packed {
		return PixelFormat{
			Kind:      KindPacked,
			BlockSize: packedPairSize,
			DXGI:      d,
		}, nil
	}

	if info.codec != CodecNone {
		return PixelFormat{
			Kind:      KindBlockCompressed,
			Codec:     info.codec,
			BlockSize: info.codec.BlockSize(),
			DXGI:      d,
		}, nil
	}

	return PixelFormat{
		Kind:         KindUncompressed,
		BitsPerPixel: info.bpp,
		Masks:        info.masks,
		DXGI:         d,
	}, nil
}
