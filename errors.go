package dds

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is the category of all malformed or unsupported input errors.
	ErrFormat = errors.New("dds: format error")
	// ErrValidation is the category of errors for surfaces that cannot be built or serialized.
	ErrValidation = errors.New("dds: validation error")
)

var (
	// ErrBadMagic indicates the input does not start with the DDS magic.
	ErrBadMagic = fmt.Errorf("%w: bad magic", ErrFormat)
	// ErrTruncatedHeader indicates the input ends inside the header.
	ErrTruncatedHeader = fmt.Errorf("%w: truncated header", ErrFormat)
	// ErrInvalidHeader indicates a header or pixel format record of the wrong size.
	ErrInvalidHeader = fmt.Errorf("%w: invalid header", ErrFormat)
	// ErrInvalidDimensions indicates a zero width or height.
	ErrInvalidDimensions = fmt.Errorf("%w: invalid dimensions", ErrFormat)
	// ErrUnknownFormat indicates an unsupported FourCC or DXGI format.
	ErrUnknownFormat = fmt.Errorf("%w: unknown format", ErrFormat)
	// ErrInvalidMasks indicates overlapping or out of range channel masks.
	ErrInvalidMasks = fmt.Errorf("%w: invalid channel masks", ErrFormat)
	// ErrTruncatedData indicates the input ends before the last level.
	ErrTruncatedData = fmt.Errorf("%w: truncated data", ErrFormat)
)

var (
	// ErrInconsistentLevelSize indicates level data of the wrong length.
	ErrInconsistentLevelSize = fmt.Errorf("%w: inconsistent level size", ErrValidation)
	// ErrLevelCountMismatch indicates the number of levels does not match the header.
	ErrLevelCountMismatch = fmt.Errorf("%w: level count mismatch", ErrValidation)
	// ErrUnsupportedFormatForEncode indicates a format with no on-disk representation.
	ErrUnsupportedFormatForEncode = fmt.Errorf("%w: unsupported format for encode", ErrValidation)
)

var (
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrNilSurface indicates a nil surface was passed in.
	ErrNilSurface = errors.New("nil surface")
	// ErrLevelIndex indicates a level index out of range.
	ErrLevelIndex = errors.New("level index out of range")
	// ErrImageUnsupported indicates there is no image decoder for the format.
	ErrImageUnsupported = errors.New("no image decoder for format")
	// ErrDecodeImage indicates image decode failed.
	ErrDecodeImage = errors.New("decode image failed")
	// ErrEncodeImage indicates image encode failed.
	ErrEncodeImage = errors.New("encode image failed")
	// ErrEmptyImage indicates an image with no pixels.
	ErrEmptyImage = errors.New("empty image")
	// ErrOpenFile indicates file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrReadFile indicates file read failed.
	ErrReadFile = errors.New("read file failed")
	// ErrCreateFile indicates file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrWriteFile indicates file write failed.
	ErrWriteFile = errors.New("write file failed")
)

var (
	// ErrEDDSLayout indicates a surface that EDDS cannot store (volume, cubemap or array).
	ErrEDDSLayout = errors.New("edds: only 2D single-face surfaces are supported")
	// ErrInputTooLarge indicates input data is too large to encode.
	ErrInputTooLarge = errors.New("input data too large")
	// ErrCompressedDataTooLarge indicates compressed payload exceeds limits.
	ErrCompressedDataTooLarge = errors.New("compressed data too large")
	// ErrChunkTooLarge indicates a compressed chunk exceeds allowed size.
	ErrChunkTooLarge = errors.New("compressed chunk too large")
	// ErrLZ4Compress indicates LZ4 compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrUnknownBlockMagic indicates an unknown block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrChunkStreamTruncated indicates LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = errors.New("LZ4 chunk-stream truncated")
	// ErrUnknownLZ4Flags indicates unknown LZ4 chunk flags.
	ErrUnknownLZ4Flags = errors.New("unknown LZ4 flags")
	// ErrInvalidChunkSize indicates invalid LZ4 chunk size.
	ErrInvalidChunkSize = errors.New("invalid compressed chunk size")
	// ErrDecodeOverrun indicates decoded data overruns target buffer.
	ErrDecodeOverrun = errors.New("decoded LZ4 overruns target buffer")
	// ErrDecodedSizeMismatch indicates decoded size mismatch.
	ErrDecodedSizeMismatch = errors.New("LZ4 decoded size mismatch")
	// ErrBlockLengthMismatch indicates leftover bytes after decode.
	ErrBlockLengthMismatch = errors.New("LZ4 block length mismatch")
	// ErrBlockTableTruncated indicates the block table ends early.
	ErrBlockTableTruncated = errors.New("block table truncated")
	// ErrBlockTableInvalidSize indicates invalid size in block table.
	ErrBlockTableInvalidSize = errors.New("invalid block size in table")
	// ErrBlockBodyTruncated indicates a block body ends early.
	ErrBlockBodyTruncated = errors.New("block body truncated")
	// ErrDecompressBlock indicates block decompression failed.
	ErrDecompressBlock = errors.New("decompress block failed")
	// ErrParseSingleBlock indicates failure parsing legacy single block.
	ErrParseSingleBlock = errors.New("failed to parse single block")
)
