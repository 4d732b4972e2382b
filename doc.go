/*
Package dds implements a DirectDraw Surface (DDS) reader and writer.

Decode parses a complete DDS file (classic header, optional DX10 extended
header, mip chains, cubemap faces, volume slices and texture arrays) into an
immutable Surface; Encode writes it back so that Decode(Encode(s)) equals s.
Surfaces built in code go through Builder, which checks every level size
against the header before handing out a Surface.

The package also bridges to image.Image through github.com/woozymasta/bcn
(DecodeImage, Surface.Image, FromImage) and reads and writes the Enfusion
EDDS variant with LZ4 chunk-stream blocks (DecodeEDDS, EncodeEDDS).

Decode and Encode work on in-memory buffers, keep no state and are safe
for concurrent use.
*/
package dds
