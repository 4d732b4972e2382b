package dds

import (
	"fmt"
	"io"
	"os"
)

// ReadFile reads and decodes a DDS file.
func ReadFile(path string) (*Surface, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}

	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	return s, nil
}

// WriteFile encodes s and writes it to path.
func WriteFile(path string, s *Surface) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	return writeAll(path, data)
}

// ReadEDDSFile reads and decodes an EDDS file.
func ReadEDDSFile(path string) (*Surface, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}

	s, err := DecodeEDDS(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	return s, nil
}

// WriteEDDSFile encodes s as EDDS and writes it to path.
// compress=false stores COPY blocks (no LZ4).
func WriteEDDSFile(path string, s *Surface, compress bool) error {
	data, err := EncodeEDDS(s, compress)
	if err != nil {
		return err
	}

	return writeAll(path, data)
}

func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrReadFile, path, err)
	}

	return data, nil
}

func writeAll(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %q: %v", ErrWriteFile, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrWriteFile, path, err)
	}

	return nil
}
