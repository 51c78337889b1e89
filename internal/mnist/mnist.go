// Package mnist decodes the MNIST handwritten digit database: the IDX image
// and label files (optionally gzip-compressed) and the CSV export where each
// row is a label followed by its pixels.
package mnist

import (
	"compress/gzip"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	imagesMagic      = 0x00000803
	labelsMagic      = 0x00000801
	imagesHeaderSize = 16
	labelsHeaderSize = 8
)

var (
	// ErrFormat reports a bad magic number, a truncated header or a malformed row.
	ErrFormat = errors.New("mnist: bad format")

	// ErrSize reports a payload whose size disagrees with the header.
	ErrSize = errors.New("mnist: payload size does not match header")

	// ErrIO reports a failure to open or read the underlying file.
	ErrIO = errors.New("mnist: i/o failure")
)

// ioError keeps the original error reachable while matching ErrIO.
type ioError struct {
	err error
}

func (e *ioError) Error() string        { return e.err.Error() }
func (e *ioError) Unwrap() error        { return e.err }
func (e *ioError) Is(target error) bool { return target == ErrIO }

// gzipFile closes both the decompressor and the file underneath it.
type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	g.Reader.Close()
	return g.file.Close()
}

// open opens path, transparently decompressing it when it ends in ".gz".
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(&ioError{err}, "could not open file")
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		if err == io.EOF || err == io.ErrUnexpectedEOF || err == gzip.ErrHeader {
			return nil, errors.Wrapf(ErrFormat, "not a gzip stream: %v", err)
		}
		return nil, errors.Wrap(&ioError{err}, "could not read gzip header")
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

// readHeader fills header and verifies its leading magic number.
func readHeader(r io.Reader, header []byte, magic uint32, kind string) error {
	n, err := io.ReadFull(r, header)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return errors.Wrapf(ErrFormat, "bad header size: %d, expected %d", n, len(header))
	case err != nil:
		return errors.Wrap(&ioError{err}, "could not read header")
	}

	if got := binary.BigEndian.Uint32(header); got != magic {
		return errors.Wrapf(ErrFormat, "magic number %#x, expected %#x for %s files", got, magic, kind)
	}
	return nil
}

// readPayload reads exactly size bytes and fails if r holds more or less.
func readPayload(r io.Reader, size int) ([]byte, error) {
	// One extra byte is enough to detect trailing data.
	data, err := io.ReadAll(io.LimitReader(r, int64(size)+1))
	if err != nil {
		return nil, errors.Wrap(&ioError{err}, "could not read payload")
	}
	if len(data) != size {
		if len(data) > size {
			return nil, errors.Wrapf(ErrSize, "more than %d bytes, expected %d as specified in the header", size, size)
		}
		return nil, errors.Wrapf(ErrSize, "incorrect size: %d bytes, expected %d as specified in the header", len(data), size)
	}
	return data, nil
}

// payloadSize returns count*height*width, or false when it does not fit an int.
func payloadSize(count, height, width uint32) (int, bool) {
	pixels := uint64(height) * uint64(width)
	if pixels != 0 && uint64(count) > uint64(math.MaxInt)/pixels {
		return 0, false
	}
	return int(uint64(count) * pixels), true
}
