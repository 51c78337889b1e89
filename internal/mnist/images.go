package mnist

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Images is an ordered collection of equal-sized grayscale bitmaps.
// Pixels are stored row-major, one byte (0-255) per pixel.
type Images struct {
	count  int
	width  int
	height int
	data   []byte
}

// NewImages wraps raw pixel data holding count images of width x height.
func NewImages(count, width, height int, data []byte) (*Images, error) {
	if count < 0 || width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrFormat, "invalid dimensions %d x %dx%d", count, width, height)
	}
	if len(data) != count*width*height {
		return nil, errors.Wrapf(ErrSize, "got %d bytes for %d images of %dx%d", len(data), count, width, height)
	}
	return &Images{count: count, width: width, height: height, data: data}, nil
}

// ReadImages reads an IDX3 image file. Paths ending in ".gz" are decompressed.
func ReadImages(path string) (*Images, error) {
	rc, err := open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "images %s", path)
	}
	defer rc.Close()

	images, err := DecodeImages(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "images %s", path)
	}
	return images, nil
}

// DecodeImages decodes an IDX3 image stream: a 16-byte big-endian header
// (magic 0x803, count, rows, columns) followed by exactly count*rows*columns bytes.
func DecodeImages(r io.Reader) (*Images, error) {
	var header [imagesHeaderSize]byte
	if err := readHeader(r, header[:], imagesMagic, "images"); err != nil {
		return nil, err
	}

	count := binary.BigEndian.Uint32(header[4:8])
	height := binary.BigEndian.Uint32(header[8:12])
	width := binary.BigEndian.Uint32(header[12:16])

	size, ok := payloadSize(count, height, width)
	if !ok {
		return nil, errors.Wrapf(ErrSize, "%d images of %dx%d do not fit in memory", count, width, height)
	}

	data, err := readPayload(r, size)
	if err != nil {
		return nil, err
	}

	return &Images{
		count:  int(count),
		width:  int(width),
		height: int(height),
		data:   data,
	}, nil
}

// Count returns the number of images.
func (im *Images) Count() int {
	return im.count
}

// Width returns the number of columns of every image.
func (im *Images) Width() int {
	return im.width
}

// Height returns the number of rows of every image.
func (im *Images) Height() int {
	return im.height
}

// Size returns the number of pixels of every image.
func (im *Images) Size() int {
	return im.width * im.height
}

// At returns the pixels of image i. The slice aliases the collection and
// must not be modified.
func (im *Images) At(i int) []byte {
	size := im.Size()
	start := i * size
	return im.data[start : start+size : start+size]
}
