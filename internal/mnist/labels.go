package mnist

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Labels is an ordered collection of single-byte class labels.
type Labels struct {
	data []byte
}

// NewLabels wraps raw label bytes.
func NewLabels(data []byte) *Labels {
	return &Labels{data: data}
}

// ReadLabels reads an IDX1 label file. Paths ending in ".gz" are decompressed.
func ReadLabels(path string) (*Labels, error) {
	rc, err := open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "labels %s", path)
	}
	defer rc.Close()

	labels, err := DecodeLabels(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "labels %s", path)
	}
	return labels, nil
}

// DecodeLabels decodes an IDX1 label stream: an 8-byte big-endian header
// (magic 0x801, count) followed by exactly count bytes.
func DecodeLabels(r io.Reader) (*Labels, error) {
	var header [labelsHeaderSize]byte
	if err := readHeader(r, header[:], labelsMagic, "labels"); err != nil {
		return nil, err
	}

	count := binary.BigEndian.Uint32(header[4:8])
	size, ok := payloadSize(count, 1, 1)
	if !ok {
		return nil, errors.Wrapf(ErrSize, "%d labels do not fit in memory", count)
	}

	data, err := readPayload(r, size)
	if err != nil {
		return nil, err
	}
	return &Labels{data: data}, nil
}

// Count returns the number of labels.
func (lb *Labels) Count() int {
	return len(lb.data)
}

// At returns label i.
func (lb *Labels) At(i int) byte {
	return lb.data[i]
}

// Max returns the largest label, or 0 for an empty collection.
func (lb *Labels) Max() byte {
	var m byte
	for _, v := range lb.data {
		if v > m {
			m = v
		}
	}
	return m
}
