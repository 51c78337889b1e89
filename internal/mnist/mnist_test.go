package mnist

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func imagesFile(magic, count, rows, cols uint32, payload []byte) []byte {
	var buf bytes.Buffer
	for _, v := range []uint32{magic, count, rows, cols} {
		binary.Write(&buf, binary.BigEndian, v)
	}
	buf.Write(payload)
	return buf.Bytes()
}

func labelsFile(magic, count uint32, payload []byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, magic)
	binary.Write(&buf, binary.BigEndian, count)
	buf.Write(payload)
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeGzip(t *testing.T, name string, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return writeFile(t, name, buf.Bytes())
}

// TestDecodeImages tests a well-formed two image file of 2x3 pixels.
func TestDecodeImages(t *testing.T) {
	payload := []byte{0, 1, 2, 3, 4, 5, 250, 251, 252, 253, 254, 255}
	images, err := DecodeImages(bytes.NewReader(imagesFile(0x803, 2, 3, 2, payload)))
	require.NoError(t, err)

	require.Equal(t, 2, images.Count())
	require.Equal(t, 2, images.Width())
	require.Equal(t, 3, images.Height())
	require.Equal(t, 6, images.Size())
	require.Equal(t, []byte{0, 1, 2, 3, 4, 5}, images.At(0))
	require.Equal(t, []byte{250, 251, 252, 253, 254, 255}, images.At(1))
	require.Equal(t, 6, cap(images.At(0)))
}

// TestDecodeImagesEmpty tests a header announcing zero images.
func TestDecodeImagesEmpty(t *testing.T) {
	images, err := DecodeImages(bytes.NewReader(imagesFile(0x803, 0, 28, 28, nil)))
	require.NoError(t, err)
	require.Equal(t, 0, images.Count())
	require.Equal(t, 784, images.Size())
}

// TestDecodeImagesErrors tests every malformed image stream.
func TestDecodeImagesErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"labels magic", imagesFile(0x801, 1, 1, 1, []byte{7}), ErrFormat},
		{"short header", imagesFile(0x803, 1, 1, 1, nil)[:10], ErrFormat},
		{"no header", nil, ErrFormat},
		{"short payload", imagesFile(0x803, 2, 2, 2, make([]byte, 7)), ErrSize},
		{"long payload", imagesFile(0x803, 2, 2, 2, make([]byte, 9)), ErrSize},
		{"huge header", imagesFile(0x803, 0xffffffff, 0xffffffff, 0xffffffff, nil), ErrSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images, err := DecodeImages(bytes.NewReader(tt.data))
			require.Nil(t, images)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

// TestDecodeLabels tests a well-formed label stream.
func TestDecodeLabels(t *testing.T) {
	labels, err := DecodeLabels(bytes.NewReader(labelsFile(0x801, 4, []byte{5, 0, 4, 9})))
	require.NoError(t, err)
	require.Equal(t, 4, labels.Count())
	require.Equal(t, byte(5), labels.At(0))
	require.Equal(t, byte(9), labels.At(3))
	require.Equal(t, byte(9), labels.Max())
}

// TestDecodeLabelsErrors tests every malformed label stream.
func TestDecodeLabelsErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"images magic", labelsFile(0x803, 1, []byte{1}), ErrFormat},
		{"short header", []byte{0, 0, 8, 1, 0}, ErrFormat},
		{"short payload", labelsFile(0x801, 3, []byte{1, 2}), ErrSize},
		{"long payload", labelsFile(0x801, 1, []byte{1, 2}), ErrSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels, err := DecodeLabels(bytes.NewReader(tt.data))
			require.Nil(t, labels)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

// TestReadFiles tests reading plain and gzip-compressed files from disk.
func TestReadFiles(t *testing.T) {
	imgData := imagesFile(0x803, 1, 2, 2, []byte{10, 20, 30, 40})
	lblData := labelsFile(0x801, 1, []byte{3})

	for _, gz := range []bool{false, true} {
		imgPath := writeFile(t, "images-idx3-ubyte", imgData)
		lblPath := writeFile(t, "labels-idx1-ubyte", lblData)
		if gz {
			imgPath = writeGzip(t, "images-idx3-ubyte.gz", imgData)
			lblPath = writeGzip(t, "labels-idx1-ubyte.gz", lblData)
		}

		images, err := ReadImages(imgPath)
		require.NoError(t, err)
		require.Equal(t, []byte{10, 20, 30, 40}, images.At(0))

		labels, err := ReadLabels(lblPath)
		require.NoError(t, err)
		require.Equal(t, byte(3), labels.At(0))
	}
}

// TestReadErrors tests missing files and corrupt gzip streams.
func TestReadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := ReadImages(missing)
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.Contains(t, err.Error(), missing)

	_, err = ReadLabels(missing)
	require.ErrorIs(t, err, ErrIO)

	notGzip := writeFile(t, "labels.gz", labelsFile(0x801, 0, nil))
	_, err = ReadLabels(notGzip)
	require.ErrorIs(t, err, ErrFormat)

	badMagic := writeFile(t, "images", imagesFile(0x802, 0, 1, 1, nil))
	_, err = ReadImages(badMagic)
	require.ErrorIs(t, err, ErrFormat)
	require.NotErrorIs(t, err, ErrIO)
}

// TestDecodeCSV tests the label-then-pixels CSV layout with and without a header.
func TestDecodeCSV(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"plain", "7,0,255,128,1\n2,9,8,7,6\n"},
		{"header", "label,p0,p1,p2,p3\n7,0,255,128,1\n2,9,8,7,6\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images, labels, err := DecodeCSV(bytes.NewBufferString(tt.data), 2, 2)
			require.NoError(t, err)
			require.Equal(t, 2, images.Count())
			require.Equal(t, 2, labels.Count())
			require.Equal(t, []byte{0, 255, 128, 1}, images.At(0))
			require.Equal(t, []byte{9, 8, 7, 6}, images.At(1))
			require.Equal(t, byte(7), labels.At(0))
			require.Equal(t, byte(2), labels.At(1))
		})
	}
}

// TestDecodeCSVErrors tests malformed CSV rows.
func TestDecodeCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing pixel", "7,0,255,128\n"},
		{"extra pixel", "7,0,255,128,1,1\n"},
		{"out of range", "7,0,256,128,1\n"},
		{"negative", "7,0,-1,128,1\n"},
		{"not a number", "7,0,x,128,1\n"},
		{"bad quoting", "7,\"0,1,2,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeCSV(bytes.NewBufferString(tt.data), 2, 2)
			require.ErrorIs(t, err, ErrFormat)
		})
	}

	_, _, err := DecodeCSV(bytes.NewBufferString(""), 0, 2)
	require.ErrorIs(t, err, ErrFormat)
}

// TestReadCSV tests reading a gzip-compressed CSV file.
func TestReadCSV(t *testing.T) {
	path := writeGzip(t, "mnist_test.csv.gz", []byte("1,1,2,3\n0,4,5,6\n"))
	images, labels, err := ReadCSV(path, 3, 1)
	require.NoError(t, err)
	require.Equal(t, 2, images.Count())
	require.Equal(t, []byte{4, 5, 6}, images.At(1))
	require.Equal(t, byte(1), labels.At(0))

	_, _, err = ReadCSV(filepath.Join(t.TempDir(), "none.csv"), 3, 1)
	require.ErrorIs(t, err, ErrIO)
}

// TestNewImages tests wrapping raw pixel data.
func TestNewImages(t *testing.T) {
	images, err := NewImages(1, 2, 1, []byte{1, 2})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, images.At(0))

	_, err = NewImages(2, 2, 1, []byte{1, 2})
	require.ErrorIs(t, err, ErrSize)

	_, err = NewImages(1, 0, 1, nil)
	require.ErrorIs(t, err, ErrFormat)

	require.Equal(t, 3, NewLabels([]byte{1, 2, 3}).Count())
}
