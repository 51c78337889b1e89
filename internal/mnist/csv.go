package mnist

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ReadCSV reads a CSV export of the database where every row is a label
// followed by width*height pixel values in 0-255. A leading header row is
// skipped. Paths ending in ".gz" are decompressed.
func ReadCSV(path string, width, height int) (*Images, *Labels, error) {
	rc, err := open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "csv %s", path)
	}
	defer rc.Close()

	images, labels, err := DecodeCSV(rc, width, height)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "csv %s", path)
	}
	return images, labels, nil
}

// DecodeCSV is ReadCSV on an already opened stream.
func DecodeCSV(r io.Reader, width, height int) (*Images, *Labels, error) {
	if width <= 0 || height <= 0 {
		return nil, nil, errors.Wrapf(ErrFormat, "invalid image size %dx%d", width, height)
	}

	size := width * height
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	var pixels, labels []byte
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				return nil, nil, errors.Wrapf(ErrFormat, "%v", err)
			}
			return nil, nil, errors.Wrap(&ioError{err}, "could not read csv")
		}

		if row == 0 && isHeader(record) {
			continue
		}
		if len(record) != size+1 {
			return nil, nil, errors.Wrapf(ErrFormat, "row %d has %d columns, expected %d", row, len(record), size+1)
		}

		for col, field := range record {
			v, err := strconv.ParseUint(field, 10, 8)
			if err != nil {
				return nil, nil, errors.Wrapf(ErrFormat, "row %d, col %d: %q is not a value in 0-255", row, col, field)
			}
			if col == 0 {
				labels = append(labels, byte(v))
			} else {
				pixels = append(pixels, byte(v))
			}
		}
	}

	images := &Images{count: len(labels), width: width, height: height, data: pixels}
	return images, &Labels{data: labels}, nil
}

// isHeader reports whether the first field of record is not a number.
func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.ParseUint(record[0], 10, 64)
	return err != nil
}
