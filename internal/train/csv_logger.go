package train

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
)

// CSVLogger logs per-epoch metrics to a CSV file.
type CSVLogger struct {
	BaseCallback
	Filename string
	Append   bool

	file   *os.File
	writer *csv.Writer
	start  time.Time
	err    error
}

// NewCSVLogger creates a new CSVLogger.
func NewCSVLogger(filename string, append bool) *CSVLogger {
	return &CSVLogger{
		Filename: filename,
		Append:   append,
	}
}

func (c *CSVLogger) OnTrainBegin(n *net.Network) {
	mode := os.O_CREATE | os.O_WRONLY
	if c.Append {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(c.Filename, mode, 0644)
	if err != nil {
		c.err = fmt.Errorf("csv logger: %w", err)
		fmt.Printf("CSVLogger: failed to open file %s: %v\n", c.Filename, err)
		return
	}
	c.file = file
	c.writer = csv.NewWriter(file)
	c.start = time.Now()

	// Write header if not appending or if file is empty
	info, err := file.Stat()
	if err == nil && (info.Size() == 0 || !c.Append) {
		c.writer.Write([]string{"epoch", "accuracy", "cost", "time_seconds"})
		c.writer.Flush()
	}
}

func (c *CSVLogger) OnEpochEnd(epoch int, m Metrics, n *net.Network) {
	if c.writer == nil {
		return
	}

	elapsed := time.Since(c.start).Seconds()
	record := []string{
		strconv.Itoa(epoch),
		fmt.Sprintf("%.6f", m.Accuracy),
		fmt.Sprintf("%.6f", m.Cost),
		fmt.Sprintf("%.2f", elapsed),
	}

	if err := c.writer.Write(record); err != nil {
		c.err = fmt.Errorf("csv logger: %w", err)
		fmt.Printf("CSVLogger: failed to write record: %v\n", err)
	}
	c.writer.Flush()
}

func (c *CSVLogger) OnTrainEnd(n *net.Network) {
	if c.file != nil {
		c.writer.Flush()
		if err := c.writer.Error(); err != nil && c.err == nil {
			c.err = fmt.Errorf("csv logger: %w", err)
		}
		c.file.Close()
		c.file = nil
		c.writer = nil
	}
}

// Err returns the first error hit while opening or writing the file.
func (c *CSVLogger) Err() error {
	return c.err
}
