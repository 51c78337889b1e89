package train

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
)

// Callback defines the interface for training callbacks.
type Callback interface {
	OnTrainBegin(n *net.Network)
	OnTrainEnd(n *net.Network)
	OnEpochBegin(epoch int, n *net.Network)
	OnEpochEnd(epoch int, m Metrics, n *net.Network)
	OnBatchBegin(batch int, n *net.Network)
	OnBatchEnd(batch int, n *net.Network)
}

// Stopper is implemented by callbacks that can end training early.
// Fit checks it after every epoch.
type Stopper interface {
	Stop() bool
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *net.Network)                     {}
func (c BaseCallback) OnTrainEnd(n *net.Network)                       {}
func (c BaseCallback) OnEpochBegin(epoch int, n *net.Network)          {}
func (c BaseCallback) OnEpochEnd(epoch int, m Metrics, n *net.Network) {}
func (c BaseCallback) OnBatchBegin(batch int, n *net.Network)          {}
func (c BaseCallback) OnBatchEnd(batch int, n *net.Network)            {}

// EarlyStopping stops training when the evaluation cost has stopped improving.
type EarlyStopping struct {
	BaseCallback
	Patience  int
	Threshold float64
	// Out receives the stop notice; nil means os.Stdout.
	Out io.Writer

	bestCost     float64
	numBadEpochs int
	Stopped      bool
}

// NewEarlyStopping stops after patience epochs without the cost dropping
// by more than threshold.
func NewEarlyStopping(patience int, threshold float64) *EarlyStopping {
	return &EarlyStopping{
		Patience:  patience,
		Threshold: threshold,
		bestCost:  math.Inf(1),
	}
}

func (c *EarlyStopping) OnEpochEnd(epoch int, m Metrics, n *net.Network) {
	if m.Cost < c.bestCost-c.Threshold {
		c.bestCost = m.Cost
		c.numBadEpochs = 0
	} else {
		c.numBadEpochs++
	}

	if c.numBadEpochs >= c.Patience {
		fmt.Fprintf(writerOrStdout(c.Out), "\nEarly stopping at epoch %d: cost %.6f did not improve for %d epochs\n",
			epoch, m.Cost, c.Patience)
		c.Stopped = true
	}
}

// Stop reports whether training should end.
func (c *EarlyStopping) Stop() bool {
	return c.Stopped
}

// Checkpoint keeps, in memory, the parameters of the epoch with the best
// accuracy so far.
type Checkpoint struct {
	BaseCallback

	best      []float64
	bestEpoch int
	bestAcc   float64
}

// NewCheckpoint creates an empty Checkpoint.
func NewCheckpoint() *Checkpoint {
	return &Checkpoint{bestEpoch: -1, bestAcc: -1}
}

func (c *Checkpoint) OnEpochEnd(epoch int, m Metrics, n *net.Network) {
	if m.Accuracy > c.bestAcc {
		c.bestAcc = m.Accuracy
		c.bestEpoch = epoch
		c.best = n.Params()
	}
}

// Best returns the epoch and accuracy of the snapshot, or -1 when none was taken.
func (c *Checkpoint) Best() (epoch int, accuracy float64) {
	return c.bestEpoch, c.bestAcc
}

// Restore writes the best parameters back into n.
func (c *Checkpoint) Restore(n *net.Network) error {
	if c.best == nil {
		return fmt.Errorf("%w: no snapshot taken", ErrInvalidConfig)
	}
	return n.SetParams(c.best)
}

// Logger logs training progress every Interval epochs.
type Logger struct {
	BaseCallback
	Interval int
	// Out receives the log lines; nil means os.Stdout.
	Out io.Writer
}

func (c Logger) OnEpochEnd(epoch int, m Metrics, n *net.Network) {
	if c.Interval > 0 && epoch%c.Interval == 0 {
		fmt.Fprintf(writerOrStdout(c.Out), "Epoch %d: accuracy = %.4f, cost = %.6f, rate = %g (%v)\n",
			epoch, m.Accuracy, m.Cost, m.LearningRate, m.Duration.Round(time.Millisecond))
	}
}

func writerOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
