// Package goperceptron re-exports the network, trainer and dataset API
// under a single import path.
package goperceptron

import (
	"math/rand"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/mnist"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/train"
)

// Re-export common types and functions for easier access
type (
	Network   = net.Network
	Sample    = net.Sample
	Gradients = net.Gradients
	Config    = train.Config
	Trainer   = train.Trainer
	Metrics   = train.Metrics
	Callback  = train.Callback
	Scheduler = opt.Scheduler
	Images    = mnist.Images
	Labels    = mnist.Labels
)

// Errors
var (
	ErrInvalidTopology     = net.ErrInvalidTopology
	ErrShapeMismatch       = net.ErrShapeMismatch
	ErrEmptyBatch          = net.ErrEmptyBatch
	ErrInvalidLearningRate = net.ErrInvalidLearningRate
	ErrInvalidConfig       = train.ErrInvalidConfig
	ErrFormat              = mnist.ErrFormat
	ErrSize                = mnist.ErrSize
	ErrIO                  = mnist.ErrIO
)

// Network creation
func New(sizes []int, seed int64) (*Network, error) {
	return net.New(sizes, rand.New(rand.NewSource(seed)))
}

func NewConstant(sizes []int, weight, bias float64) (*Network, error) {
	return net.NewConstant(sizes, weight, bias)
}

// Cost
func Cost(target, output []float64) float64 {
	return loss.Cost(target, output)
}

func CostPrime(target, output []float64) []float64 {
	return loss.CostPrime(target, output)
}

// Training
func NewTrainer(n *Network, cfg Config, seed int64, callbacks ...Callback) (*Trainer, error) {
	return train.New(n, cfg, rand.New(rand.NewSource(seed)), train.WithCallbacks(callbacks...))
}

func Evaluate(n *Network, samples []Sample) (Metrics, error) {
	return train.Evaluate(n, samples, loss.Quadratic{})
}

// Schedulers
func StepLR(initial float64, stepSize int, gamma float64) Scheduler {
	return opt.NewStepLR(initial, stepSize, gamma)
}

// Callbacks
func Logger(interval int) train.Logger {
	return train.Logger{Interval: interval}
}

func CSVLogger(filename string, append bool) *train.CSVLogger {
	return train.NewCSVLogger(filename, append)
}

func EarlyStopping(patience int, threshold float64) *train.EarlyStopping {
	return train.NewEarlyStopping(patience, threshold)
}

// Dataset
func ReadImages(path string) (*Images, error) {
	return mnist.ReadImages(path)
}

func ReadLabels(path string) (*Labels, error) {
	return mnist.ReadLabels(path)
}

func ReadCSV(path string, width, height int) (*Images, *Labels, error) {
	return mnist.ReadCSV(path, width, height)
}

func Samples(images *Images, labels *Labels, classes int) ([]Sample, error) {
	return train.Samples(images, labels, classes)
}

func Argmax(v []float64) int {
	return train.Argmax(v)
}
