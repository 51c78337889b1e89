package train

import (
	"math"
	"math/rand"
	"testing"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
	"github.com/stretchr/testify/require"
)

// andSamples is logical AND with one-hot targets: class 1 only for {1, 1}.
func andSamples() []net.Sample {
	return []net.Sample{
		{Input: []float64{0, 0}, Target: []float64{1, 0}},
		{Input: []float64{0, 1}, Target: []float64{1, 0}},
		{Input: []float64{1, 0}, Target: []float64{1, 0}},
		{Input: []float64{1, 1}, Target: []float64{0, 1}},
	}
}

// recorder counts callback invocations.
type recorder struct {
	BaseCallback
	trainBegin, trainEnd   int
	epochBegin, batchBegin int
	batchEnd               int
	epochs                 []Metrics
	stopAfter              int
}

func (r *recorder) OnTrainBegin(n *net.Network)            { r.trainBegin++ }
func (r *recorder) OnTrainEnd(n *net.Network)              { r.trainEnd++ }
func (r *recorder) OnEpochBegin(epoch int, n *net.Network) { r.epochBegin++ }
func (r *recorder) OnBatchBegin(batch int, n *net.Network) { r.batchBegin++ }
func (r *recorder) OnBatchEnd(batch int, n *net.Network)   { r.batchEnd++ }
func (r *recorder) OnEpochEnd(epoch int, m Metrics, n *net.Network) {
	r.epochs = append(r.epochs, m)
}
func (r *recorder) Stop() bool {
	return r.stopAfter > 0 && len(r.epochs) >= r.stopAfter
}

// TestConfigValidate tests rejection of unusable hyperparameters.
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{Epochs: 1, BatchSize: 1, LearningRate: 0.1}, true},
		{"no epochs", Config{Epochs: 0, BatchSize: 1, LearningRate: 0.1}, false},
		{"no batch", Config{Epochs: 1, BatchSize: 0, LearningRate: 0.1}, false},
		{"zero rate", Config{Epochs: 1, BatchSize: 1, LearningRate: 0}, false},
		{"negative rate", Config{Epochs: 1, BatchSize: 1, LearningRate: -1}, false},
		{"nan rate", Config{Epochs: 1, BatchSize: 1, LearningRate: math.NaN()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

// TestNew tests that shuffling requires a random source.
func TestNew(t *testing.T) {
	n, err := net.NewConstant([]int{2, 2}, 0, 0)
	require.NoError(t, err)

	_, err = New(n, Config{Epochs: 1, BatchSize: 1, LearningRate: 1, Shuffle: true}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(n, Config{Epochs: 1, BatchSize: 1, LearningRate: 1}, nil)
	require.NoError(t, err)

	_, err = New(n, Config{}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

// TestFitLearnsAND tests that full-batch training classifies AND.
func TestFitLearnsAND(t *testing.T) {
	n, err := net.New([]int{2, 2}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	trainer, err := New(n, Config{Epochs: 2000, BatchSize: 4, LearningRate: 2}, nil)
	require.NoError(t, err)

	history, err := trainer.Fit(andSamples(), nil)
	require.NoError(t, err)
	require.Len(t, history, 2000)

	first, last := history[0], history[len(history)-1]
	require.Equal(t, 0, first.Epoch)
	require.Equal(t, 1999, last.Epoch)
	require.Less(t, last.Cost, first.Cost)
	require.Less(t, last.Cost, 0.01)
	require.Equal(t, 1.0, last.Accuracy)
}

// TestFitBatches tests callback order and the short last batch.
func TestFitBatches(t *testing.T) {
	n, err := net.New([]int{2, 2}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	samples := append(andSamples(), andSamples()[0])
	rec := &recorder{}
	trainer, err := New(n, Config{Epochs: 3, BatchSize: 2, LearningRate: 0.5, Shuffle: true},
		rand.New(rand.NewSource(2)), WithCallbacks(rec))
	require.NoError(t, err)

	history, err := trainer.Fit(samples, andSamples())
	require.NoError(t, err)
	require.Len(t, history, 3)

	require.Equal(t, 1, rec.trainBegin)
	require.Equal(t, 1, rec.trainEnd)
	require.Equal(t, 3, rec.epochBegin)
	require.Equal(t, 9, rec.batchBegin)
	require.Equal(t, 9, rec.batchEnd)
	require.Equal(t, history, rec.epochs)
}

// TestFitStopper tests that a Stopper callback ends training.
func TestFitStopper(t *testing.T) {
	n, err := net.New([]int{2, 2}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	rec := &recorder{stopAfter: 2}
	trainer, err := New(n, Config{Epochs: 10, BatchSize: 4, LearningRate: 0.5}, nil, WithCallbacks(rec))
	require.NoError(t, err)

	history, err := trainer.Fit(andSamples(), nil)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, 1, rec.trainEnd)
}

// TestFitScheduler tests that every epoch uses the scheduled rate.
func TestFitScheduler(t *testing.T) {
	n, err := net.New([]int{2, 2}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	trainer, err := New(n, Config{Epochs: 5, BatchSize: 4, LearningRate: 1}, nil,
		WithScheduler(opt.NewStepLR(1, 2, 0.5)))
	require.NoError(t, err)

	history, err := trainer.Fit(andSamples(), nil)
	require.NoError(t, err)

	rates := make([]float64, len(history))
	for i, m := range history {
		rates[i] = m.LearningRate
	}
	require.Equal(t, []float64{1, 1, 0.5, 0.5, 0.25}, rates)
}

// TestFitDeterministic tests that the same seeds give the same network.
func TestFitDeterministic(t *testing.T) {
	run := func() []float64 {
		n, err := net.New([]int{2, 3, 2}, rand.New(rand.NewSource(3)))
		require.NoError(t, err)
		trainer, err := New(n, Config{Epochs: 5, BatchSize: 3, LearningRate: 1, Shuffle: true},
			rand.New(rand.NewSource(4)))
		require.NoError(t, err)
		_, err = trainer.Fit(andSamples(), nil)
		require.NoError(t, err)
		return n.Params()
	}

	require.Equal(t, run(), run())
}

// TestFitErrors tests failures surfaced by Fit.
func TestFitErrors(t *testing.T) {
	n, err := net.New([]int{2, 2}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	rec := &recorder{}
	trainer, err := New(n, Config{Epochs: 2, BatchSize: 4, LearningRate: 1}, nil, WithCallbacks(rec))
	require.NoError(t, err)

	_, err = trainer.Fit(nil, nil)
	require.ErrorIs(t, err, net.ErrEmptyBatch)

	bad := append(andSamples(), net.Sample{Input: []float64{1}, Target: []float64{1, 0}})
	history, err := trainer.Fit(bad, nil)
	require.ErrorIs(t, err, net.ErrShapeMismatch)
	require.Empty(t, history)
	require.Equal(t, 1, rec.trainEnd)

	stalled, err := New(n, Config{Epochs: 2, BatchSize: 4, LearningRate: 1}, nil,
		WithScheduler(opt.Constant(0)))
	require.NoError(t, err)
	_, err = stalled.Fit(andSamples(), nil)
	require.ErrorIs(t, err, net.ErrInvalidLearningRate)
}

// TestEvaluate tests accuracy and mean cost on a network that outputs 0.5 everywhere.
func TestEvaluate(t *testing.T) {
	n, err := net.NewConstant([]int{2, 2}, 0, 0)
	require.NoError(t, err)

	samples := []net.Sample{
		{Input: []float64{0, 1}, Target: []float64{1, 0}},
		{Input: []float64{1, 0}, Target: []float64{0, 1}},
	}
	m, err := Evaluate(n, samples, loss.Quadratic{})
	require.NoError(t, err)
	require.Equal(t, 0.5, m.Accuracy)
	require.InDelta(t, 0.25, m.Cost, 1e-12)

	_, err = Evaluate(n, nil, loss.Quadratic{})
	require.ErrorIs(t, err, net.ErrEmptyBatch)

	_, err = Evaluate(n, []net.Sample{{Input: []float64{0, 1}, Target: []float64{1}}}, loss.Quadratic{})
	require.ErrorIs(t, err, net.ErrShapeMismatch)

	_, err = Evaluate(n, []net.Sample{{Input: []float64{0}, Target: []float64{1, 0}}}, loss.Quadratic{})
	require.ErrorIs(t, err, net.ErrShapeMismatch)
}
