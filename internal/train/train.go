// Package train drives a network through epochs of shuffled mini-batches,
// evaluates it after every epoch and reports progress to callbacks.
package train

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
)

// ErrInvalidConfig is returned by Config.Validate and New.
var ErrInvalidConfig = errors.New("train: invalid config")

// Config holds the training hyperparameters.
type Config struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	// Shuffle reorders the training set before every epoch.
	Shuffle bool
}

// Validate checks that every hyperparameter is usable.
func (c Config) Validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalidConfig, c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if !(c.LearningRate > 0) {
		return fmt.Errorf("%w: learning rate must be positive, got %g", ErrInvalidConfig, c.LearningRate)
	}
	return nil
}

// Metrics summarizes one evaluation pass.
type Metrics struct {
	Epoch        int
	LearningRate float64
	// Accuracy is the fraction of samples whose largest output matches the
	// largest target entry.
	Accuracy float64
	// Cost is the mean cost over the evaluated samples.
	Cost     float64
	Duration time.Duration
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithCallbacks registers callbacks, called in order.
func WithCallbacks(callbacks ...Callback) Option {
	return func(t *Trainer) {
		t.callbacks = append(t.callbacks, callbacks...)
	}
}

// WithScheduler replaces the constant Config.LearningRate.
func WithScheduler(s opt.Scheduler) Option {
	return func(t *Trainer) {
		t.scheduler = s
	}
}

// WithLoss sets the loss reported by Evaluate. Training itself always
// follows the network's quadratic cost.
func WithLoss(l loss.Loss) Option {
	return func(t *Trainer) {
		t.loss = l
	}
}

// Trainer runs mini-batch gradient descent on a network.
type Trainer struct {
	net       *net.Network
	cfg       Config
	rng       *rand.Rand
	scheduler opt.Scheduler
	loss      loss.Loss
	callbacks []Callback
}

// New creates a Trainer. rng is only used for shuffling and may be nil when
// cfg.Shuffle is false.
func New(n *net.Network, cfg Config, rng *rand.Rand, opts ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Shuffle && rng == nil {
		return nil, fmt.Errorf("%w: shuffling needs a random source", ErrInvalidConfig)
	}

	t := &Trainer{
		net:       n,
		cfg:       cfg,
		rng:       rng,
		scheduler: opt.Constant(cfg.LearningRate),
		loss:      loss.Quadratic{},
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Fit trains for cfg.Epochs epochs and returns the metrics of every
// completed epoch. Each epoch is evaluated on evalSet, or on trainSet when
// evalSet is empty. Training ends early when a callback implementing
// Stopper asks for it. On error the network keeps the updates of the
// batches that succeeded.
func (t *Trainer) Fit(trainSet, evalSet []net.Sample) ([]Metrics, error) {
	if len(trainSet) == 0 {
		return nil, fmt.Errorf("%w: empty training set", net.ErrEmptyBatch)
	}
	if len(evalSet) == 0 {
		evalSet = trainSet
	}

	order := make([]int, len(trainSet))
	for i := range order {
		order[i] = i
	}
	batch := make([]net.Sample, 0, t.cfg.BatchSize)
	history := make([]Metrics, 0, t.cfg.Epochs)

	for _, cb := range t.callbacks {
		cb.OnTrainBegin(t.net)
	}
	defer func() {
		for _, cb := range t.callbacks {
			cb.OnTrainEnd(t.net)
		}
	}()

	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		started := time.Now()
		rate := t.scheduler.LearningRate(epoch)

		for _, cb := range t.callbacks {
			cb.OnEpochBegin(epoch, t.net)
		}

		if t.cfg.Shuffle {
			t.rng.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		for b, start := 0, 0; start < len(order); b, start = b+1, start+t.cfg.BatchSize {
			end := min(start+t.cfg.BatchSize, len(order))
			batch = batch[:0]
			for _, i := range order[start:end] {
				batch = append(batch, trainSet[i])
			}

			for _, cb := range t.callbacks {
				cb.OnBatchBegin(b, t.net)
			}
			if err := t.net.LearnBatch(batch, rate); err != nil {
				return history, fmt.Errorf("epoch %d, batch %d: %w", epoch, b, err)
			}
			for _, cb := range t.callbacks {
				cb.OnBatchEnd(b, t.net)
			}
		}

		m, err := Evaluate(t.net, evalSet, t.loss)
		if err != nil {
			return history, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		m.Epoch = epoch
		m.LearningRate = rate
		m.Duration = time.Since(started)
		history = append(history, m)

		for _, cb := range t.callbacks {
			cb.OnEpochEnd(epoch, m, t.net)
		}
		if t.stopRequested() {
			break
		}
	}

	return history, nil
}

func (t *Trainer) stopRequested() bool {
	for _, cb := range t.callbacks {
		if s, ok := cb.(Stopper); ok && s.Stop() {
			return true
		}
	}
	return false
}

// Evaluate feeds every sample through n and reports the accuracy and the
// mean cost under l.
func Evaluate(n *net.Network, samples []net.Sample, l loss.Loss) (Metrics, error) {
	if len(samples) == 0 {
		return Metrics{}, fmt.Errorf("%w: nothing to evaluate", net.ErrEmptyBatch)
	}

	outputs := n.Sizes()[n.NumLayers()-1]
	var correct int
	var cost float64
	for i, s := range samples {
		if len(s.Target) != outputs {
			return Metrics{}, fmt.Errorf("%w: sample %d has %d targets, want %d",
				net.ErrShapeMismatch, i, len(s.Target), outputs)
		}
		if _, err := n.Feed(s.Input); err != nil {
			return Metrics{}, fmt.Errorf("sample %d: %w", i, err)
		}

		out := n.Output()
		cost += l.Forward(out, s.Target)
		if Argmax(out) == Argmax(s.Target) {
			correct++
		}
	}

	total := float64(len(samples))
	return Metrics{
		Accuracy: float64(correct) / total,
		Cost:     cost / total,
	}, nil
}
