package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/mnist"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/train"
	"github.com/klauspost/cpuid/v2"
)

const classes = 10

type options struct {
	hidden     string
	epochs     int
	batch      int
	rate       float64
	seed       int64
	shuffle    bool
	csv        bool
	width      int
	height     int
	testImages string
	testLabels string
	testCSV    string
	holdout    float64
	logFile    string
	decayEvery int
	decay      float64
	expDecay   float64
	patience   int
	show       int
}

func main() {
	var o options
	flag.StringVar(&o.hidden, "hidden", "16,16", "comma-separated hidden layer widths")
	flag.IntVar(&o.epochs, "epochs", 30, "number of training epochs")
	flag.IntVar(&o.batch, "batch", 10, "mini-batch size")
	flag.Float64Var(&o.rate, "rate", 3.0, "learning rate")
	flag.Int64Var(&o.seed, "seed", 1, "seed for weight initialization and shuffling")
	flag.BoolVar(&o.shuffle, "shuffle", true, "shuffle the training set every epoch")
	flag.BoolVar(&o.csv, "csv", false, "read the training set from a single CSV file (label,pixels...)")
	flag.IntVar(&o.width, "width", 28, "image width for CSV input")
	flag.IntVar(&o.height, "height", 28, "image height for CSV input")
	flag.StringVar(&o.testImages, "test-images", "", "IDX image file of the test set")
	flag.StringVar(&o.testLabels, "test-labels", "", "IDX label file of the test set")
	flag.StringVar(&o.testCSV, "test-csv", "", "CSV file of the test set")
	flag.Float64Var(&o.holdout, "holdout", 0, "fraction of the training set held out for evaluation when no test set is given")
	flag.StringVar(&o.logFile, "log", "", "write per-epoch metrics to this CSV file")
	flag.IntVar(&o.decayEvery, "decay-every", 0, "multiply the learning rate by -decay every N epochs (0 disables)")
	flag.Float64Var(&o.decay, "decay", 0.5, "learning rate decay factor")
	flag.Float64Var(&o.expDecay, "exp-decay", 0, "multiply the learning rate by this factor every epoch (0 disables)")
	flag.IntVar(&o.patience, "patience", 0, "stop after N epochs without improvement (0 disables)")
	flag.IntVar(&o.show, "show", 10, "guesses printed after every epoch")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] IMAGES-FILE LABELS-FILE\n       %s -csv [flags] CSV-FILE\n\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(o, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(o options, args []string) error {
	fmt.Println("=== MNIST Digit Classification ===")
	fmt.Printf("CPU: %s (%d cores, %d threads, AVX2: %v)\n",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores, cpuid.CPU.Supports(cpuid.AVX2))

	trainSet, size, err := loadTrainSet(o, args)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(o.seed))
	evalSet, err := loadTestSet(o)
	if err != nil {
		return err
	}
	if evalSet == nil && o.holdout > 0 {
		trainSet, evalSet = train.Split(trainSet, 1-o.holdout, rng)
	}
	fmt.Printf("Loaded %d training samples and %d evaluation samples (%d pixels)\n", len(trainSet), len(evalSet), size)

	hidden, err := train.ParseHidden(o.hidden)
	if err != nil {
		return err
	}
	network, err := net.New(train.Topology(size, hidden, classes), rng)
	if err != nil {
		return err
	}
	network.Summary(os.Stdout)

	cfg := train.Config{
		Epochs:       o.epochs,
		BatchSize:    o.batch,
		LearningRate: o.rate,
		Shuffle:      o.shuffle,
	}
	checkpoint := train.NewCheckpoint()
	callbacks := []train.Callback{
		train.Logger{Interval: 1},
		&guessPrinter{samples: evalSet, count: o.show},
		checkpoint,
	}
	if evalSet == nil {
		callbacks[1] = &guessPrinter{samples: trainSet, count: o.show}
	}
	var csvLog *train.CSVLogger
	if o.logFile != "" {
		csvLog = train.NewCSVLogger(o.logFile, false)
		callbacks = append(callbacks, csvLog)
	}
	if o.patience > 0 {
		callbacks = append(callbacks, train.NewEarlyStopping(o.patience, 1e-4))
	}

	var scheduler opt.Scheduler = opt.Constant(o.rate)
	switch {
	case o.decayEvery > 0:
		scheduler = opt.NewStepLR(o.rate, o.decayEvery, o.decay)
	case o.expDecay > 0:
		scheduler = opt.ExponentialLR{Initial: o.rate, Gamma: o.expDecay}
	}

	trainer, err := train.New(network, cfg, rng, train.WithCallbacks(callbacks...), train.WithScheduler(scheduler))
	if err != nil {
		return err
	}

	fmt.Println("Starting training...")
	start := time.Now()
	history, err := trainer.Fit(trainSet, evalSet)
	if err != nil {
		return err
	}
	fmt.Printf("Training finished in %v after %d epochs\n", time.Since(start), len(history))
	if csvLog != nil && csvLog.Err() != nil {
		fmt.Printf("Warning: %v\n", csvLog.Err())
	}

	epoch, acc := checkpoint.Best()
	if err := checkpoint.Restore(network); err != nil {
		return err
	}
	fmt.Printf("Best epoch: %d (accuracy %.2f%%)\n", epoch, acc*100)

	if evalSet != nil {
		m, err := train.Evaluate(network, evalSet, loss.Quadratic{})
		if err != nil {
			return err
		}
		fmt.Printf("Evaluation accuracy: %.2f%%, cost: %.6f\n", m.Accuracy*100, m.Cost)
	}
	return nil
}

func loadTrainSet(o options, args []string) ([]net.Sample, int, error) {
	var (
		images *mnist.Images
		labels *mnist.Labels
		err    error
	)
	switch {
	case o.csv && len(args) == 1:
		images, labels, err = mnist.ReadCSV(args[0], o.width, o.height)
	case !o.csv && len(args) == 2:
		images, err = mnist.ReadImages(args[0])
		if err == nil {
			labels, err = mnist.ReadLabels(args[1])
		}
	default:
		flag.Usage()
		return nil, 0, fmt.Errorf("unexpected arguments %q", args)
	}
	if err != nil {
		return nil, 0, err
	}

	samples, err := train.Samples(images, labels, classes)
	return samples, images.Size(), err
}

func loadTestSet(o options) ([]net.Sample, error) {
	var (
		images *mnist.Images
		labels *mnist.Labels
		err    error
	)
	switch {
	case o.testCSV != "":
		images, labels, err = mnist.ReadCSV(o.testCSV, o.width, o.height)
	case o.testImages != "" && o.testLabels != "":
		images, err = mnist.ReadImages(o.testImages)
		if err == nil {
			labels, err = mnist.ReadLabels(o.testLabels)
		}
	case o.testImages != "" || o.testLabels != "":
		return nil, fmt.Errorf("-test-images and -test-labels must be given together")
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return train.Samples(images, labels, classes)
}

// guessPrinter prints a rotating window of guesses after every epoch.
type guessPrinter struct {
	train.BaseCallback
	samples []net.Sample
	count   int
}

func (g *guessPrinter) OnEpochEnd(epoch int, m train.Metrics, n *net.Network) {
	if len(g.samples) == 0 {
		return
	}
	for i := 0; i < g.count; i++ {
		s := g.samples[(epoch*g.count+i)%len(g.samples)]
		if _, err := n.Feed(s.Input); err != nil {
			fmt.Printf("Guess: %v\n", err)
			return
		}
		out := n.Output()
		fmt.Printf("Guess: %d vs %d - Cost: %.6f\n", train.Argmax(out), train.Argmax(s.Target), loss.Cost(s.Target, out))
	}
}
