package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
)

// Identity network for debugging: the output layer has the size of the
// input and the network learns to reproduce random binary vectors.
func main() {
	size := flag.Int("size", 2, "input width; every layer has this width")
	count := flag.Int("samples", 10000, "number of random training vectors")
	batchSize := flag.Int("batch", 100, "mini-batch size")
	epochs := flag.Int("epochs", 200, "number of passes over the samples")
	rate := flag.Float64("rate", 2, "learning rate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if err := run(*size, *count, *batchSize, *epochs, *rate, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(size, count, batchSize, epochs int, rate float64, seed int64) error {
	if batchSize <= 0 || count <= 0 {
		return fmt.Errorf("batch and samples must be positive")
	}

	rng := rand.New(rand.NewSource(seed))
	network, err := net.New([]int{size, size, size, size}, rng)
	if err != nil {
		return err
	}

	samples := make([]net.Sample, count)
	for i := range samples {
		v := make([]float64, size)
		for j := range v {
			v[j] = float64(rng.Intn(2))
		}
		samples[i] = net.Sample{Input: v, Target: v}
	}

	fmt.Printf("=== Identity network %v ===\n", network.Sizes())
	for epoch := 0; epoch < epochs; epoch++ {
		for start := 0; start < len(samples); start += batchSize {
			end := min(start+batchSize, len(samples))
			if err := network.LearnBatch(samples[start:end], rate); err != nil {
				return err
			}
		}

		last := samples[len(samples)-1]
		if _, err := network.Feed(last.Input); err != nil {
			return err
		}
		after := network.Output()
		fmt.Printf("epoch %d after: %v vs %.4f (cost %.6f)\n", epoch, last.Input, after, loss.Cost(last.Target, after))
	}
	return nil
}
