package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/FlavioCFOliveira/GoPerceptron/goperceptron"
)

func main() {
	fmt.Println("=== XOR Training Example ===")

	// 2 inputs -> 4 hidden -> 2 outputs, one output per class.
	// XOR is not linearly separable, so the hidden layer is required.
	sizes := []int{2, 4, 2}
	fmt.Printf("Network architecture: %v\n", sizes)
	fmt.Println("Activation: Sigmoid, cost: quadratic, optimizer: SGD with learning rate 2")

	network, err := goperceptron.New(sizes, 42)
	if err != nil {
		fmt.Printf("Error creating network: %v\n", err)
		os.Exit(1)
	}

	// The default init draws tiny positive weights, which leaves the hidden
	// units nearly identical on such a small problem. Spread them over [-1, 1).
	rng := rand.New(rand.NewSource(42))
	params := make([]float64, network.NumParams())
	for i := range params {
		params[i] = 2*rng.Float64() - 1
	}
	if err := network.SetParams(params); err != nil {
		fmt.Printf("Error setting parameters: %v\n", err)
		os.Exit(1)
	}

	samples := []goperceptron.Sample{
		{Input: []float64{0, 0}, Target: []float64{1, 0}},
		{Input: []float64{0, 1}, Target: []float64{0, 1}},
		{Input: []float64{1, 0}, Target: []float64{0, 1}},
		{Input: []float64{1, 1}, Target: []float64{1, 0}},
	}

	cfg := goperceptron.Config{Epochs: 5000, BatchSize: len(samples), LearningRate: 2}
	trainer, err := goperceptron.NewTrainer(network, cfg, 42, goperceptron.Logger(500))
	if err != nil {
		fmt.Printf("Error creating trainer: %v\n", err)
		os.Exit(1)
	}
	if _, err := trainer.Fit(samples, nil); err != nil {
		fmt.Printf("Error training: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nTesting trained network:")
	for _, s := range samples {
		out, err := network.Feed(s.Input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Input: %v, Predicted: %d (%.4f, %.4f), Target: %d\n",
			s.Input, goperceptron.Argmax(network.Output()), out.AtVec(0), out.AtVec(1), goperceptron.Argmax(s.Target))
	}

	m, err := goperceptron.Evaluate(network, samples)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nAccuracy: %.0f%%, cost: %.6f\n", m.Accuracy*100, m.Cost)
}
