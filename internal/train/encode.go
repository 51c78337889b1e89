package train

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/mnist"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
	"gonum.org/v1/gonum/floats"
)

// Input scales grayscale pixels from 0-255 to [0, 1].
func Input(pixels []byte) []float64 {
	in := make([]float64, len(pixels))
	for i, p := range pixels {
		in[i] = float64(p) / 255
	}
	return in
}

// OneHot returns a vector of classes zeros with a 1 at label.
func OneHot(label byte, classes int) []float64 {
	v := make([]float64, classes)
	v[label] = 1
	return v
}

// Argmax returns the index of the largest value, the first one on ties.
func Argmax(v []float64) int {
	return floats.MaxIdx(v)
}

// Samples pairs images with one-hot encoded labels.
func Samples(images *mnist.Images, labels *mnist.Labels, classes int) ([]net.Sample, error) {
	if images.Count() != labels.Count() {
		return nil, fmt.Errorf("%w: %d images but %d labels", net.ErrShapeMismatch, images.Count(), labels.Count())
	}

	samples := make([]net.Sample, images.Count())
	for i := range samples {
		label := labels.At(i)
		if int(label) >= classes {
			return nil, fmt.Errorf("%w: label %d of sample %d is not below %d classes",
				net.ErrShapeMismatch, label, i, classes)
		}
		samples[i] = net.Sample{
			Input:  Input(images.At(i)),
			Target: OneHot(label, classes),
		}
	}
	return samples, nil
}

// Split shuffles samples with rng and splits them into two sets, the first
// holding ratio of the samples.
func Split(samples []net.Sample, ratio float64, rng *rand.Rand) (first, second []net.Sample) {
	shuffled := append([]net.Sample(nil), samples...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := int(float64(len(shuffled)) * ratio)
	cut = max(0, min(cut, len(shuffled)))
	return shuffled[:cut], shuffled[cut:]
}

// ParseHidden parses comma-separated hidden layer widths such as "16,16".
// An empty string means no hidden layer.
func ParseHidden(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	widths := make([]int, len(parts))
	for i, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("%w: hidden width %q is not a positive integer", ErrInvalidConfig, p)
		}
		widths[i] = w
	}
	return widths, nil
}

// Topology returns the layer widths for inputs, hidden and outputs.
func Topology(inputs int, hidden []int, outputs int) []int {
	sizes := make([]int, 0, len(hidden)+2)
	sizes = append(sizes, inputs)
	sizes = append(sizes, hidden...)
	return append(sizes, outputs)
}
