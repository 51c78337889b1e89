// Package net provides the fully-connected sigmoid network: layer state,
// forward inference and batched backpropagation.
package net

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"gonum.org/v1/gonum/mat"
)

// Network is a stack of fully-connected sigmoid layers.
//
// Layer 0 is the input layer. For l >= 1, w[l] is sizes[l] x sizes[l-1] and
// b[l] has sizes[l] entries; w[0], b[0] and z[0] are nil.
// A Network is not safe for concurrent use.
type Network struct {
	sizes []int

	// a[l] is the activation of layer l, a[0] the last input fed
	a []*mat.VecDense
	// z[l] is the pre-activation W[l]·a[l-1] + b[l]
	z []*mat.VecDense
	w []*mat.Dense
	b []*mat.VecDense

	act  activations.Activation
	cost loss.Quadratic
}

// New creates a network with the given layer widths. Weights are drawn from
// [0, 0.01) and biases from (-0.01, 0] using rng, so a fixed seed reproduces
// the exact same parameters.
func New(sizes []int, rng *rand.Rand) (*Network, error) {
	n, err := allocate(sizes)
	if err != nil {
		return nil, err
	}

	for l := 1; l < len(sizes); l++ {
		weights := n.w[l].RawMatrix().Data
		for i := range weights {
			weights[i] = rng.Float64() / 100
		}
		biases := n.b[l].RawVector().Data
		for i := range biases {
			biases[i] = -rng.Float64() / 100
		}
	}

	return n, nil
}

// NewConstant creates a network whose weights all equal weight and whose
// biases all equal bias. Units of the same layer stay identical under
// training, so this is only meant for debugging and tests.
func NewConstant(sizes []int, weight, bias float64) (*Network, error) {
	n, err := allocate(sizes)
	if err != nil {
		return nil, err
	}

	for l := 1; l < len(sizes); l++ {
		fill(n.w[l].RawMatrix().Data, weight)
		fill(n.b[l].RawVector().Data, bias)
	}

	return n, nil
}

func allocate(sizes []int) (*Network, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidTopology, len(sizes))
	}
	for i, s := range sizes {
		if s <= 0 {
			return nil, fmt.Errorf("%w: layer %d has width %d", ErrInvalidTopology, i, s)
		}
	}

	numLayers := len(sizes)
	n := &Network{
		sizes: append([]int(nil), sizes...),
		a:     make([]*mat.VecDense, numLayers),
		z:     make([]*mat.VecDense, numLayers),
		w:     make([]*mat.Dense, numLayers),
		b:     make([]*mat.VecDense, numLayers),
		act:   activations.Sigmoid{},
	}

	n.a[0] = mat.NewVecDense(sizes[0], nil)
	for l := 1; l < numLayers; l++ {
		n.a[l] = mat.NewVecDense(sizes[l], nil)
		n.z[l] = mat.NewVecDense(sizes[l], nil)
		n.w[l] = mat.NewDense(sizes[l], sizes[l-1], nil)
		n.b[l] = mat.NewVecDense(sizes[l], nil)
	}

	return n, nil
}

func fill(dst []float64, v float64) {
	for i := range dst {
		dst[i] = v
	}
}

// Feed runs a forward pass and returns a read-only view of the output
// activation. The view, and every a/z vector, is overwritten by the next
// call to Feed or LearnBatch.
func (n *Network) Feed(input []float64) (mat.Vector, error) {
	if len(input) != n.sizes[0] {
		return nil, fmt.Errorf("%w: input has %d values, want %d", ErrShapeMismatch, len(input), n.sizes[0])
	}
	n.feed(input)
	return n.a[len(n.a)-1], nil
}

// feed is Feed without the length check.
func (n *Network) feed(input []float64) {
	copy(n.a[0].RawVector().Data, input)

	for l := 1; l < len(n.sizes); l++ {
		z := n.z[l]
		z.MulVec(n.w[l], n.a[l-1])
		z.AddVec(z, n.b[l])
		activations.ActivateVec(n.act, n.a[l], z)
	}
}

// Output returns a copy of the output activation left by the last forward pass.
func (n *Network) Output() []float64 {
	return mat.Col(nil, 0, n.a[len(n.a)-1])
}

// Sizes returns a copy of the layer widths.
func (n *Network) Sizes() []int {
	return append([]int(nil), n.sizes...)
}

// NumLayers returns the number of layers, input layer included.
func (n *Network) NumLayers() int {
	return len(n.sizes)
}

// Weights returns a read-only view of W[l], 1 <= l < NumLayers().
func (n *Network) Weights(l int) mat.Matrix {
	n.checkTransition(l)
	return n.w[l]
}

// Biases returns a read-only view of b[l], 1 <= l < NumLayers().
func (n *Network) Biases(l int) mat.Vector {
	n.checkTransition(l)
	return n.b[l]
}

// Activation returns a read-only view of a[l] from the last forward pass.
func (n *Network) Activation(l int) mat.Vector {
	return n.a[l]
}

// Preactivation returns a read-only view of z[l] from the last forward pass.
func (n *Network) Preactivation(l int) mat.Vector {
	n.checkTransition(l)
	return n.z[l]
}

// SetWeights copies w into W[l].
func (n *Network) SetWeights(l int, w mat.Matrix) error {
	n.checkTransition(l)
	r, c := w.Dims()
	if r != n.sizes[l] || c != n.sizes[l-1] {
		return fmt.Errorf("%w: weights for layer %d are %dx%d, want %dx%d",
			ErrShapeMismatch, l, r, c, n.sizes[l], n.sizes[l-1])
	}
	n.w[l].Copy(w)
	return nil
}

// SetBiases copies b into b[l].
func (n *Network) SetBiases(l int, b []float64) error {
	n.checkTransition(l)
	if len(b) != n.sizes[l] {
		return fmt.Errorf("%w: biases for layer %d have %d values, want %d",
			ErrShapeMismatch, l, len(b), n.sizes[l])
	}
	copy(n.b[l].RawVector().Data, b)
	return nil
}

func (n *Network) checkTransition(l int) {
	if l < 1 || l >= len(n.sizes) {
		panic(fmt.Sprintf("net: layer %d out of range [1, %d)", l, len(n.sizes)))
	}
}

// NumParams returns the number of weights and biases.
func (n *Network) NumParams() int {
	total := 0
	for l := 1; l < len(n.sizes); l++ {
		total += n.sizes[l]*n.sizes[l-1] + n.sizes[l]
	}
	return total
}

// Params returns all network parameters flattened (copy): for each layer,
// W[l] row-major followed by b[l].
func (n *Network) Params() []float64 {
	params := make([]float64, 0, n.NumParams())
	for l := 1; l < len(n.sizes); l++ {
		params = append(params, n.w[l].RawMatrix().Data...)
		params = append(params, n.b[l].RawVector().Data...)
	}
	return params
}

// SetParams updates weights and biases from a slice laid out like Params.
func (n *Network) SetParams(params []float64) error {
	if len(params) != n.NumParams() {
		return fmt.Errorf("%w: got %d params, want %d", ErrShapeMismatch, len(params), n.NumParams())
	}
	offset := 0
	for l := 1; l < len(n.sizes); l++ {
		offset += copy(n.w[l].RawMatrix().Data, params[offset:])
		offset += copy(n.b[l].RawVector().Data, params[offset:])
	}
	return nil
}

// Clone returns a deep copy sharing no state with n.
func (n *Network) Clone() *Network {
	c, _ := allocate(n.sizes)
	for l := range n.sizes {
		c.a[l].CopyVec(n.a[l])
		if l == 0 {
			continue
		}
		c.z[l].CopyVec(n.z[l])
		c.w[l].Copy(n.w[l])
		c.b[l].CopyVec(n.b[l])
	}
	return c
}

// Summary prints a summary of the network architecture.
func (n *Network) Summary(w io.Writer) {
	fmt.Fprintln(w, "Model: Sigmoid MLP")
	fmt.Fprintln(w, "_________________________________________________________________")
	fmt.Fprintf(w, "%-25s %-20s %-10s\n", "Layer (type)", "Output Shape", "Param #")
	fmt.Fprintln(w, "=================================================================")

	fmt.Fprintf(w, "%-25s %-20s %-10d\n", "Input_0", fmt.Sprintf("(%d)", n.sizes[0]), 0)
	for l := 1; l < len(n.sizes); l++ {
		params := n.sizes[l]*n.sizes[l-1] + n.sizes[l]
		fmt.Fprintf(w, "%-25s %-20s %-10d\n", fmt.Sprintf("Dense_%d", l), fmt.Sprintf("(%d)", n.sizes[l]), params)
	}
	fmt.Fprintln(w, "=================================================================")
	fmt.Fprintf(w, "Total params: %d\n", n.NumParams())
	fmt.Fprintln(w, "_________________________________________________________________")
}
