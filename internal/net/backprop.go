package net

import (
	"fmt"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
	"gonum.org/v1/gonum/mat"
)

// Sample is one labelled training example.
type Sample struct {
	Input  []float64
	Target []float64
}

// Gradients holds the partial derivatives of the cost summed over Count
// samples, laid out like the network's weights and biases.
type Gradients struct {
	w []*mat.Dense
	b []*mat.VecDense

	// Count is the number of samples summed into the gradients.
	Count int
}

func newGradients(sizes []int) *Gradients {
	g := &Gradients{
		w: make([]*mat.Dense, len(sizes)),
		b: make([]*mat.VecDense, len(sizes)),
	}
	for l := 1; l < len(sizes); l++ {
		g.w[l] = mat.NewDense(sizes[l], sizes[l-1], nil)
		g.b[l] = mat.NewVecDense(sizes[l], nil)
	}
	return g
}

// W returns the accumulated weight gradient of layer l.
func (g *Gradients) W(l int) mat.Matrix {
	return g.w[l]
}

// B returns the accumulated bias gradient of layer l.
func (g *Gradients) B(l int) mat.Vector {
	return g.b[l]
}

// Flat returns the gradients flattened in the same order as Network.Params.
func (g *Gradients) Flat() []float64 {
	var flat []float64
	for l := 1; l < len(g.w); l++ {
		flat = append(flat, g.w[l].RawMatrix().Data...)
		flat = append(flat, g.b[l].RawVector().Data...)
	}
	return flat
}

// LearnBatch performs one gradient-descent step averaged over batch:
// W[l] -= (learningRate/len(batch))·gradW[l], and likewise for b[l].
//
// Every sample is validated before anything is modified; on error the
// weights and biases are left untouched.
func (n *Network) LearnBatch(batch []Sample, learningRate float64) error {
	if err := checkLearningRate(learningRate); err != nil {
		return err
	}
	g, err := n.Backprop(batch)
	if err != nil {
		return err
	}
	return n.Apply(g, learningRate)
}

// Backprop accumulates the cost gradient over batch without updating the
// network. It overwrites the a/z state with one forward pass per sample.
func (n *Network) Backprop(batch []Sample) (*Gradients, error) {
	if err := n.checkBatch(batch); err != nil {
		return nil, err
	}

	last := len(n.sizes) - 1
	g := newGradients(n.sizes)

	// delta[l] is the error term of layer l for the current sample
	delta := make([]*mat.VecDense, len(n.sizes))
	for l := 1; l <= last; l++ {
		delta[l] = mat.NewVecDense(n.sizes[l], nil)
	}

	// The forward pass for sample i+1 overwrites a and z, so each sample's
	// gradient is extracted before moving on.
	for _, s := range batch {
		n.feed(s.Input)

		// Output error: costPrime(y, a[L-1]) ⊙ σ'(z[L-1])
		n.cost.BackwardInPlace(n.a[last].RawVector().Data, s.Target, delta[last].RawVector().Data)
		activations.MulDerivativeVec(n.act, delta[last], n.z[last])

		for l := last; l >= 1; l-- {
			if l < last {
				// δ[l] = (W[l+1]ᵀ·δ[l+1]) ⊙ σ'(z[l])
				delta[l].MulVec(n.w[l+1].T(), delta[l+1])
				activations.MulDerivativeVec(n.act, delta[l], n.z[l])
			}
			g.b[l].AddVec(g.b[l], delta[l])
			g.w[l].RankOne(g.w[l], 1, delta[l], n.a[l-1])
		}
	}
	g.Count = len(batch)

	return g, nil
}

// Apply subtracts (learningRate/g.Count)·g from the weights and biases.
func (n *Network) Apply(g *Gradients, learningRate float64) error {
	if err := checkLearningRate(learningRate); err != nil {
		return err
	}
	if g == nil || g.Count <= 0 {
		return ErrEmptyBatch
	}
	if err := n.checkGradients(g); err != nil {
		return err
	}

	sgd := opt.ForBatch(learningRate, g.Count)
	for l := 1; l < len(n.sizes); l++ {
		sgd.StepInPlace(n.w[l].RawMatrix().Data, g.w[l].RawMatrix().Data)
		sgd.StepInPlace(n.b[l].RawVector().Data, g.b[l].RawVector().Data)
	}
	return nil
}

func checkLearningRate(learningRate float64) error {
	// written this way so NaN is rejected too
	if !(learningRate > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidLearningRate, learningRate)
	}
	return nil
}

func (n *Network) checkBatch(batch []Sample) error {
	if len(batch) == 0 {
		return ErrEmptyBatch
	}

	in, out := n.sizes[0], n.sizes[len(n.sizes)-1]
	for i, s := range batch {
		if len(s.Input) != in {
			return fmt.Errorf("%w: sample %d input has %d values, want %d", ErrShapeMismatch, i, len(s.Input), in)
		}
		if len(s.Target) != out {
			return fmt.Errorf("%w: sample %d target has %d values, want %d", ErrShapeMismatch, i, len(s.Target), out)
		}
	}
	return nil
}

func (n *Network) checkGradients(g *Gradients) error {
	if len(g.w) != len(n.sizes) || len(g.b) != len(n.sizes) {
		return fmt.Errorf("%w: gradients cover %d layers, want %d", ErrShapeMismatch, len(g.w), len(n.sizes))
	}
	for l := 1; l < len(n.sizes); l++ {
		r, c := g.w[l].Dims()
		if r != n.sizes[l] || c != n.sizes[l-1] || g.b[l].Len() != n.sizes[l] {
			return fmt.Errorf("%w: gradients for layer %d do not match", ErrShapeMismatch, l)
		}
	}
	return nil
}
