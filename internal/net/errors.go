package net

import "errors"

var (
	// ErrInvalidTopology is returned for fewer than two layers or a layer of width <= 0.
	ErrInvalidTopology = errors.New("net: invalid topology")

	// ErrShapeMismatch is returned when a vector length disagrees with a layer width.
	ErrShapeMismatch = errors.New("net: shape mismatch")

	// ErrEmptyBatch is returned when a training batch has no samples.
	ErrEmptyBatch = errors.New("net: empty batch")

	// ErrInvalidLearningRate is returned for a learning rate that is not > 0.
	ErrInvalidLearningRate = errors.New("net: learning rate must be positive")
)
