package model

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"SignalAPI/internal/domain/models"
)

// Activation names accepted in exported layers.
const (
	ActivationLinear  = "linear"
	ActivationReLU    = "relu"
	ActivationSigmoid = "sigmoid"
	ActivationTanh    = "tanh"
	ActivationSoftmax = "softmax"
)

// Layer is one dense layer. Weights is indexed [input][unit].
type Layer struct {
	Units      int         `json:"units"`
	Activation string      `json:"activation"`
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
}

// Network is a feed-forward network exported from a trained model.
// Forward passes only read the weights, so one Network serves concurrent requests.
type Network struct {
	ModelName string  `json:"name"`
	Inputs    int     `json:"input_size"`
	Layers    []Layer `json:"layers"`
}

// LoadNetwork reads and validates a network file.
func LoadNetwork(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	n, err := DecodeNetwork(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return n, nil
}

func DecodeNetwork(r io.Reader) (*Network, error) {
	var n Network
	if err := json.NewDecoder(r).Decode(&n); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	if n.ModelName == "" {
		n.ModelName = "network"
	}
	return &n, nil
}

func (n *Network) validate() error {
	if n.Inputs <= 0 {
		return fmt.Errorf("input_size must be positive, got %d", n.Inputs)
	}
	if len(n.Layers) == 0 {
		return fmt.Errorf("model has no layers")
	}
	in := n.Inputs
	for i, l := range n.Layers {
		switch l.Activation {
		case "", ActivationLinear, ActivationReLU, ActivationSigmoid, ActivationTanh, ActivationSoftmax:
		default:
			return fmt.Errorf("layer %d: unknown activation %q", i, l.Activation)
		}
		if l.Units <= 0 {
			return fmt.Errorf("layer %d: units must be positive", i)
		}
		if len(l.Weights) != in {
			return fmt.Errorf("layer %d: expected %d weight rows, got %d", i, in, len(l.Weights))
		}
		for j, row := range l.Weights {
			if len(row) != l.Units {
				return fmt.Errorf("layer %d: weight row %d has %d columns, want %d", i, j, len(row), l.Units)
			}
		}
		if len(l.Bias) != l.Units {
			return fmt.Errorf("layer %d: expected %d biases, got %d", i, l.Units, len(l.Bias))
		}
		in = l.Units
	}
	return nil
}

func (n *Network) Name() string {
	return n.ModelName
}

func (n *Network) InputSize() int {
	return n.Inputs
}

// Predict runs a forward pass over the flattened tensor and returns the
// first unit of the output layer.
func (n *Network) Predict(ctx context.Context, in models.Tensor) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(in.Data) != n.Inputs {
		return 0, fmt.Errorf("input has %d values, model expects %d", len(in.Data), n.Inputs)
	}

	x := in.Data
	for _, l := range n.Layers {
		x = l.forward(x)
	}
	return x[0], nil
}

func (l *Layer) forward(x []float64) []float64 {
	out := make([]float64, l.Units)
	copy(out, l.Bias)
	for i, xi := range x {
		if xi == 0 {
			continue
		}
		row := l.Weights[i]
		for j := range out {
			out[j] += xi * row[j]
		}
	}
	activate(l.Activation, out)
	return out
}

func activate(name string, v []float64) {
	switch name {
	case ActivationReLU:
		for i, x := range v {
			if x < 0 {
				v[i] = 0
			}
		}
	case ActivationSigmoid:
		for i, x := range v {
			v[i] = 1 / (1 + math.Exp(-x))
		}
	case ActivationTanh:
		for i, x := range v {
			v[i] = math.Tanh(x)
		}
	case ActivationSoftmax:
		peak := math.Inf(-1)
		for _, x := range v {
			peak = math.Max(peak, x)
		}
		sum := 0.0
		for i, x := range v {
			v[i] = math.Exp(x - peak)
			sum += v[i]
		}
		for i := range v {
			v[i] /= sum
		}
	}
}
