package models

import "time"

type Label string

const (
	LabelBuy  Label = "BUY"
	LabelWait Label = "WAIT"
	LabelSell Label = "SELL"
	LabelHold Label = "HOLD"
)

// IndicatorWire renders a label the way indicator clients expect it.
func (l Label) IndicatorWire() string {
	switch l {
	case LabelBuy:
		return "COMPRAR"
	case LabelWait:
		return "AGUARDAR"
	default:
		return string(l)
	}
}

// FeatureVector holds named model inputs in model order.
type FeatureVector struct {
	Names  []string
	Values []float64
}

// Get returns the value for name, or false when the vector does not carry it.
func (f FeatureVector) Get(name string) (float64, bool) {
	for i, n := range f.Names {
		if n == name {
			return f.Values[i], true
		}
	}
	return 0, false
}

// Tensor is a dense row-major model input.
type Tensor struct {
	Shape []int
	Data  []float64
}

// NewTensor wraps data with shape; the product of shape must equal len(data).
func NewTensor(data []float64, shape ...int) Tensor {
	return Tensor{Shape: shape, Data: data}
}

// Size returns the number of elements the shape describes.
func (t Tensor) Size() int {
	if len(t.Shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Nested renders the tensor as nested slices, e.g. [[[0.1],[0.2]]] for (1,2,1).
func (t Tensor) Nested() interface{} {
	if len(t.Shape) == 0 {
		return t.Data
	}
	v, _ := nest(t.Data, t.Shape)
	return v
}

func nest(data []float64, shape []int) (interface{}, []float64) {
	if len(shape) == 1 {
		row := make([]float64, shape[0])
		copy(row, data[:shape[0]])
		return row, data[shape[0]:]
	}
	out := make([]interface{}, shape[0])
	for i := range out {
		out[i], data = nest(data, shape[1:])
	}
	return out, data
}

type PredictionResult struct {
	Probability float64
	Label       Label
	// Confidence is Probability rounded to four places.
	Confidence float64
	Timestamp  time.Time
}
