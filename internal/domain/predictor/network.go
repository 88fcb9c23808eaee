package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/okian/matchup/internal/domain/model"
	"gonum.org/v1/gonum/mat"
)

// outputWidth is the number of values the final layer produces: home score
// and away score.
const outputWidth = 2

// Activation is an element-wise layer activation.
type Activation string

// Supported activations.
const (
	Linear  Activation = "linear"
	ReLU    Activation = "relu"
	Tanh    Activation = "tanh"
	Sigmoid Activation = "sigmoid"
)

func (a Activation) apply(x float64) float64 {
	switch a {
	case ReLU:
		return math.Max(0, x)
	case Tanh:
		return math.Tanh(x)
	case Sigmoid:
		return 1 / (1 + math.Exp(-x))
	default:
		return x
	}
}

func parseActivation(s string) (Activation, error) {
	switch a := Activation(strings.ToLower(strings.TrimSpace(s))); a {
	case "", Linear:
		return Linear, nil
	case ReLU, Tanh, Sigmoid:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown activation %q", model.ErrConfiguration, s)
	}
}

// Layer is one dense layer: out = act(in * Weights + Bias).
type Layer struct {
	Weights    *mat.Dense
	Bias       []float64
	Activation Activation
}

// Network is a dense feed-forward network with fixed weights. It is
// read-only after construction.
type Network struct {
	layers []Layer
}

// NewNetwork validates layer shapes: the first layer must accept
// model.VectorLen inputs, consecutive layers must chain, and the last layer
// must emit two values.
func NewNetwork(layers []Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: network has no layers", model.ErrConfiguration)
	}
	in := model.VectorLen
	for i, l := range layers {
		if l.Weights == nil {
			return nil, fmt.Errorf("%w: layer %d has no weights", model.ErrConfiguration, i)
		}
		r, c := l.Weights.Dims()
		if r != in {
			return nil, fmt.Errorf("%w: layer %d expects %d inputs, previous layer gives %d", model.ErrConfiguration, i, r, in)
		}
		if len(l.Bias) != c {
			return nil, fmt.Errorf("%w: layer %d bias has %d entries, want %d", model.ErrConfiguration, i, len(l.Bias), c)
		}
		in = c
	}
	if in != outputWidth {
		return nil, fmt.Errorf("%w: network emits %d values, want %d", model.ErrConfiguration, in, outputWidth)
	}
	return &Network{layers: layers}, nil
}

// Predict runs the whole batch through the network in one pass.
func (n *Network) Predict(ctx context.Context, batch mat.Matrix) ([]model.PredictionPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrPrediction, err)
	}
	rows, cols := batch.Dims()
	if cols != model.VectorLen {
		return nil, fmt.Errorf("%w: batch has %d columns, want %d", model.ErrPrediction, cols, model.VectorLen)
	}

	cur := batch
	for _, l := range n.layers {
		_, width := l.Weights.Dims()
		next := mat.NewDense(rows, width, nil)
		next.Mul(cur, l.Weights)
		act, bias := l.Activation, l.Bias
		next.Apply(func(_, j int, v float64) float64 {
			return act.apply(v + bias[j])
		}, next)
		cur = next
	}

	out := make([]model.PredictionPair, rows)
	for i := range out {
		out[i] = model.PredictionPair{Home: cur.At(i, 0), Away: cur.At(i, 1)}
	}
	if err := Check(batch, out); err != nil {
		return nil, err
	}
	return out, nil
}

// layerFile is the JSON shape of one exported layer. Weights are stored
// input-major, one row per input unit.
type layerFile struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

type networkFile struct {
	Layers []layerFile `json:"layers"`
}

// Decode reads a network exported as JSON.
func Decode(r io.Reader) (*Network, error) {
	var nf networkFile
	if err := json.NewDecoder(r).Decode(&nf); err != nil {
		return nil, fmt.Errorf("%w: decode network: %w", model.ErrConfiguration, err)
	}
	layers := make([]Layer, 0, len(nf.Layers))
	for i, lf := range nf.Layers {
		w, err := denseFromRows(lf.Weights)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		act, err := parseActivation(lf.Activation)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers = append(layers, Layer{Weights: w, Bias: lf.Bias, Activation: act})
	}
	return NewNetwork(layers)
}

// Load reads a network from a JSON file.
func Load(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open network: %w", model.ErrConfiguration, err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty weight matrix", model.ErrConfiguration)
	}
	width := len(rows[0])
	data := make([]float64, 0, len(rows)*width)
	for i, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("%w: weight row %d has %d entries, want %d", model.ErrConfiguration, i, len(r), width)
		}
		data = append(data, r...)
	}
	return mat.NewDense(len(rows), width, data), nil
}
