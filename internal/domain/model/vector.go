package model

// FeatureVector is the ordered model input for one matchup. It is an array so
// that assignment copies it.
type FeatureVector [VectorLen]float64

// Block returns the statistics of the team block starting at offset.
func (v FeatureVector) Block(offset int) Stats {
	var s Stats
	copy(s[:], v[offset:offset+FieldCount])
	return s
}

// Population is a set of feature vectors. Row 0 is the unperturbed base.
type Population []FeatureVector

// PopulationSize is the number of rows fed to the predictive function per
// request: the base vector plus Draws perturbed copies.
const (
	Draws          = 99
	PopulationSize = Draws + 1
)

// PredictionPair is the predicted score of each side for one population row.
type PredictionPair struct {
	Home float64
	Away float64
}

// Spread returns Home minus Away.
func (p PredictionPair) Spread() float64 { return p.Home - p.Away }

// Total returns Home plus Away.
func (p PredictionPair) Total() float64 { return p.Home + p.Away }
