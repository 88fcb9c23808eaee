// Package perturb expands a base feature vector into a population of
// randomly perturbed variants.
package perturb

import (
	"math/rand"

	"github.com/okian/matchup/internal/domain/model"
)

// Noise bounds: a uniform draw u in [0, 1) maps to ((u*2)-1)/20.
const (
	noiseSpan    = 2.0
	noiseDivisor = 20.0
)

// CategoryIndex maps every perturbation category to the field it perturbs
// inside each team block. The same positions apply to both blocks.
var CategoryIndex = [model.CategoryCount]model.Field{
	model.Pace:         model.AdjTempo,
	model.ORtg:         model.AdjOE,
	model.DRtg:         model.AdjDE,
	model.OffEFG:       model.EFGPctO,
	model.DefEFG:       model.EFGPctD,
	model.OffTOV:       model.TOPctO,
	model.DefTOV:       model.TOPctD,
	model.OffORB:       model.ORPctO,
	model.DefDRB:       model.ORPctD,
	model.OffFTRate:    model.FTRateO,
	model.DefFTRate:    model.FTRateD,
	model.FGPct:        model.FG2Pct,
	model.ThreePct:     model.FG3Pct,
	model.FreeThrowPct: model.FTPct,
	model.BlockRate:    model.BlockPct,
	model.ThreeRate:    model.F3GRate,
	model.AssistRate:   model.ARate,
	model.StealRate:    model.StlRate,
}

// Perturbed reports whether f is touched by any category.
func Perturbed(f model.Field) bool {
	for _, idx := range CategoryIndex {
		if idx == f {
			return true
		}
	}
	return false
}

// Noise returns a bounded symmetric sample in [-0.05, 0.05).
func Noise(rng *rand.Rand) float64 {
	return ((rng.Float64() * noiseSpan) - 1) / noiseDivisor
}

// Sampler draws perturbed feature vectors. A Sampler is safe for concurrent
// use as long as each caller passes its own *rand.Rand.
type Sampler struct {
	profiles *model.NoiseTable
}

// NewSampler creates a Sampler over a read-only noise table.
func NewSampler(profiles *model.NoiseTable) *Sampler {
	return &Sampler{profiles: profiles}
}

// Draw returns one perturbed copy of base. Home noise is drawn before away
// noise, category by category.
func (s *Sampler) Draw(rng *rand.Rand, m model.Matchup, base model.FeatureVector) model.FeatureVector {
	home, _ := s.profiles.Lookup(m.HomeSeason, m.HomeTeam)
	away, _ := s.profiles.Lookup(m.AwaySeason, m.AwayTeam)

	out := base
	perturbBlock(rng, &out, model.HomeBlock, home)
	perturbBlock(rng, &out, model.AwayBlock, away)
	return out
}

func perturbBlock(rng *rand.Rand, v *model.FeatureVector, offset int, p model.NoiseProfile) {
	for c, field := range CategoryIndex {
		v[offset+int(field)] += Noise(rng) * p[c]
	}
}

// Population returns base followed by draws independent perturbations of it.
func (s *Sampler) Population(rng *rand.Rand, m model.Matchup, base model.FeatureVector, draws int) model.Population {
	pop := make(model.Population, 0, draws+1)
	pop = append(pop, base)
	for i := 0; i < draws; i++ {
		pop = append(pop, s.Draw(rng, m, base))
	}
	return pop
}
