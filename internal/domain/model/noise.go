package model

import (
	"fmt"
	"strconv"
)

// NoiseCategory names one perturbable statistic group.
type NoiseCategory int

// Perturbation categories.
const (
	Pace NoiseCategory = iota
	ORtg
	DRtg
	OffEFG
	DefEFG
	OffTOV
	DefTOV
	OffORB
	DefDRB
	OffFTRate
	DefFTRate
	FGPct
	ThreePct
	FreeThrowPct
	BlockRate
	ThreeRate
	AssistRate
	StealRate

	// CategoryCount is the number of perturbation categories.
	CategoryCount = int(iota)
)

// DefaultNoiseKey names the fallback profile in the noise table.
const DefaultNoiseKey = "all"

var categoryNames = [CategoryCount]string{
	"Pace", "ORtg", "DRtg", "OeFG%", "DeFG%", "OTOV%", "DTOV%", "OORB%", "DDRB%",
	"OFT/FGA", "DFT/FGA", "hFG%", "h3P%", "hFT%", "BLK%", "h3PA", "AST%", "STL%",
}

func (c NoiseCategory) String() string {
	if c < 0 || int(c) >= CategoryCount {
		return fmt.Sprintf("NoiseCategory(%d)", int(c))
	}
	return categoryNames[c]
}

// Categories returns every category in declaration order.
func Categories() []NoiseCategory {
	out := make([]NoiseCategory, CategoryCount)
	for i := range out {
		out[i] = NoiseCategory(i)
	}
	return out
}

// NoiseProfile holds a noise scale per category.
type NoiseProfile [CategoryCount]float64

// Scale returns the noise scale for c.
func (p NoiseProfile) Scale(c NoiseCategory) float64 { return p[c] }

// NewNoiseProfile builds a profile from scales keyed by category name. Every
// category must be present.
func NewNoiseProfile(scales map[string]float64) (NoiseProfile, error) {
	var p NoiseProfile
	for i, name := range categoryNames {
		v, ok := scales[name]
		if !ok {
			return NoiseProfile{}, fmt.Errorf("%w: noise profile missing category %q", ErrConfiguration, name)
		}
		if v < 0 {
			return NoiseProfile{}, fmt.Errorf("%w: negative noise scale for %q", ErrConfiguration, name)
		}
		p[i] = v
	}
	return p, nil
}

// NoiseTable resolves per-team-season noise profiles with a global fallback.
// It is read-only after construction.
type NoiseTable struct {
	fallback NoiseProfile
	seasons  map[int]map[string]NoiseProfile
}

// NewNoiseTable creates a table around the fallback profile.
func NewNoiseTable(fallback NoiseProfile) *NoiseTable {
	return &NoiseTable{fallback: fallback, seasons: make(map[int]map[string]NoiseProfile)}
}

// Set registers the profile for team in season. Intended for construction
// time only.
func (t *NoiseTable) Set(season int, team string, p NoiseProfile) {
	teams, ok := t.seasons[season]
	if !ok {
		teams = make(map[string]NoiseProfile)
		t.seasons[season] = teams
	}
	teams[team] = p
}

// Lookup returns the profile for (season, team), or the fallback when either
// the season or the team is unknown. The second result reports whether a
// specific entry was found.
func (t *NoiseTable) Lookup(season int, team string) (NoiseProfile, bool) {
	if teams, ok := t.seasons[season]; ok {
		if p, ok := teams[team]; ok {
			return p, true
		}
	}
	return t.fallback, false
}

// Fallback returns the global default profile.
func (t *NoiseTable) Fallback() NoiseProfile { return t.fallback }

// Len returns the number of specific team-season entries.
func (t *NoiseTable) Len() int {
	n := 0
	for _, teams := range t.seasons {
		n += len(teams)
	}
	return n
}

// ParseSeason parses a season key such as "2019".
func ParseSeason(key string) (int, error) {
	season, err := strconv.Atoi(key)
	if err != nil || season <= 0 {
		return 0, fmt.Errorf("%w: invalid season key %q", ErrConfiguration, key)
	}
	return season, nil
}
