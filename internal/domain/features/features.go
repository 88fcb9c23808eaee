// Package features assembles the model input vector for a matchup.
package features

import (
	"context"
	"fmt"

	"github.com/okian/matchup/internal/domain/model"
)

// Lookup fetches a team-season record. Implementations return an error
// wrapping model.ErrRecordNotFound when no record exists.
type Lookup interface {
	FindTeamSeason(ctx context.Context, team string, season int) (model.TeamSeasonRecord, error)
}

// Assembler builds feature vectors from stored team-season records.
type Assembler struct {
	lookup    Lookup
	homeCourt model.HomeCourt
}

// NewAssembler creates an Assembler over the given collaborators.
func NewAssembler(lookup Lookup, homeCourt model.HomeCourt) *Assembler {
	return &Assembler{lookup: lookup, homeCourt: homeCourt}
}

// Assemble returns the home block, the away block and the home-court
// indicator in canonical order. Both records must exist.
func (a *Assembler) Assemble(ctx context.Context, m model.Matchup) (model.FeatureVector, error) {
	var v model.FeatureVector

	home, err := a.lookup.FindTeamSeason(ctx, m.HomeTeam, m.HomeSeason)
	if err != nil {
		return v, fmt.Errorf("assemble home side: %w", err)
	}
	away, err := a.lookup.FindTeamSeason(ctx, m.AwayTeam, m.AwaySeason)
	if err != nil {
		return v, fmt.Errorf("assemble away side: %w", err)
	}

	copy(v[model.HomeBlock:model.HomeBlock+model.FieldCount], home.Stats[:])
	copy(v[model.AwayBlock:model.AwayBlock+model.FieldCount], away.Stats[:])
	v[model.HomeCourtIndex] = a.homeCourt.Indicator(m.HomeTeam)
	return v, nil
}
