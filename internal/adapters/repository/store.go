// Package repository provides team-season record lookups.
package repository

import (
	"context"

	"github.com/okian/matchup/internal/domain/model"
)

// Store resolves team-season records.
type Store interface {
	// FindTeamSeason returns the record for (team, season). It returns an
	// error wrapping model.ErrRecordNotFound when none exists and
	// model.ErrMalformedRecord when the stored row is incomplete.
	FindTeamSeason(ctx context.Context, team string, season int) (model.TeamSeasonRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}

type key struct {
	team   string
	season int
}
