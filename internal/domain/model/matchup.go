package model

import (
	"fmt"
	"strings"
)

// Matchup pairs two team-seasons. The home side is "team A" in the feature
// layout.
type Matchup struct {
	HomeTeam   string
	HomeSeason int
	AwayTeam   string
	AwaySeason int
}

// Validate reports whether both sides are named.
func (m Matchup) Validate() error {
	switch {
	case strings.TrimSpace(m.HomeTeam) == "":
		return fmt.Errorf("%w: missing home team", ErrInvalidMatchup)
	case strings.TrimSpace(m.AwayTeam) == "":
		return fmt.Errorf("%w: missing away team", ErrInvalidMatchup)
	case m.HomeSeason <= 0:
		return fmt.Errorf("%w: invalid home season %d", ErrInvalidMatchup, m.HomeSeason)
	case m.AwaySeason <= 0:
		return fmt.Errorf("%w: invalid away season %d", ErrInvalidMatchup, m.AwaySeason)
	}
	return nil
}

func (m Matchup) String() string {
	return fmt.Sprintf("%d %s vs %d %s", m.HomeSeason, m.HomeTeam, m.AwaySeason, m.AwayTeam)
}

// HomeCourt is the set of teams that play with a home-court edge.
type HomeCourt map[string]struct{}

// NewHomeCourt builds a HomeCourt from team names.
func NewHomeCourt(teams ...string) HomeCourt {
	h := make(HomeCourt, len(teams))
	for _, t := range teams {
		h[t] = struct{}{}
	}
	return h
}

// Indicator returns 1 for designated teams and 0 for everyone else.
func (h HomeCourt) Indicator(team string) float64 {
	if _, ok := h[team]; ok {
		return 1
	}
	return 0
}
