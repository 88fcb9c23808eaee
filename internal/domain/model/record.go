package model

import "fmt"

// Stats holds one team-season's statistics indexed by Field.
type Stats [FieldCount]float64

// Get returns the value of f.
func (s Stats) Get(f Field) float64 { return s[f] }

// TeamSeasonRecord is the fixed-schema record returned by the lookup store.
type TeamSeasonRecord struct {
	Team   string
	Season int
	Stats  Stats
}

// NewTeamSeasonRecord builds a record from column values keyed by storage
// name. Every field must be present; extra keys are ignored.
func NewTeamSeasonRecord(team string, season int, values map[string]float64) (TeamSeasonRecord, error) {
	rec := TeamSeasonRecord{Team: team, Season: season}
	for i, name := range fieldNames {
		v, ok := values[name]
		if !ok {
			return TeamSeasonRecord{}, fmt.Errorf("%w: %s %d missing field %s", ErrMalformedRecord, team, season, name)
		}
		rec.Stats[i] = v
	}
	return rec, nil
}
