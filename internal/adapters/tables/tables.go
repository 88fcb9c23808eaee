// Package tables loads the static constant tables the simulation reads:
// home-court teams, noise-scale profiles and normalization vectors.
package tables

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/internal/domain/normalize"
)

// keyDelim separates nested keys. Team names may contain dots
// ("St. John's") and category names contain slashes ("OFT/FGA").
const keyDelim = "|"

// Tables bundles the read-only constants. Build once at start-up and share.
type Tables struct {
	HomeCourt  model.HomeCourt
	Noise      *model.NoiseTable
	Normalizer *normalize.Normalizer
}

type noiseFile struct {
	All     map[string]float64                       `koanf:"all"`
	Seasons map[string]map[string]map[string]float64 `koanf:"seasons"`
}

type normalizationFile struct {
	Mean []float64 `koanf:"mean"`
	Std  []float64 `koanf:"std"`
}

type tablesFile struct {
	HomeCourt     []string          `koanf:"home_court"`
	Noise         noiseFile         `koanf:"noise"`
	Normalization normalizationFile `koanf:"normalization"`
}

// Load reads and validates the YAML tables at path.
func Load(path string) (*Tables, error) {
	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: load tables %s: %w", model.ErrConfiguration, path, err)
	}

	var tf tablesFile
	if err := k.UnmarshalWithConf("", &tf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode tables %s: %w", model.ErrConfiguration, path, err)
	}
	return build(tf)
}

func build(tf tablesFile) (*Tables, error) {
	if tf.Noise.All == nil {
		return nil, fmt.Errorf("%w: noise table has no %q profile", model.ErrConfiguration, model.DefaultNoiseKey)
	}
	fallback, err := model.NewNoiseProfile(tf.Noise.All)
	if err != nil {
		return nil, fmt.Errorf("noise %s: %w", model.DefaultNoiseKey, err)
	}
	noise := model.NewNoiseTable(fallback)
	for key, teams := range tf.Noise.Seasons {
		season, err := model.ParseSeason(key)
		if err != nil {
			return nil, err
		}
		for team, scales := range teams {
			p, err := model.NewNoiseProfile(scales)
			if err != nil {
				return nil, fmt.Errorf("noise %d %s: %w", season, team, err)
			}
			noise.Set(season, team, p)
		}
	}

	norm, err := normalize.New(tf.Normalization.Mean, tf.Normalization.Std)
	if err != nil {
		return nil, fmt.Errorf("normalization: %w", err)
	}

	return &Tables{
		HomeCourt:  model.NewHomeCourt(tf.HomeCourt...),
		Noise:      noise,
		Normalizer: norm,
	}, nil
}
