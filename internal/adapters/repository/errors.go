package repository

import (
	"fmt"

	"github.com/okian/matchup/internal/domain/model"
)

// ErrUnsupportedDriver is returned by Open for unknown database drivers.
var ErrUnsupportedDriver = fmt.Errorf("%w: unsupported store driver", model.ErrConfiguration)

func notFound(team string, season int) error {
	return fmt.Errorf("%s %d: %w", team, season, model.ErrRecordNotFound)
}
