package tables_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/matchup/internal/adapters/tables"
	"github.com/okian/matchup/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func profileYAML(scale float64, skip string) string {
	parts := make([]string, 0, model.CategoryCount)
	for _, c := range model.Categories() {
		if c.String() == skip {
			continue
		}
		parts = append(parts, fmt.Sprintf("%q: %g", c.String(), scale))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func seq(n int, v float64) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func writeTables(t *testing.T, allProfile, kansasProfile string, std string) string {
	doc := fmt.Sprintf(`
home_court:
  - Kansas
  - "St. John's"
noise:
  all: %s
  seasons:
    "2019":
      Kansas: %s
normalization:
  mean: %s
  std: %s
`, allProfile, kansasProfile, seq(model.VectorLen, 10), std)
	path := filepath.Join(t.TempDir(), "tables.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given a complete tables file", t, func() {
		path := writeTables(t, profileYAML(1.5, ""), profileYAML(4, ""), seq(model.VectorLen, 2))

		tbl, err := tables.Load(path)

		Convey("Then every table is populated", func() {
			So(err, ShouldBeNil)
			So(tbl.HomeCourt.Indicator("Kansas"), ShouldEqual, 1)
			So(tbl.HomeCourt.Indicator("St. John's"), ShouldEqual, 1)
			So(tbl.HomeCourt.Indicator("Duke"), ShouldEqual, 0)
			So(tbl.Normalizer, ShouldNotBeNil)
		})

		Convey("Then noise profiles resolve with fallback", func() {
			p, ok := tbl.Noise.Lookup(2019, "Kansas")
			So(ok, ShouldBeTrue)
			So(p.Scale(model.Pace), ShouldEqual, 4)

			p, ok = tbl.Noise.Lookup(2019, "Duke")
			So(ok, ShouldBeFalse)
			So(p.Scale(model.StealRate), ShouldEqual, 1.5)
			So(p.Scale(model.OffFTRate), ShouldEqual, 1.5)
		})
	})

	Convey("Given a tables file with a zero std entry", t, func() {
		std := strings.Replace(seq(model.VectorLen, 2), "2, ", "0, ", 1)
		path := writeTables(t, profileYAML(1, ""), profileYAML(1, ""), std)

		_, err := tables.Load(path)

		Convey("Then loading fails with a configuration error", func() {
			So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "std[0]")
		})
	})

	Convey("Given a normalization vector of the wrong length", t, func() {
		path := writeTables(t, profileYAML(1, ""), profileYAML(1, ""), seq(model.VectorLen-1, 2))

		_, err := tables.Load(path)
		So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
	})

	Convey("Given a profile missing a category", t, func() {
		path := writeTables(t, profileYAML(1, ""), profileYAML(1, "h3PA"), seq(model.VectorLen, 2))

		_, err := tables.Load(path)

		Convey("Then the offending entry is named", func() {
			So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Kansas")
			So(err.Error(), ShouldContainSubstring, "h3PA")
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := tables.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
	})
}
