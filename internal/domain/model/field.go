// Package model contains domain models passed between layers.
package model

import "fmt"

// Field identifies one statistic of a team-season record. The numeric value of
// a Field is its position inside a team's block of the feature vector.
type Field int

// Team-season statistics in canonical order.
const (
	AdjTempo Field = iota
	AdjOE
	AdjDE
	EFGPctO
	EFGPctD
	TOPctO
	TOPctD
	ORPctO
	ORPctD
	FTRateO
	FTRateD
	OffFT
	Off2PT
	Off3PT
	DefFT
	Def2PT
	Def3PT
	Size
	Hgt1
	Hgt2
	Hgt3
	Hgt4
	Hgt5
	HgtEff
	Exp
	Bench
	Pts1
	Pts2
	Pts3
	Pts4
	Pts5
	OR1
	OR2
	OR3
	OR4
	OR5
	DR1
	DR2
	DR3
	DR4
	DR5
	FG2Pct
	FG3Pct
	FTPct
	BlockPct
	OppFG2Pct
	OppFG3Pct
	OppFTPct
	OppBlockPct
	F3GRate
	OppF3GRate
	ARate
	OppARate
	StlRate
	OppStlRate

	// FieldCount is the number of statistics per team.
	FieldCount = int(iota)
)

// Feature vector layout.
const (
	// VectorLen is the length of a matchup feature vector: two team blocks and
	// the home-court indicator.
	VectorLen = 2*FieldCount + 1
	// HomeBlock and AwayBlock are the offsets of each team's block.
	HomeBlock = 0
	AwayBlock = FieldCount
	// HomeCourtIndex holds 1 when the home team plays on its own court.
	HomeCourtIndex = 2 * FieldCount
)

// fieldNames are the storage column names, indexed by Field.
var fieldNames = [FieldCount]string{
	"AdjTempo", "AdjOE", "AdjDE", "eFG_Pct_O", "eFG_Pct_D",
	"TO_Pct_O", "TO_Pct_D", "OR_Pct_O", "OR_Pct_D", "FT_Rate_O",
	"FT_Rate_D", "OFF_FT", "OFF_2PT", "OFF_3PT", "DEF_FT",
	"DEF_2PT", "DEF_3PT", "Size", "Hgt1", "Hgt2", "Hgt3", "Hgt4",
	"Hgt5", "HgtEff", "Exp", "Bench", "Pts1", "Pts2", "Pts3", "Pts4",
	"Pts5", "OR1", "OR2", "OR3", "OR4", "OR5", "DR1", "DR2", "DR3",
	"DR4", "DR5", "FG2Pct", "FG3Pct", "FTPct", "BlockPct",
	"OppFG2Pct", "OppFG3Pct", "OppFTPct", "OppBlockPct", "F3GRate",
	"OppF3GRate", "ARate", "OppARate", "StlRate", "OppStlRate",
}

// String returns the storage column name of f.
func (f Field) String() string {
	if f < 0 || int(f) >= FieldCount {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Fields returns every field in canonical order.
func Fields() []Field {
	out := make([]Field, FieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// FieldNames returns the storage column names in canonical order.
func FieldNames() []string {
	out := make([]string, FieldCount)
	copy(out, fieldNames[:])
	return out
}

// ParseField resolves a storage column name.
func ParseField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}
