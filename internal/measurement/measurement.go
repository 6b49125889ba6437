// Package measurement parses HADES measurement identifiers of the form
// {source}_{HSx}_{position}_{id}, e.g. "am_HS1_top_dlt".
package measurement

import (
	"errors"
	"fmt"
	"strings"
)

// SourceType identifies a calibration source fixture. The first two tokens
// of a measurement identifier concatenate into it.
type SourceType string

const (
	AmHS1 SourceType = "am_HS1"
	ThHS2 SourceType = "th_HS2"
	BaHS4 SourceType = "ba_HS4"
	CoHS5 SourceType = "co_HS5"
	AmHS6 SourceType = "am_HS6"
)

// Position is where the source fixture sits relative to the cryostat.
type Position string

const (
	Top     Position = "top"
	Lateral Position = "lat"
	Bottom  Position = "bottom"
)

// ErrFormat reports a measurement identifier that does not decompose into
// exactly four underscore-separated tokens.
var ErrFormat = errors.New("measurement: malformed identifier")

// Info is the decomposed form of a measurement identifier.
type Info struct {
	Source   SourceType
	Position Position
	ID       string
}

// String reassembles the original identifier.
func (i Info) String() string {
	return string(i.Source) + "_" + string(i.Position) + "_" + i.ID
}

// Parse decomposes a measurement identifier. The source type is the
// concatenation of the first two tokens; position and id are taken verbatim.
// Unknown source types or positions are not rejected here, they surface
// later when a placement rule is looked up.
func Parse(measurement string) (Info, error) {
	parts := strings.Split(measurement, "_")
	if len(parts) != 4 {
		return Info{}, fmt.Errorf("%w: %q has %d underscore-separated fields, want 4",
			ErrFormat, measurement, len(parts))
	}
	return Info{
		Source:   SourceType(parts[0] + "_" + parts[1]),
		Position: Position(parts[2]),
		ID:       parts[3],
	}, nil
}
