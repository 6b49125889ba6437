package geometry

import (
	"errors"
	"fmt"

	"github.com/legend-exp/hadesgeom/internal/geant4"
	"github.com/legend-exp/hadesgeom/internal/measurement"
)

// UnsupportedSourceError reports a source-type/position combination that has
// no placement rule.
type UnsupportedSourceError struct {
	Source   measurement.SourceType
	Position measurement.Position
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("geometry: source %s at position %q is not implemented", e.Source, e.Position)
}

func (e *UnsupportedSourceError) Unwrap() error { return errors.ErrUnsupported }

// UnsupportedSolidError reports a profile request on a solid shape that has
// no 2-D silhouette.
type UnsupportedSolidError struct {
	Solid geant4.Solid
}

func (e *UnsupportedSolidError) Error() string {
	return fmt.Sprintf("geometry: no profile for solid %q of type %T", e.Solid.SolidName(), e.Solid)
}

func (e *UnsupportedSolidError) Unwrap() error { return errors.ErrUnsupported }
