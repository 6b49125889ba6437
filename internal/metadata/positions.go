package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PositionDB serves the calibration source position records, organized as
// {detector}/{campaign}/{measurement}.yaml files holding run-keyed records.
type PositionDB struct {
	fsys fs.FS
}

// NewPositionDB wraps an arbitrary filesystem of position records.
func NewPositionDB(fsys fs.FS) *PositionDB { return &PositionDB{fsys: fsys} }

// OpenPositionDB opens a position database rooted at a directory.
func OpenPositionDB(root string) *PositionDB { return NewPositionDB(os.DirFS(root)) }

// DefaultPositionDB returns the database packaged with the binary. It holds
// the records of the public characterization campaigns.
func DefaultPositionDB() *PositionDB {
	sub, err := fs.Sub(packagedData, "data/positions")
	if err != nil {
		// The embedded tree always carries data/positions.
		panic(err)
	}
	return NewPositionDB(sub)
}

// Measurement loads all source position records of one measurement.
func (db *PositionDB) Measurement(detector, campaign, measurement string) (*MeasurementPositions, error) {
	path := detector + "/" + campaign + "/" + measurement + ".yaml"
	raw, err := fs.ReadFile(db.fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: measurement %s/%s/%s has no source position records",
			ErrNotFound, detector, campaign, measurement)
	}
	if err != nil {
		return nil, fmt.Errorf("metadata: read source positions %s: %w", path, err)
	}

	var records map[string]struct {
		SourcePosition SourcePosition `yaml:"source_position"`
	}
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("metadata: decode source positions %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: measurement %s/%s/%s has no source position records",
			ErrNotFound, detector, campaign, measurement)
	}

	m := &MeasurementPositions{
		Detector:    detector,
		Campaign:    campaign,
		Measurement: measurement,
		runs:        make(map[string]SourcePosition, len(records)),
	}
	for run, rec := range records {
		m.runs[run] = rec.SourcePosition
		m.order = append(m.order, run)
	}
	sort.Strings(m.order)
	return m, nil
}

// MeasurementPositions are the source position records of one measurement,
// keyed by run identifier ("runNNNN").
type MeasurementPositions struct {
	Detector    string
	Campaign    string
	Measurement string

	runs  map[string]SourcePosition
	order []string
}

// RunPosition pairs a run identifier with its source position.
type RunPosition struct {
	Run      string
	Position SourcePosition
}

// Runs lists the run identifiers in lexical order.
func (m *MeasurementPositions) Runs() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Records lists all records in run order.
func (m *MeasurementPositions) Records() []RunPosition {
	out := make([]RunPosition, 0, len(m.order))
	for _, run := range m.order {
		out = append(out, RunPosition{Run: run, Position: m.runs[run]})
	}
	return out
}

// ByRun resolves a numeric run number, zero-padded to the four digit run
// identifier convention.
func (m *MeasurementPositions) ByRun(run int) (SourcePosition, string, error) {
	key := fmt.Sprintf("run%04d", run)
	pos, ok := m.runs[key]
	if !ok {
		return SourcePosition{}, "", &RunLookupError{
			Detector:    m.Detector,
			Campaign:    m.Campaign,
			Measurement: m.Measurement,
			Run:         key,
			Available:   m.Records(),
		}
	}
	return pos, key, nil
}

// ByPosition resolves an explicit cylindrical position to the run it was
// recorded in. Matching is exact, tier by tier: phi first, then r, then z,
// and the first matching record wins. A mismatch reports the values
// available at the failing tier.
func (m *MeasurementPositions) ByPosition(want SourcePosition) (SourcePosition, string, error) {
	fail := func(tier string, available []float64) error {
		return &PositionLookupError{
			Detector:    m.Detector,
			Campaign:    m.Campaign,
			Measurement: m.Measurement,
			Wanted:      want,
			Tier:        tier,
			Available:   available,
			Records:     m.Records(),
		}
	}

	var phiMatched []RunPosition
	var phis []float64
	for _, rec := range m.Records() {
		if rec.Position.PhiInDeg == want.PhiInDeg {
			phiMatched = append(phiMatched, rec)
		}
		phis = appendUnique(phis, rec.Position.PhiInDeg)
	}
	if len(phiMatched) == 0 {
		return SourcePosition{}, "", fail("phi", phis)
	}

	var rMatched []RunPosition
	var rs []float64
	for _, rec := range phiMatched {
		if rec.Position.RInMM == want.RInMM {
			rMatched = append(rMatched, rec)
		}
		rs = appendUnique(rs, rec.Position.RInMM)
	}
	if len(rMatched) == 0 {
		return SourcePosition{}, "", fail("r", rs)
	}

	var zs []float64
	for _, rec := range rMatched {
		if rec.Position.ZInMM == want.ZInMM {
			return rec.Position, rec.Run, nil
		}
		zs = appendUnique(zs, rec.Position.ZInMM)
	}
	return SourcePosition{}, "", fail("z", zs)
}

func appendUnique(vals []float64, v float64) []float64 {
	for _, x := range vals {
		if x == v {
			return vals
		}
	}
	return append(vals, v)
}

// RunLookupError reports a run number with no record, together with every
// known run so the mismatch can be debugged from the message alone.
type RunLookupError struct {
	Detector    string
	Campaign    string
	Measurement string
	Run         string
	Available   []RunPosition
}

func (e *RunLookupError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %q not found for measurement %s/%s/%s\n",
		e.Run, e.Detector, e.Campaign, e.Measurement)
	b.WriteString("full list of available runs, runNNNN: [phi, r, z]\n")
	b.WriteString(formatRecords(e.Available))
	return b.String()
}

func (e *RunLookupError) Unwrap() error { return ErrNotFound }

// PositionLookupError reports an explicit source position with no matching
// record. Tier names the first coordinate that failed to match ("phi", "r"
// or "z") and Available holds the values present at that tier.
type PositionLookupError struct {
	Detector    string
	Campaign    string
	Measurement string
	Wanted      SourcePosition
	Tier        string
	Available   []float64
	Records     []RunPosition
}

func (e *PositionLookupError) Error() string {
	var b strings.Builder
	switch e.Tier {
	case "phi":
		fmt.Fprintf(&b, "provided phi position [%s] not found for measurement %s/%s/%s\n",
			ftoaPos(e.Wanted.PhiInDeg), e.Detector, e.Campaign, e.Measurement)
		fmt.Fprintf(&b, "available phi positions are: %s\n", formatFloats(e.Available))
	case "r":
		fmt.Fprintf(&b, "provided r position [%s] not found for measurement %s/%s/%s\n",
			ftoaPos(e.Wanted.RInMM), e.Detector, e.Campaign, e.Measurement)
		fmt.Fprintf(&b, "for phi position [%s], the available r positions are: %s\n",
			ftoaPos(e.Wanted.PhiInDeg), formatFloats(e.Available))
	default:
		fmt.Fprintf(&b, "provided z position [%s] not found for measurement %s/%s/%s\n",
			ftoaPos(e.Wanted.ZInMM), e.Detector, e.Campaign, e.Measurement)
		fmt.Fprintf(&b, "for phi position [%s] and r position [%s], the available z positions are: %s\n",
			ftoaPos(e.Wanted.PhiInDeg), ftoaPos(e.Wanted.RInMM), formatFloats(e.Available))
	}
	b.WriteString("full list of available runs, runNNNN: [phi, r, z]\n")
	b.WriteString(formatRecords(e.Records))
	return b.String()
}

func (e *PositionLookupError) Unwrap() error { return ErrNotFound }

func formatRecords(recs []RunPosition) string {
	lines := make([]string, 0, len(recs))
	for _, rec := range recs {
		lines = append(lines, fmt.Sprintf("%s: [%s, %s, %s]", rec.Run,
			ftoaPos(rec.Position.PhiInDeg), ftoaPos(rec.Position.RInMM), ftoaPos(rec.Position.ZInMM)))
	}
	return strings.Join(lines, "\n")
}

func formatFloats(vals []float64) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, ftoaPos(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func ftoaPos(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
