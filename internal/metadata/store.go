package metadata

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data
var packagedData embed.FS

// EnvMetadataRoot points to a checkout of the LEGEND hardware metadata.
const EnvMetadataRoot = "LEGEND_METADATA"

// diodeDir is the diode record location inside a metadata checkout.
const diodeDir = "hardware/detectors/germanium/diodes"

var (
	// ErrUnavailable reports that the authoritative metadata service
	// cannot be reached (no checkout configured or present).
	ErrUnavailable = errors.New("metadata: service unavailable")

	// ErrNotFound reports a missing record inside a reachable store.
	ErrNotFound = errors.New("metadata: not found")
)

// DiodeSource returns germanium diode records by detector name.
type DiodeSource interface {
	Diode(name string) (*DiodeMetadata, error)
}

// FileStore reads diode records from a LEGEND metadata checkout on disk.
type FileStore struct {
	root string
}

// NewFileStore opens the metadata checkout at root, or at $LEGEND_METADATA
// when root is empty. A missing checkout is ErrUnavailable, so callers can
// distinguish "no metadata here" from a genuinely broken record.
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		root = os.Getenv(EnvMetadataRoot)
	}
	if root == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrUnavailable, EnvMetadataRoot)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: no metadata checkout at %s", ErrUnavailable, root)
	}
	return &FileStore{root: root}, nil
}

// Diode reads and decodes one diode record.
func (s *FileStore) Diode(name string) (*DiodeMetadata, error) {
	path := filepath.Join(s.root, filepath.FromSlash(diodeDir), name+".yaml")
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no diode record for detector %q in %s", ErrNotFound, name, s.root)
	}
	if err != nil {
		return nil, fmt.Errorf("metadata: read diode record %s: %w", path, err)
	}
	return decodeDiode(raw, name)
}

// PublicStore serves the diode records packaged with the binary. It covers
// only the detectors whose characterization data is public.
type PublicStore struct{}

// NewPublicStore returns the packaged public store.
func NewPublicStore() *PublicStore { return &PublicStore{} }

// Diode returns a packaged diode record.
func (s *PublicStore) Diode(name string) (*DiodeMetadata, error) {
	raw, err := packagedData.ReadFile("data/diodes/" + name + ".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: detector %q has no public diode record (available: %v)",
			ErrNotFound, name, s.Detectors())
	}
	if err != nil {
		return nil, fmt.Errorf("metadata: read packaged diode record for %q: %w", name, err)
	}
	return decodeDiode(raw, name)
}

// Detectors lists the detector names with packaged public records.
func (s *PublicStore) Detectors() []string {
	entries, err := packagedData.ReadDir("data/diodes")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func decodeDiode(raw []byte, name string) (*DiodeMetadata, error) {
	var d DiodeMetadata
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("metadata: decode diode record for %q: %w", name, err)
	}
	if d.Name == "" {
		d.Name = name
	}
	return &d, nil
}
