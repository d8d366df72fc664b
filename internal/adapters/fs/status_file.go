package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/bft-labs/ooqd/internal/domain"
)

const statusFileName = "status.json"

// StatusFileRepository implements ports.StatusRepository using a JSON file.
type StatusFileRepository struct {
	fs  afero.Fs
	dir string
}

// NewStatusFileRepository creates a new StatusFileRepository for the given directory.
func NewStatusFileRepository(fs afero.Fs, dir string) *StatusFileRepository {
	return &StatusFileRepository{fs: fs, dir: dir}
}

// Load retrieves the last saved drain summary.
// Returns an empty summary and nil error if no status file exists.
func (r *StatusFileRepository) Load(ctx context.Context) (domain.DrainStats, error) {
	data, err := afero.ReadFile(r.fs, r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DrainStats{}, nil
		}
		return domain.DrainStats{}, err
	}

	var stats domain.DrainStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return domain.DrainStats{}, err
	}

	return stats, nil
}

// Save persists the summary atomically (write to temp file, then rename).
func (r *StatusFileRepository) Save(ctx context.Context, stats domain.DrainStats) error {
	if err := r.fs.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}

	if err := afero.WriteFile(r.fs, tmp, data, 0o600); err != nil {
		return err
	}

	return r.fs.Rename(tmp, path)
}

// Path returns the full path to the status file.
func (r *StatusFileRepository) Path() string {
	return filepath.Join(r.dir, statusFileName)
}
