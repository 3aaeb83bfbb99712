package report

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// RunInfo describes the inputs and settings of an extension run.
type RunInfo struct {
	Evidence   FileFingerprint
	Annotation FileFingerprint
	Mode       string
	Version    string
}

// WriteMetadata replaces the stored run metadata.
func (s *Store) WriteMetadata(info RunInfo) error {
	entries := []struct{ key, val string }{
		{"evidence_path", info.Evidence.Path},
		{"evidence_size", strconv.FormatInt(info.Evidence.Size, 10)},
		{"evidence_modtime", info.Evidence.ModTime.UTC().Format(time.RFC3339Nano)},
		{"annotation_path", info.Annotation.Path},
		{"annotation_size", strconv.FormatInt(info.Annotation.Size, 10)},
		{"annotation_modtime", info.Annotation.ModTime.UTC().Format(time.RFC3339Nano)},
		{"mode", info.Mode},
		{"version", info.Version},
		{"created_at", time.Now().UTC().Format(time.RFC3339)},
	}

	for _, e := range entries {
		if _, err := s.db.Exec(`INSERT OR REPLACE INTO run_metadata (key, value) VALUES (?, ?)`, e.key, e.val); err != nil {
			return fmt.Errorf("write metadata %s: %w", e.key, err)
		}
	}
	return nil
}

// Metadata returns the stored run metadata as a key/value map.
func (s *Store) Metadata() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM run_metadata`)
	if err != nil {
		return nil, fmt.Errorf("query metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan metadata: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}
