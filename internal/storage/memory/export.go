package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ufoai/geoscape/internal/savegame"
)

const (
	exportPrefix = "geoscape_"
	jsonExt      = ".json"
	gzipExt      = ".json.gz"
)

// fileName is geoscape_<day>_<id>.json[.gz]; the id is the part after the
// last underscore.
func (b *Backend) fileName(s *savegame.Snapshot) string {
	ext := jsonExt
	if b.cfg.CompressOutput {
		ext = gzipExt
	}
	return fmt.Sprintf("%sday%04d_%s%s", exportPrefix, s.Date.Day, s.ID, ext)
}

// export writes s to the output directory
func (b *Backend) export(s *savegame.Snapshot) (string, error) {
	path := filepath.Join(b.cfg.OutputDir, b.fileName(s))
	if b.cfg.CompressOutput {
		return path, writeGzipJSON(path, s)
	}
	return path, writeJSON(path, s)
}

func writeJSON(path string, s *savegame.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(s)
}

func writeGzipJSON(path string, s *savegame.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(s); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}

// readFile decodes an export file, gzipped or not.
func readFile(path string) (*savegame.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open save: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, gzipExt) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream of %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var s savegame.Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &s, nil
}

// ReadFile decodes a save exported by any memory backend.
func ReadFile(path string) (*savegame.Snapshot, error) {
	return readFile(path)
}

// scanDir maps save ids to the export files found in dir.
func scanDir(dir string) (map[string]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}
	found := make(map[string]string)
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !strings.HasPrefix(name, exportPrefix) {
			continue
		}
		base, ok := strings.CutSuffix(name, gzipExt)
		if !ok {
			if base, ok = strings.CutSuffix(name, jsonExt); !ok {
				continue
			}
		}
		i := strings.LastIndex(base, "_")
		if i < 0 || i == len(base)-1 {
			continue
		}
		found[base[i+1:]] = filepath.Join(dir, name)
	}
	return found, nil
}
