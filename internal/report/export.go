// internal/report/export.go
// Package: report
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mwiater/spmvsweep/internal/harness"
	"gopkg.in/yaml.v3"
)

// WriteJSON writes ds as indented JSON to path, creating parent directories.
func WriteJSON(path string, ds *harness.Dataset) error {
	b, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return writeFile(path, append(b, '\n'))
}

// WriteYAML writes ds as YAML to path, creating parent directories.
func WriteYAML(path string, ds *harness.Dataset) error {
	b, err := yaml.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return writeFile(path, b)
}

// ReadJSON loads a dataset previously written by WriteJSON.
func ReadJSON(path string) (*harness.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeJSON(f)
}

// DecodeJSON reads one dataset from r and checks that it is usable.
func DecodeJSON(r io.Reader) (*harness.Dataset, error) {
	var ds harness.Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if ds.GridSize == 0 && len(ds.Records) == 0 && len(ds.Failed) == 0 {
		return nil, errors.New("decode dataset: no records")
	}
	// Speedups are derived on load when the file carries none.
	for _, r := range ds.Records {
		if r.Speedup.State == harness.SpeedupPending {
			harness.DeriveSpeedups(ds.Records)
			break
		}
	}
	return &ds, nil
}

func writeFile(path string, b []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
