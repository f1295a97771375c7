package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// FileRegistry stores every report in one JSON file.
type FileRegistry struct {
	path string
	mu   sync.Mutex
}

// NewFileRegistry uses the JSON file at path, created on first write.
func NewFileRegistry(path string) *FileRegistry {
	return &FileRegistry{path: path}
}

func (f *FileRegistry) Add(_ context.Context, r entity.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	reports, err := f.load()
	if err != nil {
		return err
	}
	for _, x := range reports {
		if x.ID == r.ID {
			return fmt.Errorf("report %s already exists", r.ID)
		}
	}
	return f.save(append(reports, r))
}

func (f *FileRegistry) List(_ context.Context) ([]entity.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *FileRegistry) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	reports, err := f.load()
	if err != nil {
		return err
	}
	out := reports[:0]
	found := false
	for _, r := range reports {
		if r.ID == id {
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		return fmt.Errorf("%w: %s", types.ErrReportNotFound, id)
	}
	return f.save(out)
}

func (f *FileRegistry) Describe(_ context.Context) (string, error) {
	abs, err := filepath.Abs(f.path)
	if err != nil {
		return f.path, nil
	}
	return "file " + abs, nil
}

func (f *FileRegistry) load() ([]entity.Report, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []entity.Report{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading report registry: %w", err)
	}

	reports := []entity.Report{}
	if len(data) == 0 {
		return reports, nil
	}
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("error parsing report registry %s: %w", f.path, err)
	}
	return reports, nil
}

// save replaces the registry file through a rename.
func (f *FileRegistry) save(reports []entity.Report) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding report registry: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating registry directory '%s': %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".reports-*.json")
	if err != nil {
		return fmt.Errorf("error writing report registry: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing report registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing report registry: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("error writing report registry: %w", err)
	}
	return nil
}
