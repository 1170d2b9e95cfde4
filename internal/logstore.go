package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileLogStore keeps per-machine diagnostic log files on disk:
// one directory per machine, one file per day named yyyyMMdd.txt.
type FileLogStore struct {
	dir string
}

func NewFileLogStore(dir string) (*FileLogStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &FileLogStore{dir: dir}, nil
}

// Save stores content as the machine's log file for the current day,
// overwriting any earlier upload from the same day.
func (s *FileLogStore) Save(machine string, content []byte) (string, error) {
	if err := validName(machine); err != nil {
		return "", err
	}
	machineDir := filepath.Join(s.dir, machine)
	if err := os.MkdirAll(machineDir, 0o755); err != nil {
		return "", fmt.Errorf("create machine dir: %w", err)
	}
	name := time.Now().Format("20060102") + ".txt"
	if err := os.WriteFile(filepath.Join(machineDir, name), content, 0o644); err != nil {
		return "", fmt.Errorf("write log file: %w", err)
	}
	return name, nil
}

// Read returns the named log file. The error wraps os.ErrNotExist when the
// file is missing.
func (s *FileLogStore) Read(machine, filename string) ([]byte, error) {
	if err := validName(machine); err != nil {
		return nil, err
	}
	if err := validName(filename); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.dir, machine, filename))
}

// Latest returns the machine's newest log file. Date-named files sort
// lexically in chronological order.
func (s *FileLogStore) Latest(machine string) (string, []byte, error) {
	if err := validName(machine); err != nil {
		return "", nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.dir, machine))
	if err != nil {
		return "", nil, err
	}
	latest := ""
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.Name() > latest {
			latest = entry.Name()
		}
	}
	if latest == "" {
		return "", nil, fmt.Errorf("no log files for machine %s: %w", machine, os.ErrNotExist)
	}
	content, err := os.ReadFile(filepath.Join(s.dir, machine, latest))
	if err != nil {
		return "", nil, err
	}
	return latest, content, nil
}

// Machines lists machine ids that have uploaded at least one log file.
func (s *FileLogStore) Machines() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var machines []string
	for _, entry := range entries {
		if entry.IsDir() {
			machines = append(machines, entry.Name())
		}
	}
	return machines, nil
}

// validName rejects empty names and anything that could escape the store
// directory.
func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid name: %q", name)
	}
	return nil
}
