package persistence

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mwheeler/sessiondb/internal/store"
)

// Settings files hold one "key = value" pair per line. Blank lines are
// ignored, as are comment lines starting with '#' or '!' (the latter is
// the Xresources convention). A key repeated later in the file overwrites
// the earlier value, which is exactly the store's insert semantics.

// LoadSettings reads path into s, returning the number of pairs applied.
func LoadSettings(path string, s *store.Store) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer file.Close()

	applied := 0
	lineNum := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return applied, fmt.Errorf("%s:%d: missing '=' separator", path, lineNum)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return applied, fmt.Errorf("%s:%d: empty key", path, lineNum)
		}

		s.Set(key, strings.TrimSpace(value))
		applied++
	}
	if err := scanner.Err(); err != nil {
		return applied, fmt.Errorf("failed to read settings file: %w", err)
	}

	return applied, nil
}

// SaveSettings writes every pair in s to path, going through a temp file
// and a rename so a crash mid-write never truncates the previous file.
func SaveSettings(path string, s *store.Store) error {
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}

	writer := bufio.NewWriter(file)
	for _, key := range s.Keys() {
		value, ok := s.Get(key)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(writer, "%s=%s\n", key, value); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to write settings: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush settings: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync settings: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close settings file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
