package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go-rnbo/config"
)

const timestampLayout = "2006-01-02_15-04-05"

// SaveInfo represents a saved snapshot file (for listing)
type SaveInfo struct {
	Filename  string
	Name      string // parsed from filename (empty if unnamed)
	Timestamp time.Time
}

// Store keeps snapshots as Dir/<patch>/<timestamp>[_name].json
type Store struct {
	Dir string
	Now func() time.Time
}

// DefaultStore returns the store under the config directory
func DefaultStore() (*Store, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return &Store{Dir: filepath.Join(dir, "snapshots")}, nil
}

func (st *Store) patchDir(patch string) string {
	return filepath.Join(st.Dir, sanitizeFilename(patch))
}

func (st *Store) now() time.Time {
	if st.Now != nil {
		return st.Now()
	}
	return time.Now()
}

// Save writes snap with a timestamp and optional name
func (st *Store) Save(snap *Snapshot, name string) (SaveInfo, error) {
	dir := st.patchDir(snap.Patch)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return SaveInfo{}, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return SaveInfo{}, err
	}

	ts := st.now()
	filename := ts.Format(timestampLayout)
	if name != "" {
		filename += "_" + sanitizeFilename(name)
	}
	filename += ".json"

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return SaveInfo{}, err
	}
	return SaveInfo{Filename: filename, Name: name, Timestamp: ts.Truncate(time.Second)}, nil
}

// List returns timestamped saves for a patch, newest first
func (st *Store) List(patch string) ([]SaveInfo, error) {
	entries, err := os.ReadDir(st.patchDir(patch))
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if info, ok := parseFilename(entry.Name()); ok {
			saves = append(saves, info)
		}
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})
	return saves, nil
}

// Load reads a save, or the most recent one if filename is empty
func (st *Store) Load(patch, filename string) (*Snapshot, error) {
	if filename == "" {
		saves, err := st.List(patch)
		if err != nil || len(saves) == 0 {
			return nil, fmt.Errorf("no snapshots for %s", patch)
		}
		filename = saves[0].Filename
	}

	data, err := os.ReadFile(filepath.Join(st.patchDir(patch), filename))
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", filename, err)
	}
	return snap, nil
}

// Delete removes a save file
func (st *Store) Delete(patch, filename string) error {
	return os.Remove(filepath.Join(st.patchDir(patch), filename))
}

// Rename changes the name part of a save, keeping its timestamp
func (st *Store) Rename(patch, filename, newName string) (string, error) {
	info, ok := parseFilename(filename)
	if !ok {
		return "", fmt.Errorf("invalid snapshot filename %q", filename)
	}
	renamed := info.Timestamp.Format(timestampLayout)
	if newName != "" {
		renamed += "_" + sanitizeFilename(newName)
	}
	renamed += ".json"

	dir := st.patchDir(patch)
	if err := os.Rename(filepath.Join(dir, filename), filepath.Join(dir, renamed)); err != nil {
		return "", err
	}
	return renamed, nil
}

// parseFilename reads 2024-01-15_14-30-00.json or 2024-01-15_14-30-00_name.json
func parseFilename(filename string) (SaveInfo, bool) {
	base := strings.TrimSuffix(filename, ".json")
	if len(base) < len(timestampLayout) {
		return SaveInfo{}, false
	}
	ts, err := time.ParseInLocation(timestampLayout, base[:len(timestampLayout)], time.Local)
	if err != nil {
		return SaveInfo{}, false
	}
	info := SaveInfo{Filename: filename, Timestamp: ts}
	if rest := base[len(timestampLayout):]; len(rest) > 1 && rest[0] == '_' {
		info.Name = rest[1:]
	}
	return info, true
}

// sanitizeFilename removes/replaces characters that are problematic in filenames
func sanitizeFilename(name string) string {
	return strings.NewReplacer(
		" ", "-", "/", "-", "\\", "-", ":", "-",
		"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
	).Replace(name)
}
