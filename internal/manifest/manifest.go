// Package manifest holds the records that flow in and out of the planner:
// the inventory of source videos and the plan of sampled clips.
package manifest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/videoml/clipsampler/pkg/sampling"
)

// VideoEntry is one source video in an inventory. DurationSec may be zero
// when the inventory was written before probing; the planner fills it in.
type VideoEntry struct {
	ID          string              `json:"id"`
	Path        string              `json:"path"`
	DurationSec float64             `json:"duration_sec,omitempty"`
	Annotation  sampling.Annotation `json:"annotation,omitempty"`
}

// Inventory is an ordered collection of source videos. Order is preserved
// from the input file; the planner relies on it for reproducible seeds.
type Inventory struct {
	entries []VideoEntry
}

// NewInventory creates an empty inventory
func NewInventory() *Inventory {
	return &Inventory{
		entries: make([]VideoEntry, 0),
	}
}

// Add appends an entry, assigning a fresh ID when the entry has none, and
// returns the stored entry.
func (inv *Inventory) Add(entry VideoEntry) VideoEntry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	inv.entries = append(inv.entries, entry)
	return entry
}

// Get retrieves an entry by ID
func (inv *Inventory) Get(id string) (VideoEntry, bool) {
	for _, entry := range inv.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return VideoEntry{}, false
}

// All returns the entries in input order
func (inv *Inventory) All() []VideoEntry {
	return inv.entries
}

// SetDuration records a probed duration on the entry with the given ID.
func (inv *Inventory) SetDuration(id string, durationSec float64) bool {
	for i := range inv.entries {
		if inv.entries[i].ID == id {
			inv.entries[i].DurationSec = durationSec
			return true
		}
	}
	return false
}

// Len returns the number of entries
func (inv *Inventory) Len() int {
	return len(inv.entries)
}

// LoadInventory reads an inventory file, dispatching on the extension.
// JSON files hold a list of VideoEntry objects; CSV files need a header row
// with a path column and optional id and duration_sec columns. Explicit ids
// must be unique; duplicates are rejected so a probed duration can never
// land on the wrong entry.
func LoadInventory(path string) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return readJSONInventory(f)
	case ".csv":
		return readCSVInventory(f)
	default:
		return nil, fmt.Errorf("unsupported inventory format %q (want .json or .csv)", filepath.Ext(path))
	}
}

func readJSONInventory(r io.Reader) (*Inventory, error) {
	var entries []VideoEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}

	inv := NewInventory()
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		if entry.Path == "" {
			return nil, fmt.Errorf("inventory entry %d has no path", i)
		}
		if entry.DurationSec < 0 {
			return nil, fmt.Errorf("inventory entry %d has negative duration_sec %v", i, entry.DurationSec)
		}
		stored := inv.Add(entry)
		if _, dup := seen[stored.ID]; dup {
			return nil, fmt.Errorf("inventory entry %d has duplicate id %q", i, stored.ID)
		}
		seen[stored.ID] = struct{}{}
	}
	return inv, nil
}

func readCSVInventory(r io.Reader) (*Inventory, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory csv: %w", err)
	}
	if len(records) == 0 {
		return NewInventory(), nil
	}

	// Header row names the columns; only path is required.
	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	pathCol, ok := cols["path"]
	if !ok {
		return nil, fmt.Errorf("inventory csv has no path column")
	}
	idCol, hasID := cols["id"]
	durCol, hasDur := cols["duration_sec"]

	inv := NewInventory()
	seen := make(map[string]struct{}, len(records)-1)
	for n, rec := range records[1:] {
		entry := VideoEntry{Path: rec[pathCol]}
		if entry.Path == "" {
			return nil, fmt.Errorf("inventory csv row %d has no path", n+2)
		}
		if hasID {
			entry.ID = rec[idCol]
		}
		if hasDur && rec[durCol] != "" {
			dur, err := strconv.ParseFloat(rec[durCol], 64)
			if err != nil {
				return nil, fmt.Errorf("inventory csv row %d: bad duration_sec %q: %w", n+2, rec[durCol], err)
			}
			if dur < 0 {
				return nil, fmt.Errorf("inventory csv row %d has negative duration_sec %v", n+2, dur)
			}
			entry.DurationSec = dur
		}
		stored := inv.Add(entry)
		if _, dup := seen[stored.ID]; dup {
			return nil, fmt.Errorf("inventory csv row %d has duplicate id %q", n+2, stored.ID)
		}
		seen[stored.ID] = struct{}{}
	}
	return inv, nil
}
