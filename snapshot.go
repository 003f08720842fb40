package gitconfig

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Snapshot is an exportable summary of a merged view.
type Snapshot struct {
	Scopes []ScopeInfo   `yaml:"scopes,omitempty"`
	Keys   []SnapshotKey `yaml:"keys"`
}

// SnapshotKey holds the effective value(s) of one key and the entries it
// overrides.
type SnapshotKey struct {
	Key        string        `yaml:"key"`
	Scope      Scope         `yaml:"scope"`
	Values     []string      `yaml:"values"`
	Overridden []ConfigEntry `yaml:"overridden,omitempty"`
}

// NewSnapshot builds a snapshot from a merged view (see Store.MergedView).
// Keys keep the order of their effective entries.
func NewSnapshot(scopes []ScopeInfo, merged []ConfigEntry) Snapshot {
	idx := make(map[string]int, len(merged))
	snap := Snapshot{
		Scopes: scopes,
		Keys:   make([]SnapshotKey, 0, len(merged)),
	}

	for _, e := range merged {
		if e.IsOverridden() {
			continue
		}
		i, found := idx[e.Key]
		if !found {
			i = len(snap.Keys)
			idx[e.Key] = i
			snap.Keys = append(snap.Keys, SnapshotKey{Key: e.Key, Scope: e.Scope})
		}
		snap.Keys[i].Values = append(snap.Keys[i].Values, e.Value)
	}

	for _, e := range merged {
		if !e.IsOverridden() {
			continue
		}
		i, found := idx[e.Key]
		if !found {
			continue
		}
		snap.Keys[i].Overridden = append(snap.Keys[i].Overridden, e)
	}

	return snap
}

// WriteSnapshot encodes the snapshot as YAML.
func WriteSnapshot(w io.Writer, snap Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return enc.Close()
}
