package vfs

import (
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// EntryRecord is the serialized form of an Entry
type EntryRecord struct {
	Kind      Kind      `json:"kind"`
	Children  []string  `json:"children,omitempty"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot is the full tree as persisted: canonical path -> entry
type Snapshot map[string]EntryRecord

// DefaultSnapshot materializes the default layout
func DefaultSnapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Root: {Kind: KindDirectory, CreatedAt: now},
	}
	for _, dir := range StandardDirectories() {
		snap[dir] = EntryRecord{Kind: KindDirectory, CreatedAt: now}
		parent := snap[Dir(dir)]
		parent.Children = append(parent.Children, Base(dir))
		snap[Dir(dir)] = parent
	}
	return snap
}

// EncodeSnapshot serializes a snapshot to JSON
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	data, err := sonic.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses and validates a serialized snapshot
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Validate checks the tree invariants:
// root exists and is a directory, every non-root path has a directory parent that
// lists its name exactly once, every listed child exists, and kinds are exclusive.
func (s Snapshot) Validate() error {
	root, ok := s[Root]
	if !ok {
		return fmt.Errorf("invalid snapshot: root missing")
	}
	if root.Kind != KindDirectory {
		return fmt.Errorf("invalid snapshot: root is not a directory")
	}

	for p, rec := range s {
		switch rec.Kind {
		case KindDirectory:
		case KindFile:
			if len(rec.Children) > 0 {
				return fmt.Errorf("invalid snapshot: file %s has children", p)
			}
		default:
			return fmt.Errorf("invalid snapshot: %s has unknown kind %q", p, rec.Kind)
		}

		if rec.Kind == KindDirectory {
			seen := make(map[string]struct{}, len(rec.Children))
			for _, name := range rec.Children {
				if name == "" || strings.Contains(name, "/") {
					return fmt.Errorf("invalid snapshot: %s lists invalid child %q", p, name)
				}
				if _, dup := seen[name]; dup {
					return fmt.Errorf("invalid snapshot: %s lists %q twice", p, name)
				}
				seen[name] = struct{}{}
				if _, exists := s[Join(p, name)]; !exists {
					return fmt.Errorf("invalid snapshot: %s lists missing child %q", p, name)
				}
			}
		}

		if p == Root {
			continue
		}
		if !strings.HasPrefix(p, "/") || path.Clean(p) != p {
			return fmt.Errorf("invalid snapshot: %q is not canonical", p)
		}
		parent, ok := s[Dir(p)]
		if !ok || parent.Kind != KindDirectory {
			return fmt.Errorf("invalid snapshot: parent of %s is missing", p)
		}
		if !slices.Contains(parent.Children, Base(p)) {
			return fmt.Errorf("invalid snapshot: %s is not linked from its parent", p)
		}
	}

	return nil
}

// Clone returns a deep copy
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for p, rec := range s {
		rec.Children = slices.Clone(rec.Children)
		out[p] = rec
	}
	return out
}
