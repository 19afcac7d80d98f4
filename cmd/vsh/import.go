package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/webos/internal/vfs"
)

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <host-dir> [target]",
		Short: "Copy a host directory tree into the virtual filesystem (default target ~)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "~"
			if len(args) == 2 {
				target = args[1]
			}
			dirs, files, err := importHost(e.store, args[0], target, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d directories, %d files\n", dirs, files)
			return nil
		},
	}
}

type hostEntry struct {
	rel     string
	dir     bool
	content string
}

// importHost merges hostDir into target with a single snapshot write.
// Existing files are overwritten; symlinks and special files are skipped.
func importHost(store *vfs.Store, hostDir, target string, now time.Time) (dirs, files int, err error) {
	target = vfs.Resolve(target, vfs.HomePath)
	if !store.IsDirectory(nil, target) {
		return 0, 0, fmt.Errorf("%s: %s", target, vfs.NotADirectory.Message())
	}

	var (
		mu      sync.Mutex
		entries []hostEntry
	)
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, hostDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(hostDir, p)
		if err != nil || rel == "." {
			return err
		}

		entry := hostEntry{rel: filepath.ToSlash(rel), dir: d.IsDir()}
		if !entry.dir {
			if !d.Type().IsRegular() {
				return nil
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			entry.content = string(data)
		}

		mu.Lock()
		entries = append(entries, entry)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("walk %s: %w", hostDir, err)
	}

	// parents sort before their children
	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	snap := store.Snapshot()
	for _, entry := range entries {
		p := vfs.Join(target, entry.rel)
		existing, ok := snap[p]
		switch {
		case ok && existing.Kind == vfs.KindDirectory && entry.dir:
			continue
		case ok && (existing.Kind == vfs.KindDirectory) != entry.dir:
			return 0, 0, fmt.Errorf("%s: %s", p, vfs.AlreadyExists.Message())
		case ok:
			existing.Content = entry.content
			snap[p] = existing
			files++
			continue
		}

		record := vfs.EntryRecord{Kind: vfs.KindFile, Content: entry.content, CreatedAt: now}
		if entry.dir {
			record.Kind = vfs.KindDirectory
			dirs++
		} else {
			files++
		}
		snap[p] = record

		parent := snap[vfs.Dir(p)]
		parent.Children = append(parent.Children, vfs.Base(p))
		snap[vfs.Dir(p)] = parent
	}

	if err := store.Restore(snap); err != nil {
		return 0, 0, err
	}
	return dirs, files, nil
}
