package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/webos/internal/vfs"
)

func newTreeCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Print the tree under path (default ~)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				data, err := vfs.EncodeSnapshot(e.store.Snapshot())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			root := "~"
			if len(args) == 1 {
				root = args[0]
			}
			return printTree(out, e.store, root)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Dump the whole snapshot as JSON")
	return cmd
}

func printTree(w io.Writer, store *vfs.Store, root string) error {
	dir := color.New(color.FgBlue, color.Bold).SprintFunc()

	start, err := store.Stat(nil, root)
	if err != nil {
		return fmt.Errorf("%s: %s", root, vfs.KindOf(err).Message())
	}
	depth := func(p string) int {
		rel := strings.TrimPrefix(strings.TrimPrefix(p, start.Path), "/")
		if rel == "" {
			return 0
		}
		return strings.Count(rel, "/") + 1
	}

	dirs, files := 0, 0
	err = store.Walk(nil, root, func(info vfs.Info) error {
		name := info.Name
		if info.Path == start.Path {
			name = vfs.Abbreviate(info.Path)
		}
		if info.IsDir() {
			if info.Path != start.Path {
				dirs++
			}
			name = dir(name)
		} else {
			files++
		}
		_, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth(info.Path)), name)
		return err
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n%d directories, %d files\n", dirs, files)
	return err
}
