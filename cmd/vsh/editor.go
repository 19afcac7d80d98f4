package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/GriffinCanCode/webos/internal/vfs"
)

// externalEditor round-trips a virtual file through $EDITOR on the host
type externalEditor struct {
	store *vfs.Store
}

func (e *externalEditor) Open(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	content, err := e.store.ReadFile(nil, path)
	if err != nil && vfs.KindOf(err) != vfs.NoSuchEntry {
		return err
	}

	tmp, err := os.CreateTemp("", "vsh-*-"+vfs.Base(path))
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	cmd := exec.Command(editor, tmp.Name())
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", editor, err)
	}

	edited, err := os.ReadFile(tmp.Name())
	if err != nil {
		return err
	}
	if string(edited) == content {
		return nil
	}
	return e.store.WriteFile(nil, path, string(edited), false)
}
