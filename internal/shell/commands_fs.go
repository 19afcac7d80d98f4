package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"

	"github.com/GriffinCanCode/webos/internal/vfs"
)

const (
	dirPerm  = "drwxr-xr-x"
	filePerm = "-rw-r--r--"
	dirSize  = 4096
)

func runLs(c *call) string {
	fs := c.flags()
	all := fs.BoolP("all", "a", false, "show hidden entries")
	long := fs.BoolP("long", "l", false, "use a long listing format")
	if out, ok := c.parse(fs); !ok {
		return out
	}

	target := "."
	if fs.NArg() > 0 {
		target = fs.Arg(0)
	}

	names, err := c.store.List(c.session, target, *all)
	if err != nil {
		return c.failf("cannot access '%s': %s", target, vfs.KindOf(err).Message())
	}
	if !*long {
		return strings.Join(names, "  ")
	}

	info, err := c.store.Stat(c.session, target)
	if err != nil {
		return c.fail(err)
	}
	rows := make([]string, 0, len(names))
	for _, name := range names {
		entry := info
		if info.IsDir() {
			if entry, err = c.store.Stat(c.session, vfs.Join(info.Path, name)); err != nil {
				continue
			}
		}
		rows = append(rows, c.longRow(entry))
	}
	return strings.Join(rows, "\n")
}

func (c *call) longRow(info vfs.Info) string {
	perm, links, size := filePerm, 1, info.Size
	if info.IsDir() {
		perm, links, size = dirPerm, 2+info.Children, dirSize
	}
	return fmt.Sprintf("%s %2d %s %s %6d %s %s",
		perm, links, c.profile.User, c.profile.User, size,
		info.CreatedAt.Format("Jan _2 15:04"), info.Name)
}

func runCd(c *call) string {
	target := "~"
	if len(c.args) > 0 {
		target = c.args[0]
	}
	if _, err := c.store.ChangeDirectory(c.session, target); err != nil {
		return c.failf("%s: %s", target, vfs.KindOf(err).Message())
	}
	return ""
}

func runPwd(c *call) string {
	return c.store.PrintWorkingDirectory(c.session)
}

func runMkdir(c *call) string {
	fs := c.flags()
	parents := fs.BoolP("parents", "p", false, "create missing parents")
	if out, ok := c.parse(fs); !ok {
		return out
	}
	if fs.NArg() == 0 {
		return c.fail(ErrMissingOperand)
	}

	var lines []string
	for _, target := range fs.Args() {
		var err error
		if *parents {
			err = c.mkdirAll(target)
		} else {
			err = c.store.MakeDirectory(c.session, target)
		}
		if err != nil {
			lines = append(lines, c.failf("cannot create directory '%s': %s", target, vfs.KindOf(err).Message()))
		}
	}
	return strings.Join(lines, "\n")
}

// mkdirAll creates target and any missing ancestors; existing directories are fine
func (c *call) mkdirAll(target string) error {
	abs := vfs.Resolve(target, c.session.Cwd)
	var missing []string
	p := abs
	for ; !c.store.Exists(c.session, p); p = vfs.Dir(p) {
		missing = append(missing, p)
	}
	if !c.store.IsDirectory(c.session, p) {
		if len(missing) == 0 {
			return &vfs.Error{Kind: vfs.AlreadyExists, Op: "mkdir", Path: abs}
		}
		return &vfs.Error{Kind: vfs.NotADirectory, Op: "mkdir", Path: p}
	}
	for n := len(missing) - 1; n >= 0; n-- {
		if err := c.store.MakeDirectory(c.session, missing[n]); err != nil {
			return err
		}
	}
	return nil
}

func runTouch(c *call) string {
	if len(c.args) == 0 {
		return c.fail(ErrMissingOperand)
	}
	var lines []string
	for _, target := range c.args {
		if err := c.store.Touch(c.session, target); err != nil {
			lines = append(lines, c.failf("cannot touch '%s': %s", target, vfs.KindOf(err).Message()))
		}
	}
	return strings.Join(lines, "\n")
}

func runRm(c *call) string {
	fs := c.flags()
	recursive := fs.BoolP("recursive", "r", false, "remove directories and their contents")
	force := fs.BoolP("force", "f", false, "ignore nonexistent files")
	if out, ok := c.parse(fs); !ok {
		return out
	}
	if fs.NArg() == 0 {
		if *force {
			return ""
		}
		return c.fail(ErrMissingOperand)
	}

	var lines []string
	for _, target := range fs.Args() {
		err := c.store.Remove(c.session, target, *recursive)
		if err == nil || (*force && errors.Is(err, vfs.ErrNoSuchEntry)) {
			continue
		}
		lines = append(lines, c.failf("cannot remove '%s': %s", target, vfs.KindOf(err).Message()))
	}
	return strings.Join(lines, "\n")
}

// destination resolves dest, descending into it when it names a directory
func (c *call) destination(src, dest string) string {
	info, err := c.store.Stat(c.session, dest)
	if err != nil || !info.IsDir() {
		return dest
	}
	return vfs.Join(info.Path, vfs.Base(vfs.Resolve(src, c.session.Cwd)))
}

func (c *call) twoOperands() (string, string, string) {
	switch len(c.args) {
	case 0:
		return "", "", c.fail(ErrMissingOperand)
	case 1:
		return "", "", c.failf("missing destination file operand after '%s'", c.args[0])
	}
	return c.args[0], c.args[1], ""
}

func runCp(c *call) string {
	src, dest, out := c.twoOperands()
	if out != "" {
		return out
	}
	if c.store.IsDirectory(c.session, src) {
		return c.failf("-r not specified; omitting directory '%s'", src)
	}
	if err := c.store.Copy(c.session, src, c.destination(src, dest)); err != nil {
		return c.failf("cannot copy '%s': %s", src, vfs.KindOf(err).Message())
	}
	return ""
}

func runMv(c *call) string {
	src, dest, out := c.twoOperands()
	if out != "" {
		return out
	}
	if err := c.store.Move(c.session, src, c.destination(src, dest)); err != nil {
		return c.failf("cannot move '%s': %s", src, vfs.KindOf(err).Message())
	}
	return ""
}

func runCat(c *call) string {
	if len(c.args) == 0 {
		return c.fail(ErrMissingOperand)
	}

	var b strings.Builder
	lastFailed := false
	for _, target := range c.args {
		content, err := c.store.ReadFile(c.session, target)
		if err != nil {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
			b.WriteString(c.failf("%s: %s", target, vfs.KindOf(err).Message()))
			b.WriteByte('\n')
			lastFailed = true
			continue
		}
		b.WriteString(content)
		lastFailed = false
	}

	out := b.String()
	if lastFailed {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

func runEdit(c *call) string {
	if len(c.args) == 0 {
		return c.fail(ErrMissingOperand)
	}
	target := vfs.Resolve(c.args[0], c.session.Cwd)
	if c.store.IsDirectory(c.session, target) {
		return c.failf("%s: %s", c.args[0], vfs.IsADirectory.Message())
	}
	if c.editor == nil {
		return c.fail(ErrNoEditor)
	}
	if err := c.editor.Open(target); err != nil {
		return c.fail(err)
	}
	return ""
}

func runFind(c *call) string {
	// find spells long options with one dash
	args := make([]string, len(c.args))
	for n, arg := range c.args {
		switch arg {
		case "-name", "-type":
			arg = "-" + arg
		}
		args[n] = arg
	}
	c.args = args

	fs := c.flags()
	pattern := fs.String("name", "", "match base names against a glob")
	kind := fs.String("type", "", "f for files, d for directories")
	if out, ok := c.parse(fs); !ok {
		return out
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	if *pattern != "" && !doublestar.ValidatePattern(*pattern) {
		return c.failf("invalid pattern '%s'", *pattern)
	}

	var matches []string
	err := c.store.Walk(c.session, root, func(info vfs.Info) error {
		switch *kind {
		case "f":
			if info.IsDir() {
				return nil
			}
		case "d":
			if !info.IsDir() {
				return nil
			}
		}
		if *pattern != "" {
			if ok, _ := doublestar.Match(*pattern, info.Name); !ok {
				return nil
			}
		}
		matches = append(matches, info.Path)
		return nil
	})
	if err != nil {
		return c.failf("'%s': %s", root, vfs.KindOf(err).Message())
	}
	return strings.Join(matches, "\n")
}

// DetectType returns the MIME type of file content, or "inode/directory"
func DetectType(info vfs.Info, content string) string {
	if info.IsDir() {
		return "inode/directory"
	}
	if content == "" {
		return "inode/x-empty"
	}
	return mimetype.Detect([]byte(content)).String()
}

func runFile(c *call) string {
	if len(c.args) == 0 {
		return c.fail(ErrMissingOperand)
	}

	lines := make([]string, 0, len(c.args))
	for _, target := range c.args {
		info, err := c.store.Stat(c.session, target)
		if err != nil {
			lines = append(lines, c.failf("%s: %s", target, vfs.KindOf(err).Message()))
			continue
		}
		content := ""
		if !info.IsDir() {
			content, _ = c.store.ReadFile(c.session, target)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", target, DetectType(info, content)))
	}
	return strings.Join(lines, "\n")
}
