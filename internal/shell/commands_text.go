package shell

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/webos/internal/vfs"
)

const defaultLines = 10

// unquote strips one pair of matching single or double quotes; there is no escaping
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// runEcho works on the raw line since redirection splits on the first '>'
func runEcho(c *call) string {
	rest := strings.TrimSpace(c.raw[len(strings.Fields(c.raw)[0]):])

	idx := strings.Index(rest, ">")
	if idx < 0 {
		return unquote(rest)
	}

	text := unquote(strings.TrimSpace(rest[:idx]))
	target := rest[idx+1:]
	appendMode := strings.HasPrefix(target, ">")
	if appendMode {
		target = target[1:]
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return c.failf("syntax error near unexpected token 'newline'")
	}

	if err := c.store.WriteFile(c.session, target, text+"\n", appendMode); err != nil {
		return c.failf("%s: %s", target, vfs.KindOf(err).Message())
	}
	return ""
}

func runGrep(c *call) string {
	fs := c.flags()
	ignoreCase := fs.BoolP("ignore-case", "i", false, "ignore case distinctions")
	number := fs.BoolP("line-number", "n", false, "prefix each line with its number")
	if out, ok := c.parse(fs); !ok {
		return out
	}
	if fs.NArg() < 2 {
		return c.fail(ErrMissingOperand)
	}

	pattern := unquote(fs.Arg(0))
	if *ignoreCase {
		pattern = strings.ToLower(pattern)
	}
	files := fs.Args()[1:]

	var out []string
	for _, target := range files {
		content, err := c.store.ReadFile(c.session, target)
		if err != nil {
			out = append(out, c.failf("%s: %s", target, vfs.KindOf(err).Message()))
			continue
		}
		for n, line := range splitLines(content) {
			haystack := line
			if *ignoreCase {
				haystack = strings.ToLower(line)
			}
			if !strings.Contains(haystack, pattern) {
				continue
			}
			if *number {
				line = fmt.Sprintf("%d:%s", n+1, line)
			}
			if len(files) > 1 {
				line = target + ":" + line
			}
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// splitLines splits content into lines; a trailing newline does not start a new line
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

func runWc(c *call) string {
	if len(c.args) == 0 {
		return c.fail(ErrMissingOperand)
	}

	out := make([]string, 0, len(c.args))
	for _, target := range c.args {
		content, err := c.store.ReadFile(c.session, target)
		if err != nil {
			out = append(out, c.failf("%s: %s", target, vfs.KindOf(err).Message()))
			continue
		}
		out = append(out, fmt.Sprintf("%d %d %d %s",
			strings.Count(content, "\n"), len(strings.Fields(content)), utf8.RuneCountInString(content), target))
	}
	return strings.Join(out, "\n")
}

func runHead(c *call) string {
	return c.slice(func(lines []string, n int) []string {
		return lines[:min(n, len(lines))]
	})
}

func runTail(c *call) string {
	return c.slice(func(lines []string, n int) []string {
		return lines[len(lines)-min(n, len(lines)):]
	})
}

func (c *call) slice(pick func(lines []string, n int) []string) string {
	fs := c.flags()
	count := fs.IntP("lines", "n", defaultLines, "number of lines")
	if out, ok := c.parse(fs); !ok {
		return out
	}
	if fs.NArg() == 0 {
		return c.fail(ErrMissingOperand)
	}
	if *count < 0 {
		return c.failf("invalid number of lines: '%d'", *count)
	}

	target := fs.Arg(0)
	content, err := c.store.ReadFile(c.session, target)
	if err != nil {
		return c.failf("%s: %s", target, vfs.KindOf(err).Message())
	}
	return strings.Join(pick(splitLines(content), *count), "\n")
}
