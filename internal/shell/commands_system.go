package shell

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/GriffinCanCode/webos/internal/vfs"
)

func runWhoami(c *call) string {
	return c.profile.User
}

func runUname(c *call) string {
	fs := c.flags()
	all := fs.BoolP("all", "a", false, "print all information")
	if out, ok := c.parse(fs); !ok {
		return out
	}
	if !*all {
		return c.profile.OS
	}
	return fmt.Sprintf("%s %s %s %s", c.profile.OS, c.profile.Hostname, c.profile.Kernel, c.profile.Arch)
}

func runDate(c *call) string {
	return c.now().Format("Mon Jan _2 15:04:05 MST 2006")
}

func (c *call) uptime() time.Duration {
	return c.now().Sub(c.started).Truncate(time.Second)
}

func formatUptime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h >= 24 {
		return fmt.Sprintf("%d days, %d:%02d", h/24, h%24, m)
	}
	return fmt.Sprintf("%d:%02d", h, m)
}

func runUptime(c *call) string {
	return fmt.Sprintf(" %s up %s,  1 user,  load average: 0.00, 0.00, 0.00",
		c.now().Format("15:04:05"), formatUptime(c.uptime()))
}

func runPs(c *call) string {
	return strings.Join([]string{
		"  PID TTY          TIME CMD",
		"    1 pts/0    00:00:00 " + c.profile.Shell,
		"   42 pts/0    00:00:00 ps",
	}, "\n")
}

func runTop(c *call) string {
	used, _ := c.diskUsage()
	return strings.Join([]string{
		fmt.Sprintf("top - %s up %s,  1 user,  load average: 0.00, 0.00, 0.00",
			c.now().Format("15:04:05"), formatUptime(c.uptime())),
		"Tasks:   2 total,   1 running,   1 sleeping,   0 stopped,   0 zombie",
		fmt.Sprintf("MiB Mem : %8.1f total, %8.1f free, %8.1f used",
			float64(c.profile.MemoryMB), float64(c.profile.MemoryMB)*0.75, float64(c.profile.MemoryMB)*0.25),
		fmt.Sprintf("Disk    : %d bytes used in %s", used, vfs.Root),
		"",
		"  PID USER      %CPU %MEM COMMAND",
		fmt.Sprintf("    1 %-8s   0.0  0.1 %s", c.profile.User, c.profile.Shell),
		fmt.Sprintf("   42 %-8s   0.0  0.1 top", c.profile.User),
	}, "\n")
}

// diskUsage sums file content sizes across the tree
func (c *call) diskUsage() (bytes int64, entries int) {
	_ = c.store.Walk(c.session, vfs.Root, func(info vfs.Info) error {
		bytes += info.Size
		entries++
		return nil
	})
	return bytes, entries
}

func runDf(c *call) string {
	used, _ := c.diskUsage()
	total := int64(c.profile.DiskMB) * 1024
	usedK := (used + 1023) / 1024
	pct := 0
	if total > 0 {
		pct = int(usedK * 100 / total)
	}
	return strings.Join([]string{
		"Filesystem     1K-blocks    Used Available Use% Mounted on",
		fmt.Sprintf("webosfs        %9d %7d %9d %3d%% /", total, usedK, total-usedK, pct),
	}, "\n")
}

func runFree(c *call) string {
	total := c.profile.MemoryMB
	used := total / 4
	return strings.Join([]string{
		"               total        used        free      shared  buff/cache   available",
		fmt.Sprintf("Mem:    %12d %11d %11d %11d %11d %11d", total, used, total-used, 0, 0, total-used),
		fmt.Sprintf("Swap:   %12d %11d %11d", 0, 0, 0),
	}, "\n")
}

func runPing(c *call) string {
	if len(c.args) == 0 {
		return c.fail(ErrMissingOperand)
	}
	host := c.args[0]
	return strings.Join([]string{
		fmt.Sprintf("PING %s: 56 data bytes", host),
		fmt.Sprintf("64 bytes from %s: icmp_seq=0 ttl=64 time=0.042 ms (simulated)", host),
		fmt.Sprintf("--- %s ping statistics ---", host),
		"1 packets transmitted, 1 packets received, 0.0% packet loss",
	}, "\n")
}

func runFetch(c *call) string {
	if len(c.args) == 0 {
		return c.fail(ErrMissingOperand)
	}
	return fmt.Sprintf("%s: request to %s simulated, network access is not available", c.verb, c.args[len(c.args)-1])
}

// environment is the synthetic process environment
func (c *call) environment() map[string]string {
	env := map[string]string{
		"HOME":     vfs.HomePath,
		"USER":     c.profile.User,
		"HOSTNAME": c.profile.Hostname,
		"SHELL":    "/bin/" + c.profile.Shell,
		"PATH":     "/usr/local/bin:/usr/bin:/bin",
		"PWD":      c.session.Cwd,
		"TERM":     "xterm-256color",
	}
	for k, v := range c.profile.Env {
		env[k] = v
	}
	return env
}

// runExport lists the environment; assignments are accepted but not kept
func runExport(c *call) string {
	if len(c.args) > 0 {
		return ""
	}
	env := c.environment()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("declare -x %s=%q", k, env[k]))
	}
	return strings.Join(lines, "\n")
}
