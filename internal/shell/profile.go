package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/webos/internal/vfs"
)

// SystemProfile is the identity reported by whoami, uname and friends
type SystemProfile struct {
	User     string            `toml:"user" yaml:"user"`
	Hostname string            `toml:"hostname" yaml:"hostname"`
	OS       string            `toml:"os" yaml:"os"`
	Kernel   string            `toml:"kernel" yaml:"kernel"`
	Arch     string            `toml:"arch" yaml:"arch"`
	Shell    string            `toml:"shell" yaml:"shell"`
	MemoryMB int               `toml:"memory_mb" yaml:"memory_mb"`
	DiskMB   int               `toml:"disk_mb" yaml:"disk_mb"`
	Env      map[string]string `toml:"env" yaml:"env"`
}

// DefaultProfile returns the built-in identity
func DefaultProfile() SystemProfile {
	return SystemProfile{
		User:     vfs.Base(vfs.HomePath),
		Hostname: "webos",
		OS:       "WebOS",
		Kernel:   "1.0.0-webos",
		Arch:     "x86_64",
		Shell:    "bash",
		MemoryMB: 8192,
		DiskMB:   1024,
	}
}

// LoadProfile reads a TOML profile, or YAML for .yaml and .yml files, over the
// defaults. An empty path returns the defaults.
func LoadProfile(path string) (SystemProfile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return profile, fmt.Errorf("failed to open shell profile: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f, yaml.DisallowUnknownField()).Decode(&profile)
	default:
		err = toml.NewDecoder(f).DisallowUnknownFields().Decode(&profile)
	}
	if err != nil {
		return DefaultProfile(), fmt.Errorf("failed to parse shell profile %s: %w", path, err)
	}
	return profile, nil
}

// Prompt renders "user@host:~/dir$ " for a session
func Prompt(profile SystemProfile, sess *vfs.Session) string {
	cwd := vfs.HomePath
	if sess != nil {
		cwd = sess.Cwd
	}
	return fmt.Sprintf("%s@%s:%s$ ", profile.User, profile.Hostname, vfs.Abbreviate(cwd))
}
