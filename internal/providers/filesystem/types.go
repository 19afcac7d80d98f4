package filesystem

import (
	"path"
	"time"

	"github.com/GriffinCanCode/webos/internal/shared/types"
	"github.com/GriffinCanCode/webos/internal/vfs"
)

// FileInfo represents file metadata
type FileInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	IsDir     bool      `json:"is_dir"`
	Mode      string    `json:"mode"`
	Created   time.Time `json:"created"`
	Extension string    `json:"extension,omitempty"`
	MimeType  string    `json:"mime_type,omitempty"`
}

func newFileInfo(info vfs.Info) FileInfo {
	fi := FileInfo{
		Name:    info.Name,
		Path:    info.Path,
		Size:    info.Size,
		IsDir:   info.IsDir(),
		Mode:    "-rw-r--r--",
		Created: info.CreatedAt,
	}
	if fi.IsDir {
		fi.Mode = "drwxr-xr-x"
	} else {
		fi.Extension = path.Ext(info.Name)
	}
	return fi
}

// Success helper
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure helper
func Failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}
