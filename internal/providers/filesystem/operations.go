package filesystem

import (
	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webos/internal/shared/types"
	"github.com/GriffinCanCode/webos/internal/shell"
	"github.com/GriffinCanCode/webos/internal/vfs"
)

func (p *Provider) list(sess *vfs.Session, params map[string]interface{}) (*types.Result, error) {
	target, ok := pathParam(params, "path")
	if !ok {
		target = "."
	}

	names, err := p.store.List(sess, target, boolParam(params, "show_hidden"))
	if err != nil {
		return Failure(err.Error())
	}

	dir, err := p.store.Stat(sess, target)
	if err != nil {
		return Failure(err.Error())
	}

	entries := make([]FileInfo, 0, len(names))
	for _, name := range names {
		info := dir
		if dir.IsDir() {
			if info, err = p.store.Stat(sess, vfs.Join(dir.Path, name)); err != nil {
				continue
			}
		}
		entries = append(entries, newFileInfo(info))
	}

	return Success(map[string]interface{}{
		"path":    dir.Path,
		"entries": entries,
		"count":   len(entries),
	})
}

func (p *Provider) mkdir(sess *vfs.Session, params map[string]interface{}) (*types.Result, error) {
	target, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	if err := p.store.MakeDirectory(sess, target); err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"created": true, "path": vfs.Resolve(target, sess.Cwd)})
}

func (p *Provider) read(sess *vfs.Session, params map[string]interface{}) (*types.Result, error) {
	target, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	content, err := p.store.ReadFile(sess, target)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"content": content, "size": len(content)})
}

func (p *Provider) write(sess *vfs.Session, params map[string]interface{}) (*types.Result, error) {
	target, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	data, ok := params["data"].(string)
	if !ok {
		return Failure("data parameter required")
	}

	appendMode := boolParam(params, "append")
	if err := p.store.WriteFile(sess, target, data, appendMode); err != nil {
		return Failure(err.Error())
	}
	p.logger.Debug("File written",
		zap.String("path", vfs.Resolve(target, sess.Cwd)),
		zap.Int("bytes", len(data)),
		zap.Bool("append", appendMode),
	)
	return Success(map[string]interface{}{"written": true, "bytes": len(data)})
}

func (p *Provider) touch(sess *vfs.Session, params map[string]interface{}) (*types.Result, error) {
	target, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	if err := p.store.Touch(sess, target); err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"touched": true})
}

func (p *Provider) delete(sess *vfs.Session, params map[string]interface{}) (*types.Result, error) {
	target, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	if err := p.store.Remove(sess, target, boolParam(params, "recursive")); err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"deleted": true})
}

func (p *Provider) transfer(sess *vfs.Session, params map[string]interface{}, move bool) (*types.Result, error) {
	source, ok := pathParam(params, "source")
	if !ok {
		return Failure("source parameter required")
	}
	destination, ok := pathParam(params, "destination")
	if !ok {
		return Failure("destination parameter required")
	}

	var err error
	if move {
		err = p.store.Move(sess, source, destination)
	} else {
		err = p.store.Copy(sess, source, destination)
	}
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{
		"source":      vfs.Resolve(source, sess.Cwd),
		"destination": vfs.Resolve(destination, sess.Cwd),
	})
}

func (p *Provider) copy(sess *vfs.Session, params map[string]interface{}) (*types.Result, error) {
	return p.transfer(sess, params, false)
}

func (p *Provider) move(sess *vfs.Session, params map[string]interface{}) (*types.Result, error) {
	return p.transfer(sess, params, true)
}

func (p *Provider) exists(sess *vfs.Session, params map[string]interface{}) (*types.Result, error) {
	target, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	return Success(map[string]interface{}{
		"exists":       p.store.Exists(sess, target),
		"is_directory": p.store.IsDirectory(sess, target),
		"is_file":      p.store.IsFile(sess, target),
	})
}

func (p *Provider) stat(sess *vfs.Session, params map[string]interface{}) (*types.Result, error) {
	target, ok := pathParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	info, err := p.store.Stat(sess, target)
	if err != nil {
		return Failure(err.Error())
	}

	content := ""
	if !info.IsDir() {
		content, _ = p.store.ReadFile(sess, target)
	}
	fi := newFileInfo(info)
	fi.MimeType = shell.DetectType(info, content)

	return Success(map[string]interface{}{"info": fi, "children": info.Children})
}

func (p *Provider) find(sess *vfs.Session, params map[string]interface{}) (*types.Result, error) {
	pattern, ok := pathParam(params, "pattern")
	if !ok {
		return Failure("pattern parameter required")
	}
	if !doublestar.ValidatePattern(pattern) {
		return Failure("invalid pattern: " + pattern)
	}
	root, ok := pathParam(params, "path")
	if !ok {
		root = "."
	}
	kind, _ := params["type"].(string)

	var matches []FileInfo
	err := p.store.Walk(sess, root, func(info vfs.Info) error {
		if (kind == "f" && info.IsDir()) || (kind == "d" && !info.IsDir()) {
			return nil
		}
		if match, _ := doublestar.Match(pattern, info.Name); match {
			matches = append(matches, newFileInfo(info))
		}
		return nil
	})
	if err != nil {
		return Failure(err.Error())
	}

	return Success(map[string]interface{}{"matches": matches, "count": len(matches)})
}
