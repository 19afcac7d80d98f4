package vfs

import (
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Persister receives a full snapshot after every mutation
type Persister interface {
	Save(snap Snapshot) error
}

// Loader supplies a previously persisted snapshot
type Loader interface {
	Load() (Snapshot, bool)
}

// Option configures a Store
type Option func(*Store)

// WithPersister sets the snapshot sink invoked after each mutation
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

// WithLogger sets the logger used for persistence failures
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now for file timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store owns the tree and implements the filesystem primitives
type Store struct {
	entries   map[string]*Entry
	persister Persister
	logger    *zap.Logger
	now       func() time.Time
}

func newStore(opts []Option) *Store {
	s := &Store{
		entries: make(map[string]*Entry),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New creates a store with the default layout
func New(opts ...Option) *Store {
	s := newStore(opts)
	s.restore(DefaultSnapshot(s.now()))
	return s
}

// NewFromSnapshot creates a store from a validated snapshot
func NewFromSnapshot(snap Snapshot, opts ...Option) (*Store, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	s := newStore(opts)
	s.restore(snap)
	return s, nil
}

// Open loads the persisted tree, falling back silently to the default layout.
// If the loader also implements Persister it is used as the persister.
func Open(loader Loader, opts ...Option) *Store {
	if p, ok := loader.(Persister); ok {
		opts = append([]Option{WithPersister(p)}, opts...)
	}
	s := newStore(opts)

	if loader != nil {
		if snap, ok := loader.Load(); ok {
			err := snap.Validate()
			if err == nil {
				s.restore(snap)
				return s
			}
			s.logger.Warn("Persisted tree rejected, using default layout", zap.Error(err))
		}
	}

	s.restore(DefaultSnapshot(s.now()))
	return s
}

func (s *Store) restore(snap Snapshot) {
	s.entries = make(map[string]*Entry, len(snap))
	for p, rec := range snap {
		s.entries[p] = &Entry{
			Kind:      rec.Kind,
			Children:  slices.Clone(rec.Children),
			Content:   rec.Content,
			CreatedAt: rec.CreatedAt,
		}
	}
}

// Snapshot returns a deep copy of the tree
func (s *Store) Snapshot() Snapshot {
	snap := make(Snapshot, len(s.entries))
	for p, e := range s.entries {
		snap[p] = EntryRecord{
			Kind:      e.Kind,
			Children:  slices.Clone(e.Children),
			Content:   e.Content,
			CreatedAt: e.CreatedAt,
		}
	}
	return snap
}

// Restore replaces the whole tree with a validated snapshot and persists it
func (s *Store) Restore(snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	s.restore(snap)
	s.persist("restore", Root)
	return nil
}

// Validate checks the tree invariants
func (s *Store) Validate() error {
	return s.Snapshot().Validate()
}

// Len returns the number of entries including root
func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) persist(op, target string) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.Snapshot()); err != nil {
		s.logger.Warn("Snapshot persist failed",
			zap.String("op", op),
			zap.String("path", target),
			zap.Error(err),
		)
	}
}

func resolveIn(sess *Session, p string) string {
	if sess == nil {
		return Resolve(p, HomePath)
	}
	return Resolve(p, sess.Cwd)
}

// Exists reports whether the path is present
func (s *Store) Exists(sess *Session, p string) bool {
	_, ok := s.entries[resolveIn(sess, p)]
	return ok
}

// IsDirectory reports whether the path is a directory
func (s *Store) IsDirectory(sess *Session, p string) bool {
	e, ok := s.entries[resolveIn(sess, p)]
	return ok && e.Kind == KindDirectory
}

// IsFile reports whether the path is a file
func (s *Store) IsFile(sess *Session, p string) bool {
	e, ok := s.entries[resolveIn(sess, p)]
	return ok && e.Kind == KindFile
}

func (s *Store) parentOf(op, target string) (*Entry, error) {
	parent, ok := s.entries[Dir(target)]
	if !ok || parent.Kind != KindDirectory {
		return nil, newError(NoSuchParent, op, target)
	}
	return parent, nil
}

func (s *Store) link(parent *Entry, target string, e *Entry) {
	s.entries[target] = e
	parent.Children = append(parent.Children, Base(target))
}

// MakeDirectory creates a directory whose parent must exist
func (s *Store) MakeDirectory(sess *Session, p string) error {
	target := resolveIn(sess, p)
	if _, exists := s.entries[target]; exists {
		return newError(AlreadyExists, "mkdir", target)
	}
	parent, err := s.parentOf("mkdir", target)
	if err != nil {
		return err
	}

	s.link(parent, target, &Entry{Kind: KindDirectory, CreatedAt: s.now()})
	s.persist("mkdir", target)
	return nil
}

// create validates the parent and links an empty file without persisting
func (s *Store) create(op, target string) (*Entry, error) {
	parent, err := s.parentOf(op, target)
	if err != nil {
		return nil, err
	}
	e := &Entry{Kind: KindFile, CreatedAt: s.now()}
	s.link(parent, target, e)
	return e, nil
}

// Touch creates an empty file; an existing path is left untouched
func (s *Store) Touch(sess *Session, p string) error {
	target := resolveIn(sess, p)
	if _, exists := s.entries[target]; exists {
		return nil
	}
	if _, err := s.create("touch", target); err != nil {
		return err
	}
	s.persist("touch", target)
	return nil
}

// WriteFile sets or appends content, creating the file first when missing
func (s *Store) WriteFile(sess *Session, p, content string, appendMode bool) error {
	target := resolveIn(sess, p)
	if err := s.write(target, content, appendMode); err != nil {
		return err
	}
	s.persist("write", target)
	return nil
}

func (s *Store) write(target, content string, appendMode bool) error {
	e, exists := s.entries[target]
	if exists && e.Kind == KindDirectory {
		return newError(IsADirectory, "write", target)
	}
	if !exists {
		created, err := s.create("write", target)
		if err != nil {
			return err
		}
		e = created
	}

	if appendMode {
		e.Content += content
	} else {
		e.Content = content
	}
	return nil
}

// ReadFile returns the content of a file
func (s *Store) ReadFile(sess *Session, p string) (string, error) {
	target := resolveIn(sess, p)
	e, ok := s.entries[target]
	if !ok {
		return "", newError(NoSuchEntry, "read", target)
	}
	if e.Kind == KindDirectory {
		return "", newError(IsADirectory, "read", target)
	}
	return e.Content, nil
}

// List returns child names in insertion order. Listing a file yields its own name.
func (s *Store) List(sess *Session, p string, showHidden bool) ([]string, error) {
	target := resolveIn(sess, p)
	e, ok := s.entries[target]
	if !ok {
		return nil, newError(NoSuchEntry, "list", target)
	}
	if e.Kind == KindFile {
		return []string{Base(target)}, nil
	}

	names := make([]string, 0, len(e.Children))
	for _, name := range e.Children {
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Remove deletes an entry; directories require recursive. The session's
// working directory and its ancestors are busy.
func (s *Store) Remove(sess *Session, p string, recursive bool) error {
	target := resolveIn(sess, p)
	cwd := ""
	if sess != nil {
		cwd = sess.Cwd
	}
	if err := s.remove(target, cwd, recursive); err != nil {
		return err
	}
	s.persist("remove", target)
	return nil
}

func (s *Store) remove(target, cwd string, recursive bool) error {
	e, ok := s.entries[target]
	if !ok {
		return newError(NoSuchEntry, "remove", target)
	}
	if e.Kind == KindDirectory && !recursive {
		return newError(IsADirectory, "remove", target)
	}
	if target == Root || cwd == target || strings.HasPrefix(cwd, target+"/") {
		return newError(Busy, "remove", target)
	}

	s.removeTree(target, e)
	parent := s.entries[Dir(target)]
	parent.Children = slices.DeleteFunc(parent.Children, func(name string) bool {
		return name == Base(target)
	})
	return nil
}

// removeTree deletes target and every descendant, depth-first
func (s *Store) removeTree(target string, e *Entry) {
	for _, name := range e.Children {
		child := Join(target, name)
		if ce, ok := s.entries[child]; ok {
			s.removeTree(child, ce)
		}
	}
	delete(s.entries, target)
}

// Copy duplicates a file's content into dest; directories are refused
func (s *Store) Copy(sess *Session, src, dest string) error {
	from := resolveIn(sess, src)
	to := resolveIn(sess, dest)
	if err := s.copyFile(from, to); err != nil {
		return err
	}
	s.persist("copy", to)
	return nil
}

func (s *Store) copyFile(from, to string) error {
	e, ok := s.entries[from]
	if !ok {
		return newError(NoSuchEntry, "copy", from)
	}
	if e.Kind == KindDirectory {
		return newError(IsADirectory, "copy", from)
	}
	return s.write(to, e.Content, false)
}

// Move is Copy followed by a non-recursive Remove of the source.
// A failed copy leaves the source untouched.
func (s *Store) Move(sess *Session, src, dest string) error {
	from := resolveIn(sess, src)
	to := resolveIn(sess, dest)
	if from == to {
		e, ok := s.entries[from]
		if !ok {
			return newError(NoSuchEntry, "move", from)
		}
		if e.Kind == KindDirectory {
			return newError(IsADirectory, "move", from)
		}
		return nil
	}

	if err := s.copyFile(from, to); err != nil {
		return err
	}
	err := s.remove(from, "", false)
	s.persist("move", to)
	return err
}

// ChangeDirectory moves the session to a directory and returns its canonical path
func (s *Store) ChangeDirectory(sess *Session, p string) (string, error) {
	target := resolveIn(sess, p)
	e, ok := s.entries[target]
	if !ok {
		return "", newError(NoSuchEntry, "cd", target)
	}
	if e.Kind != KindDirectory {
		return "", newError(NotADirectory, "cd", target)
	}
	sess.Cwd = target
	return target, nil
}

// PrintWorkingDirectory returns the session's current directory verbatim
func (s *Store) PrintWorkingDirectory(sess *Session) string {
	return sess.Cwd
}

// Stat describes a single entry
func (s *Store) Stat(sess *Session, p string) (Info, error) {
	target := resolveIn(sess, p)
	e, ok := s.entries[target]
	if !ok {
		return Info{}, newError(NoSuchEntry, "stat", target)
	}
	return s.info(target, e), nil
}

func (s *Store) info(target string, e *Entry) Info {
	name := Base(target)
	if target == Root {
		name = Root
	}
	return Info{
		Name:      name,
		Path:      target,
		Kind:      e.Kind,
		Size:      int64(len(e.Content)),
		CreatedAt: e.CreatedAt,
		Children:  len(e.Children),
	}
}

// WalkFunc is called for every entry visited by Walk.
// Returning a non-nil error stops the walk.
type WalkFunc func(info Info) error

// Walk visits root and its descendants depth-first in insertion order
func (s *Store) Walk(sess *Session, p string, fn WalkFunc) error {
	target := resolveIn(sess, p)
	e, ok := s.entries[target]
	if !ok {
		return newError(NoSuchEntry, "walk", target)
	}
	return s.walk(target, e, fn)
}

func (s *Store) walk(target string, e *Entry, fn WalkFunc) error {
	if err := fn(s.info(target, e)); err != nil {
		return err
	}
	for _, name := range e.Children {
		child := Join(target, name)
		ce, ok := s.entries[child]
		if !ok {
			continue
		}
		if err := s.walk(child, ce, fn); err != nil {
			return err
		}
	}
	return nil
}
