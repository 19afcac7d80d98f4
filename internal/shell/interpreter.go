package shell

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webos/internal/vfs"
)

// ClearScreen is the ANSI sequence returned by clear
const ClearScreen = "\033[H\033[2J"

// Editor opens a file in an external editing surface
type Editor interface {
	Open(path string) error
}

// Observer is notified once per executed command
type Observer func(verb string, failed bool, duration time.Duration)

// Option configures an Interpreter
type Option func(*Interpreter)

// WithProfile sets the identity reported by system commands
func WithProfile(p SystemProfile) Option {
	return func(i *Interpreter) {
		i.profile = p
	}
}

// WithEditor attaches the collaborator used by nano, vim and vi
func WithEditor(e Editor) Option {
	return func(i *Interpreter) {
		i.editor = e
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) {
		if now != nil {
			i.now = now
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithObserver registers a metrics hook
func WithObserver(obs Observer) Option {
	return func(i *Interpreter) {
		i.observer = obs
	}
}

// Interpreter dispatches command lines onto a store
type Interpreter struct {
	store    *vfs.Store
	session  *vfs.Session
	profile  SystemProfile
	editor   Editor
	now      func() time.Time
	started  time.Time
	logger   *zap.Logger
	observer Observer
}

// New creates an interpreter bound to a store and a session
func New(store *vfs.Store, sess *vfs.Session, opts ...Option) *Interpreter {
	if sess == nil {
		sess = vfs.NewSession(vfs.HomePath)
	}
	i := &Interpreter{
		store:   store,
		session: sess,
		profile: DefaultProfile(),
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.started = i.now()
	return i
}

// Session returns the session the interpreter mutates
func (i *Interpreter) Session() *vfs.Session {
	return i.session
}

// Profile returns the system identity
func (i *Interpreter) Profile() SystemProfile {
	return i.profile
}

// Prompt renders the prompt for the current directory
func (i *Interpreter) Prompt() string {
	return Prompt(i.profile, i.session)
}

// call carries one invocation through a handler
type call struct {
	*Interpreter
	verb   string
	args   []string
	raw    string
	failed bool
}

func (c *call) fail(err error) string {
	c.failed = true
	return c.verb + ": " + err.Error()
}

func (c *call) failf(format string, args ...any) string {
	c.failed = true
	return c.verb + ": " + fmt.Sprintf(format, args...)
}

// flags returns a quiet flag set named after the verb
func (c *call) flags() *flag.FlagSet {
	fs := flag.NewFlagSet(c.verb, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses c.args into fs and renders a parse failure
func (c *call) parse(fs *flag.FlagSet) (string, bool) {
	err := fs.Parse(c.args)
	if err == nil {
		return "", true
	}
	if errors.Is(err, flag.ErrHelp) {
		return "usage: " + commands[c.verb].usage, false
	}
	return c.fail(err), false
}

type command struct {
	usage   string
	summary string
	run     func(c *call) string
}

// commands is the dispatch table; aliases share handlers
var commands map[string]command

func init() {
	commands = map[string]command{
		"help":    {"help", "list available commands", runHelp},
		"clear":   {"clear", "clear the terminal screen", runClear},
		"ls":      {"ls [-a] [-l] [path]", "list directory contents", runLs},
		"dir":     {"dir [-a] [-l] [path]", "list directory contents", runLs},
		"cd":      {"cd [path]", "change the working directory", runCd},
		"pwd":     {"pwd", "print the working directory", runPwd},
		"mkdir":   {"mkdir [-p] <path>...", "create directories", runMkdir},
		"touch":   {"touch <path>...", "create empty files", runTouch},
		"rm":      {"rm [-r] [-f] <path>...", "remove files or directories", runRm},
		"cp":      {"cp <src> <dest>", "copy a file", runCp},
		"mv":      {"mv <src> <dest>", "move a file", runMv},
		"cat":     {"cat <path>...", "print file contents", runCat},
		"nano":    {"nano <path>", "edit a file", runEdit},
		"vim":     {"vim <path>", "edit a file", runEdit},
		"vi":      {"vi <path>", "edit a file", runEdit},
		"echo":    {"echo <text> [> file | >> file]", "print text or write it to a file", runEcho},
		"grep":    {"grep [-i] [-n] <pattern> <path>...", "print lines containing a pattern", runGrep},
		"wc":      {"wc <path>...", "count lines, words and characters", runWc},
		"head":    {"head [-n N] <path>", "print the first lines of a file", runHead},
		"tail":    {"tail [-n N] <path>", "print the last lines of a file", runTail},
		"find":    {"find [path] [-name glob] [-type f|d]", "search for entries", runFind},
		"file":    {"file <path>...", "determine content type", runFile},
		"whoami":  {"whoami", "print the current user", runWhoami},
		"uname":   {"uname [-a]", "print system information", runUname},
		"date":    {"date", "print the current date and time", runDate},
		"uptime":  {"uptime", "show how long the system has been running", runUptime},
		"ps":      {"ps", "list processes", runPs},
		"top":     {"top", "show system summary", runTop},
		"df":      {"df", "report filesystem usage", runDf},
		"free":    {"free", "report memory usage", runFree},
		"ping":    {"ping <host>", "send a simulated echo request", runPing},
		"curl":    {"curl <url>", "simulated HTTP request", runFetch},
		"wget":    {"wget <url>", "simulated HTTP download", runFetch},
		"history": {"history", "command history", runHistory},
		"export":  {"export [NAME=value]", "list environment variables", runExport},
	}
}

// Commands returns every verb in the dispatch table, sorted
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs one command line and returns its rendered output
func (i *Interpreter) Execute(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	verb := strings.ToLower(fields[0])
	cmd, ok := commands[verb]
	if !ok {
		i.record("unknown", true, 0)
		return fmt.Sprintf("%s: %s", fields[0], ErrUnknownCommand)
	}

	start := i.now()
	c := &call{
		Interpreter: i,
		verb:        verb,
		args:        fields[1:],
		raw:         strings.TrimSpace(line),
	}
	out := cmd.run(c)
	i.record(verb, c.failed, i.now().Sub(start))
	return out
}

func (i *Interpreter) record(verb string, failed bool, d time.Duration) {
	if failed {
		i.logger.Debug("Shell command failed", zap.String("command", verb), zap.String("cwd", i.session.Cwd))
	}
	if i.observer != nil {
		i.observer(verb, failed, d)
	}
}

func runHelp(c *call) string {
	var b strings.Builder
	b.WriteString("Available commands:")
	for _, name := range Commands() {
		cmd := commands[name]
		fmt.Fprintf(&b, "\n  %-40s %s", cmd.usage, cmd.summary)
	}
	return b.String()
}

func runClear(c *call) string {
	return ClearScreen
}

func runHistory(c *call) string {
	return c.failf("not implemented")
}
