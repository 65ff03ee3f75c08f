package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/boba/lang"
	"github.com/ardnew/boba/lang/engine"
	"github.com/ardnew/boba/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	streamsKey  struct{}
	settingsKey struct{}
	sourcesKey  struct{}
)

// Streams are the standard streams a command reads programs from and writes
// results and diagnostics to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context whose commands use s instead of
// the process's standard streams. Nil fields keep their default.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// Settings are the global flags that shape every session a command starts.
type Settings struct {
	// Precision is the number of significant digits for float arithmetic.
	// Zero keeps the engine default.
	Precision uint32
	// MaxDepth limits nested function calls. Zero keeps the engine default.
	MaxDepth int
	// Color enables styled diagnostics and REPL output.
	Color bool
	// CacheDir holds transient files such as the REPL history.
	CacheDir string
	// Logger receives trace events from the interpreter.
	Logger log.Logger
}

// WithSettings returns a new context.Context carrying s.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFrom(ctx context.Context) Settings {
	s, _ := ctx.Value(settingsKey{}).(Settings)

	return s
}

// newSession returns a session configured from the settings and streams in
// ctx, after running every source file stored by [WithSourceFiles].
func newSession(ctx context.Context) (*lang.Session, error) {
	settings := settingsFrom(ctx)
	streams := streamsFrom(ctx)

	engineOpts := []engine.Option{
		engine.WithContext(ctx),
		engine.WithOutput(streams.Out),
	}
	if settings.Precision > 0 {
		engineOpts = append(engineOpts, engine.WithPrecision(settings.Precision))
	}

	if settings.MaxDepth > 0 {
		engineOpts = append(engineOpts, engine.WithMaxDepth(settings.MaxDepth))
	}

	s := lang.NewSession(
		lang.WithLogger(settings.Logger),
		lang.WithEngine(engineOpts...),
	)

	for _, src := range sourceFilesFrom(ctx) {
		if err := execSource(ctx, s, src); err != nil {
			return s, err
		}
	}

	return s, nil
}

// execSource runs one source file in s.
func execSource(ctx context.Context, s *lang.Session, src SourceFile) error {
	r, err := src.Open(streamsFrom(ctx).In)
	if err != nil {
		return ErrOpenSource.Wrap(err).With(sourceAttr(src.Name))
	}
	defer r.Close()

	_, err = s.ExecReader(ctx, src.Name, r)

	return err
}

// report renders err as a diagnostic on the error stream. Program errors are
// replaced by [ErrProgram] once rendered so the caller exits non-zero
// without logging them a second time.
func report(ctx context.Context, s *lang.Session, err error) error {
	if err == nil {
		return nil
	}

	if werr := s.Report(streamsFrom(ctx).Err, err, settingsFrom(ctx).Color); werr != nil {
		return werr
	}

	return ErrProgram
}

// SourceFile names one program text: a path on disk, or stdin.
type SourceFile struct {
	// Name labels the text in diagnostics.
	Name string

	path string
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinLabel names stdin in diagnostics.
const stdinLabel = "<stdin>"

// IsStdin reports whether f reads from standard input.
func (f SourceFile) IsStdin() bool { return f.path == stdinSource }

// Open returns a reader over the text of f. Stdin sources read from stdin,
// which is never closed.
func (f SourceFile) Open(stdin io.Reader) (io.ReadCloser, error) {
	if f.IsStdin() {
		return io.NopCloser(stdin), nil
	}

	return os.Open(f.path)
}

// SourceFiles is an ordered list of program texts.
type SourceFiles []SourceFile

// IsZero reports whether there are no source files.
func (s SourceFiles) IsZero() bool { return len(s) == 0 }

// HasStdin reports whether stdin is one of the sources.
func (s SourceFiles) HasStdin() bool {
	return len(s) > 0 && s[len(s)-1].IsStdin()
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// WithSourceFiles returns a new context.Context containing the source files
// every command runs before doing its own work.
//
// The function deduplicates files by resolving symlinks and comparing device/
// inode pairs. All occurrences of "-" are replaced with a single stdin source.
// The stdin source is placed last so it runs after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourcesKey{}, buildSourceFiles(sources))
}

// buildSourceFiles constructs a SourceFiles from the given source paths.
// Files that cannot be resolved are skipped.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	srcs := make(SourceFiles, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		path, ok := uniquePath(src, seen)
		if !ok {
			continue
		}

		srcs = append(srcs, SourceFile{Name: src, path: path})
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	if _, ok := seen[stdinKey]; ok {
		srcs = append(srcs, SourceFile{Name: stdinLabel, path: stdinSource})
	}

	if len(srcs) == 0 {
		return nil
	}

	return srcs
}

// uniquePath resolves path if its file hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the resolved path and true if successful, or false if the file
// is a duplicate or cannot be resolved.
func uniquePath(path string, seen map[fileKey]struct{}) (string, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", false
	}

	if _, exists := seen[key]; exists {
		return "", false
	}

	seen[key] = struct{}{}

	return resolved, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the source files stored in ctx by
// WithSourceFiles. Returns nil if none were stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	s, _ := ctx.Value(sourcesKey{}).(SourceFiles)

	return s
}
