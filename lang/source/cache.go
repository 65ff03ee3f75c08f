package source

import (
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// Sentinel errors.
var (
	ErrUnknownSource = errors.New("unknown source")
	ErrReadSource    = errors.New("failed to read source")
)

// cacheCounter hands out a distinct identity to every [Cache].
var cacheCounter atomic.Uint32

// Buffer is one named source text stored in a [Cache].
type Buffer struct {
	id    ID
	label string
	text  string
	lines []int // byte offset of the first byte of each line
}

// ID returns the identifier spans use to refer to b.
func (b *Buffer) ID() ID { return b.id }

// Label returns the name b was stored under, such as a file path.
func (b *Buffer) Label() string { return b.label }

// Text returns the full source text of b.
func (b *Buffer) Text() string { return b.text }

// Span returns a span over [start, end) of b.
func (b *Buffer) Span(start, end int) Span {
	return Span{ID: b.id, Start: start, End: end}
}

// Slice returns the text covered by span, clamped to the buffer bounds.
func (b *Buffer) Slice(span Span) string {
	start := min(max(span.Start, 0), len(b.text))
	end := min(max(span.End, start), len(b.text))

	return b.text[start:end]
}

// Position returns the 1-based line and column of the byte at offset.
// Columns count runes, not bytes.
func (b *Buffer) Position(offset int) (line, col int) {
	offset = min(max(offset, 0), len(b.text))

	i := sort.Search(len(b.lines), func(i int) bool {
		return b.lines[i] > offset
	}) - 1

	return i + 1, utf8.RuneCountInString(b.text[b.lines[i]:offset]) + 1
}

// Line returns the text of the 1-based line n without its line terminator.
func (b *Buffer) Line(n int) string {
	if n < 1 || n > len(b.lines) {
		return ""
	}

	start := b.lines[n-1]
	end := len(b.text)

	if n < len(b.lines) {
		end = b.lines[n] - 1
	}

	if end > start && b.text[end-1] == '\r' {
		end--
	}

	return b.text[start:end]
}

// LineStart returns the byte offset of the 1-based line n.
func (b *Buffer) LineStart(n int) int {
	if n < 1 || n > len(b.lines) {
		return len(b.text)
	}

	return b.lines[n-1]
}

func indexLines(text string) []int {
	lines := []int{0}

	for i := range len(text) {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}

	return lines
}

// Cache owns every source text a session parses, so that spans stay
// resolvable for diagnostics after parsing is done.
//
// Storing the same label and text twice returns the existing buffer.
// A Cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	id      uint32
	buffers []*Buffer
	index   map[uint64][]int
}

// NewCache returns an empty cache with a process-unique identity.
func NewCache() *Cache {
	return &Cache{
		id:    cacheCounter.Add(1),
		index: make(map[uint64][]int),
	}
}

// Store adds text under label and returns its buffer.
func (c *Cache) Store(label, text string) *Buffer {
	sum := xxh3.HashString(label + "\x00" + text)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, i := range c.index[sum] {
		if b := c.buffers[i]; b.label == label && b.text == text {
			return b
		}
	}

	b := &Buffer{
		id:    makeID(c.id, uint32(len(c.buffers))),
		label: label,
		text:  text,
		lines: indexLines(text),
	}

	c.index[sum] = append(c.index[sum], len(c.buffers))
	c.buffers = append(c.buffers, b)

	return b
}

// ReadFrom reads all of r with read-ahead and stores it under label.
func (c *Cache) ReadFrom(label string, r io.Reader) (*Buffer, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, &readError{label: label, err: err}
	}

	return c.Store(label, string(data)), nil
}

// Load returns the buffer identified by id.
func (c *Cache) Load(id ID) (*Buffer, error) {
	if id.Cache() != c.id {
		return nil, ErrUnknownSource
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if int(id.Index()) >= len(c.buffers) {
		return nil, ErrUnknownSource
	}

	return c.buffers[id.Index()], nil
}

// Len returns the number of distinct buffers held by c.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.buffers)
}

type readError struct {
	label string
	err   error
}

func (e *readError) Error() string {
	return ErrReadSource.Error() + ": " + e.label + ": " + e.err.Error()
}

func (e *readError) Unwrap() []error { return []error{ErrReadSource, e.err} }

func (e *readError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrReadSource.Error()),
		slog.String("source", e.label),
		slog.String("cause", e.err.Error()),
	)
}
