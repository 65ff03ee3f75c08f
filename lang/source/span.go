package source

import "strconv"

// ID identifies one buffer held by a [Cache].
//
// The upper 32 bits carry the owning cache's identity and the lower 32 bits
// carry the buffer's index within that cache, so an ID handed out by one
// cache is never mistaken for a buffer of another.
type ID uint64

func makeID(cache, index uint32) ID { return ID(cache)<<32 | ID(index) }

// Cache returns the identity of the cache that issued id.
func (id ID) Cache() uint32 { return uint32(id >> 32) }

// Index returns the buffer index of id within its cache.
func (id ID) Index() uint32 { return uint32(id) }

// Span annotates a syntax element with the half-open byte range
// [Start, End) it covers in the buffer identified by ID.
type Span struct {
	ID    ID
	Start int
	End   int
}

// Union returns the smallest span covering both s and o.
// The result keeps the ID of s.
func (s Span) Union(o Span) Span {
	return Span{
		ID:    s.ID,
		Start: min(s.Start, o.Start),
		End:   max(s.End, o.End),
	}
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End - s.Start }

// IsEmpty reports whether s covers no bytes.
func (s Span) IsEmpty() bool { return s.End <= s.Start }

func (s Span) String() string {
	return strconv.Itoa(s.Start) + ".." + strconv.Itoa(s.End)
}
