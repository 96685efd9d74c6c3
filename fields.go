package httpwire

// OffsT is the type used for offsets and lengths inside a Span.
// uint32 keeps a Span at 8 bytes while comfortably covering any
// message a streaming parser should hold resident at once. Span is
// the borrowed-slice bookkeeping bufsink.Sink uses to record header
// name/value positions against its pooled buffer before the buffer's
// final contents are known.
type OffsT uint32

// Span is a borrowed byte range: an offset and a length inside some
// buffer supplied by the caller. Spans never own memory; Get must be
// called with the same (or a compatible) buffer the Span was produced
// against.
type Span struct {
	Offs OffsT
	Len  OffsT
}

// Set points the span at buf[start:end).
func (s *Span) Set(start, end int) {
	if end < start {
		panic("httpwire: invalid span range")
	}
	s.Offs = OffsT(start)
	s.Len = OffsT(end - start)
}

// Reset clears the span to empty.
func (s *Span) Reset() {
	*s = Span{}
}

// Extend grows the span so it ends at newEnd, keeping Offs fixed.
func (s *Span) Extend(newEnd int) {
	if newEnd < int(s.Offs) {
		panic("httpwire: invalid span extension")
	}
	s.Len = OffsT(newEnd) - s.Offs
}

// Empty reports whether the span has zero length.
func (s Span) Empty() bool {
	return s.Len == 0
}

// EndOffs returns the offset one past the end of the span.
func (s Span) EndOffs() int {
	return int(s.Offs) + int(s.Len)
}

// Get returns the byte slice buf[s.Offs : s.Offs+s.Len].
func (s Span) Get(buf []byte) []byte {
	return buf[s.Offs : s.Offs+s.Len]
}
