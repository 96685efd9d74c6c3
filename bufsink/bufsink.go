// Package bufsink is an illustrative httpwire.MessageSink that
// materializes a message's headers and body into pooled, owned
// buffers instead of the caller handling the parser's borrowed,
// call-scoped slices directly. It is not part of the parser's core
// (spec.md §4.4 only specifies the callback contract, not a
// reference sink), but it is the shape most real callers reach for
// first, and it gives github.com/valyala/bytebufferpool a concrete
// home in this tree: headers and chunks routinely arrive split across
// several Feed calls, which is exactly the case a pooled growable
// buffer is for.
package bufsink

import (
	"github.com/valyala/bytebufferpool"

	"github.com/streamwire/httpwire"
)

// Header is one captured request/response header, copied out of the
// parser's borrowed slices into owned memory.
type Header struct {
	Name  []byte
	Value []byte
}

// Message is the fully materialized result of one parsed HTTP
// message. Name/Value/Body byte slices point into buf and remain
// valid until Release is called.
type Message struct {
	RequestLine  *httpwire.RequestLine
	ResponseLine *httpwire.ResponseLine
	Headers      []Header
	Framing      httpwire.BodyFraming
	Body         []byte

	buf *bytebufferpool.ByteBuffer
}

// Release returns the Message's backing buffer to the shared pool.
// The Message (and every slice it exposes) must not be used again
// afterwards.
func (m *Message) Release() {
	if m.buf != nil {
		pool.Put(m.buf)
		m.buf = nil
	}
}

var pool bytebufferpool.Pool

// Sink accumulates one message at a time into a pooled buffer and
// hands the result to Done when the message completes. Sink is
// reusable across messages on the same Parser: each completed message
// starts a fresh pooled buffer.
type Sink struct {
	Done func(*Message)

	buf     *bytebufferpool.ByteBuffer
	msg     *Message
	headers []headerSpan
}

type headerSpan struct {
	name  httpwire.Span
	value httpwire.Span
}

func (s *Sink) ensure() {
	if s.buf == nil {
		s.buf = pool.Get()
		s.buf.Reset()
		s.msg = &Message{buf: s.buf}
		s.headers = s.headers[:0]
	}
}

// OnRequestLine implements httpwire.RequestSink.
func (s *Sink) OnRequestLine(p *httpwire.Parser, rl httpwire.RequestLine) {
	s.ensure()
	method := s.copyInto(rl.Method)
	path := s.copyInto(rl.Path)
	s.msg.RequestLine = &httpwire.RequestLine{
		Method:       method,
		MethodID:     rl.MethodID,
		Path:         path,
		VersionMajor: rl.VersionMajor,
		VersionMinor: rl.VersionMinor,
	}
}

// OnResponseLine implements httpwire.ResponseSink.
func (s *Sink) OnResponseLine(p *httpwire.Parser, rl httpwire.ResponseLine) {
	s.ensure()
	reason := s.copyInto(rl.Reason)
	s.msg.ResponseLine = &httpwire.ResponseLine{
		VersionMajor: rl.VersionMajor,
		VersionMinor: rl.VersionMinor,
		StatusCode:   rl.StatusCode,
		Reason:       reason,
	}
}

// OnHeader implements httpwire.MessageSink.
func (s *Sink) OnHeader(p *httpwire.Parser, name, value []byte) {
	s.ensure()
	var hs headerSpan
	nameOff := s.buf.Len()
	s.buf.Write(name)
	hs.name.Set(nameOff, s.buf.Len())
	valueOff := s.buf.Len()
	s.buf.Write(value)
	hs.value.Set(valueOff, s.buf.Len())
	s.headers = append(s.headers, hs)
}

// OnHeadersFinished implements httpwire.MessageSink.
func (s *Sink) OnHeadersFinished(p *httpwire.Parser, framing httpwire.BodyFraming) httpwire.ExpectBody {
	s.ensure()
	s.msg.Framing = framing
	return httpwire.ExpectBodyMaybe
}

// OnChunk implements httpwire.MessageSink.
func (s *Sink) OnChunk(p *httpwire.Parser, data []byte) {
	s.ensure()
	s.buf.Write(data)
}

// OnEnd implements httpwire.MessageSink. It resolves every header and
// body span recorded against the buffer's final contents, then hands
// the Message to Done.
func (s *Sink) OnEnd(p *httpwire.Parser) {
	s.ensure()
	b := s.buf.B
	bodyStart := len(b)
	headers := make([]Header, len(s.headers))
	for i, h := range s.headers {
		headers[i] = Header{
			Name:  h.name.Get(b),
			Value: h.value.Get(b),
		}
	}
	s.msg.Headers = headers
	s.msg.Body = b[s.bodyOffset():bodyStart]

	msg := s.msg
	s.buf = nil
	s.msg = nil
	if s.Done != nil {
		s.Done(msg)
	}
}

// bodyOffset is the offset in the pooled buffer right after the last
// header span (or the first line's copied bytes, if there were no
// headers) — i.e. where body bytes started landing.
func (s *Sink) bodyOffset() int {
	if len(s.headers) == 0 {
		return s.firstLineEnd()
	}
	last := s.headers[len(s.headers)-1]
	return last.value.EndOffs()
}

func (s *Sink) firstLineEnd() int {
	if s.msg.RequestLine != nil {
		rl := s.msg.RequestLine
		return len(rl.Method) + len(rl.Path)
	}
	if s.msg.ResponseLine != nil {
		return len(s.msg.ResponseLine.Reason)
	}
	return 0
}

func (s *Sink) copyInto(b []byte) []byte {
	off := s.buf.Len()
	s.buf.Write(b)
	full := s.buf.B
	return full[off : off+len(b)]
}
