package httpwire

// sink.go defines the callback contract a caller implements to
// receive parse events (spec.md §4.4). intuitivelabs-httpsp has no
// direct analogue for this: it mutates a caller-supplied struct in
// place rather than calling back into one, so the interface shape and
// its doc comments are original, written in the register the rest of
// this package uses.

// ExpectBody is returned from OnHeadersFinished to tell the parser
// whether a body should be expected at all, independent of what
// framing the headers described. A HEAD response or a 204/304 never
// has a body even when it carries a Content-Length; only the sink
// knows the method of the request this response answers, so the
// parser asks rather than guesses.
type ExpectBody uint8

const (
	// ExpectBodyMaybe lets the parser's own framing classification
	// decide (the common case).
	ExpectBodyMaybe ExpectBody = iota
	// ExpectBodyNo forces no body regardless of framing headers.
	ExpectBodyNo
)

// MessageSink receives the events common to both requests and
// responses. Every method is passed the Parser that invoked it, so a
// sink can inspect in-progress state (ID, Framing) without the Parser
// having to duplicate it into each callback's arguments.
type MessageSink interface {
	// OnHeader is called once per header line, in wire order,
	// including any chunked-trailer headers. name and value are
	// borrowed from the buffer passed to Feed and are only valid for
	// the duration of the call.
	OnHeader(p *Parser, name, value []byte)

	// OnHeadersFinished is called once the blank line ending the
	// header block has been consumed. The returned ExpectBody
	// overrides the parser's own body-presence rules when it is not
	// ExpectBodyMaybe.
	OnHeadersFinished(p *Parser, framing BodyFraming) ExpectBody

	// OnChunk delivers one fragment of the body, in wire order. A
	// single logical chunk (or the whole body, for Content-Length
	// framing) may be split across several calls; it is never
	// reassembled. data is borrowed and only valid for the duration
	// of the call.
	OnChunk(p *Parser, data []byte)

	// OnEnd is called once the message is complete (or, for a
	// close-delimited body, once StreamClosed has promoted it to
	// complete).
	OnEnd(p *Parser)
}

// RequestSink is the sink a Parser constructed with ModeRequest
// requires.
type RequestSink interface {
	MessageSink
	// OnRequestLine is called once, before any OnHeader call, with
	// the decoded request line.
	OnRequestLine(p *Parser, rl RequestLine)
}

// ResponseSink is the sink a Parser constructed with ModeResponse
// requires.
type ResponseSink interface {
	MessageSink
	// OnResponseLine is called once, before any OnHeader call, with
	// the decoded response line.
	OnResponseLine(p *Parser, rl ResponseLine)
}
