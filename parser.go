package httpwire

import "github.com/google/uuid"

// parser.go drives the phase state machine described in spec.md §4.3:
// FirstLine -> Header -> HeaderTerminator -> Body -> Complete, with
// Body itself stepping through one of LengthRemaining, the three
// chunked sub-phases, EofDrain or Empty depending on the resolved
// framing. Grounded on the ParseMsg/SkipBody pair in parse_msg.go for
// the overall message loop and on the two-phase chunk-size/chunk-data
// alternation in parse_chunk.go, but rebuilt around Feed's "retry the
// still-incomplete recognizer from its own start" contract instead of
// an ever-growing, never-reset buffer: since every Feed call is handed
// exactly what remains
// unconsumed, a phase that returns Incomplete needs no byte-level
// resume position of its own, only the enclosing phase/sub-phase
// enum, which is what actually persists here across calls.

// Mode selects which first-line grammar and which sink interface a
// Parser requires.
type Mode uint8

const (
	ModeRequest Mode = iota
	ModeResponse
)

func (m Mode) String() string {
	if m == ModeRequest {
		return "request"
	}
	return "response"
}

type phase uint8

const (
	phaseFirstLine phase = iota
	phaseHeader
	phaseHeaderTerminator
	phaseBody
	phaseComplete
)

type bodyPhase uint8

const (
	bodyEmpty bodyPhase = iota
	bodyLengthRemaining
	bodyChunkHeader
	bodyChunkData
	bodyChunkTrailer
	bodyEofDrain
)

// Parser is an incremental HTTP/1.x message parser. It holds no
// network connection and performs no I/O; the caller owns reading
// bytes from the wire and calling Feed with them. A Parser is not
// safe for concurrent use — each one tracks the state of a single
// sequential byte stream, matching spec.md §5's single-threaded,
// one-parser-per-connection model.
type Parser struct {
	mode Mode

	id    uuid.UUID
	idSet bool

	logger  *zapLogger
	metrics *Metrics

	maxHeaderBytes int

	phase               phase
	bodyPh              bodyPhase
	framingSt           framingState
	bodyRemaining       uint64
	chunkedTrailersNext bool
	expectBody          ExpectBody
	headerBytesSeen     int
	streamClosed        bool
}

// ParserOption configures a Parser at construction time.
type ParserOption func(*Parser)

// WithLogger attaches a structured logger a Parser uses for
// diagnostic events (message boundaries, taxonomy errors). Parsing
// never depends on it being set.
func WithLogger(l *zapLogger) ParserOption {
	return func(p *Parser) { p.logger = l }
}

// WithMetrics attaches shared instrumentation. Pass the same *Metrics
// to every Parser in a process to get process-wide counters.
func WithMetrics(m *Metrics) ParserOption {
	return func(p *Parser) { p.metrics = m }
}

// WithMaxHeaderBytes bounds the total size of one message's header
// block (request/response/trailer lines, including line terminators).
// Zero, the default, means unbounded. Exceeding the bound surfaces as
// ErrHeaderTooLarge.
func WithMaxHeaderBytes(n int) ParserOption {
	return func(p *Parser) { p.maxHeaderBytes = n }
}

// WithID assigns a fixed identifier to a Parser instead of the
// lazily-generated random one, useful when correlating parser
// instances with an externally-assigned connection id.
func WithID(id uuid.UUID) ParserOption {
	return func(p *Parser) { p.id = id; p.idSet = true }
}

// NewParser constructs a Parser for the given Mode, ready to Feed the
// start of a new message.
func NewParser(mode Mode, opts ...ParserOption) *Parser {
	p := &Parser{mode: mode}
	p.resetForNextMessage()
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the parser's identifier, generating a random one on
// first use if WithID was not supplied.
func (p *Parser) ID() uuid.UUID {
	if !p.idSet {
		p.id = uuid.New()
		p.idSet = true
	}
	return p.id
}

// Mode returns the Parser's configured Mode.
func (p *Parser) Mode() Mode { return p.mode }

// Framing returns the body-framing discipline resolved for the
// message currently in progress (or the last message, once Complete).
func (p *Parser) Framing() BodyFraming { return p.framingSt.framing }

// StreamClosed tells the parser the underlying connection has been
// closed by the peer, with no further bytes coming. For a message
// framed as close-delimited (the response-only fallback when no
// Content-Length or Transfer-Encoding is present), this is the only
// way to observe completion: the parser cannot otherwise distinguish
// "body not yet finished" from "this is the whole body". Calling it
// while no close-delimited body is in progress emits nothing; in every
// case it marks the parser closed (see Closed).
func (p *Parser) StreamClosed(sink MessageSink) {
	if p.phase == phaseBody && p.bodyPh == bodyEofDrain {
		p.observeMessage()
		sink.OnEnd(p)
		p.resetForNextMessage()
	}
	p.streamClosed = true
}

// Closed reports whether StreamClosed has been called on this Parser.
func (p *Parser) Closed() bool { return p.streamClosed }

func defaultFraming(mode Mode) BodyFraming {
	if mode == ModeResponse {
		return BodyFraming{Kind: FramingCloseDelimited}
	}
	return BodyFraming{Kind: FramingNone}
}

func (p *Parser) resetForNextMessage() {
	p.phase = phaseFirstLine
	p.bodyPh = bodyEmpty
	p.framingSt = framingState{framing: defaultFraming(p.mode)}
	p.bodyRemaining = 0
	p.chunkedTrailersNext = false
	p.expectBody = ExpectBodyMaybe
	p.headerBytesSeen = 0
}

// Feed advances the state machine with the next fragment of the byte
// stream and returns whatever suffix of buf was not consumed. The
// caller is responsible for prepending that suffix to the next
// fragment before calling Feed again; the parser never retains a
// reference to buf beyond the call (every callback's slices are only
// valid for the duration of the call they arrive in).
//
// A non-nil error wraps a taxonomy *Error (retrieve it with
// errors.As): the stream is poisoned and
// must not be fed further. Reaching the end of buf mid-message is not
// an error; Feed simply returns the unconsumed tail and nil.
func (p *Parser) Feed(sink MessageSink, buf []byte) ([]byte, error) {
	p.checkSink(sink)

	for {
		switch p.phase {
		case phaseFirstLine:
			consumed, err := p.doFirstLine(sink, buf)
			if err != nil {
				if isIncomplete(err) {
					return buf, nil
				}
				p.observeError(err)
				return buf, err
			}
			buf = buf[consumed:]
			p.phase = phaseHeader

		case phaseHeader:
			consumed, err := p.doHeaderLoop(sink, buf)
			buf = buf[consumed:]
			if err != nil {
				if isIncomplete(err) {
					return buf, nil
				}
				p.observeError(err)
				return buf, err
			}
			p.phase = phaseHeaderTerminator

		case phaseHeaderTerminator:
			consumed, err := parseBlankLine(buf)
			if err != nil {
				if isIncomplete(err) {
					return buf, nil
				}
				werr := newError(ErrBadHeader, 0, err)
				p.observeError(werr)
				return buf, werr
			}
			buf = buf[consumed:]
			if p.chunkedTrailersNext {
				p.chunkedTrailersNext = false
				p.phase = phaseComplete
			} else {
				p.expectBody = sink.OnHeadersFinished(p, p.framingSt.framing)
				p.bodyPh = p.initialBodyPhase()
				p.phase = phaseBody
			}

		case phaseBody:
			done, consumed, err := p.stepBody(sink, buf)
			buf = buf[consumed:]
			if err != nil {
				if isIncomplete(err) {
					return buf, nil
				}
				p.observeError(err)
				return buf, err
			}
			if p.bodyPh == bodyEofDrain && !done {
				// Every available byte was handed to the sink; there
				// is nothing left to retry from, and completion can
				// only come from an explicit StreamClosed call.
				return buf, nil
			}
			if done {
				p.phase = phaseComplete
			}

		case phaseComplete:
			p.observeMessage()
			sink.OnEnd(p)
			p.resetForNextMessage()
			if len(buf) == 0 {
				return buf, nil
			}
			// Fall through to parse a pipelined message immediately
			// following this one in the same buffer.
		}
	}
}

func (p *Parser) checkSink(sink MessageSink) {
	switch p.mode {
	case ModeRequest:
		if _, ok := sink.(RequestSink); !ok {
			panic("httpwire: Feed called in ModeRequest with a sink that does not implement RequestSink")
		}
	case ModeResponse:
		if _, ok := sink.(ResponseSink); !ok {
			panic("httpwire: Feed called in ModeResponse with a sink that does not implement ResponseSink")
		}
	}
}

func (p *Parser) doFirstLine(sink MessageSink, buf []byte) (int, error) {
	switch p.mode {
	case ModeRequest:
		consumed, rl, err := parseRequestLine(buf)
		if err != nil {
			if isIncomplete(err) {
				return 0, err
			}
			return 0, newError(ErrBadFirstLine, 0, err)
		}
		sink.(RequestSink).OnRequestLine(p, rl)
		return consumed, nil
	default:
		consumed, rl, err := parseResponseLine(buf)
		if err != nil {
			if isIncomplete(err) {
				return 0, err
			}
			return 0, newError(ErrBadFirstLine, 0, err)
		}
		sink.(ResponseSink).OnResponseLine(p, rl)
		return consumed, nil
	}
}

// doHeaderLoop applies the header recognizer repeatedly until it
// signals "not a header" (errBadChar), meaning the blank line that
// ends the block is next. Trailer headers (chunkedTrailersNext) are
// delivered to the sink the same as regular headers but are not fed
// to the framing classifier, since Transfer-Encoding/Content-Length
// in a trailer carries no framing meaning.
func (p *Parser) doHeaderLoop(sink MessageSink, buf []byte) (int, error) {
	pos := 0
	for {
		consumed, name, value, err := parseHeaderLine(buf[pos:])
		if err != nil {
			if err == errBadChar {
				return pos, nil
			}
			if isIncomplete(err) && p.maxHeaderBytes > 0 && p.headerBytesSeen+len(buf)-pos > p.maxHeaderBytes {
				return pos, newError(ErrHeaderTooLarge, pos, nil)
			}
			return pos, err
		}

		sink.OnHeader(p, name, value)
		if !p.chunkedTrailersNext {
			if cerr := p.framingSt.observe(name, value); cerr != nil {
				return pos, cerr
			}
		}

		pos += consumed
		p.headerBytesSeen += consumed
		if p.maxHeaderBytes > 0 && p.headerBytesSeen > p.maxHeaderBytes {
			return pos, newError(ErrHeaderTooLarge, pos, nil)
		}
	}
}

func (p *Parser) initialBodyPhase() bodyPhase {
	if p.expectBody == ExpectBodyNo {
		return bodyEmpty
	}
	switch p.framingSt.framing.Kind {
	case FramingChunked:
		return bodyChunkHeader
	case FramingContentLength:
		if p.framingSt.framing.ContentLength == 0 {
			return bodyEmpty
		}
		p.bodyRemaining = p.framingSt.framing.ContentLength
		return bodyLengthRemaining
	case FramingCloseDelimited:
		return bodyEofDrain
	default:
		return bodyEmpty
	}
}

// stepBody advances one body sub-phase. done reports whether the
// message's body phase as a whole is finished (ready for Complete).
func (p *Parser) stepBody(sink MessageSink, buf []byte) (bool, int, error) {
	switch p.bodyPh {
	case bodyEmpty:
		return true, 0, nil

	case bodyLengthRemaining:
		consumed, needMore := p.consumeBody(sink, buf)
		if !needMore {
			return true, consumed, nil
		}
		return false, consumed, errIncomplete{}

	case bodyChunkHeader:
		consumed, ch, err := parseChunkHeader(buf)
		if err != nil {
			if isIncomplete(err) {
				return false, 0, err
			}
			return false, 0, newError(ErrBadBodyChunkHeader, 0, err)
		}
		if ch.Size > 0 {
			p.bodyRemaining = ch.Size
			p.bodyPh = bodyChunkData
		} else {
			p.chunkedTrailersNext = true
			p.phase = phaseHeader
		}
		return false, consumed, nil

	case bodyChunkData:
		consumed, needMore := p.consumeBody(sink, buf)
		if needMore {
			return false, consumed, errIncomplete{}
		}
		p.bodyPh = bodyChunkTrailer
		return false, consumed, nil

	case bodyChunkTrailer:
		consumed, err := skipChunkDataTrailer(buf)
		if err != nil {
			if isIncomplete(err) {
				return false, 0, err
			}
			return false, 0, newError(ErrBadBodyChunkHeader, 0, err)
		}
		p.bodyPh = bodyChunkHeader
		return false, consumed, nil

	case bodyEofDrain:
		if len(buf) == 0 {
			return false, 0, nil
		}
		sink.OnChunk(p, buf)
		p.observeChunk(len(buf))
		return false, len(buf), nil
	}
	return true, 0, nil
}

// consumeBody hands as much of buf as is available (up to
// p.bodyRemaining) to the sink. needMore reports whether
// p.bodyRemaining is still above zero afterwards.
func (p *Parser) consumeBody(sink MessageSink, buf []byte) (int, bool) {
	take := p.bodyRemaining
	if uint64(len(buf)) < take {
		take = uint64(len(buf))
	}
	if take > 0 {
		sink.OnChunk(p, buf[:take])
		p.observeChunk(int(take))
	}
	p.bodyRemaining -= take
	return int(take), p.bodyRemaining > 0
}

// skipChunkDataTrailer consumes the CRLF that follows a chunk's data.
func skipChunkDataTrailer(buf []byte) (int, error) {
	end, _, err := skipCRLF(buf, 0)
	if err != nil {
		return 0, err
	}
	return end, nil
}
