package httpwire

import "github.com/intuitivelabs/bytescase"

// framing.go classifies a message's body-framing discipline from the
// Content-Length/Transfer-Encoding headers seen so far. Grounded on
// the BodyType classifier in parse_msg.go and the Transfer-Encoding
// value walk in TrEncResolve (parse_tr_enc.go), generalized to the
// four-way FramingKind model spec.md §3 defines and to the ordering
// resolution SPEC_FULL.md §9 settles on.

// FramingKind identifies which of the three body-framing disciplines
// a message uses, or that none applies.
type FramingKind uint8

const (
	FramingNone FramingKind = iota
	FramingContentLength
	FramingChunked
	FramingCloseDelimited
)

func (k FramingKind) String() string {
	switch k {
	case FramingNone:
		return "none"
	case FramingContentLength:
		return "content-length"
	case FramingChunked:
		return "chunked"
	case FramingCloseDelimited:
		return "close-delimited"
	default:
		return "unknown"
	}
}

// BodyFraming is the resolved framing discipline for a message.
type BodyFraming struct {
	Kind          FramingKind
	ContentLength uint64 // meaningful only when Kind == FramingContentLength
}

var (
	hdrContentLength    = []byte("content-length")
	hdrTransferEncoding = []byte("transfer-encoding")
	teChunked           = []byte("chunked")
)

// framingState accumulates the per-message framing decision as
// headers stream in.
type framingState struct {
	framing           BodyFraming
	haveContentLength bool
	haveChunked       bool
}

// observe updates st from one header. It returns a taxonomy error
// when the header's value is unusable (a malformed Content-Length, an
// unrecognized Transfer-Encoding coding, or a framing-header ordering
// spec.md/SPEC_FULL.md treat as a hard conflict).
func (st *framingState) observe(name, value []byte) error {
	switch {
	case bytescase.CmpEq(name, hdrTransferEncoding):
		if !bytescase.CmpEq(value, teChunked) {
			return newError(ErrBadHeaderValue, 0, ErrUnrecognizedTransferEncoding)
		}
		if st.haveContentLength {
			return newError(ErrConflictingFraming, 0, nil)
		}
		st.haveChunked = true
		st.framing = BodyFraming{Kind: FramingChunked}

	case bytescase.CmpEq(name, hdrContentLength):
		n, err := decBufToInt(value)
		if err != nil {
			return newError(ErrBadHeaderValue, 0, err)
		}
		st.haveContentLength = true
		if st.haveChunked {
			// Transfer-Encoding already settled the framing; a
			// Content-Length arriving afterwards is informational
			// only and does not override it.
			return nil
		}
		st.framing = BodyFraming{Kind: FramingContentLength, ContentLength: n}
	}
	return nil
}
