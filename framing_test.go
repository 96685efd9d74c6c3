package httpwire

import (
	"errors"
	"testing"
)

func TestFramingStateContentLength(t *testing.T) {
	var st framingState
	if err := st.observe([]byte("Content-Length"), []byte("42")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.framing.Kind != FramingContentLength || st.framing.ContentLength != 42 {
		t.Fatalf("got %+v", st.framing)
	}
}

func TestFramingStateChunked(t *testing.T) {
	var st framingState
	if err := st.observe([]byte("Transfer-Encoding"), []byte("chunked")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.framing.Kind != FramingChunked {
		t.Fatalf("got %+v", st.framing)
	}
}

func TestFramingStateCaseInsensitive(t *testing.T) {
	var st framingState
	if err := st.observe([]byte("TRANSFER-ENCODING"), []byte("CHUNKED")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.framing.Kind != FramingChunked {
		t.Fatalf("got %+v", st.framing)
	}
}

func TestFramingStateUnrecognizedTransferEncoding(t *testing.T) {
	var st framingState
	err := st.observe([]byte("Transfer-Encoding"), []byte("gzip"))
	var werr *Error
	if err == nil {
		t.Fatal("want error")
	}
	if !errors.As(err, &werr) || werr.Kind != ErrBadHeaderValue {
		t.Fatalf("got %v", err)
	}
}

func TestFramingStateBadContentLength(t *testing.T) {
	var st framingState
	err := st.observe([]byte("Content-Length"), []byte("not-a-number"))
	var werr *Error
	if !errors.As(err, &werr) || werr.Kind != ErrBadHeaderValue {
		t.Fatalf("got %v", err)
	}
}

// A Transfer-Encoding: chunked arriving after a Content-Length is a
// framing conflict, not a silent override.
func TestFramingStateTransferEncodingAfterContentLength(t *testing.T) {
	var st framingState
	if err := st.observe([]byte("Content-Length"), []byte("10")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := st.observe([]byte("Transfer-Encoding"), []byte("chunked"))
	var werr *Error
	if !errors.As(err, &werr) || werr.Kind != ErrConflictingFraming {
		t.Fatalf("got %v", err)
	}
}

// A Content-Length seen after Transfer-Encoding: chunked is ignored,
// not an error: Transfer-Encoding already settled the framing.
func TestFramingStateContentLengthAfterTransferEncoding(t *testing.T) {
	var st framingState
	if err := st.observe([]byte("Transfer-Encoding"), []byte("chunked")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := st.observe([]byte("Content-Length"), []byte("10")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.framing.Kind != FramingChunked {
		t.Fatalf("got %+v, want chunked to still win", st.framing)
	}
}
