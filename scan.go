package httpwire

// scan.go holds the byte-class primitives the recognizers in fline.go,
// header.go and chunk.go are built from. None of them allocate and none
// of them interpret anything beyond a single character class; the
// state needed to resume across fragment boundaries lives in the
// caller, not here.

// isTokenChar reports whether c is a valid RFC 7230 tchar.
func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

// skipToken advances past a run of token characters, returning the
// index of the first non-token byte, or len(buf) if the run reaches
// the end of the buffer (the caller must then ask for more bytes,
// since the token might continue in the next fragment).
func skipToken(buf []byte, offs int) int {
	i := offs
	for i < len(buf) && isTokenChar(buf[i]) {
		i++
	}
	return i
}

// skipTokenDelim is skipToken with an explicit name for call sites that
// expect the run to end at a specific delimiter byte (e.g. ':' after a
// header name); it behaves identically since a delimiter is, by
// construction, never a token character.
func skipTokenDelim(buf []byte, offs int, delim byte) int {
	return skipToken(buf, offs)
}

// skipDigits advances past a run of ASCII decimal digits.
func skipDigits(buf []byte, offs int) int {
	i := offs
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		i++
	}
	return i
}

// skipHexDigits advances past a run of ASCII hex digits.
func skipHexDigits(buf []byte, offs int) int {
	i := offs
	for i < len(buf) {
		c := buf[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			i++
			continue
		}
		break
	}
	return i
}

// skipNonWS advances past bytes that are neither SP, HT, CR nor LF.
func skipNonWS(buf []byte, offs int) int {
	i := offs
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\t', '\r', '\n':
			return i
		}
		i++
	}
	return i
}

// skipWS advances past spaces and horizontal tabs.
func skipWS(buf []byte, offs int) int {
	i := offs
	for i < len(buf) && (buf[i] == ' ' || buf[i] == '\t') {
		i++
	}
	return i
}

// skipCRLF consumes a single line terminator at offs: "\r\n" or a bare
// "\n". A bare "\r" is never a terminator. It returns the offset right
// after the terminator, the number of bytes consumed (1 or 2) and an
// error: errIncomplete if more bytes are needed to decide, or
// errBadChar if offs does not start a valid terminator.
func skipCRLF(buf []byte, offs int) (int, int, error) {
	if offs >= len(buf) {
		return offs, 0, errIncomplete{}
	}
	switch buf[offs] {
	case '\n':
		return offs + 1, 1, nil
	case '\r':
		if offs+1 >= len(buf) {
			return offs, 0, errIncomplete{}
		}
		if buf[offs+1] == '\n' {
			return offs + 2, 2, nil
		}
		return offs, 0, errBadChar
	}
	return offs, 0, errBadChar
}

// skipLine advances to the end of the current line, returning the
// offset right after the line terminator and the terminator's length
// (so offset-length is the offset of the first CR/LF byte). Any bytes
// are allowed inside the line; only a CR not followed by LF is
// rejected.
func skipLine(buf []byte, offs int) (int, int, error) {
	i := offs
	for i < len(buf) {
		switch buf[i] {
		case '\n':
			return i + 1, 1, nil
		case '\r':
			if i+1 >= len(buf) {
				return i, 0, errIncomplete{}
			}
			if buf[i+1] != '\n' {
				return i, 0, errBadChar
			}
			return i + 2, 2, nil
		}
		i++
	}
	return i, 0, errIncomplete{}
}

// lwsOutcome distinguishes the three things skipLWS can discover.
type lwsOutcome uint8

const (
	lwsContinues lwsOutcome = iota // folded value continues, caller should keep scanning
	lwsEndOfHeader                 // CRLF not followed by SP/HT: end of this header's value
	lwsIncomplete
)

// skipLWS inspects the line terminator at offs and classifies it as
// either an obs-fold (terminator immediately followed by SP or HT, in
// which case the fold is part of the value and parsing continues past
// it) or the real end of the header line. It returns the offset to
// resume scanning from on lwsContinues, or the offset of the line
// terminator itself (so the caller can trim trailing whitespace before
// it) on lwsEndOfHeader, plus the terminator's length.
func skipLWS(buf []byte, offs int) (int, int, lwsOutcome) {
	end, crl, err := skipCRLF(buf, offs)
	if err != nil {
		return offs, 0, lwsIncomplete
	}
	if end < len(buf) && (buf[end] == ' ' || buf[end] == '\t') {
		return end, crl, lwsContinues
	}
	if end >= len(buf) {
		// Can't yet tell whether a fold follows; need one more byte.
		return offs, 0, lwsIncomplete
	}
	return offs, crl, lwsEndOfHeader
}
