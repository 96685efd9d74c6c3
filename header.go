package httpwire

// header.go recognizes a single header line (name, ':', OWS, value,
// terminator, with obs-fold support) and the blank line that ends a
// header block. Grounded on the ParseHdrLine state machine in
// parse_headers.go, but collapsed from its persistent per-byte resume
// state into a function that is simply retried from byte 0 of
// whatever is still unconsumed, since here the caller (Parser.Feed)
// always re-presents the not-yet-complete line in full on the next
// call instead of growing one never-shrinking buffer.

// parseHeaderLine recognizes "name [OWS] ':' value CRLF". It returns
// errBadChar when buf does not begin with a header at all (including
// when it begins with the blank-line terminator); the state machine
// interprets that as "try the blank-line recognizer instead", exactly
// as spec.md §4.1 describes.
func parseHeaderLine(buf []byte) (int, []byte, []byte, error) {
	if len(buf) == 0 {
		return 0, nil, nil, errIncomplete{}
	}
	if buf[0] == '\r' || buf[0] == '\n' {
		return 0, nil, nil, errBadChar
	}

	i := skipToken(buf, 0)
	if i >= len(buf) {
		return 0, nil, nil, errIncomplete{}
	}
	if i == 0 {
		return 0, nil, nil, errBadChar
	}
	nameEnd := i

	i = skipWS(buf, i)
	if i >= len(buf) {
		return 0, nil, nil, errIncomplete{}
	}
	if buf[i] != ':' {
		return 0, nil, nil, errBadChar
	}
	i++

	end, value, err := takeHeaderValue(buf, i)
	if err != nil {
		return 0, nil, nil, err
	}
	return end, buf[0:nameEnd], value, nil
}

// takeHeaderValue scans a header's value starting right after its
// colon, trimming leading and trailing OWS and following obs-folds
// (a CRLF or bare LF immediately followed by SP/HT). An initial empty
// value — nothing but whitespace between the colon and the
// terminator — is rejected, matching spec.md §4.1.
func takeHeaderValue(buf []byte, start int) (int, []byte, error) {
	i := start
	valStart := -1
	valEnd := start

	for i < len(buf) {
		switch buf[i] {
		case '\r':
			if i+1 >= len(buf) {
				return 0, nil, errIncomplete{}
			}
			if buf[i+1] != '\n' {
				return 0, nil, errBadChar
			}
			if i+2 >= len(buf) {
				return 0, nil, errIncomplete{}
			}
			if buf[i+2] == ' ' || buf[i+2] == '\t' {
				i += 3
				continue
			}
			if valStart < 0 {
				return 0, nil, errBadChar
			}
			return i + 2, buf[valStart:valEnd], nil
		case '\n':
			if i+1 >= len(buf) {
				return 0, nil, errIncomplete{}
			}
			if buf[i+1] == ' ' || buf[i+1] == '\t' {
				i += 2
				continue
			}
			if valStart < 0 {
				return 0, nil, errBadChar
			}
			return i + 1, buf[valStart:valEnd], nil
		case ' ', '\t':
			i++
		default:
			if valStart < 0 {
				valStart = i
			}
			valEnd = i + 1
			i++
		}
	}
	return 0, nil, errIncomplete{}
}

// parseBlankLine recognizes the CRLF (or bare LF) that ends a header
// block.
func parseBlankLine(buf []byte) (int, error) {
	end, _, err := skipCRLF(buf, 0)
	if err != nil {
		return 0, err
	}
	return end, nil
}
