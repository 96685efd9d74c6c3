package httpwire

import "github.com/intuitivelabs/bytescase"

// fline.go recognizes the request-line and response-line grammars
// (spec.md §4.1). ParseFLine in intuitivelabs-httpsp sniffs the line's
// shape to decide which of the two it is looking at; a Parser here
// already knows its Mode from construction, so the sniff is
// unnecessary and the two grammars are split into their own functions
// instead.

// RequestLine is the decoded first line of an HTTP request. Method
// and Path are borrowed slices into the buffer passed to
// Feed; they are only valid for the duration of the OnRequestLine
// callback. MethodID is the registry lookup of Method, MOther for any
// method not in the registry; a sink can branch on it without
// re-parsing or re-comparing the raw bytes.
type RequestLine struct {
	Method       []byte
	MethodID     Method
	Path         []byte
	VersionMajor int
	VersionMinor int
}

// ResponseLine is the decoded first line of an HTTP response.
type ResponseLine struct {
	VersionMajor int
	VersionMinor int
	StatusCode   int
	Reason       []byte
}

var httpVersionPrefix = []byte("HTTP/")

// parseRequestLine recognizes "method SP path SP HTTP/M.N [CR] LF".
// Multiple spaces or tabs between tokens are tolerated, matching the
// leniency spec.md §4.1 calls out for the first line specifically.
func parseRequestLine(buf []byte) (int, RequestLine, error) {
	i := skipNonWS(buf, 0)
	if i >= len(buf) {
		return 0, RequestLine{}, errIncomplete{}
	}
	if i == 0 {
		return 0, RequestLine{}, errBadChar
	}
	methodEnd := i

	i = skipWS(buf, i)
	if i >= len(buf) {
		return 0, RequestLine{}, errIncomplete{}
	}
	if i == methodEnd {
		return 0, RequestLine{}, errBadChar
	}

	pathStart := i
	i = skipNonWS(buf, i)
	if i >= len(buf) {
		return 0, RequestLine{}, errIncomplete{}
	}
	if i == pathStart {
		return 0, RequestLine{}, errBadChar
	}
	pathEnd := i

	i = skipWS(buf, i)
	if i >= len(buf) {
		return 0, RequestLine{}, errIncomplete{}
	}
	if i == pathEnd {
		return 0, RequestLine{}, errBadChar
	}

	major, minor, i, err := parseHTTPVersion(buf, i)
	if err != nil {
		return 0, RequestLine{}, err
	}

	i = skipWS(buf, i)
	end, _, err := skipCRLF(buf, i)
	if err != nil {
		return 0, RequestLine{}, err
	}

	return end, RequestLine{
		Method:       buf[0:methodEnd],
		MethodID:     getMethodNo(buf[0:methodEnd]),
		Path:         buf[pathStart:pathEnd],
		VersionMajor: major,
		VersionMinor: minor,
	}, nil
}

// parseResponseLine recognizes "HTTP/M.N SP status SP reason [CR] LF".
func parseResponseLine(buf []byte) (int, ResponseLine, error) {
	major, minor, i, err := parseHTTPVersion(buf, 0)
	if err != nil {
		return 0, ResponseLine{}, err
	}

	spStart := i
	i = skipWS(buf, i)
	if i >= len(buf) {
		return 0, ResponseLine{}, errIncomplete{}
	}
	if i == spStart {
		return 0, ResponseLine{}, errBadChar
	}

	if len(buf)-i < 3 {
		return 0, ResponseLine{}, errIncomplete{}
	}
	for k := 0; k < 3; k++ {
		if buf[i+k] < '0' || buf[i+k] > '9' {
			return 0, ResponseLine{}, errBadChar
		}
	}
	code := int(buf[i]-'0')*100 + int(buf[i+1]-'0')*10 + int(buf[i+2]-'0')
	i += 3

	// SP+ reason-phrase, tolerating a missing separator when the
	// reason phrase itself is empty (some servers emit "200\r\n").
	i = skipWS(buf, i)
	if i >= len(buf) {
		return 0, ResponseLine{}, errIncomplete{}
	}
	reasonStart := i
	end, crl, err := skipLine(buf, i)
	if err != nil {
		return 0, ResponseLine{}, err
	}

	return end, ResponseLine{
		VersionMajor: major,
		VersionMinor: minor,
		StatusCode:   code,
		Reason:       buf[reasonStart : end-crl],
	}, nil
}

// parseHTTPVersion recognizes "HTTP/" DIGIT+ "." DIGIT+ starting at
// offs, returning the decoded major/minor and the offset just past
// the minor digits.
func parseHTTPVersion(buf []byte, offs int) (int, int, int, error) {
	avail := len(buf) - offs
	if avail < len(httpVersionPrefix) {
		if avail > 0 && !bytescase.CmpEq(buf[offs:], httpVersionPrefix[:avail]) {
			return 0, 0, 0, errBadChar
		}
		return 0, 0, 0, errIncomplete{}
	}
	if !bytescase.CmpEq(buf[offs:offs+len(httpVersionPrefix)], httpVersionPrefix) {
		return 0, 0, 0, errBadChar
	}
	i := offs + len(httpVersionPrefix)

	majorStart := i
	i = skipDigits(buf, i)
	if i >= len(buf) {
		return 0, 0, 0, errIncomplete{}
	}
	if i == majorStart {
		return 0, 0, 0, errBadChar
	}
	majorEnd := i

	if buf[i] != '.' {
		return 0, 0, 0, errBadChar
	}
	i++

	minorStart := i
	i = skipDigits(buf, i)
	if i >= len(buf) {
		return 0, 0, 0, errIncomplete{}
	}
	if i == minorStart {
		return 0, 0, 0, errBadChar
	}
	minorEnd := i

	major, err := decBufToInt(buf[majorStart:majorEnd])
	if err != nil {
		return 0, 0, 0, errBadChar
	}
	minor, err := decBufToInt(buf[minorStart:minorEnd])
	if err != nil {
		return 0, 0, 0, errBadChar
	}
	return int(major), int(minor), i, nil
}
