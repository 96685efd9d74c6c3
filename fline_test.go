package httpwire

import (
	"bytes"
	"testing"
)

func TestParseRequestLine(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
		incompl bool
	}{
		{name: "simple GET", in: "GET /index.html HTTP/1.1\r\n"},
		{name: "bare LF", in: "POST /submit HTTP/1.0\n"},
		{name: "tolerant spacing", in: "GET  /x   HTTP/1.1\r\n"},
		{name: "missing version digits", in: "GET /x HTTP/\r\n", wantErr: true},
		{name: "bad version prefix", in: "GET /x FOO/1.1\r\n", wantErr: true},
		{name: "missing path", in: "GET HTTP/1.1\r\n", wantErr: true},
		{name: "truncated", in: "GET /x HTTP/1.", incompl: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rl, err := parseRequestLine([]byte(tt.in))
			switch {
			case tt.incompl:
				if !isIncomplete(err) {
					t.Fatalf("want incomplete, got %v", err)
				}
			case tt.wantErr:
				if err == nil || isIncomplete(err) {
					t.Fatalf("want error, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if rl.VersionMajor == 0 && rl.VersionMinor == 0 && !bytes.Contains([]byte(tt.in), []byte("HTTP/0.0")) {
					_ = rl // versions are checked in TestParseRequestLineFields
				}
			}
		})
	}
}

func TestParseRequestLineFields(t *testing.T) {
	consumed, rl, err := parseRequestLine([]byte("GET /a/b?c=d HTTP/1.1\r\nHost: x\r\n\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(rl.Method) != "GET" {
		t.Errorf("method = %q, want GET", rl.Method)
	}
	if rl.MethodID != MGet {
		t.Errorf("MethodID = %v, want MGet", rl.MethodID)
	}
	if string(rl.Path) != "/a/b?c=d" {
		t.Errorf("path = %q, want /a/b?c=d", rl.Path)
	}
	if rl.VersionMajor != 1 || rl.VersionMinor != 1 {
		t.Errorf("version = %d.%d, want 1.1", rl.VersionMajor, rl.VersionMinor)
	}
	if want := "GET /a/b?c=d HTTP/1.1\r\n"; consumed != len(want) {
		t.Errorf("consumed = %d, want %d", consumed, len(want))
	}
}

func TestParseRequestLineFragmented(t *testing.T) {
	full := "GET /path HTTP/1.1\r\n"
	for split := 0; split <= len(full); split++ {
		_, _, err := parseRequestLine([]byte(full[:split]))
		if split == len(full) {
			if err != nil {
				t.Errorf("split %d: unexpected error %v", split, err)
			}
			continue
		}
		if !isIncomplete(err) {
			t.Errorf("split %d: want incomplete, got %v", split, err)
		}
	}
}

func TestParseResponseLine(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantCode   int
		wantReason string
		wantErr    bool
		incompl    bool
	}{
		{name: "ok with reason", in: "HTTP/1.1 200 OK\r\n", wantCode: 200, wantReason: "OK"},
		{name: "bare LF", in: "HTTP/1.0 404 Not Found\n", wantCode: 404, wantReason: "Not Found"},
		{name: "empty reason", in: "HTTP/1.1 204 \r\n", wantCode: 204, wantReason: ""},
		{name: "non-digit status", in: "HTTP/1.1 2xx OK\r\n", wantErr: true},
		{name: "truncated status", in: "HTTP/1.1 20", incompl: true},
		{name: "bad scheme", in: "HTCP/1.1 200 OK\r\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rl, err := parseResponseLine([]byte(tt.in))
			switch {
			case tt.incompl:
				if !isIncomplete(err) {
					t.Fatalf("want incomplete, got %v", err)
				}
			case tt.wantErr:
				if err == nil || isIncomplete(err) {
					t.Fatalf("want error, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if rl.StatusCode != tt.wantCode {
					t.Errorf("status = %d, want %d", rl.StatusCode, tt.wantCode)
				}
				if string(rl.Reason) != tt.wantReason {
					t.Errorf("reason = %q, want %q", rl.Reason, tt.wantReason)
				}
			}
		})
	}
}
