package httpwire

import "testing"

func TestParseHeaderLine(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantName  string
		wantValue string
		wantErr   bool
		incompl   bool
	}{
		// Each complete line is followed by the blank line: without a
		// byte after the terminator the recognizer cannot rule out an
		// obs-fold and reports incomplete.
		{name: "simple", in: "Host: example.com\r\n\r\n", wantName: "Host", wantValue: "example.com"},
		{name: "no leading space", in: "Host:example.com\r\n\r\n", wantName: "Host", wantValue: "example.com"},
		{name: "trailing OWS trimmed", in: "X-Foo:  bar  \r\n\r\n", wantName: "X-Foo", wantValue: "bar"},
		{name: "bare LF", in: "X-Foo: bar\n\n", wantName: "X-Foo", wantValue: "bar"},
		{name: "obs-fold CRLF", in: "X-Foo: bar\r\n baz\r\n\r\n", wantName: "X-Foo", wantValue: "bar\r\n baz"},
		{name: "obs-fold bare LF", in: "X-Foo: bar\n\tbaz\n\n", wantName: "X-Foo", wantValue: "bar\n\tbaz"},
		{name: "empty value is error", in: "X-Foo:\r\n\r\n", wantErr: true},
		{name: "empty value ws only is error", in: "X-Foo:   \r\n\r\n", wantErr: true},
		{name: "blank line is not a header", in: "\r\n", wantErr: true},
		{name: "bare LF blank is not a header", in: "\n", wantErr: true},
		{name: "missing colon", in: "Host example.com\r\n", wantErr: true},
		{name: "truncated name", in: "Hos", incompl: true},
		{name: "truncated value", in: "Host: exam", incompl: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, name, value, err := parseHeaderLine([]byte(tt.in))
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
				if string(name) != tt.wantName {
					t.Errorf("name = %q, want %q", name, tt.wantName)
				}
				if string(value) != tt.wantValue {
					t.Errorf("value = %q, want %q", value, tt.wantValue)
				}
			}
		})
	}
}

func TestParseHeaderLineFragmented(t *testing.T) {
	full := "Content-Type: text/plain; charset=utf-8\r\n"
	for split := 0; split < len(full); split++ {
		_, _, _, err := parseHeaderLine([]byte(full[:split]))
		if !isIncomplete(err) {
			t.Errorf("split %d: want incomplete, got %v", split, err)
		}
	}
	_, name, value, err := parseHeaderLine([]byte(full + "\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(name) != "Content-Type" || string(value) != "text/plain; charset=utf-8" {
		t.Errorf("got %q=%q", name, value)
	}
}

func TestParseBlankLine(t *testing.T) {
	if _, err := parseBlankLine([]byte("\r\n")); err != nil {
		t.Errorf("CRLF: unexpected error %v", err)
	}
	if _, err := parseBlankLine([]byte("\n")); err != nil {
		t.Errorf("bare LF: unexpected error %v", err)
	}
	if _, err := parseBlankLine([]byte("\r")); !isIncomplete(err) {
		t.Errorf("bare CR: want incomplete, got %v", err)
	}
	if _, err := parseBlankLine([]byte("X")); err == nil {
		t.Errorf("non-blank: want error")
	}
	if _, err := parseBlankLine([]byte("")); !isIncomplete(err) {
		t.Errorf("empty: want incomplete, got %v", err)
	}
}
