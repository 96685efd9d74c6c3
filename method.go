package httpwire

import (
	"bytes"

	"github.com/intuitivelabs/bytescase"
)

// Method is the numeric identifier for a parsed request method. HEAD
// and CONNECT change how a response's body is framed (RFC 7230
// §3.3.3), but the parser's framing classifier does not consult the
// method; the registry is kept so sinks can branch on method without
// re-parsing the method bytes.
type Method uint8

const (
	MUndef Method = iota
	MGet
	MHead
	MPost
	MPut
	MDelete
	MConnect
	MOptions
	MTrace
	MPatch
	MOther // must stay last
)

var method2Name = [MOther + 1][]byte{
	MUndef:   []byte(""),
	MGet:     []byte("GET"),
	MHead:    []byte("HEAD"),
	MPost:    []byte("POST"),
	MPut:     []byte("PUT"),
	MDelete:  []byte("DELETE"),
	MConnect: []byte("CONNECT"),
	MOptions: []byte("OPTIONS"),
	MTrace:   []byte("TRACE"),
	MPatch:   []byte("PATCH"),
	MOther:   []byte("OTHER"),
}

// Name returns the ASCII method name.
func (m Method) Name() []byte {
	if m > MOther {
		return method2Name[MUndef]
	}
	return method2Name[m]
}

// String implements fmt.Stringer.
func (m Method) String() string {
	return string(m.Name())
}

const (
	mthBitsLen   uint = 2
	mthBitsFChar uint = 3
)

type mth2Type struct {
	n []byte
	t Method
}

var mthNameLookup [1 << (mthBitsLen + mthBitsFChar)][]mth2Type

func hashMthName(n []byte) int {
	const (
		mC = (1 << mthBitsFChar) - 1
		mL = (1 << mthBitsLen) - 1
	)
	return (int(bytescase.ByteToLower(n[0])) & mC) |
		((len(n) & mL) << mthBitsFChar)
}

func init() {
	for i := MUndef + 1; i < MOther; i++ {
		h := hashMthName(method2Name[i])
		mthNameLookup[h] = append(mthNameLookup[h], mth2Type{method2Name[i], i})
	}
}

// getMethodNo translates a method's raw bytes into its numeric id,
// returning MOther for any method not in the registry (an unrecognized
// method is still a valid request line). The comparison is exact:
// only the hash bucket is chosen case-insensitively.
func getMethodNo(buf []byte) Method {
	if len(buf) == 0 {
		return MUndef
	}
	i := hashMthName(buf)
	for _, m := range mthNameLookup[i] {
		if bytes.Equal(buf, m.n) {
			return m.t
		}
	}
	return MOther
}
