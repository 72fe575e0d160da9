package stdlib

import (
	"unicode/utf8"

	. "github.com/lollipopkit/coronest/api"
)

// utf8 library, following Lua 5.3's: decode/encode script strings as
// sequences of UTF-8 codepoints rather than raw bytes.
var utf8Lib = map[string]GoFunction{
	"char":      utf8Char,
	"codepoint": utf8Codepoint,
	"len":       utf8Len,
	"offset":    utf8Offset,
}

func OpenUTF8Lib(ls LkState) int {
	ls.NewLib(utf8Lib)
	return 1
}

func utf8Char(ls LkState) int {
	n := ls.GetTop()
	buf := make([]byte, 0, n*utf8.UTFMax)
	for i := 1; i <= n; i++ {
		cp := ls.CheckInteger(i)
		buf = utf8.AppendRune(buf, rune(cp))
	}
	ls.PushString(string(buf))
	return 1
}

func utf8Codepoint(ls LkState) int {
	s := ls.CheckString(1)
	i := int(ls.OptInteger(2, 1))
	j := int(ls.OptInteger(3, int64(i)))

	i = utf8ByteIndex(s, i)
	j = utf8ByteIndex(s, j)

	n := 0
	for pos := i; pos < j && pos < len(s); {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if r == utf8.RuneError && size <= 1 {
			ls.Error2("invalid UTF-8 code")
		}
		ls.PushInteger(int64(r))
		pos += size
		n++
	}
	return n
}

func utf8Len(ls LkState) int {
	s := ls.CheckString(1)
	i := utf8ByteIndex(s, int(ls.OptInteger(2, 1)))
	j := utf8ByteIndex(s, int(ls.OptInteger(3, -1)))

	n := 0
	pos := i
	for pos < j && pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if r == utf8.RuneError && size <= 1 {
			ls.PushNil()
			ls.PushInteger(int64(pos + 1))
			return 2
		}
		pos += size
		n++
	}
	ls.PushInteger(int64(n))
	return 1
}

func utf8Offset(ls LkState) int {
	s := ls.CheckString(1)
	n := int(ls.CheckInteger(2))
	var i int
	if n >= 0 {
		i = int(ls.OptInteger(3, 1))
	} else {
		i = int(ls.OptInteger(3, int64(len(s)+1)))
	}
	pos := utf8ByteIndex(s, i) - 1

	switch {
	case n > 0:
		if pos < len(s) && isUtf8Cont(s, pos) {
			ls.Error2("initial position is a continuation byte")
		}
		n--
		for n > 0 && pos < len(s) {
			pos++
			for pos < len(s) && isUtf8Cont(s, pos) {
				pos++
			}
			n--
		}
	case n < 0:
		for n < 0 && pos > 0 {
			pos--
			for pos > 0 && isUtf8Cont(s, pos) {
				pos--
			}
			n++
		}
	default:
		for pos > 0 && isUtf8Cont(s, pos) {
			pos--
		}
	}

	if n != 0 {
		ls.PushNil()
		return 1
	}
	ls.PushInteger(int64(pos + 1))
	return 1
}

func isUtf8Cont(s string, pos int) bool {
	return s[pos]&0xC0 == 0x80
}

// utf8ByteIndex converts a Lua-style 1-based, possibly negative string
// index into a 0-based byte offset, clamped to [0, len(s)].
func utf8ByteIndex(s string, i int) int {
	if i < 0 {
		i = len(s) + i + 2
	}
	if i < 1 {
		i = 1
	}
	if i > len(s)+1 {
		i = len(s) + 1
	}
	return i - 1
}
