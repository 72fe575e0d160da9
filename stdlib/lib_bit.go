package stdlib

import (
	. "github.com/lollipopkit/coronest/api"
)

// bit32-style operations over the low 32 bits of a script integer,
// following Lua 5.2's bit32 library.
var bitLib = map[string]GoFunction{
	"band":    bitBand,
	"bor":     bitBor,
	"bxor":    bitBxor,
	"bnot":    bitBnot,
	"lshift":  bitLshift,
	"rshift":  bitRshift,
	"arshift": bitArshift,
	"extract": bitExtract,
}

func OpenBitLib(ls LkState) int {
	ls.NewLib(bitLib)
	return 1
}

func u32(ls LkState, arg int) uint32 {
	return uint32(ls.CheckInteger(arg))
}

func bitBand(ls LkState) int {
	n := ls.GetTop()
	r := ^uint32(0)
	for i := 1; i <= n; i++ {
		r &= u32(ls, i)
	}
	ls.PushInteger(int64(r))
	return 1
}

func bitBor(ls LkState) int {
	n := ls.GetTop()
	var r uint32
	for i := 1; i <= n; i++ {
		r |= u32(ls, i)
	}
	ls.PushInteger(int64(r))
	return 1
}

func bitBxor(ls LkState) int {
	n := ls.GetTop()
	var r uint32
	for i := 1; i <= n; i++ {
		r ^= u32(ls, i)
	}
	ls.PushInteger(int64(r))
	return 1
}

func bitBnot(ls LkState) int {
	ls.PushInteger(int64(^u32(ls, 1)))
	return 1
}

func bitLshift(ls LkState) int {
	x := u32(ls, 1)
	n := ls.CheckInteger(2)
	ls.PushInteger(int64(shift(x, n)))
	return 1
}

func bitRshift(ls LkState) int {
	x := u32(ls, 1)
	n := ls.CheckInteger(2)
	ls.PushInteger(int64(shift(x, -n)))
	return 1
}

func bitArshift(ls LkState) int {
	x := int32(u32(ls, 1))
	n := ls.CheckInteger(2)
	if n >= 0 {
		ls.PushInteger(int64(uint32(x >> uint(min64(n, 31)))))
	} else {
		ls.PushInteger(int64(shift(uint32(x), -n)))
	}
	return 1
}

func bitExtract(ls LkState) int {
	x := u32(ls, 1)
	field := ls.CheckInteger(2)
	width := ls.OptInteger(3, 1)
	mask := uint32(1)<<uint(width) - 1
	ls.PushInteger(int64((x >> uint(field)) & mask))
	return 1
}

func shift(x uint32, n int64) uint32 {
	if n <= -32 || n >= 32 {
		return 0
	}
	if n >= 0 {
		return x << uint(n)
	}
	return x >> uint(-n)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
