package codegen

import (
	. "github.com/lollipopkit/coronest/binchunk"
	. "github.com/lollipopkit/coronest/compiler/ast"
)

// GenProto compiles a parsed chunk into its top-level Prototype. The
// chunk is wrapped as the body of an implicit vararg function whose
// lone upvalue is _ENV, mirroring how every global lookup and global
// assignment inside the chunk resolves through GETTABUP/SETTABUP.
func GenProto(chunk *Block) *Prototype {
	fd := &FuncDefExp{IsVararg: true, Block: chunk}

	fi := newFuncInfo(nil, fd)
	fi.addLocVar("_ENV", 0)

	mainFI := newFuncInfo(fi, fd)
	cgBlock(mainFI, chunk)
	mainFI.exitScope(mainFI.pc() + 2)
	mainFI.emitReturn(0, 0, 0)

	return toProto(mainFI)
}
