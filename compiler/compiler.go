package compiler

import (
	"github.com/lollipopkit/coronest/binchunk"
	"github.com/lollipopkit/coronest/compiler/codegen"
	"github.com/lollipopkit/coronest/compiler/parser"
)

func Compile(chunk, chunkName string) *binchunk.Prototype {
	ast := parser.Parse(chunk, chunkName)
	proto := codegen.GenProto(ast)
	setSource(proto, chunkName)
	return proto
}

func setSource(proto *binchunk.Prototype, chunkName string) {
	proto.Source = chunkName
	for k := range proto.Protos {
		setSource(proto.Protos[k], chunkName)
	}
}
