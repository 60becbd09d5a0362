package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleAddFunction(t *testing.T) {
	ctx := NewContext()
	mod := ctx.NewModule("m")
	sig := &Signature{Params: []Type{I32, I32}, Results: []Type{I32}}
	fn := mod.NewFunction("f", sig)
	b := NewBuilder(fn)

	sum := b.Add(fn.Param(0), fn.Param(1))
	b.Ret(sum)

	require.True(t, fn.Entry().Terminated())
	require.Len(t, fn.Blocks(), 1)
}

func TestBuilder_InsertIntoTerminatedBlockPanics(t *testing.T) {
	ctx := NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f", &Signature{})
	b := NewBuilder(fn)
	b.Ret()

	require.Panics(t, func() {
		b.Iconst(I32, 1)
	})
}

func TestBuilder_BlockParamsStandInForPhi(t *testing.T) {
	ctx := NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f", &Signature{Params: []Type{I32}, Results: []Type{I32}})
	b := NewBuilder(fn)

	merge := b.AllocateBasicBlock("merge")
	phi := merge.AddParam(fn, I32)

	thenBlock := b.AllocateBasicBlock("then")
	elseBlock := b.AllocateBasicBlock("else")

	cond := b.ICmp(IntSignedGreaterThan, fn.Param(0), b.Iconst(I32, 0))
	b.CondBr(cond, thenBlock, nil, elseBlock, nil)

	b.SetCurrentBlock(thenBlock)
	b.Br(merge, b.Iconst(I32, 1))

	b.SetCurrentBlock(elseBlock)
	b.Br(merge, b.Iconst(I32, 2))

	b.SetCurrentBlock(merge)
	b.Ret(phi)

	for _, bb := range fn.Blocks() {
		require.True(t, bb.Terminated(), "block %s must have exactly one terminator", bb.Name())
	}
	require.Len(t, merge.Preds(), 2)
	require.Len(t, merge.Params(), 1)
}

func TestModule_DeclarationLookup(t *testing.T) {
	ctx := NewContext()
	mod := ctx.NewModule("m")
	sig := &Signature{Params: []Type{I32}, Results: []Type{I32}}
	mod.DeclareFunction("t0", sig)

	got, ok := mod.Declaration("t0")
	require.True(t, ok)
	require.Equal(t, sig, got)

	_, ok = mod.Declaration("missing")
	require.False(t, ok)
}
