package wasm

// Opcode is the first byte of an instruction's encoding. Instructions whose
// semantics need a second enumeration space (SIMD, the "misc" set of
// saturating truncations and bulk memory/table ops, atomics, and GC) use one of the Prefix
// opcodes below followed by a LEB128-encoded sub-opcode.
type Opcode byte

const (
	OpcodeUnreachable Opcode = 0x00
	OpcodeNop         Opcode = 0x01
	OpcodeBlock       Opcode = 0x02
	OpcodeLoop        Opcode = 0x03
	OpcodeIf          Opcode = 0x04
	OpcodeElse        Opcode = 0x05
	OpcodeEnd         Opcode = 0x0b

	OpcodeBr         Opcode = 0x0c
	OpcodeBrIf       Opcode = 0x0d
	OpcodeBrTable    Opcode = 0x0e
	OpcodeReturn     Opcode = 0x0f
	OpcodeCall       Opcode = 0x10
	OpcodeCallIndirect Opcode = 0x11

	// Tail-call proposal.
	OpcodeReturnCall         Opcode = 0x12
	OpcodeReturnCallIndirect Opcode = 0x13

	// Typed function references / GC.
	OpcodeCallRef       Opcode = 0x14
	OpcodeReturnCallRef Opcode = 0x15
	OpcodeBrOnNull      Opcode = 0xd5
	OpcodeBrOnNonNull   Opcode = 0xd6

	OpcodeDrop   Opcode = 0x1a
	OpcodeSelect Opcode = 0x1b
	OpcodeTypedSelect Opcode = 0x1c

	OpcodeLocalGet  Opcode = 0x20
	OpcodeLocalSet  Opcode = 0x21
	OpcodeLocalTee  Opcode = 0x22
	OpcodeGlobalGet Opcode = 0x23
	OpcodeGlobalSet Opcode = 0x24

	OpcodeTableGet Opcode = 0x25
	OpcodeTableSet Opcode = 0x26

	OpcodeI32Load    Opcode = 0x28
	OpcodeI64Load    Opcode = 0x29
	OpcodeF32Load    Opcode = 0x2a
	OpcodeF64Load    Opcode = 0x2b
	OpcodeI32Load8S  Opcode = 0x2c
	OpcodeI32Load8U  Opcode = 0x2d
	OpcodeI32Load16S Opcode = 0x2e
	OpcodeI32Load16U Opcode = 0x2f
	OpcodeI64Load8S  Opcode = 0x30
	OpcodeI64Load8U  Opcode = 0x31
	OpcodeI64Load16S Opcode = 0x32
	OpcodeI64Load16U Opcode = 0x33
	OpcodeI64Load32S Opcode = 0x34
	OpcodeI64Load32U Opcode = 0x35
	OpcodeI32Store   Opcode = 0x36
	OpcodeI64Store   Opcode = 0x37
	OpcodeF32Store   Opcode = 0x38
	OpcodeF64Store   Opcode = 0x39
	OpcodeI32Store8  Opcode = 0x3a
	OpcodeI32Store16 Opcode = 0x3b
	OpcodeI64Store8  Opcode = 0x3c
	OpcodeI64Store16 Opcode = 0x3d
	OpcodeI64Store32 Opcode = 0x3e
	OpcodeMemorySize Opcode = 0x3f
	OpcodeMemoryGrow Opcode = 0x40

	OpcodeI32Const Opcode = 0x41
	OpcodeI64Const Opcode = 0x42
	OpcodeF32Const Opcode = 0x43
	OpcodeF64Const Opcode = 0x44

	OpcodeI32Eqz Opcode = 0x45
	OpcodeI32Eq  Opcode = 0x46
	OpcodeI32Ne  Opcode = 0x47
	OpcodeI32LtS Opcode = 0x48
	OpcodeI32LtU Opcode = 0x49
	OpcodeI32GtS Opcode = 0x4a
	OpcodeI32GtU Opcode = 0x4b
	OpcodeI32LeS Opcode = 0x4c
	OpcodeI32LeU Opcode = 0x4d
	OpcodeI32GeS Opcode = 0x4e
	OpcodeI32GeU Opcode = 0x4f

	OpcodeI64Eqz Opcode = 0x50
	OpcodeI64Eq  Opcode = 0x51
	OpcodeI64Ne  Opcode = 0x52
	OpcodeI64LtS Opcode = 0x53
	OpcodeI64LtU Opcode = 0x54
	OpcodeI64GtS Opcode = 0x55
	OpcodeI64GtU Opcode = 0x56
	OpcodeI64LeS Opcode = 0x57
	OpcodeI64LeU Opcode = 0x58
	OpcodeI64GeS Opcode = 0x59
	OpcodeI64GeU Opcode = 0x5a

	OpcodeF32Eq Opcode = 0x5b
	OpcodeF32Ne Opcode = 0x5c
	OpcodeF32Lt Opcode = 0x5d
	OpcodeF32Gt Opcode = 0x5e
	OpcodeF32Le Opcode = 0x5f
	OpcodeF32Ge Opcode = 0x60

	OpcodeF64Eq Opcode = 0x61
	OpcodeF64Ne Opcode = 0x62
	OpcodeF64Lt Opcode = 0x63
	OpcodeF64Gt Opcode = 0x64
	OpcodeF64Le Opcode = 0x65
	OpcodeF64Ge Opcode = 0x66

	OpcodeI32Clz    Opcode = 0x67
	OpcodeI32Ctz    Opcode = 0x68
	OpcodeI32Popcnt Opcode = 0x69
	OpcodeI32Add    Opcode = 0x6a
	OpcodeI32Sub    Opcode = 0x6b
	OpcodeI32Mul    Opcode = 0x6c
	OpcodeI32DivS   Opcode = 0x6d
	OpcodeI32DivU   Opcode = 0x6e
	OpcodeI32RemS   Opcode = 0x6f
	OpcodeI32RemU   Opcode = 0x70
	OpcodeI32And    Opcode = 0x71
	OpcodeI32Or     Opcode = 0x72
	OpcodeI32Xor    Opcode = 0x73
	OpcodeI32Shl    Opcode = 0x74
	OpcodeI32ShrS   Opcode = 0x75
	OpcodeI32ShrU   Opcode = 0x76
	OpcodeI32Rotl   Opcode = 0x77
	OpcodeI32Rotr   Opcode = 0x78

	OpcodeI64Clz    Opcode = 0x79
	OpcodeI64Ctz    Opcode = 0x7a
	OpcodeI64Popcnt Opcode = 0x7b
	OpcodeI64Add    Opcode = 0x7c
	OpcodeI64Sub    Opcode = 0x7d
	OpcodeI64Mul    Opcode = 0x7e
	OpcodeI64DivS   Opcode = 0x7f
	OpcodeI64DivU   Opcode = 0x80
	OpcodeI64RemS   Opcode = 0x81
	OpcodeI64RemU   Opcode = 0x82
	OpcodeI64And    Opcode = 0x83
	OpcodeI64Or     Opcode = 0x84
	OpcodeI64Xor    Opcode = 0x85
	OpcodeI64Shl    Opcode = 0x86
	OpcodeI64ShrS   Opcode = 0x87
	OpcodeI64ShrU   Opcode = 0x88
	OpcodeI64Rotl   Opcode = 0x89
	OpcodeI64Rotr   Opcode = 0x8a

	OpcodeF32Abs      Opcode = 0x8b
	OpcodeF32Neg      Opcode = 0x8c
	OpcodeF32Ceil     Opcode = 0x8d
	OpcodeF32Floor    Opcode = 0x8e
	OpcodeF32Trunc    Opcode = 0x8f
	OpcodeF32Nearest  Opcode = 0x90
	OpcodeF32Sqrt     Opcode = 0x91
	OpcodeF32Add      Opcode = 0x92
	OpcodeF32Sub      Opcode = 0x93
	OpcodeF32Mul      Opcode = 0x94
	OpcodeF32Div      Opcode = 0x95
	OpcodeF32Min      Opcode = 0x96
	OpcodeF32Max      Opcode = 0x97
	OpcodeF32Copysign Opcode = 0x98

	OpcodeF64Abs      Opcode = 0x99
	OpcodeF64Neg      Opcode = 0x9a
	OpcodeF64Ceil     Opcode = 0x9b
	OpcodeF64Floor    Opcode = 0x9c
	OpcodeF64Trunc    Opcode = 0x9d
	OpcodeF64Nearest  Opcode = 0x9e
	OpcodeF64Sqrt     Opcode = 0x9f
	OpcodeF64Add      Opcode = 0xa0
	OpcodeF64Sub      Opcode = 0xa1
	OpcodeF64Mul      Opcode = 0xa2
	OpcodeF64Div      Opcode = 0xa3
	OpcodeF64Min      Opcode = 0xa4
	OpcodeF64Max      Opcode = 0xa5
	OpcodeF64Copysign Opcode = 0xa6

	OpcodeI32WrapI64      Opcode = 0xa7
	OpcodeI32TruncF32S    Opcode = 0xa8
	OpcodeI32TruncF32U    Opcode = 0xa9
	OpcodeI32TruncF64S    Opcode = 0xaa
	OpcodeI32TruncF64U    Opcode = 0xab
	OpcodeI64ExtendI32S   Opcode = 0xac
	OpcodeI64ExtendI32U   Opcode = 0xad
	OpcodeI64TruncF32S    Opcode = 0xae
	OpcodeI64TruncF32U    Opcode = 0xaf
	OpcodeI64TruncF64S    Opcode = 0xb0
	OpcodeI64TruncF64U    Opcode = 0xb1
	OpcodeF32ConvertI32S  Opcode = 0xb2
	OpcodeF32ConvertI32U  Opcode = 0xb3
	OpcodeF32ConvertI64S  Opcode = 0xb4
	OpcodeF32ConvertI64U  Opcode = 0xb5
	OpcodeF32DemoteF64    Opcode = 0xb6
	OpcodeF64ConvertI32S  Opcode = 0xb7
	OpcodeF64ConvertI32U  Opcode = 0xb8
	OpcodeF64ConvertI64S  Opcode = 0xb9
	OpcodeF64ConvertI64U  Opcode = 0xba
	OpcodeF64PromoteF32   Opcode = 0xbb
	OpcodeI32ReinterpretF32 Opcode = 0xbc
	OpcodeI64ReinterpretF64 Opcode = 0xbd
	OpcodeF32ReinterpretI32 Opcode = 0xbe
	OpcodeF64ReinterpretI64 Opcode = 0xbf

	OpcodeI32Extend8S  Opcode = 0xc0
	OpcodeI32Extend16S Opcode = 0xc1
	OpcodeI64Extend8S  Opcode = 0xc2
	OpcodeI64Extend16S Opcode = 0xc3
	OpcodeI64Extend32S Opcode = 0xc4

	// Reference-types.
	OpcodeRefNull    Opcode = 0xd0
	OpcodeRefIsNull  Opcode = 0xd1
	OpcodeRefFunc    Opcode = 0xd2
	OpcodeRefAsNonNull Opcode = 0xd3
	OpcodeRefEq      Opcode = 0xd4

	// Prefix bytes: the next byte(s) (LEB128 u32) select a sub-opcode in a
	// dedicated enumeration.
	OpcodeMiscPrefix   Opcode = 0xfc
	OpcodeVecPrefix    Opcode = 0xfd
	OpcodeAtomicPrefix Opcode = 0xfe
	OpcodeGCPrefix     Opcode = 0xfb
)

// OpcodeMisc is the sub-opcode space behind OpcodeMiscPrefix: saturating
// truncation plus the bulk-memory/table ops.
type OpcodeMisc uint32

const (
	OpcodeMiscI32TruncSatF32S OpcodeMisc = 0x00
	OpcodeMiscI32TruncSatF32U OpcodeMisc = 0x01
	OpcodeMiscI32TruncSatF64S OpcodeMisc = 0x02
	OpcodeMiscI32TruncSatF64U OpcodeMisc = 0x03
	OpcodeMiscI64TruncSatF32S OpcodeMisc = 0x04
	OpcodeMiscI64TruncSatF32U OpcodeMisc = 0x05
	OpcodeMiscI64TruncSatF64S OpcodeMisc = 0x06
	OpcodeMiscI64TruncSatF64U OpcodeMisc = 0x07

	OpcodeMiscMemoryInit OpcodeMisc = 0x08
	OpcodeMiscDataDrop   OpcodeMisc = 0x09
	OpcodeMiscMemoryCopy OpcodeMisc = 0x0a
	OpcodeMiscMemoryFill OpcodeMisc = 0x0b
	OpcodeMiscTableInit  OpcodeMisc = 0x0c
	OpcodeMiscElemDrop   OpcodeMisc = 0x0d
	OpcodeMiscTableCopy  OpcodeMisc = 0x0e
	OpcodeMiscTableGrow  OpcodeMisc = 0x0f
	OpcodeMiscTableSize  OpcodeMisc = 0x10
	OpcodeMiscTableFill  OpcodeMisc = 0x11
)

// OpcodeVec is the sub-opcode space behind OpcodeVecPrefix (128-bit SIMD
// and relaxed-SIMD). Only a representative subset needed by the function
// compiler's SIMD lowering is enumerated; unknown sub-opcodes are a
// caller/validation bug.
type OpcodeVec uint32

const (
	OpcodeVecV128Load  OpcodeVec = 0x00
	OpcodeVecV128Store OpcodeVec = 0x0b
	OpcodeVecV128Const OpcodeVec = 0x0c

	OpcodeVecI8x16Shuffle OpcodeVec = 0x0d
	OpcodeVecI8x16Swizzle OpcodeVec = 0x0e
	OpcodeVecI8x16Splat   OpcodeVec = 0x0f

	OpcodeVecI8x16Eq  OpcodeVec = 0x23
	OpcodeVecI8x16Ne  OpcodeVec = 0x24

	OpcodeVecV128Not OpcodeVec = 0x4d
	OpcodeVecV128And OpcodeVec = 0x4e
	OpcodeVecV128Or  OpcodeVec = 0x50
	OpcodeVecV128Xor OpcodeVec = 0x51
	OpcodeVecV128Bitselect OpcodeVec = 0x52

	OpcodeVecV128AnyTrue OpcodeVec = 0x53

	OpcodeVecI8x16Abs     OpcodeVec = 0x60
	OpcodeVecI8x16Neg     OpcodeVec = 0x61
	OpcodeVecI8x16Popcnt  OpcodeVec = 0x62
	OpcodeVecI8x16AllTrue OpcodeVec = 0x63
	OpcodeVecI8x16Bitmask OpcodeVec = 0x64

	OpcodeVecI8x16NarrowI16x8S OpcodeVec = 0x65
	OpcodeVecI8x16NarrowI16x8U OpcodeVec = 0x66

	OpcodeVecI8x16Shl  OpcodeVec = 0x6b
	OpcodeVecI8x16ShrS OpcodeVec = 0x6c
	OpcodeVecI8x16ShrU OpcodeVec = 0x6d
	OpcodeVecI8x16Add  OpcodeVec = 0x6e
	OpcodeVecI8x16AddSatS OpcodeVec = 0x6f
	OpcodeVecI8x16AddSatU OpcodeVec = 0x70
	OpcodeVecI8x16Sub  OpcodeVec = 0x71
	OpcodeVecI8x16SubSatS OpcodeVec = 0x72
	OpcodeVecI8x16SubSatU OpcodeVec = 0x73
	OpcodeVecI8x16MinS OpcodeVec = 0x76
	OpcodeVecI8x16MinU OpcodeVec = 0x77
	OpcodeVecI8x16MaxS OpcodeVec = 0x78
	OpcodeVecI8x16MaxU OpcodeVec = 0x79
	OpcodeVecI8x16AvgrU OpcodeVec = 0x7b

	OpcodeVecI16x8ExtaddPairwiseI8x16S OpcodeVec = 0x7c
	OpcodeVecI16x8ExtaddPairwiseI8x16U OpcodeVec = 0x7d
	OpcodeVecI32x4ExtaddPairwiseI16x8S OpcodeVec = 0x7e
	OpcodeVecI32x4ExtaddPairwiseI16x8U OpcodeVec = 0x7f

	OpcodeVecI16x8Abs     OpcodeVec = 0x80
	OpcodeVecI16x8Neg     OpcodeVec = 0x81
	OpcodeVecI16x8Q15mulrSatS OpcodeVec = 0x82
	OpcodeVecI16x8AllTrue OpcodeVec = 0x83
	OpcodeVecI16x8Bitmask OpcodeVec = 0x84
	OpcodeVecI16x8Add     OpcodeVec = 0x8e
	OpcodeVecI16x8AddSatS OpcodeVec = 0x8f
	OpcodeVecI16x8AddSatU OpcodeVec = 0x90
	OpcodeVecI16x8Sub     OpcodeVec = 0x91
	OpcodeVecI16x8SubSatS OpcodeVec = 0x92
	OpcodeVecI16x8SubSatU OpcodeVec = 0x93
	OpcodeVecI16x8Mul     OpcodeVec = 0x95
	OpcodeVecI16x8MinS    OpcodeVec = 0x96
	OpcodeVecI16x8MinU    OpcodeVec = 0x97
	OpcodeVecI16x8MaxS    OpcodeVec = 0x98
	OpcodeVecI16x8MaxU    OpcodeVec = 0x99
	OpcodeVecI16x8AvgrU   OpcodeVec = 0x9b

	OpcodeVecI32x4Abs     OpcodeVec = 0xa0
	OpcodeVecI32x4Neg     OpcodeVec = 0xa1
	OpcodeVecI32x4AllTrue OpcodeVec = 0xa3
	OpcodeVecI32x4Bitmask OpcodeVec = 0xa4
	OpcodeVecI32x4Add     OpcodeVec = 0xae
	OpcodeVecI32x4Sub     OpcodeVec = 0xb1
	OpcodeVecI32x4Mul     OpcodeVec = 0xb5
	OpcodeVecI32x4MinS    OpcodeVec = 0xb6
	OpcodeVecI32x4MinU    OpcodeVec = 0xb7
	OpcodeVecI32x4MaxS    OpcodeVec = 0xb8
	OpcodeVecI32x4MaxU    OpcodeVec = 0xb9
	OpcodeVecI32x4DotI16x8S OpcodeVec = 0xba

	OpcodeVecI32x4TruncSatF32x4S OpcodeVec = 0xf8
	OpcodeVecI32x4TruncSatF32x4U OpcodeVec = 0xf9
	OpcodeVecI32x4TruncSatF64x2SZero OpcodeVec = 0xfc
	OpcodeVecI32x4TruncSatF64x2UZero OpcodeVec = 0xfd

	OpcodeVecI64x2Abs  OpcodeVec = 0xc0
	OpcodeVecI64x2Neg  OpcodeVec = 0xc1
	OpcodeVecI64x2Add  OpcodeVec = 0xce
	OpcodeVecI64x2Sub  OpcodeVec = 0xd1
	OpcodeVecI64x2Mul  OpcodeVec = 0xd5

	OpcodeVecF32x4Abs  OpcodeVec = 0xe0
	OpcodeVecF32x4Neg  OpcodeVec = 0xe1
	OpcodeVecF32x4Sqrt OpcodeVec = 0xe3
	OpcodeVecF32x4Add  OpcodeVec = 0xe4
	OpcodeVecF32x4Sub  OpcodeVec = 0xe5
	OpcodeVecF32x4Mul  OpcodeVec = 0xe6
	OpcodeVecF32x4Div  OpcodeVec = 0xe7
	OpcodeVecF32x4Min  OpcodeVec = 0xe8
	OpcodeVecF32x4Max  OpcodeVec = 0xe9

	OpcodeVecF64x2Abs  OpcodeVec = 0xec
	OpcodeVecF64x2Neg  OpcodeVec = 0xed
	OpcodeVecF64x2Sqrt OpcodeVec = 0xef
	OpcodeVecF64x2Add  OpcodeVec = 0xf0
	OpcodeVecF64x2Sub  OpcodeVec = 0xf1
	OpcodeVecF64x2Mul  OpcodeVec = 0xf2
	OpcodeVecF64x2Div  OpcodeVec = 0xf3
	OpcodeVecF64x2Min  OpcodeVec = 0xf4
	OpcodeVecF64x2Max  OpcodeVec = 0xf5

	// Relaxed-SIMD.
	OpcodeVecI16x8RelaxedDotI8x16I7x16S     OpcodeVec = 0x112
	OpcodeVecI32x4RelaxedDotI8x16I7x16AddS  OpcodeVec = 0x113
)

// OpcodeAtomic is the sub-opcode space behind OpcodeAtomicPrefix.
type OpcodeAtomic uint32

const (
	OpcodeAtomicMemoryNotify OpcodeAtomic = 0x00
	OpcodeAtomicMemoryWait32 OpcodeAtomic = 0x01
	OpcodeAtomicMemoryWait64 OpcodeAtomic = 0x02
	OpcodeAtomicFence        OpcodeAtomic = 0x03

	OpcodeAtomicI32Load     OpcodeAtomic = 0x10
	OpcodeAtomicI64Load     OpcodeAtomic = 0x11
	OpcodeAtomicI32Load8U   OpcodeAtomic = 0x12
	OpcodeAtomicI32Load16U  OpcodeAtomic = 0x13
	OpcodeAtomicI64Load8U   OpcodeAtomic = 0x14
	OpcodeAtomicI64Load16U  OpcodeAtomic = 0x15
	OpcodeAtomicI64Load32U  OpcodeAtomic = 0x16
	OpcodeAtomicI32Store    OpcodeAtomic = 0x17
	OpcodeAtomicI64Store    OpcodeAtomic = 0x18
	OpcodeAtomicI32Store8   OpcodeAtomic = 0x19
	OpcodeAtomicI32Store16  OpcodeAtomic = 0x1a
	OpcodeAtomicI64Store8   OpcodeAtomic = 0x1b
	OpcodeAtomicI64Store16  OpcodeAtomic = 0x1c
	OpcodeAtomicI64Store32  OpcodeAtomic = 0x1d

	OpcodeAtomicI32RmwAdd        OpcodeAtomic = 0x1e
	OpcodeAtomicI64RmwAdd        OpcodeAtomic = 0x1f
	OpcodeAtomicI32Rmw8AddU      OpcodeAtomic = 0x20
	OpcodeAtomicI32Rmw16AddU     OpcodeAtomic = 0x21
	OpcodeAtomicI64Rmw8AddU      OpcodeAtomic = 0x22
	OpcodeAtomicI64Rmw16AddU     OpcodeAtomic = 0x23
	OpcodeAtomicI64Rmw32AddU     OpcodeAtomic = 0x24
	OpcodeAtomicI32RmwSub        OpcodeAtomic = 0x25
	OpcodeAtomicI64RmwSub        OpcodeAtomic = 0x26
	OpcodeAtomicI32Rmw8SubU      OpcodeAtomic = 0x27
	OpcodeAtomicI32Rmw16SubU     OpcodeAtomic = 0x28
	OpcodeAtomicI64Rmw8SubU      OpcodeAtomic = 0x29
	OpcodeAtomicI64Rmw16SubU     OpcodeAtomic = 0x2a
	OpcodeAtomicI64Rmw32SubU     OpcodeAtomic = 0x2b
	OpcodeAtomicI32RmwAnd        OpcodeAtomic = 0x2c
	OpcodeAtomicI64RmwAnd        OpcodeAtomic = 0x2d
	OpcodeAtomicI32Rmw8AndU      OpcodeAtomic = 0x2e
	OpcodeAtomicI32Rmw16AndU     OpcodeAtomic = 0x2f
	OpcodeAtomicI64Rmw8AndU      OpcodeAtomic = 0x30
	OpcodeAtomicI64Rmw16AndU     OpcodeAtomic = 0x31
	OpcodeAtomicI64Rmw32AndU     OpcodeAtomic = 0x32
	OpcodeAtomicI32RmwOr         OpcodeAtomic = 0x33
	OpcodeAtomicI64RmwOr         OpcodeAtomic = 0x34
	OpcodeAtomicI32Rmw8OrU       OpcodeAtomic = 0x35
	OpcodeAtomicI32Rmw16OrU      OpcodeAtomic = 0x36
	OpcodeAtomicI64Rmw8OrU       OpcodeAtomic = 0x37
	OpcodeAtomicI64Rmw16OrU      OpcodeAtomic = 0x38
	OpcodeAtomicI64Rmw32OrU      OpcodeAtomic = 0x39
	OpcodeAtomicI32RmwXor        OpcodeAtomic = 0x3a
	OpcodeAtomicI64RmwXor        OpcodeAtomic = 0x3b
	OpcodeAtomicI32Rmw8XorU      OpcodeAtomic = 0x3c
	OpcodeAtomicI32Rmw16XorU     OpcodeAtomic = 0x3d
	OpcodeAtomicI64Rmw8XorU      OpcodeAtomic = 0x3e
	OpcodeAtomicI64Rmw16XorU     OpcodeAtomic = 0x3f
	OpcodeAtomicI64Rmw32XorU     OpcodeAtomic = 0x40
	OpcodeAtomicI32RmwXchg       OpcodeAtomic = 0x41
	OpcodeAtomicI64RmwXchg       OpcodeAtomic = 0x42
	OpcodeAtomicI32Rmw8XchgU     OpcodeAtomic = 0x43
	OpcodeAtomicI32Rmw16XchgU    OpcodeAtomic = 0x44
	OpcodeAtomicI64Rmw8XchgU     OpcodeAtomic = 0x45
	OpcodeAtomicI64Rmw16XchgU    OpcodeAtomic = 0x46
	OpcodeAtomicI64Rmw32XchgU    OpcodeAtomic = 0x47
	OpcodeAtomicI32RmwCmpxchg    OpcodeAtomic = 0x48
	OpcodeAtomicI64RmwCmpxchg    OpcodeAtomic = 0x49
	OpcodeAtomicI32Rmw8CmpxchgU  OpcodeAtomic = 0x4a
	OpcodeAtomicI32Rmw16CmpxchgU OpcodeAtomic = 0x4b
	OpcodeAtomicI64Rmw8CmpxchgU  OpcodeAtomic = 0x4c
	OpcodeAtomicI64Rmw16CmpxchgU OpcodeAtomic = 0x4d
	OpcodeAtomicI64Rmw32CmpxchgU OpcodeAtomic = 0x4e
)

// OpcodeGC is the sub-opcode space behind OpcodeGCPrefix: struct/array/i31
// construction and access.
type OpcodeGC uint32

const (
	OpcodeGCStructNew       OpcodeGC = 0x00
	OpcodeGCStructNewDefault OpcodeGC = 0x01
	OpcodeGCStructGet       OpcodeGC = 0x02
	OpcodeGCStructGetS      OpcodeGC = 0x03
	OpcodeGCStructGetU      OpcodeGC = 0x04
	OpcodeGCStructSet       OpcodeGC = 0x05

	OpcodeGCArrayNew        OpcodeGC = 0x06
	OpcodeGCArrayNewDefault OpcodeGC = 0x07
	OpcodeGCArrayNewFixed   OpcodeGC = 0x08
	OpcodeGCArrayNewData    OpcodeGC = 0x09
	OpcodeGCArrayNewElem    OpcodeGC = 0x0a
	OpcodeGCArrayGet        OpcodeGC = 0x0b
	OpcodeGCArrayGetS       OpcodeGC = 0x0c
	OpcodeGCArrayGetU       OpcodeGC = 0x0d
	OpcodeGCArraySet        OpcodeGC = 0x0e
	OpcodeGCArrayLen        OpcodeGC = 0x0f
	OpcodeGCArrayFill       OpcodeGC = 0x10
	OpcodeGCArrayCopy       OpcodeGC = 0x11
	OpcodeGCArrayInitData   OpcodeGC = 0x12
	OpcodeGCArrayInitElem   OpcodeGC = 0x13

	OpcodeGCRefTest     OpcodeGC = 0x14
	OpcodeGCRefTestNull OpcodeGC = 0x15
	OpcodeGCRefCast     OpcodeGC = 0x16
	OpcodeGCRefCastNull OpcodeGC = 0x17

	OpcodeGCBrOnCast     OpcodeGC = 0x18
	OpcodeGCBrOnCastFail OpcodeGC = 0x19

	OpcodeGCRefI31   OpcodeGC = 0x1c
	OpcodeGCI31GetS  OpcodeGC = 0x1d
	OpcodeGCI31GetU  OpcodeGC = 0x1e
)
