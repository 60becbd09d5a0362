// Package leb128 decodes the LEB128-encoded immediates that appear inline
// in a WebAssembly instruction stream (block-type indices, branch labels,
// misc/vector/atomic/GC sub-opcodes, memory-access alignment and offset
// operands). The module handed to this compiler is pre-validated, so these
// decoders assume well-formed input; they return an error only for a
// truncated buffer or an encoding wider than the target integer.
package leb128

import "fmt"

// LoadUint32 decodes an unsigned LEB128 value into a uint32, returning the
// number of bytes consumed.
func LoadUint32(buf []byte) (uint32, uint64, error) {
	v, n, err := loadUint(buf, 32)
	return uint32(v), n, err
}

// LoadUint64 decodes an unsigned LEB128 value into a uint64, returning the
// number of bytes consumed.
func LoadUint64(buf []byte) (uint64, uint64, error) {
	return loadUint(buf, 64)
}

// LoadInt32 decodes a signed LEB128 value into an int32, returning the
// number of bytes consumed.
func LoadInt32(buf []byte) (int32, uint64, error) {
	v, n, err := loadInt(buf, 32)
	return int32(v), n, err
}

// LoadInt64 decodes a signed LEB128 value into an int64, returning the
// number of bytes consumed.
func LoadInt64(buf []byte) (int64, uint64, error) {
	return loadInt(buf, 64)
}

func loadUint(buf []byte, size int) (uint64, uint64, error) {
	var result uint64
	var shift uint
	var n uint64
	for {
		if int(n) >= len(buf) {
			return 0, n, fmt.Errorf("leb128: unexpected end of buffer")
		}
		b := buf[n]
		n++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= uint(size)+7 {
			return 0, n, fmt.Errorf("leb128: overflow decoding %d-bit uint", size)
		}
	}
	return result, n, nil
}

func loadInt(buf []byte, size int) (int64, uint64, error) {
	var result int64
	var shift uint
	var n uint64
	var b byte
	for {
		if int(n) >= len(buf) {
			return 0, n, fmt.Errorf("leb128: unexpected end of buffer")
		}
		b = buf[n]
		n++
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= uint(size) {
			return 0, n, fmt.Errorf("leb128: overflow decoding %d-bit int", size)
		}
	}
	// Sign-extend if the sign bit of the last read byte group is set and
	// we haven't consumed the full width.
	if shift < uint(size) && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, n, nil
}
