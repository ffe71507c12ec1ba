package register

// Pack32 splits a 32-bit value into register words, low word first.
func Pack32(v uint32) [2]uint16 {
	return [2]uint16{uint16(v & 0xFFFF), uint16(v >> 16)}
}

// Unpack32 joins two register words (low word first) into a 32-bit value.
func Unpack32(lo, hi uint16) uint32 {
	return uint32(hi)<<16 | uint32(lo)
}

// SignExtend16 interprets a register word as a two's-complement value.
func SignExtend16(w uint16) int64 {
	return int64(int16(w))
}

// SignExtend32 interprets a 32-bit value as two's-complement.
func SignExtend32(v uint32) int64 {
	return int64(int32(v))
}

// Wire returns the bytes of the given words in Modbus (big-endian) order.
func Wire(words []uint16) []byte {
	out := make([]byte, 0, 2*len(words))
	for _, w := range words {
		out = append(out, byte(w>>8), byte(w))
	}
	return out
}
