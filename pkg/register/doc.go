// Package register maps DSY-RS parameter codes to Modbus holding register
// addresses and packs logical integers into 16-bit register words.
//
// # Address Calculation
//
// Parameters are written PXX.YY where XX is the group (00-24) and YY the
// index inside the group (00-99). The register address is:
//
//	address = XX * 256 + YY   // P18.01 = 0x1201
//
// # Word Order
//
// 32-bit values occupy two consecutive registers. The low 16 bits are stored
// at the lower address, the high 16 bits at the next one. Each register is
// transmitted big-endian inside the Modbus frame.
//
// # Scaling
//
// Scales are decimal exponents (0.1 = -1, 0.01 = -2). Decoded values are kept
// as integer/exponent pairs so rendering them never introduces float drift.
package register
