// SPDX-License-Identifier: EPL-2.0

package ogg

// Ogg checksums use the CRC-32 polynomial 0x04C11DB7 processed MSB-first,
// with a zero initial value and no final XOR. hash/crc32 only implements the
// reflected form, which is the same CRC with every input and output bit
// order reversed.

var crcTable [256]uint32

func init() {
	const poly = uint32(0x04c11db7)
	for i := range crcTable {
		r := uint32(i) << 24
		for range 8 {
			if r&0x80000000 != 0 {
				r = r<<1 ^ poly
			} else {
				r <<= 1
			}
		}
		crcTable[i] = r
	}
}

func crcUpdate(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc = crc<<8 ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}

// Checksum computes the Ogg CRC of p.
func Checksum(p []byte) uint32 {
	return crcUpdate(0, p)
}
