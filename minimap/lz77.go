package minimap

import (
	"errors"
	"fmt"
)

var ErrCorrupt = errors.New("corrupt LZ77 data")

// GBA BIOS LZ77 (type $10): a 4-byte header holding the type and the 24-bit
// decompressed size, then groups of 8 tokens led by a flag byte read MSB
// first. A set flag marks a 2-byte back reference, a clear flag one literal.
const (
	lzType    = 0x10
	lzWindow  = 0x1000
	lzMinLen  = 3
	lzMaxLen  = 0x12
	lzMinDisp = 2 // VRAM destinations can't take a displacement of 1
)

// Decompress expands src and returns the data and the number of compressed
// bytes consumed.
func Decompress(src []byte) ([]byte, int, error) {
	if len(src) < 4 || src[0] != lzType {
		return nil, 0, fmt.Errorf("bad header: %w", ErrCorrupt)
	}
	size := int(src[1]) | int(src[2])<<8 | int(src[3])<<16
	dst := make([]byte, 0, size)
	pos := 4

	for len(dst) < size {
		if pos >= len(src) {
			return nil, 0, fmt.Errorf("flags past end at %d: %w", pos, ErrCorrupt)
		}
		flags := src[pos]
		pos++

		for bit := 7; bit >= 0 && len(dst) < size; bit-- {
			if flags&(1<<bit) == 0 {
				if pos >= len(src) {
					return nil, 0, fmt.Errorf("literal past end at %d: %w", pos, ErrCorrupt)
				}
				dst = append(dst, src[pos])
				pos++
				continue
			}

			if pos+1 >= len(src) {
				return nil, 0, fmt.Errorf("reference past end at %d: %w", pos, ErrCorrupt)
			}
			b0, b1 := src[pos], src[pos+1]
			pos += 2
			n := int(b0>>4) + lzMinLen
			disp := (int(b0&0xF)<<8 | int(b1)) + 1
			if disp > len(dst) {
				return nil, 0, fmt.Errorf("displacement %d before start of output: %w", disp, ErrCorrupt)
			}
			from := len(dst) - disp
			for i := 0; i < n && len(dst) < size; i++ {
				dst = append(dst, dst[from+i])
			}
		}
	}

	return dst, pos, nil
}

// Compress produces data Decompress (and the BIOS) accepts, padded to a
// multiple of 4 bytes.
func Compress(src []byte) []byte {
	out := make([]byte, 4, len(src)/2+8)
	out[0] = lzType
	out[1] = byte(len(src))
	out[2] = byte(len(src) >> 8)
	out[3] = byte(len(src) >> 16)

	pos := 0
	for pos < len(src) {
		flagAt := len(out)
		out = append(out, 0)

		for bit := 7; bit >= 0 && pos < len(src); bit-- {
			n, disp := longestMatch(src, pos)
			if n < lzMinLen {
				out = append(out, src[pos])
				pos++
				continue
			}
			out[flagAt] |= 1 << bit
			d := disp - 1
			out = append(out, byte((n-lzMinLen)<<4|d>>8), byte(d))
			pos += n
		}
	}

	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	return out
}

// longestMatch finds the longest earlier run matching src[pos:], preferring
// the nearest one.
func longestMatch(src []byte, pos int) (n, disp int) {
	limit := len(src) - pos
	if limit > lzMaxLen {
		limit = lzMaxLen
	}
	for d := lzMinDisp; d <= lzWindow && d <= pos; d++ {
		from := pos - d
		k := 0
		for k < limit && src[from+k] == src[pos+k] {
			k++
		}
		if k > n {
			n, disp = k, d
			if k == limit {
				break
			}
		}
	}
	return n, disp
}
