package room

import (
	"errors"
	"fmt"
)

var ErrCorrupt = errors.New("corrupt RLE data")

// The block RLE stores the low bytes of every 16-bit value in one pass and the
// high bytes in a second pass. Each pass opens with the width of its count
// fields (1 or 2 bytes). A count with its top bit set repeats the following
// byte; otherwise that many literal bytes follow. A zero count ends the pass.

const maxRun = 0x7F

// DecompressRLE expands size bytes from src, returning them and the number of
// compressed bytes consumed.
func DecompressRLE(src []byte, size int) ([]byte, int, error) {
	if size&1 != 0 {
		return nil, 0, fmt.Errorf("odd output size %d: %w", size, ErrCorrupt)
	}
	dst := make([]byte, size)
	half := size / 2
	pos := 0

	next := func() (byte, error) {
		if pos >= len(src) {
			return 0, fmt.Errorf("read past end at %d: %w", pos, ErrCorrupt)
		}
		b := src[pos]
		pos++
		return b, nil
	}

	for pass := 0; pass < 2; pass++ {
		width, err := next()
		if err != nil {
			return nil, 0, err
		}
		if width != 1 && width != 2 {
			return nil, 0, fmt.Errorf("count width %d: %w", width, ErrCorrupt)
		}
		repeat := 0x80
		if width == 2 {
			repeat = 0x8000
		}

		i := 0
		for {
			var count int
			b, err := next()
			if err != nil {
				return nil, 0, err
			}
			count = int(b)
			if width == 2 {
				lo, err := next()
				if err != nil {
					return nil, 0, err
				}
				count = count<<8 | int(lo)
			}
			if count == 0 {
				break
			}

			if count&repeat != 0 {
				count &^= repeat
				v, err := next()
				if err != nil {
					return nil, 0, err
				}
				if i+count > half {
					return nil, 0, fmt.Errorf("run overflows output: %w", ErrCorrupt)
				}
				for j := 0; j < count; j++ {
					dst[(i+j)*2+pass] = v
				}
			} else {
				if i+count > half {
					return nil, 0, fmt.Errorf("literal overflows output: %w", ErrCorrupt)
				}
				for j := 0; j < count; j++ {
					v, err := next()
					if err != nil {
						return nil, 0, err
					}
					dst[(i+j)*2+pass] = v
				}
			}
			i += count
		}
	}

	return dst, pos, nil
}

// CompressRLE is the inverse of DecompressRLE. It always emits 1-byte counts.
func CompressRLE(src []byte) []byte {
	out := make([]byte, 0, len(src)/2)
	half := len(src) / 2

	for pass := 0; pass < 2; pass++ {
		plane := make([]byte, half)
		for i := range plane {
			plane[i] = src[i*2+pass]
		}

		out = append(out, 1)
		lit := 0 // start of pending literal bytes
		i := 0
		flush := func(end int) {
			for lit < end {
				n := end - lit
				if n > maxRun {
					n = maxRun
				}
				out = append(out, byte(n))
				out = append(out, plane[lit:lit+n]...)
				lit += n
			}
		}

		for i < half {
			run := 1
			for i+run < half && plane[i+run] == plane[i] && run < maxRun {
				run++
			}
			if run >= 3 {
				flush(i)
				out = append(out, byte(0x80|run), plane[i])
				i += run
				lit = i
				continue
			}
			i++
		}
		flush(half)
		out = append(out, 0)
	}

	return out
}
