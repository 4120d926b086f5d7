package credits

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"metpatch/rom"
)

const (
	lineSize  = 36 // type, blank lines, text, zero padding
	lineWidth = 30 // visible columns
	textMax   = lineSize - 2
)

var (
	ErrLineTooLong = errors.New("credits line too long")
	ErrUnencodable = errors.New("text has characters the credits font lacks")
	ErrNoEnd       = errors.New("credits table has no end record")
	ErrUnknownType = errors.New("unknown credits line type")
	ErrUnsupported = errors.New("credits are not supported for this game")
)

type LineType uint8

const (
	Blank LineType = iota
	Blue
	Red
	White1
	White2
	Copyright1
	Copyright2
	Copyright3
	Copyright4
	End
	lineTypeCount
)

// record type bytes
var typeValues = [lineTypeCount]uint8{
	Blank:      0x5,
	Blue:       0x0,
	Red:        0x1,
	White1:     0x3,
	White2:     0x2,
	Copyright1: 0xA,
	Copyright2: 0xB,
	Copyright3: 0xC,
	Copyright4: 0xD,
	End:        0x6,
}

var typeNames = [lineTypeCount]string{
	"Blank", "Blue", "Red", "White1", "White2",
	"Copyright1", "Copyright2", "Copyright3", "Copyright4", "End",
}

func (t LineType) String() string {
	if t >= lineTypeCount {
		return fmt.Sprintf("LineType(%d)", uint8(t))
	}
	return typeNames[t]
}

// HasText reports whether lines of this type show their text.
func (t LineType) HasText() bool {
	return t >= Blue && t <= White2
}

// ParseLineType accepts the types custom lines may use.
func ParseLineType(s string) (LineType, error) {
	for t := Blank; t <= White2; t++ {
		if typeNames[t] == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownType)
}

func typeForValue(v uint8) (LineType, bool) {
	for t, tv := range typeValues {
		if tv == v {
			return LineType(t), true
		}
	}
	return 0, false
}

// Line is one credits record.
type Line struct {
	Type       LineType
	BlankLines uint8 // blank lines shown after this one
	Text       string
	Centered   bool
}

var fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldASCII strips diacritics; anything still outside printable ASCII is an
// error.
func foldASCII(s string) (string, error) {
	out, _, err := transform.String(fold, s)
	if err != nil {
		return "", err
	}
	for _, c := range out {
		if c < 0x20 || c > 0x7E {
			return "", fmt.Errorf("%q: %w", s, ErrUnencodable)
		}
	}
	return out, nil
}

// Encode produces the record bytes.
func (l Line) Encode() ([]byte, error) {
	if l.Type >= lineTypeCount {
		return nil, fmt.Errorf("%d: %w", l.Type, ErrUnknownType)
	}
	b := make([]byte, 2, lineSize)
	b[0] = typeValues[l.Type]
	b[1] = l.BlankLines

	if l.Type.HasText() && l.Text != "" {
		text, err := foldASCII(l.Text)
		if err != nil {
			return nil, err
		}
		if l.Centered && len(text) < lineWidth {
			text = strings.Repeat(" ", (lineWidth-len(text))/2) + text
		}
		if len(text) > textMax {
			return nil, fmt.Errorf("%q: %w", l.Text, ErrLineTooLong)
		}
		b = append(b, text...)
	}
	return b[:lineSize], nil
}

// DecodeLine reads one record. Leading spaces stay part of the text.
func DecodeLine(b []byte) (Line, error) {
	t, ok := typeForValue(b[0])
	if !ok {
		return Line{}, fmt.Errorf("type byte $%02X: %w", b[0], ErrUnknownType)
	}
	text := b[2:lineSize]
	if i := strings.IndexByte(string(text), 0); i >= 0 {
		text = text[:i]
	}
	return Line{Type: t, BlankLines: b[1], Text: string(text)}, nil
}

// tableLen finds the length of the table at addr, end record included,
// looking at most limit bytes.
func tableLen(r *rom.Rom, addr, limit int) (int, error) {
	for n := 0; n+lineSize <= limit && addr+n+lineSize <= r.Size(); n += lineSize {
		if r.Read8(addr+n) == typeValues[End] {
			return n + lineSize, nil
		}
	}
	return 0, fmt.Errorf("table at $%X: %w", addr, ErrNoEnd)
}

// ReadLines decodes the table the pointer at ptr refers to.
func ReadLines(r *rom.Rom, ptr, limit int) ([]Line, error) {
	addr, err := r.ReadPtr(ptr)
	if err != nil {
		return nil, err
	}
	n, err := tableLen(r, addr, limit)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, n/lineSize)
	for i := 0; i < n; i += lineSize {
		l, err := DecodeLine(r.ReadBytes(addr+i, lineSize))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i/lineSize, err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// Insert places custom lines ahead of the existing credits table (which
// spans at most limit bytes) and writes the result back, relocating it when
// it no longer fits.
func Insert(r *rom.Rom, ptr, limit int, custom []Line, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if ptr == 0 {
		return fmt.Errorf("%s: %w", r.Game, ErrUnsupported)
	}

	data := make([]byte, 0, (len(custom)+1)*lineSize)
	for i, l := range custom {
		b, err := l.Encode()
		if err != nil {
			return fmt.Errorf("custom line %d: %w", i, err)
		}
		data = append(data, b...)
	}

	addr, err := r.ReadPtr(ptr)
	if err != nil {
		return err
	}
	n, err := tableLen(r, addr, limit)
	if err != nil {
		return err
	}
	data = append(data, r.ReadBytes(addr, n)...)

	at, err := r.WriteRepointable(ptr, n, data, []int{ptr})
	if err != nil {
		return fmt.Errorf("credits: %w", err)
	}
	log.Info("credits written",
		zap.Int("custom", len(custom)),
		zap.Int("lines", len(data)/lineSize),
		zap.String("addr", fmt.Sprintf("$%X", at)),
		zap.Bool("relocated", at != addr),
	)
	return nil
}
