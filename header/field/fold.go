package field

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

const (
	DefaultFoldIndent          = " " // indent placed before folded lines
	DefaultPreferredFoldLength = 78  // we prefer header lines shorter than this
	DefaultForcedFoldLength    = 998 // we forceably break header lines longer than this

	DoNotFold = -1 // we prefer not to fold at all
)

var (
	// DefaultFoldEncoding folds at the line lengths recommended for MIME
	// headers by RFC 5322. This is the fold encoding used for the headers of
	// message parts.
	DefaultFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DefaultPreferredFoldLength,
		DefaultForcedFoldLength,
	}

	// DoNotFoldEncoding is a FoldEncoding that doesn't perform folding. HTTP
	// headers use this by default as line folding is obsolete in HTTP/1.1.
	DoNotFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DoNotFold,
		DoNotFold,
	}
)

var (
	// ErrFoldIndentSpace is returned by NewFoldEncoding when a non-space/non-tab
	// character is put in the foldIndent setting.
	ErrFoldIndentSpace = errors.New("fold indent may only contains spaces and tabs")

	// ErrFoldIndentTooShort is returned by NewFoldEncoding when the foldIndent
	// is empty.
	ErrFoldIndentTooShort = errors.New("fold indent must contain at least one space or tab")

	// ErrFoldIndentTooLong is returned by NewFoldEncoding when the foldIndent
	// setting is equal to or longer than the preferredFoldLength.
	ErrFoldIndentTooLong = errors.New("fold indent must be shorter than the preferred fold length")

	// ErrFoldLengthTooLong is returned by NewFoldEncoding when the
	// preferredFoldLength is longer than the forcedFoldLength.
	ErrFoldLengthTooLong = errors.New("preferred fold length must be no longer than the forced fold length")

	// ErrFoldLengthTooShort is returned by NewFoldEncoding when the
	// forcedFoldLength is shorter than 3 bytes long.
	ErrFoldLengthTooShort = errors.New("preferred fold length and forced fold length cannot be too short")

	// ErrDoNotFold is returned by NewFoldEncoding when the preferredFoldLength
	// or forcedFoldLength are set to DoNotFold (-1), but both are not set that
	// way. You must set both to DoNotFold to prevent folding or neither to
	// DoNotFold.
	ErrDoNotFold = errors.New("preferred fold length and forced fold length must both be -1 if either are -1")
)

// FoldEncoding provides the tooling for folding header field lines.
type FoldEncoding struct {
	foldIndent          string
	preferredFoldLength int
	forcedFoldLength    int
}

// NewFoldEncoding creates a new FoldEncoding with the given settings. The
// foldIndent must be a string, filled with one or more space or tab characters,
// and it must be shorter than the preferredFoldLength. The preferredFoldLength
// must be equal to or less than forcedFoldLength. if any of the given inputs do
// not meet these requirements, an error will be returned.
//
// A header is never folded inside the field name or before the first
// character of the field body.
func NewFoldEncoding(
	foldIndent string,
	preferredFoldLength,
	forcedFoldLength int,
) (*FoldEncoding, error) {
	if ix := strings.IndexFunc(foldIndent, func(c rune) bool { return !isSpace(c) }); ix >= 0 {
		return nil, ErrFoldIndentSpace
	}

	if len(foldIndent) < 1 {
		return nil, ErrFoldIndentTooShort
	}

	if (preferredFoldLength == DoNotFold && forcedFoldLength != DoNotFold) ||
		(forcedFoldLength == DoNotFold && preferredFoldLength != DoNotFold) {
		return nil, ErrDoNotFold
	}

	if preferredFoldLength != DoNotFold {
		if len(foldIndent) >= preferredFoldLength {
			return nil, ErrFoldIndentTooLong
		}

		if preferredFoldLength > forcedFoldLength {
			return nil, ErrFoldLengthTooLong
		}

		if preferredFoldLength < 3 || forcedFoldLength < 3 {
			return nil, ErrFoldLengthTooShort
		}
	}

	return &FoldEncoding{foldIndent, preferredFoldLength, forcedFoldLength}, nil
}

// Wrap returns a FoldEncoding that folds at the given column, the way a caller
// asks for word-wrapping of a header. A width of zero or less returns
// DoNotFoldEncoding.
func Wrap(width int) (*FoldEncoding, error) {
	if width <= 0 {
		return DoNotFoldEncoding, nil
	}

	forced := DefaultForcedFoldLength
	if width > forced {
		forced = width
	}

	return NewFoldEncoding(DefaultFoldIndent, width, forced)
}

// Folds returns true if this encoding performs any folding.
func (vf *FoldEncoding) Folds() bool {
	return vf.preferredFoldLength != DoNotFold
}

// Unfold will take a folded header line and unfold it for reading. This gives
// you the proper header body value.
func (vf *FoldEncoding) Unfold(f []byte) []byte {
	uf := make([]byte, 0, len(f))
	for _, b := range f {
		if !isCRLF(rune(b)) {
			uf = append(uf, b)
		}
	}
	return uf
}

func isCRLF(c rune) bool     { return c == '\r' || c == '\n' }
func isSpace(c rune) bool    { return c == ' ' || c == '\t' }
func isNonSpace(c rune) bool { return c != ' ' && c != '\t' }

// Fold writes a single unfolded header line to out, breaking it into physical
// lines joined by lb. Each continuation line starts with the fold indent. A
// break goes at the last space before the preferred length when there is one,
// at the first space after it when that comes before the forced length, and
// at the preferred length otherwise if the line is too long to leave alone.
//
// Nothing is written after the last physical line. It returns the number of
// bytes written.
func (vf *FoldEncoding) Fold(out io.Writer, f []byte, lb []byte) (int64, error) {
	fw := &folder{out: out, lb: lb, indent: []byte(vf.foldIndent)}

	if !vf.Folds() || len(f) <= vf.preferredFoldLength {
		err := fw.line(f)
		return fw.n, err
	}

	rest := f
	for len(rest) > 0 {
		width, forced := vf.preferredFoldLength, vf.forcedFoldLength
		if fw.continuing {
			width -= len(fw.indent)
			forced -= len(fw.indent)
		}

		end := foldPoint(rest, bodyStart(rest, fw.continuing), width, forced)
		if err := fw.line(rest[:end]); err != nil {
			return fw.n, err
		}
		rest = bytes.TrimLeft(rest[end:], " \t")
	}

	return fw.n, nil
}

// bodyStart is the first position a break may come after. The first physical
// line is never broken before the first character of the field body.
func bodyStart(line []byte, continuing bool) int {
	start := 0
	if continuing {
		start = bytes.IndexFunc(line, isNonSpace)
	} else if colon := bytes.IndexByte(line, ':'); colon >= 0 {
		start = bytes.IndexFunc(line[colon+1:], isNonSpace)
		if start >= 0 {
			start += colon + 1
		}
	}

	if start < 0 {
		return 0
	}
	return start
}

// foldPoint returns the length of the next physical line taken from line.
func foldPoint(line []byte, start, width, forced int) int {
	if len(line) <= width {
		return len(line)
	}

	if start < width {
		if ix := bytes.LastIndexFunc(line[start:width], isSpace); ix > 0 {
			return start + ix
		}
	}

	if ix := bytes.IndexFunc(line[start:], isSpace); ix > 0 && start+ix < forced {
		return start + ix
	}

	if len(line) <= forced {
		return len(line)
	}

	if width <= start {
		return start + 1
	}
	return width
}

// folder writes physical lines, counting what it writes.
type folder struct {
	out        io.Writer
	lb         []byte
	indent     []byte
	continuing bool
	n          int64
}

func (fw *folder) write(b []byte) error {
	n, err := fw.out.Write(b)
	fw.n += int64(n)
	return err
}

func (fw *folder) line(b []byte) error {
	if fw.continuing {
		if err := fw.write(fw.lb); err != nil {
			return err
		}
		if err := fw.write(fw.indent); err != nil {
			return err
		}
	}

	fw.continuing = true
	return fw.write(b)
}
