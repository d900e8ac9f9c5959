package field

import (
	"strings"
)

// BadStartError is returned when the header begins with continuation text
// that does not belong to any header line. This text is preserved in the error
// object.
type BadStartError struct {
	BadStart string // the text skipped at the start of header
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with continuation text that does not belong to a header"
}

// ParseLines splits a block of header text into logical lines. Both CRLF and
// bare LF line endings are accepted. Any physical line starting with a space
// or tab is treated as a folded continuation of the line before it and is
// joined to it, with the line break removed. Blank lines are dropped.
//
// Lines without a colon are returned as-is: it is up to the caller to decide
// whether they are status lines, markers, or garbage.
//
// If the input begins with continuation lines, they are skipped and a
// BadStartError is returned along with the rest of the lines.
func ParseLines(text string) ([]string, error) {
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	var err *BadStartError
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if len(lines) == 0 {
				if err != nil {
					err.BadStart += line + "\n"
				} else {
					err = &BadStartError{line + "\n"}
				}
				continue
			}

			lines[len(lines)-1] += line
			continue
		}

		lines = append(lines, line)
	}

	if err != nil {
		return lines, err
	}
	return lines, nil
}

// Parse will take a single header field line, including any folded
// continuation lines, and construct a header field object from it. The line is
// split on the first colon only. The name and body are trimmed and the body is
// sanitized the same way as New sanitizes values.
//
// It returns nil if the line contains no colon or the name is empty, leaving
// the caller to decide if the line is a status line or malformed.
func Parse(line string) *Field {
	unfolded := string(DefaultFoldEncoding.Unfold([]byte(line)))

	name, body, found := strings.Cut(unfolded, ":")
	if !found {
		return nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	return New(name, strings.TrimSpace(body))
}
