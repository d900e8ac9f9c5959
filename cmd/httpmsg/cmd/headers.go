package cmd

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/go-httpmsg/header"
	"github.com/zostay/go-httpmsg/header/field"
	"github.com/zostay/go-httpmsg/httpheader"
)

var (
	headersDiff    bool
	headersWrap    int
	headersMaxLine int
)

var headersCmd = &cobra.Command{
	Use:   "headers [file]",
	Short: "Parses an HTTP header block and renders it again",
	Long: `Parses an HTTP header block from the file or standard input and renders
it again. Lines that are not headers are logged and dropped. Use --diff to
see what changed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: RunHeaders,
}

func init() {
	headersCmd.Flags().BoolVar(&headersDiff, "diff", false, "show the difference between the input and the output")
	headersCmd.Flags().IntVar(&headersWrap, "wrap", 0, "fold header lines at this width, 0 to not fold (default $HTTPMSG_WRAP)")
	headersCmd.Flags().IntVar(&headersMaxLine, "max-line", 0, "longest header line allowed, 0 for no limit (default $HTTPMSG_MAX_LINE)")
	rootCmd.AddCommand(headersCmd)
}

// detectBreak picks the line break the text uses.
func detectBreak(text string) header.Break {
	if strings.Contains(text, header.CRLF.String()) {
		return header.CRLF
	}
	return header.LF
}

func RunHeaders(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	text := string(in)
	kind := httpheader.DetectKind(text)
	logger.Debug().
		Stringer("kind", kind).
		Int("bytes", len(in)).
		Msg("parsing header block")

	h := httpheader.Parse(text, kind,
		header.WithLogger(logger),
		header.WithBreak(detectBreak(text)),
	)

	wrap := cfg.Wrap()
	if cmd.Flags().Changed("wrap") {
		wrap = headersWrap
	}

	vf, err := field.Wrap(wrap)
	if err != nil {
		return fmt.Errorf("unable to wrap at %d: %w", wrap, err)
	}
	h.SetFoldEncoding(vf)

	maxLine := cfg.MaxLine()
	if cmd.Flags().Changed("max-line") {
		maxLine = headersMaxLine
	}
	h.SetMaxLineLength(maxLine)

	out, err := h.Format()
	if err != nil {
		return err
	}

	if !headersDiff {
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), lineDiff(text, out))
	return err
}

// lineDiff compares the texts line by line. Each line of the result is
// prefixed with "-" when only in a, "+" when only in b, or a space.
func lineDiff(a, b string) string {
	norm := strings.NewReplacer("\r\n", "\n")
	a, b = norm.Replace(a), norm.Replace(b)

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
