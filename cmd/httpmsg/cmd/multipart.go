package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/go-httpmsg/message"
	"github.com/zostay/go-httpmsg/param"
	"github.com/zostay/go-httpmsg/transfer"
)

var (
	multipartMime     string
	multipartBoundary string
	multipartOptimal  bool
)

var multipartCmd = &cobra.Command{
	Use:   "multipart name=value|name=@path ...",
	Short: "Composes a multipart message and writes it to standard output",
	Long: `Composes a multipart message from the arguments. Each argument names a
part. A value starting with "@" names a file to read the part from.`,
	Args: cobra.MinimumNArgs(1),
	RunE: RunMultipart,
}

func init() {
	multipartCmd.Flags().StringVar(&multipartMime, "mime", message.FormData, "the media type of the message")
	multipartCmd.Flags().StringVar(&multipartBoundary, "boundary", "", "the boundary to use (default $HTTPMSG_BOUNDARY or random)")
	multipartCmd.Flags().BoolVar(&multipartOptimal, "optimal", false, "pick the cheapest transfer encoding for each part")
	rootCmd.AddCommand(multipartCmd)
}

func RunMultipart(cmd *cobra.Command, args []string) error {
	boundary := cfg.Boundary()
	if cmd.Flags().Changed("boundary") {
		boundary = multipartBoundary
	}

	opts := []message.Option{message.WithMime(multipartMime)}
	if boundary != "" {
		opts = append(opts, message.WithBoundary(boundary))
	}

	mp := message.New(opts...)
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found || name == "" {
			return fmt.Errorf("expected name=value or name=@path, got %q", arg)
		}

		popts := []message.PartOption{message.Name(name)}

		var content []byte
		if strings.HasPrefix(value, "@") {
			fn := value[1:]
			data, err := os.ReadFile(fn)
			if err != nil {
				return err
			}

			content = data
			popts = append(popts, message.Filename(filepath.Base(fn)))
			if pv, err := param.Parse(mime.TypeByExtension(filepath.Ext(fn))); err == nil {
				popts = append(popts, message.Mime(pv.MediaType()), message.Charset(pv.Charset()))
			}
		} else {
			content = []byte(value)
		}

		if multipartOptimal {
			popts = append(popts, message.Encoding(transfer.OptimalEncoding(content)))
		}

		if _, err := mp.Add(content, popts...); err != nil {
			return fmt.Errorf("unable to add part %q: %w", name, err)
		}
	}

	_ = message.WalkParts(mp, func(depth, i int, p *message.Part) error {
		logger.Debug().
			Int("depth", depth).
			Int("index", i).
			Str("name", p.Name()).
			Str("filename", p.Filename()).
			Str("mime", p.Mime()).
			Str("encoding", p.Encoding()).
			Msg("composed part")
		return nil
	})

	_, err := mp.WriteTo(cmd.OutOrStdout())
	return err
}
