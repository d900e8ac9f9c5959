package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-httpmsg/cookie"
	"github.com/zostay/go-httpmsg/cookie/jar"
)

var (
	jarListURL   string
	jarCookieURL string
)

var jarCmd = &cobra.Command{
	Use:   "jar",
	Short: "Works with Netscape cookie jar files",
}

var jarListCmd = &cobra.Command{
	Use:   "list file",
	Short: "Lists the unexpired cookies of a jar as Set-Cookie headers",
	Args:  cobra.ExactArgs(1),
	RunE:  RunJarList,
}

var jarCookieCmd = &cobra.Command{
	Use:   "cookie file",
	Short: "Prints the Cookie header a client would send to a URL",
	Args:  cobra.ExactArgs(1),
	RunE:  RunJarCookie,
}

func init() {
	jarListCmd.Flags().StringVar(&jarListURL, "url", "", "only list cookies that would be sent to this URL")
	jarCookieCmd.Flags().StringVar(&jarCookieURL, "url", "", "the URL the request is for")
	_ = jarCookieCmd.MarkFlagRequired("url")

	jarCmd.AddCommand(jarListCmd, jarCookieCmd)
	rootCmd.AddCommand(jarCmd)
}

// readJar reads the jar file and drops the expired cookies.
func readJar(fn string) (*cookie.SetCookies, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	scs, err := jar.Read(f, jar.WithLogger(logger.With().Str("file", fn).Logger()))
	if err != nil {
		return nil, fmt.Errorf("unable to read cookie jar %s: %w", fn, err)
	}

	before := scs.Len()
	scs.FlushExpired(false)
	logger.Debug().
		Str("file", fn).
		Int("cookies", scs.Len()).
		Int("expired", before-scs.Len()).
		Msg("read cookie jar")

	return scs, nil
}

func RunJarList(cmd *cobra.Command, args []string) error {
	scs, err := readJar(args[0])
	if err != nil {
		return err
	}

	cs := scs.All()
	if jarListURL != "" {
		cs = scs.Matching(jarListURL)
	}

	for _, c := range cs {
		v, err := c.Format()
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Set-Cookie: %s\n", v); err != nil {
			return err
		}
	}

	return nil
}

func RunJarCookie(cmd *cobra.Command, args []string) error {
	scs, err := readJar(args[0])
	if err != nil {
		return err
	}

	line, err := scs.ToCookies(jarCookieURL).Format()
	if err != nil {
		return err
	}

	if line == "" {
		logger.Info().Str("url", jarCookieURL).Msg("no cookies match")
		return nil
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), line)
	return err
}
