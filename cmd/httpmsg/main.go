package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-httpmsg/cmd/httpmsg/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
