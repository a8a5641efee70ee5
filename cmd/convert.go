package cmd

import (
	"fmt"
	"os"

	"github.com/Dahie/rbbcode/pkg/convert"
	"github.com/spf13/cobra"
)

func newConverter(cmd *cobra.Command) (*convert.Converter, func()) {
	cfg := getConfig(cmd)
	p, logger, err := newParser(cfg)
	if err != nil {
		exit(err)
	}

	var options []func(*convert.Converter)
	if document, _ := cmd.Flags().GetBool("document"); document {
		options = append(options, convert.WithDocument())
	}
	if size, _ := cmd.Flags().GetInt64("size"); size > 0 {
		options = append(options, convert.WithMaxFileSize(size*1024))
	}
	c := convert.New(os.DirFS(cfg.Root), cfg.Root, p, logger, options...)
	return c, func() { logger.Close() }
}

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert .bb and .bbcode files of a directory into HTML files",
	Long: `Convert .bb and .bbcode files of a directory into HTML files

Every source file gets an .html file with the same name next to it. Hidden directories and node_modules are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		c, closeLog := newConverter(cmd)
		defer closeLog()

		stats, err := c.ProcessFiles()
		if err != nil {
			exit(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), stats)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	addConvertFlags(convertCmd)
}

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("document", "d", false, "write complete HTML documents instead of fragments")
	cmd.Flags().Int64("size", convert.MaxFileSize/1024, "maximum source file size in KB")
}
