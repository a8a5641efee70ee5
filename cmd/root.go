package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Dahie/rbbcode/pkg/bbcode"
	"github.com/Dahie/rbbcode/pkg/config"
	"github.com/Dahie/rbbcode/pkg/log"
	"github.com/spf13/cobra"
)

type programCfg struct {
	ConfigPath string
	LogPath    string
	Root       string
}

func getConfig(cmd *cobra.Command) programCfg {
	configPath, _ := cmd.Flags().GetString("config")
	logPath, _ := cmd.Flags().GetString("log")
	root, _ := cmd.Flags().GetString("path")
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			exit(err)
		}
	}
	return programCfg{
		ConfigPath: configPath,
		LogPath:    logPath,
		Root:       root,
	}
}

// newParser builds a parser from the config file and opens the log.
func newParser(cfg programCfg) (*bbcode.Parser, log.Logger, error) {
	logger, err := log.New(cfg.LogPath)
	if err != nil {
		return nil, nil, err
	}
	conf, err := config.Load(cfg.ConfigPath)
	if err != nil {
		logger.Close()
		return nil, nil, err
	}
	options := append(conf.Options(), bbcode.WithLogger(logger))
	return bbcode.New(options...), logger, nil
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// render converts every input and writes the HTML to out, one line per input.
func render(p *bbcode.Parser, inputs []io.Reader, out io.Writer) error {
	for _, in := range inputs {
		data, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		html, err := p.Parse(string(data))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, html); err != nil {
			return err
		}
	}
	return nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rbbcode [files...]",
	Short: "Convert BBCode markup to HTML",
	Long: `Convert BBCode markup to HTML

Without arguments the markup is read from stdin. The HTML is written to stdout.
Use 'convert' to convert a directory of .bb and .bbcode files and 'watch' to keep them up to date.
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig(cmd)
		p, logger, err := newParser(cfg)
		if err != nil {
			exit(err)
		}
		defer logger.Close()

		inputs := []io.Reader{cmd.InOrStdin()}
		if len(args) > 0 {
			inputs = inputs[:0]
			for _, name := range args {
				f, err := os.Open(name)
				if err != nil {
					exit(err)
				}
				defer f.Close()
				inputs = append(inputs, f)
			}
		}
		if err := render(p, inputs, cmd.OutOrStdout()); err != nil {
			exit(err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(version string) {
	rootCmd.Version = version
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a YAML file with extra tags and HTML overrides")
	rootCmd.PersistentFlags().StringP("log", "l", "", "path to the log file")
	rootCmd.PersistentFlags().StringP("path", "p", "", "path to the converted directory (default is the working directory)")
}
