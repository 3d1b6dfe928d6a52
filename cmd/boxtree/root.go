package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/benoitkugler/boxtree/config"
	"github.com/benoitkugler/boxtree/html/boxes"
	"github.com/benoitkugler/boxtree/html/tree"
	"github.com/benoitkugler/boxtree/logger"
	"github.com/benoitkugler/boxtree/utils"
	"github.com/benoitkugler/boxtree/utils/tracer"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewRootCommand returns a fresh command, with its own configuration.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "boxtree [flags] <file.html | ->",
		Short: "Build the CSS box tree of an HTML document",
		Long: `boxtree parses an HTML document, computes the style of its elements and
prints the resulting box tree, once normalized : anonymous block and line
boxes are created, and inline boxes containing blocks are split.

Use "-" to read the document from the standard input.`,
		Version:      utils.VersionString,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger.Configure(cfg.Log)
			return run(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], cfg)
		},
	}
	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml, toml or json)")
	flags := cmd.Flags()
	flags.StringP("format", "f", config.FormatText, "output format: text, json or yaml")
	flags.StringSliceP("stylesheet", "s", nil, "user stylesheet (may be repeated)")
	flags.String("base-url", "", "base URL used to resolve relative links")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	for key, flag := range map[string]string{
		"output.format": "format",
		"stylesheets":   "stylesheet",
		"base_url":      "base-url",
		"log.level":     "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err) // flag names are static
		}
	}
	return cmd
}

// initializeConfig reads in config file and ENV variables if set.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("BOXTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// run builds the box tree of `input` (a file path, or "-" for `stdin`)
// and writes it to `out`.
func run(stdin io.Reader, out io.Writer, input string, cfg config.Config) error {
	var content utils.ContentInput = utils.InputFilename(input)
	if input == "-" {
		content = utils.InputReader{Reader: stdin}
	}
	document, err := tree.NewHTML(content, cfg.BaseURL)
	if err != nil {
		return err
	}

	var userStylesheets []tree.CSS
	for _, path := range cfg.Stylesheets {
		css, err := tree.NewCSS(utils.InputFilename(path))
		if err != nil {
			return fmt.Errorf("loading user stylesheet: %w", err)
		}
		userStylesheets = append(userStylesheets, css)
	}

	styles := tree.GetAllComputedStyles(document, userStylesheets)
	boxTree, err := boxes.BuildFormattingStructure(document, styles)
	if err != nil {
		var unsupported *boxes.UnsupportedDisplayError
		if errors.As(err, &unsupported) {
			return fmt.Errorf("%w (only block, list-item, inline and inline-block are supported)", err)
		}
		return err
	}
	return writeTree(out, boxTree, cfg.Output.Format)
}

func writeTree(out io.Writer, boxTree *boxes.Tree, format string) error {
	switch format {
	case config.FormatJSON:
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(serializeRoot(boxTree))
	case config.FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(serializeRoot(boxTree)); err != nil {
			return err
		}
		return enc.Close()
	default:
		tracer.New(out).DumpTree(boxTree, boxTree.Root(), "")
		return nil
	}
}

func serializeRoot(boxTree *boxes.Tree) boxes.SerBox {
	return boxes.Serialize(boxTree, []boxes.BoxID{boxTree.Root()})[0]
}
