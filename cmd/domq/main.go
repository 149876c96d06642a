// Command domq queries and edits HTML documents with CSS selectors.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/romdo/go-dom"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "domq",
	Short: "Query and edit HTML documents with CSS selectors",
	Long: `domq reads an HTML document from a file, or from stdin when the file is "-",
and runs a single query or edit on the elements matching a CSS selector.

Edits print the whole document once applied.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages to stderr")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Window configuration file (YAML)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadDocument parses the document at path, or stdin when path is "-".
func loadDocument(cmd *cobra.Command, path string) (*dom.Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []dom.Option{dom.WithLogger(logger)}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		cfg, err := dom.LoadConfig(data)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		opts = append(opts, dom.WithConfig(cfg))
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open document: %w", err)
		}
		defer f.Close()
		r = f
	}

	doc, err := dom.Parse(r, opts...)
	if err != nil {
		return nil, err
	}

	logger.Debug("Document loaded",
		zap.String("path", path),
		zap.String("url", dom.GetURL(doc.Window(), false)),
	)

	return doc, nil
}
