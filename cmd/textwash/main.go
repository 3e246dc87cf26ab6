// Command textwash sanitizes rich-text markup from a file or stdin,
// either locally or through a running textwash server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/textwash/internal/apiclient"
	"github.com/dgallion1/textwash/internal/doctree"
	"github.com/dgallion1/textwash/internal/highlight"
	"github.com/dgallion1/textwash/internal/options"
	"github.com/dgallion1/textwash/internal/reader"
	"github.com/dgallion1/textwash/internal/sanitize"
)

var (
	flagServer    string
	flagAPIKey    string
	flagHighlight bool

	flagRemoveZeroWidth    bool
	flagRemoveBidi         bool
	flagNormalizeSpaces    bool
	flagCollapseBlankLines bool
	flagExpandLatinAbbrev  bool
)

func main() {
	root := &cobra.Command{
		Use:   "textwash [file]",
		Short: "Sanitize rich-text markup",
		Long: `Sanitize rich-text markup: strip invisible Unicode, normalize dashes
and spaces, clean up redundant structure, and restrict output to a safe
tag set. Reads markup from a file or stdin; documents in supported
formats (txt, md, html, csv, docx, pdf) are converted first.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	root.Flags().StringVar(&flagServer, "server", "", "sanitize via a running server instead of locally")
	root.Flags().StringVar(&flagAPIKey, "api-key", os.Getenv("TEXTWASH_API_KEY"), "API key for --server")
	root.Flags().BoolVar(&flagHighlight, "highlight", false, "emit highlighted markup instead of sanitizing")

	root.Flags().BoolVar(&flagRemoveZeroWidth, "remove-zero-width", true, "delete zero-width characters")
	root.Flags().BoolVar(&flagRemoveBidi, "remove-bidi", true, "delete BiDi control characters")
	root.Flags().BoolVar(&flagNormalizeSpaces, "normalize-spaces", true, "replace no-break spaces with plain spaces")
	root.Flags().BoolVar(&flagCollapseBlankLines, "collapse-blank-lines", true, "collapse runs of blank lines")
	root.Flags().BoolVar(&flagExpandLatinAbbrev, "expand-latin-abbrev", true, "expand Latin abbreviations like e.g. and i.e.")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	opts := options.Options{
		RemoveZeroWidth:    flagRemoveZeroWidth,
		RemoveBidi:         flagRemoveBidi,
		NormalizeSpaces:    flagNormalizeSpaces,
		CollapseBlankLines: flagCollapseBlankLines,
		ExpandLatinAbbrev:  flagExpandLatinAbbrev,
	}

	markup, err := loadInput(args)
	if err != nil {
		return err
	}

	var out string
	if flagServer != "" {
		out, err = runRemote(cmd.Context(), markup, opts)
	} else {
		out, err = runLocal(markup, opts)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// loadInput reads the named file (converting supported document formats
// to markup) or falls back to raw markup on stdin.
func loadInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	name := args[0]
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if reader.IsSupportedExtension(name) {
		rd, err := reader.ForFile(name)
		if err != nil {
			return "", err
		}
		return rd.Read(f, name)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

func runLocal(markup string, opts options.Options) (string, error) {
	if flagHighlight {
		root, err := doctree.ParseBody(markup)
		if err != nil {
			return "", err
		}
		highlight.Mark(root)
		return doctree.Render(root), nil
	}
	return sanitize.Run(markup, opts)
}

func runRemote(ctx context.Context, markup string, opts options.Options) (string, error) {
	base := strings.TrimSuffix(flagServer, "/")
	client := apiclient.NewClient(base, flagAPIKey)
	defer client.Close()

	if flagHighlight {
		return client.Highlight(ctx, markup, opts)
	}
	return client.Sanitize(ctx, markup, opts)
}
