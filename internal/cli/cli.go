package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tagforce-string/internal/config"
	"tagforce-string/internal/convert"
	"tagforce-string/internal/textenc"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

// flags holds the persistent options shared by every command.
type flags struct {
	encoding     string
	utf8         bool
	noAutodetect bool
	noBOM        bool
	verbose      bool
	lang         string
	workers      int
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "tagforce-string",
		Short:         "Yu-Gi-Oh! Tag Force language and string tool",
		Long:          "Converts the game's string tables, story scripts and item tables to editable text and back.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cfg.LogLevel, f.verbose)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.encoding, "encoding", "e", cfg.Encoding, "Text encoding: utf16, utf8 or raw")
	pf.BoolVarP(&f.utf8, "utf8", "u", false, "Shorthand for --encoding utf8")
	pf.BoolVarP(&f.noAutodetect, "no-autodetect", "d", !cfg.AutodetectBOM, "Disable BOM autodetection of text input")
	pf.BoolVar(&f.noBOM, "no-bom", !cfg.WriteBOM, "Do not write a BOM to text output")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&f.lang, "lang", cfg.Language, "Language letter of story-script pairs in folder mode (j, e, g, f, i, s)")
	pf.IntVarP(&f.workers, "jobs", "j", cfg.WorkerCount, "Concurrent conversions in folder mode")

	rootCmd.AddCommand(
		fileCmd(f, "bin2txt <input.bin> <output.txt>", "Export a string table to text", 2,
			func(c *convert.Converter, args []string) error { return c.BinToText(args[0], args[1]) }),
		fileCmd(f, "txt2bin <input.txt> <output.bin>", "Import text into a string table", 2,
			func(c *convert.Converter, args []string) error { return c.TextToBin(args[0], args[1]) }),
		fileCmd(f, "lang2txt <index.bin> <lang.bin> <output.txt>", "Export a story-script pair to text", 3,
			func(c *convert.Converter, args []string) error { return c.LangToText(args[0], args[1], args[2]) }),
		fileCmd(f, "txt2lang <input.txt> <index.bin> <lang.bin>", "Import text into a story-script pair", 3,
			func(c *convert.Converter, args []string) error { return c.TextToLang(args[0], args[1], args[2]) }),
		fileCmd(f, "res2txt <input.bin> <output.txt>", "Export an item table to text", 2,
			func(c *convert.Converter, args []string) error { return c.ResToText(args[0], args[1]) }),
		fileCmd(f, "txt2res <input.txt> <output.bin>", "Import text into an item table", 2,
			func(c *convert.Converter, args []string) error { return c.TextToRes(args[0], args[1]) }),
		folderCmd(f, "fold2txt <input-dir> <output-dir>", "Export every story-script pair in a folder", (*convert.Converter).FolderToText),
		folderCmd(f, "txt2fold <input-dir> <output-dir>", "Import every text file in a folder into story-script pairs", (*convert.Converter).TextToFolder),
		inspectCmd(f, cfg),
	)

	return rootCmd
}

func setupLogging(level string, verbose bool) error {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return nil
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func (f *flags) converter() (*convert.Converter, error) {
	name := f.encoding
	if f.utf8 {
		name = "utf8"
	}
	enc, err := textenc.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("resolve encoding: %w", err)
	}

	if enc == textenc.UTF8 {
		log.Info().Msg("UTF-8 mode enabled")
	}

	return convert.New(convert.Options{
		Encoding:   enc,
		WriteBOM:   !f.noBOM,
		Autodetect: !f.noAutodetect,
		Workers:    f.workers,
		Language:   f.lang,
	}), nil
}

func fileCmd(f *flags, use, short string, nargs int, run func(*convert.Converter, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.converter()
			if err != nil {
				return err
			}
			if err := run(c, args); err != nil {
				log.Error().Err(err).Msg("Conversion failed")
				return err
			}
			return nil
		},
	}
}

type folderFunc func(c *convert.Converter, ctx context.Context, in, out string) (convert.Summary, error)

func folderCmd(f *flags, use, short string, run folderFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			c, err := f.converter()
			if err != nil {
				return err
			}

			summary, err := run(c, ctx, args[0], args[1])
			if err != nil {
				log.Error().Err(err).Msg("Folder conversion failed")
				return err
			}
			return summary.Err()
		},
	}
}

func inspectCmd(f *flags, cfg *config.Config) *cobra.Command {
	var (
		format   string
		count    int
		maxLen   int
		codepage string
	)

	cmd := &cobra.Command{
		Use:   "inspect <file> [lang.bin]",
		Short: "Print the layout of a binary resource and preview its strings",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.converter()
			if err != nil {
				return err
			}
			cp, err := textenc.Codepage(codepage)
			if err != nil {
				return err
			}

			report, err := c.Inspect(format, convert.PreviewOptions{Count: count, MaxLen: maxLen, Codepage: cp}, args...)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", convert.FormatStringTable, "Resource format: strtbl, story or items")
	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of strings to preview")
	cmd.Flags().IntVar(&maxLen, "max-len", cfg.PreviewLen, "Truncate previews to this many characters")
	cmd.Flags().StringVar(&codepage, "codepage", cfg.Codepage, "Codepage used to display raw strings")

	return cmd
}

func printReport(w io.Writer, r *convert.Report) {
	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetStyle(table.StyleLight)
	summary.AppendHeader(table.Row{"Field", "Value"})
	summary.AppendRows([]table.Row{
		{"Format", r.Format},
		{"Encoding", r.Encoding},
		{"Strings", r.Count},
		{"Table size", sizeString(r.TableSize)},
		{"Data size", sizeString(r.DataSize)},
		{"File size", sizeString(r.FileSize)},
	})
	summary.Render()

	if len(r.Previews) == 0 {
		return
	}

	previews := table.NewWriter()
	previews.SetOutputMirror(w)
	previews.SetStyle(table.StyleLight)
	previews.AppendHeader(table.Row{"#", "Preview"})
	for i, p := range r.Previews {
		previews.AppendRow(table.Row{i, p})
	}
	previews.AppendFooter(table.Row{"", fmt.Sprintf("Showing %d of %d", len(r.Previews), r.Count)})
	previews.Render()
}

func sizeString(n int) string {
	return fmt.Sprintf("%d (%s)", n, humanize.IBytes(uint64(n)))
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
