package convert

import (
	"context"
	"fmt"
	"path/filepath"

	"tagforce-string/internal/filewalker"
	"tagforce-string/internal/worker"

	"github.com/rs/zerolog/log"
)

// Summary counts the outcome of a folder conversion.
type Summary struct {
	Converted int
	Failed    int
}

// Err reports a batch with failures as an error.
func (s Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d conversions failed", s.Failed, s.Converted+s.Failed)
}

// FolderToText dumps every story-script pair found in inDir to outDir. A pair
// that fails is logged and skipped.
func (c *Converter) FolderToText(ctx context.Context, inDir, outDir string) (Summary, error) {
	pairs, err := c.walker().Pairs(inDir)
	if err != nil {
		return Summary{}, fmt.Errorf("walk input directory: %w", err)
	}

	pool := worker.NewPool[filewalker.Pair, string](c.opts.Workers, func(_ context.Context, p filewalker.Pair) (string, error) {
		out := filepath.Join(outDir, p.TextName())
		log.Debug().
			Str("name", p.Name).
			Str("index", p.IndexPath).
			Str("lang", p.LangPath).
			Str("output", out).
			Msg("Processing pair")
		return out, c.LangToText(p.IndexPath, p.LangPath, out)
	})

	return summarize(pool.Execute(ctx, pairs), func(p filewalker.Pair) string { return p.Name }), nil
}

// TextToFolder rebuilds a story-script pair for every text dump in inDir.
// Dumps named <name>.gz.txt produce gzip-compressed pairs.
func (c *Converter) TextToFolder(ctx context.Context, inDir, outDir string) (Summary, error) {
	texts, err := c.walker().Texts(inDir)
	if err != nil {
		return Summary{}, fmt.Errorf("walk input directory: %w", err)
	}

	lang := c.language()
	pool := worker.NewPool[filewalker.TextEntry, string](c.opts.Workers, func(_ context.Context, e filewalker.TextEntry) (string, error) {
		index, language := e.BinaryNames(lang)
		index, language = filepath.Join(outDir, index), filepath.Join(outDir, language)
		doc, err := e.Parser.Parse(e.Path)
		if err != nil {
			return language, err
		}
		return language, c.buildStory(e.Path, index, language, doc)
	})

	return summarize(pool.Execute(ctx, texts), func(e filewalker.TextEntry) string { return e.Path }), nil
}

func (c *Converter) walker() *filewalker.Walker {
	return filewalker.NewWalker(c.ini, c.opts.Language)
}

func (c *Converter) language() string {
	if c.opts.Language == "" {
		return "e"
	}
	return c.opts.Language
}

func summarize[T any](tasks []worker.Task[T, string], name func(T) string) Summary {
	failed := worker.Errors(tasks)
	for _, task := range failed {
		log.Error().Err(task.Err).Str("file", name(task.Input)).Msg("Conversion failed")
	}

	s := Summary{Converted: len(tasks) - len(failed), Failed: len(failed)}

	log.Info().Int("converted", s.Converted).Int("failed", s.Failed).Msg("Folder conversion complete")
	return s
}
