// Package corpus loads document collections from external sources (plain
// text directories and SQLite databases) into the model.Document form the
// indexing service accepts.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

// maxLoadWorkers bounds how many corpus files are read at once.
const maxLoadWorkers = 8

// LoadDir reads every .txt file directly under dirPath into a document whose
// DocID is the file name without its extension. Files are read concurrently;
// the first failure aborts the whole load. Documents come back in directory
// order (lexicographic by file name).
func LoadDir(ctx context.Context, dirPath string) ([]model.Document, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", dirPath, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return []model.Document{}, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLoadWorkers)

	// Each goroutine writes to a distinct slice slot, so no result lock is
	// needed; the group cancels the rest after the first failure.
	docs := make([]model.Document, len(names))
	for i, name := range names {
		i, name := i, name // per-iteration copies: go directive is below 1.22
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(dirPath, name)) // #nosec G304 -- path comes from the operator's corpus directory
			if err != nil {
				return fmt.Errorf("reading corpus file %s: %w", name, err)
			}
			docs[i] = model.Document{
				DocID: strings.TrimSuffix(name, filepath.Ext(name)),
				Text:  string(data),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
