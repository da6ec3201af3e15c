package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/corpus"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

var (
	buildName      string
	buildCorpus    string
	buildSQLite    string
	buildTable     string
	buildStemmer   string
	buildStopWords string
	buildMinToken  int
	buildPhonetic  bool
	buildPNorm     float64

	listJSON bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage indexes",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Create an index and load a corpus into it",
	Long: `Creates an index with the given settings, loads every document from
the corpus, and persists the result under the data directory.

The corpus is either a directory of .txt files (--corpus), where each file
becomes one document named after the file, or a SQLite database (--sqlite)
whose table has doc_id and content columns.`,
	Example: `  retrievalctl index build --name papers --corpus ./papers
  retrievalctl index build --name papers --sqlite corpus.db --table abstracts --phonetic`,
	RunE: runIndexBuild,
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexes and their sizes",
	RunE:  runIndexList,
}

func init() {
	indexBuildCmd.Flags().StringVar(&buildName, "name", "", "index name (required)")
	indexBuildCmd.Flags().StringVar(&buildCorpus, "corpus", "", "directory of .txt files to load")
	indexBuildCmd.Flags().StringVar(&buildSQLite, "sqlite", "", "SQLite database to load")
	indexBuildCmd.Flags().StringVar(&buildTable, "table", corpus.DefaultTable, "table to read when loading from SQLite")
	indexBuildCmd.Flags().StringVar(&buildStemmer, "stemmer", config.StemmerSnowball, "stemmer: snowball, porter2 or none")
	indexBuildCmd.Flags().StringVar(&buildStopWords, "stop-words", "", "file with one stop word per line (an empty file disables stop word removal)")
	indexBuildCmd.Flags().IntVar(&buildMinToken, "min-token-length", 1, "drop tokens shorter than this")
	indexBuildCmd.Flags().BoolVar(&buildPhonetic, "phonetic", false, "maintain a soundex term map for phonetic search")
	indexBuildCmd.Flags().Float64Var(&buildPNorm, "default-p-norm", config.DefaultPNorm, "p used by boolean queries that omit one")
	_ = indexBuildCmd.MarkFlagRequired("name")

	indexListCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexListCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	if (buildCorpus == "") == (buildSQLite == "") {
		return errors.New("exactly one of --corpus or --sqlite is required")
	}

	settings := config.IndexSettings{
		Name:           buildName,
		Stemmer:        buildStemmer,
		MinTokenLength: buildMinToken,
		Phonetic:       buildPhonetic,
		DefaultPNorm:   buildPNorm,
	}
	if buildStopWords != "" {
		words, err := readStopWordsFile(buildStopWords)
		if err != nil {
			return err
		}
		settings.StopWords = words
	}

	eng := openEngine()
	defer eng.Close()

	if err := eng.CreateIndex(settings); err != nil {
		return err
	}

	ctx := context.Background()
	var (
		docs []model.Document
		err  error
	)
	if buildCorpus != "" {
		docs, err = corpus.LoadDir(ctx, buildCorpus)
	} else {
		docs, err = corpus.LoadSQLite(ctx, buildSQLite, buildTable)
	}
	if err != nil {
		_ = eng.DeleteIndex(buildName)
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	accessor, err := eng.GetIndex(buildName)
	if err != nil {
		return err
	}
	if err := accessor.AddDocuments(docs); err != nil {
		_ = eng.DeleteIndex(buildName)
		return fmt.Errorf("failed to index corpus: %w", err)
	}
	if err := eng.PersistIndexData(buildName); err != nil {
		return fmt.Errorf("failed to persist index: %w", err)
	}

	stats := accessor.Stats()
	cmd.Printf("Built index '%s': %d documents, %d terms, %d biwords\n",
		stats.Name, stats.DocumentCount, stats.TermCount, stats.BiwordCount)
	if buildPhonetic {
		cmd.Printf("Phonetic map: %d soundex codes\n", stats.PhoneticCount)
	}
	return nil
}

func runIndexList(cmd *cobra.Command, _ []string) error {
	eng := openEngine()
	defer eng.Close()

	names := eng.ListIndexes()
	stats := make([]services.IndexStats, 0, len(names))
	for _, name := range names {
		accessor, err := eng.GetIndex(name)
		if err != nil {
			return err
		}
		stats = append(stats, accessor.Stats())
	}

	if listJSON {
		return printJSON(cmd, stats)
	}

	if len(stats) == 0 {
		cmd.Println("No indexes found.")
		return nil
	}
	cmd.Printf("%-24s %10s %10s %10s %10s\n", "NAME", "DOCS", "TERMS", "BIWORDS", "PHONETIC")
	for _, s := range stats {
		cmd.Printf("%-24s %10d %10d %10d %10d\n", s.Name, s.DocumentCount, s.TermCount, s.BiwordCount, s.PhoneticCount)
	}
	return nil
}

// readStopWordsFile parses one stop word per line, skipping blank lines and
// #-comments. An empty result is meaningful: it disables stop word removal
// rather than selecting the default list.
func readStopWordsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is the operator's own flag value
	if err != nil {
		return nil, fmt.Errorf("failed to read stop words file: %w", err)
	}
	words := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		word := strings.TrimSpace(line)
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	return words, nil
}
