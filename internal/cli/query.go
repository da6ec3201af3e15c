package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/engine"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

var (
	queryIndex string
	queryJSON  bool

	phrasePositions bool

	nearDistance int
	nearOrdered  bool

	boolP           string
	boolIncludeZero bool
	boolPage        int
	boolPageSize    int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run queries against an index",
}

var queryPhraseCmd = &cobra.Command{
	Use:   "phrase [text]",
	Short: "Find documents containing an exact phrase",
	Long: `Finds documents that contain the given words consecutively, in order.
The phrase goes through the index's own normalization, so stop words and
stemming apply to it the same way they applied to the documents.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueryPhrase,
}

var queryNearCmd = &cobra.Command{
	Use:   "near [term-a] [term-b]",
	Short: "Find documents where two terms occur close together",
	Args:  cobra.ExactArgs(2),
	RunE:  runQueryNear,
}

var queryBooleanCmd = &cobra.Command{
	Use:   "boolean [query]",
	Short: "Run an extended boolean query",
	Long: `Evaluates an extended boolean query such as
"information AND retrieval NOT boolean" under the p-norm scoring model.
--p tunes the norm: 1 behaves like a weighted sum, larger values move
toward strict set semantics, and "inf" is exact AND/OR evaluation.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueryBoolean,
}

var queryPhoneticCmd = &cobra.Command{
	Use:   "phonetic [name]",
	Short: "Find documents containing terms that sound like a name",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryPhonetic,
}

func init() {
	queryCmd.PersistentFlags().StringVar(&queryIndex, "index", "", "index to query (required)")
	queryCmd.PersistentFlags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	_ = queryCmd.MarkPersistentFlagRequired("index")

	queryPhraseCmd.Flags().BoolVar(&phrasePositions, "positions", false, "report where each match starts")

	queryNearCmd.Flags().IntVar(&nearDistance, "distance", 1, "maximum distance in token positions")
	queryNearCmd.Flags().BoolVar(&nearOrdered, "ordered", false, "require the first term to precede the second")

	queryBooleanCmd.Flags().StringVar(&boolP, "p", "", `p-norm: a number >= 1, or "inf" for strict set semantics`)
	queryBooleanCmd.Flags().BoolVar(&boolIncludeZero, "include-zero", false, "keep zero-scored documents in the results")
	queryBooleanCmd.Flags().IntVar(&boolPage, "page", 1, "result page")
	queryBooleanCmd.Flags().IntVar(&boolPageSize, "page-size", 10, "results per page")

	queryCmd.AddCommand(queryPhraseCmd)
	queryCmd.AddCommand(queryNearCmd)
	queryCmd.AddCommand(queryBooleanCmd)
	queryCmd.AddCommand(queryPhoneticCmd)
	rootCmd.AddCommand(queryCmd)
}

// openIndex opens the engine and resolves the queried index. The engine is
// returned so callers can close it after reading results.
func openIndex() (*engine.Engine, services.IndexAccessor, error) {
	eng := openEngine()
	accessor, err := eng.GetIndex(queryIndex)
	if err != nil {
		eng.Close()
		return nil, nil, err
	}
	return eng, accessor, nil
}

// parsePFlag turns the --p flag into a p-norm value. Empty selects the
// index default; "inf" selects strict min/max evaluation, which has no
// float literal.
func parsePFlag(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	if strings.EqualFold(raw, "inf") || strings.EqualFold(raw, "infinity") {
		p := math.Inf(1)
		return &p, nil
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid --p value %q: expected a number or \"inf\"", raw)
	}
	return &p, nil
}

func runQueryPhrase(cmd *cobra.Command, args []string) error {
	eng, accessor, err := openIndex()
	if err != nil {
		return err
	}
	defer eng.Close()

	result, err := accessor.PhraseSearch(services.PhraseQuery{
		Query:            args[0],
		IncludePositions: phrasePositions,
	})
	if err != nil {
		return err
	}

	if queryJSON {
		return printJSON(cmd, result)
	}
	if result.Total == 0 {
		cmd.Println("No matching documents.")
		return nil
	}
	cmd.Printf("%d matching documents (%dms):\n", result.Total, result.Took)
	for _, docID := range result.DocIDs {
		if positions, ok := result.Positions[docID]; ok {
			cmd.Printf("  %s  at %v\n", docID, positions)
		} else {
			cmd.Printf("  %s\n", docID)
		}
	}
	return nil
}

func runQueryNear(cmd *cobra.Command, args []string) error {
	eng, accessor, err := openIndex()
	if err != nil {
		return err
	}
	defer eng.Close()

	result, err := accessor.ProximitySearch(services.ProximityQuery{
		TermA:       args[0],
		TermB:       args[1],
		MaxDistance: nearDistance,
		Ordered:     nearOrdered,
	})
	if err != nil {
		return err
	}

	if queryJSON {
		return printJSON(cmd, result)
	}
	if result.Total == 0 {
		cmd.Println("No matching documents.")
		return nil
	}
	cmd.Printf("%d matching documents (%dms):\n", result.Total, result.Took)
	for _, docID := range result.DocIDs {
		cmd.Printf("  %s\n", docID)
	}
	return nil
}

func runQueryBoolean(cmd *cobra.Command, args []string) error {
	p, err := parsePFlag(boolP)
	if err != nil {
		return err
	}

	eng, accessor, err := openIndex()
	if err != nil {
		return err
	}
	defer eng.Close()

	result, err := accessor.BooleanSearch(services.BooleanQuery{
		Query:       args[0],
		P:           p,
		IncludeZero: boolIncludeZero,
		Page:        boolPage,
		PageSize:    boolPageSize,
	})
	if err != nil {
		return err
	}

	if queryJSON {
		return printJSON(cmd, result)
	}
	if result.Total == 0 {
		cmd.Println("No matching documents.")
		return nil
	}
	cmd.Printf("%d matching documents (%dms):\n", result.Total, result.Took)
	for i, hit := range result.Hits {
		rank := (result.Page-1)*result.PageSize + i + 1
		cmd.Printf("  [%d] %s (%.4f)\n", rank, hit.Document.DocID, hit.Score)
	}
	if result.Total > len(result.Hits) {
		pages := (result.Total + result.PageSize - 1) / result.PageSize
		cmd.Printf("Page %d of %d.\n", result.Page, pages)
	}
	return nil
}

func runQueryPhonetic(cmd *cobra.Command, args []string) error {
	eng, accessor, err := openIndex()
	if err != nil {
		return err
	}
	defer eng.Close()

	result, err := accessor.PhoneticSearch(services.PhoneticQuery{Name: args[0]})
	if err != nil {
		return err
	}

	if queryJSON {
		return printJSON(cmd, result)
	}
	if result.Total == 0 {
		cmd.Printf("No documents sound like %q (code %s).\n", args[0], result.Code)
		return nil
	}
	cmd.Printf("Code %s: %d matching documents (%dms):\n", result.Code, result.Total, result.Took)
	for _, hit := range result.Hits {
		cmd.Printf("  %s  (%s)\n", hit.DocID, strings.Join(hit.MatchedTerms, ", "))
	}
	return nil
}
