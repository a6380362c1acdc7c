package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docintegrity/pdf-forensics-api/internal/analyzer"
	"github.com/docintegrity/pdf-forensics-api/internal/models"
	"github.com/docintegrity/pdf-forensics-api/internal/pdfmeta"
	"github.com/docintegrity/pdf-forensics-api/internal/report"
	"github.com/docintegrity/pdf-forensics-api/internal/utils"
	"github.com/docintegrity/pdf-forensics-api/internal/worker"
)

var (
	summaryOnly bool
	jsonOutput  bool
	outputPath  string
	workerCount int
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <pdf>...",
	Short: "Analyze one or more PDF files for metadata tampering",
	Long: `Scan extracts the metadata of each PDF, normalizes its timestamps,
and runs the tamper heuristics: date consistency, software provenance,
required-field presence, future-dated fields, and a structural
integrity probe.

Example:
  pdfscan scan thesis.pdf
  pdfscan scan --summary *.pdf
  pdfscan scan --json -o results.json contracts/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVarP(&summaryOnly, "summary", "s", false, "only print the per-file verdict")
	scanCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit results as JSON")
	scanCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write results to a file instead of stdout")
	scanCmd.Flags().IntVar(&workerCount, "workers", 4, "number of files analyzed in parallel")
}

// fileReport is the per-file scan outcome rendered by the CLI.
type fileReport struct {
	File        string              `json:"file"`
	Suspicious  bool                `json:"is_suspicious"`
	Findings    []string            `json:"findings"`
	Categorized map[string][]string `json:"categorized_findings,omitempty"`
	Metadata    *models.Metadata    `json:"metadata,omitempty"`
	Error       string              `json:"error,omitempty"`
}

func (r *fileReport) GetError() error {
	if r.Error != "" {
		return fmt.Errorf("%s", r.Error)
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	logLevel := "warn"
	if verbose {
		logLevel = "debug"
	}
	logger := utils.NewLoggerWithWriter(os.Stderr, logLevel)

	engine := analyzer.New(heuristicsConfig())
	extractor := pdfmeta.NewExtractor(logger)

	jobs := make([]worker.Job, len(args))
	for i, path := range args {
		path := path
		jobs[i] = func(ctx context.Context) worker.Result {
			return scanFile(extractor, engine, path)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning %d file(s) with %d worker(s)\n", len(args), workerCount)
	}

	results := worker.NewPool(workerCount).Run(cmd.Context(), jobs)

	reports := make([]*fileReport, 0, len(results))
	for i, res := range results {
		if res == nil {
			reports = append(reports, &fileReport{File: args[i], Error: "scan cancelled"})
			continue
		}
		reports = append(reports, res.(*fileReport))
	}

	rendered, err := renderReports(reports)
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Results written to %s\n", outputPath)
		}
		return nil
	}

	fmt.Print(rendered)
	return nil
}

func scanFile(extractor *pdfmeta.Extractor, engine *analyzer.Engine, path string) *fileReport {
	if err := utils.ValidatePDFPath(path); err != nil {
		return &fileReport{File: path, Error: err.Error()}
	}

	meta, err := extractor.ExtractFile(path)
	if err != nil {
		// Extraction failure is itself a suspicious verdict.
		result := analyzer.ExtractionFailure(err.Error())
		return &fileReport{
			File:        path,
			Suspicious:  result.Suspicious,
			Findings:    result.Findings,
			Categorized: report.Categorize(result.Findings),
		}
	}

	suspicious, findings := engine.Analyze(meta, pdfmeta.NewFileSource(path))

	return &fileReport{
		File:        path,
		Suspicious:  suspicious,
		Findings:    findings,
		Categorized: report.Categorize(findings),
		Metadata:    meta,
	}
}

func renderReports(reports []*fileReport) (string, error) {
	if jsonOutput {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode results: %w", err)
		}
		return string(data) + "\n", nil
	}

	var b strings.Builder
	for i, r := range reports {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case r.Error != "":
			fmt.Fprintf(&b, "Error: %s\n", r.Error)
		case summaryOnly:
			b.WriteString(report.Summary(r.File, models.AnalysisResult{
				Suspicious: r.Suspicious,
				Findings:   r.Findings,
			}) + "\n")
		default:
			b.WriteString(report.Text(r.File, r.Metadata, models.AnalysisResult{
				Suspicious: r.Suspicious,
				Findings:   r.Findings,
			}))
		}
	}
	return b.String(), nil
}
