package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dotcommander/preflight/internal/batch"
	"github.com/dotcommander/preflight/internal/feedback"
	"github.com/dotcommander/preflight/internal/scoring"
	"github.com/dotcommander/preflight/internal/types"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	indent     bool
	outputFile string
	version    string
	out        io.Writer
}

// NewJSONFormatter creates a new JSONFormatter. The report goes to
// outputFile when set, otherwise to out (stdout when nil).
func NewJSONFormatter(indent bool, outputFile, version string, out io.Writer) *JSONFormatter {
	if out == nil {
		out = os.Stdout
	}
	return &JSONFormatter{
		indent:     indent,
		outputFile: outputFile,
		version:    version,
		out:        out,
	}
}

// Format formats the batch summary as JSON
func (f *JSONFormatter) Format(summary *batch.Summary) error {
	report := BuildReport(summary, f.version)

	var data []byte
	var err error
	if f.indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	return writeReport(f.outputFile, f.out, append(data, '\n'))
}

// BuildReport converts a summary into the JSON report shape.
func BuildReport(summary *batch.Summary, version string) JSONReport {
	report := JSONReport{
		Header: JSONHeader{
			Tool:      "preflight",
			Version:   version,
			ReportID:  uuid.NewString(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Strategy:  summary.Strategy,
		},
		Summary: JSONSummary{
			TotalFiles:      summary.TotalFiles,
			ReadyFiles:      summary.ReadyFiles,
			NotReadyFiles:   summary.NotReadyFiles,
			ErroredFiles:    summary.ErroredFiles,
			TotalBlocking:   summary.TotalBlocking,
			TotalAdvisory:   summary.TotalAdvisory,
			AverageScore:    summary.AverageScore,
			BaselineIgnored: summary.BaselineIgnored,
			Duration:        summary.Duration.Round(time.Millisecond).String(),
		},
		Results: make([]JSONResult, len(summary.Results)),
	}

	for i, r := range summary.Results {
		result := JSONResult{
			File:            r.RelPath,
			ProductType:     r.ProductType,
			BaselineIgnored: r.Ignored,
			Error:           r.Error,
		}
		if !r.Failed() {
			a := r.Assessment
			fb := r.Feedback
			result.Score = a.Score
			result.Grade = &a.Grade
			result.ReadyToPrint = a.ReadyToPrint
			result.Status = fb.Status
			result.Issues = a.Issues
			result.Factors = a.Factors
			result.Feedback = &fb
		}
		report.Results[i] = result
	}
	return report
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header  JSONHeader   `json:"header"`
	Summary JSONSummary  `json:"summary"`
	Results []JSONResult `json:"results"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	ReportID  string `json:"report_id"`
	Timestamp string `json:"timestamp"`
	Strategy  string `json:"strategy"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	TotalFiles      int     `json:"total_files"`
	ReadyFiles      int     `json:"ready_files"`
	NotReadyFiles   int     `json:"not_ready_files"`
	ErroredFiles    int     `json:"errored_files"`
	TotalBlocking   int     `json:"total_blocking"`
	TotalAdvisory   int     `json:"total_advisory"`
	AverageScore    float64 `json:"average_score"`
	BaselineIgnored int     `json:"baseline_ignored"`
	Duration        string  `json:"duration"`
}

// JSONResult represents a single manifest's assessment
type JSONResult struct {
	File            string                       `json:"file"`
	ProductType     string                       `json:"product_type,omitempty"`
	Score           int                          `json:"score"`
	Grade           *scoring.Grade               `json:"grade,omitempty"`
	ReadyToPrint    bool                         `json:"ready_to_print"`
	Status          scoring.Status               `json:"status,omitempty"`
	Issues          []types.Issue                `json:"issues,omitempty"`
	Factors         []scoring.Factor             `json:"factors,omitempty"`
	Feedback        *feedback.PrintReadyFeedback `json:"feedback,omitempty"`
	BaselineIgnored int                          `json:"baseline_ignored,omitempty"`
	Error           string                       `json:"error,omitempty"`
}

// writeReport writes content to path, or to w when path is empty.
func writeReport(path string, w io.Writer, content []byte) error {
	if path != "" {
		if err := os.WriteFile(path, content, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", path, err)
		}
		return nil
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}
