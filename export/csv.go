package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultStdVersion is the standard version stamped on CSV rows.
const DefaultStdVersion = "v1.0"

// csvHeader is the fixed column order of the prompts CSV.
var csvHeader = []string{
	"std_version",
	"term_id",
	"canonical_term",
	"prompt_id",
	"user_prompt",
	"expected_output_kind",
	"expected_output_payload",
	"author",
	"date_added",
	"source_url",
}

// PromptRow is one vendor-ready prompt: a single prompt example paired
// with its expected output.
type PromptRow struct {
	StdVersion    string
	TermID        string
	CanonicalTerm string
	PromptID      string
	UserPrompt    string
	OutputKind    string
	OutputPayload string
	Author        string
	DateAdded     string
	SourceURL     string
}

// PromptRows expands terms into CSV rows: one row per prompt example,
// with prompt_id "<term-id>-pNN". The expected output comes from the
// term's expected_outputs list when present (object rows are JSON,
// string rows are text) and otherwise falls back to the agent
// execution actions as action hints.
func PromptRows(terms []TermExport, stdVersion string) ([]PromptRow, error) {
	if stdVersion == "" {
		stdVersion = DefaultStdVersion
	}

	var rows []PromptRow
	seen := make(map[string]bool)

	for _, term := range terms {
		termID := strings.TrimSpace(term.ID)
		name := strings.TrimSpace(term.CanonicalTerm)
		if termID == "" || name == "" {
			return nil, fmt.Errorf("term missing required id/canonical_term")
		}

		for i, prompt := range term.PromptExamples {
			prompt = strings.TrimSpace(prompt)
			if prompt == "" {
				continue
			}

			kind, payload, err := expectedOutput(term, i)
			if err != nil {
				return nil, err
			}

			promptID := fmt.Sprintf("%s-p%02d", termID, i+1)
			if seen[promptID] {
				return nil, fmt.Errorf("duplicate prompt_id: %s", promptID)
			}
			seen[promptID] = true

			sourceURL := term.Metadata.SourceURL
			if sourceURL == "" {
				sourceURL = "https://cat-mip.org/standard/v1-0/"
			}

			rows = append(rows, PromptRow{
				StdVersion:    stdVersion,
				TermID:        termID,
				CanonicalTerm: name,
				PromptID:      promptID,
				UserPrompt:    prompt,
				OutputKind:    kind,
				OutputPayload: payload,
				Author:        term.Metadata.Author,
				DateAdded:     term.Metadata.DateAdded,
				SourceURL:     sourceURL,
			})
		}
	}

	return rows, nil
}

func expectedOutput(term TermExport, i int) (kind, payload string, err error) {
	var exp any
	if i < len(term.ExpectedOutputs) {
		exp = term.ExpectedOutputs[i]
	}

	switch v := exp.(type) {
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return "", "", fmt.Errorf("marshal expected output: %w", err)
		}
		return "json", string(data), nil
	case string:
		return "text", v, nil
	default:
		hints := struct {
			ActionHints []string `json:"action_hints"`
		}{ActionHints: term.AgentExecution.Actions}
		data, err := json.Marshal(hints)
		if err != nil {
			return "", "", fmt.Errorf("marshal action hints: %w", err)
		}
		return "action_hints", string(data), nil
	}
}

// WriteCSV writes rows with the fixed header. Every field is quoted,
// matching the registry's published CSV format.
func WriteCSV(w io.Writer, rows []PromptRow) error {
	bw := bufio.NewWriter(w)
	if err := writeQuotedRecord(bw, csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.StdVersion, r.TermID, r.CanonicalTerm, r.PromptID, r.UserPrompt,
			r.OutputKind, r.OutputPayload, r.Author, r.DateAdded, r.SourceURL,
		}
		if err := writeQuotedRecord(bw, record); err != nil {
			return fmt.Errorf("write row %s: %w", r.PromptID, err)
		}
	}
	return bw.Flush()
}

func writeQuotedRecord(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if err := w.WriteByte('"'); err != nil {
			return err
		}
		if _, err := w.WriteString(strings.ReplaceAll(field, `"`, `""`)); err != nil {
			return err
		}
		if err := w.WriteByte('"'); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

// WriteCSVFile renders the prompts CSV for a terms JSON export,
// writing cat-mip-<version>-prompts.csv into outDir and returning the
// path and row count.
func WriteCSVFile(terms []TermExport, outDir, stdVersion string) (string, int, error) {
	if stdVersion == "" {
		stdVersion = DefaultStdVersion
	}

	rows, err := PromptRows(terms, stdVersion)
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", 0, fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(outDir, fmt.Sprintf("cat-mip-%s-prompts.csv", stdVersion))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create CSV: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, rows); err != nil {
		return "", 0, err
	}
	return path, len(rows), nil
}
