// package formatter provides functions to export the audio library to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/shared"
)

// ExportToCSV converts an audio listing to CSV format with columns: AudioID, Title, URL, CreatedAt
func ExportToCSV(records []models.AudioRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"AudioID", "Title", "URL", "CreatedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.AudioID,
			record.DisplayTitle(),
			record.StreamURL(),
			record.CreatedAt,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an audio listing to Markdown format with an optional library title
func ExportToMarkdown(records []models.AudioRecord, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Audio Library"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Audios**: %d\n\n", len(records)))

	buf.WriteString("## Audios\n\n")
	for i, record := range records {
		datePart := ""
		if record.CreatedAt != "" {
			datePart = fmt.Sprintf(" (%s)", record.CreatedAt)
		}
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)%s\n", i+1, record.DisplayTitle(), record.StreamURL(), datePart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts an audio listing to plain text format
func ExportToText(records []models.AudioRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Audios: %d\n\n", len(records)))

	for i, record := range records {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, record.DisplayTitle()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON generates an indented JSON representation of the listing
func ExportToJSON(records []models.AudioRecord) ([]byte, error) {
	return shared.MarshalJSON(records, true)
}

// WriteExport renders the listing in the requested format and writes it to path.
//
// Supported formats are csv, markdown, txt, and json (the default).
func WriteExport(records []models.AudioRecord, format, path string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = ExportToCSV(records)
	case "markdown":
		data, err = ExportToMarkdown(records, "")
	case "txt":
		data, err = ExportToText(records)
	case "json", "":
		data, err = ExportToJSON(records)
	default:
		return "", fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render %s export: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
