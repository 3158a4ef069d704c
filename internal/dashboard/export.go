package dashboard

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/vire-dashboard/internal/models"
)

// ExportFormat selects what a thought log export contains.
type ExportFormat string

const (
	ExportPrompts ExportFormat = "prompts"
	ExportOutputs ExportFormat = "outputs"
	ExportAll     ExportFormat = "all"
)

const (
	blockSeparator = "\n\n---\n\n"
	entrySeparator = "\n\n================\n\n"
)

// ParseExportFormat validates a format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportPrompts, ExportOutputs, ExportAll:
		return f, nil
	case "":
		return ExportAll, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ExportThoughts renders the thought log as plain text, one block per entry.
func ExportThoughts(log []models.ThoughtLogEntry, format ExportFormat) string {
	blocks := make([]string, 0, len(log))
	for _, e := range log {
		switch format {
		case ExportPrompts:
			blocks = append(blocks, e.Prompt)
		case ExportOutputs:
			blocks = append(blocks, e.Output)
		default:
			blocks = append(blocks, fmt.Sprintf("Title: %s\nTime: %s\n\nPrompt:\n%s\n\nOutput:\n%s", e.Title, e.Time, e.Prompt, e.Output))
		}
	}
	if format == ExportPrompts || format == ExportOutputs {
		return strings.Join(blocks, blockSeparator)
	}
	return strings.Join(blocks, entrySeparator)
}
