// Package observability provides formatted output utilities for verbose mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/dispatch"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintTransferResult outputs a human-readable summary of a bulk processing
// transfer: which partitions went through and which did not.
func (p *Printer) PrintTransferResult(result *dispatch.TransferResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Partitions: %d succeeded, %d failed\n", len(result.Succeeded), len(result.Failed)))

	if len(result.Succeeded) > 0 {
		sb.WriteString("\nTransferred:\n")
		count := min(len(result.Succeeded), maxItemsToShow)
		for i := 0; i < count; i++ {
			part := result.Succeeded[i]
			sb.WriteString(fmt.Sprintf("  • %d candidate(s) -> user %s\n", len(part.AssignmentIDs), part.Key.AssignedUserID))
		}
		if len(result.Succeeded) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Succeeded)-maxItemsToShow))
		}
	}

	if len(result.Failed) > 0 {
		sb.WriteString("\nFailed (resubmit these):\n")
		count := min(len(result.Failed), maxItemsToShow)
		for i := 0; i < count; i++ {
			part := result.Failed[i]
			sb.WriteString(fmt.Sprintf("  • %d candidate(s): %s\n", len(part.AssignmentIDs), part.Reason))
		}
		if len(result.Failed) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Failed)-maxItemsToShow))
		}
	}

	p.printBox("Processing Transfer", sb.String())
}

// PrintForwardOutcome outputs a summary of a forward-to-client dispatch.
func (p *Printer) PrintForwardOutcome(records []*types.ForwardingRecord) {
	if len(records) == 0 {
		return
	}

	sent, failed, queued := 0, 0, 0
	for _, r := range records {
		switch r.Status {
		case types.ForwardingSent:
			sent++
		case types.ForwardingFailed:
			failed++
		default:
			queued++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Recipient: %s\n", records[0].RecipientEmail))
	sb.WriteString(fmt.Sprintf("Candidates: %d sent, %d failed, %d queued\n", sent, failed, queued))

	if failed > 0 {
		sb.WriteString("\nFailures:\n")
		shown := 0
		for _, r := range records {
			if r.Status != types.ForwardingFailed {
				continue
			}
			if shown == maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", failed-shown))
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", r.CandidateID, r.Error))
			shown++
		}
	}

	p.printBox("Forward to Client", sb.String())
}
