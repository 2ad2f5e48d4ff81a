package status

import (
	"fmt"
)

// FileFormatter defines how entries and reports are rendered as messages
type FileFormatter interface {
	// FormatEntry formats the result of one file
	FormatEntry(e Entry) string

	// FormatSummary formats the totals of a pass
	FormatSummary(c Counts) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatEntry formats an entry with emojis
func (f *DefaultFileFormatter) FormatEntry(e Entry) string {
	switch e.Outcome {
	case Succeeded:
		msg := fmt.Sprintf("✨ Wrote %s -> %s", e.Source, e.Output)
		switch {
		case e.DeleteErr != nil:
			msg += " (source kept: delete failed)"
		case e.Deleted:
			msg += " (source removed)"
		}
		return msg
	case SkippedUnreadable:
		return fmt.Sprintf("⏭️  Skipped %s (unreadable)", e.Source)
	case SkippedUnwritable:
		if e.Output == "" {
			return fmt.Sprintf("⏭️  Skipped %s (no output name)", e.Source)
		}
		return fmt.Sprintf("⏭️  Skipped %s (cannot write %s)", e.Source, e.Output)
	default:
		return fmt.Sprintf("❓ Unknown %s", e.Source)
	}
}

// FormatSummary formats totals with a trailing check or warning
func (f *DefaultFileFormatter) FormatSummary(c Counts) string {
	if c.Total() == 0 {
		return "💤 No matching files"
	}
	prefix := "✅"
	if c.Unreadable+c.Unwritable+c.DeleteFailed > 0 {
		prefix = "⚠️ "
	}
	return fmt.Sprintf("%s Processed %d/%d files (%d unreadable, %d unwritable, %d not deleted)",
		prefix, c.Succeeded, c.Total(), c.Unreadable, c.Unwritable, c.DeleteFailed)
}
