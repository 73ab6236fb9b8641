package summarizer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion sets the tool version printed in the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder
	t := f.translate

	fmt.Fprintf(&b, "# %s\n\n", t("Timelapse Summary"))

	result := t("Succeeded")
	if !s.Result.Succeeded {
		result = t("Failed")
	}

	destination := s.Settings.Destination
	if destination == "" {
		destination = t("Next to each source")
	}

	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	row(&b, t("Result"), result)
	row(&b, t("Speed"), fmt.Sprintf("%dx", s.Settings.Speed))
	row(&b, t("Files"), fmt.Sprintf("%d", s.Settings.FileCount))
	row(&b, t("Destination"), destination)
	if s.Settings.FailurePolicy != "" {
		row(&b, t("Failure Policy"), s.Settings.FailurePolicy)
	}
	if s.Elapsed > 0 {
		row(&b, t("Elapsed"), s.Elapsed.Round(time.Millisecond).String())
	}
	b.WriteString("\n")

	if s.Result.Succeeded {
		f.writeFiles(&b, s.Files)
	} else {
		fmt.Fprintf(&b, "## %s\n\n", t("Failure"))
		fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
		if s.Result.FailedFile != "" {
			row(&b, t("File"), s.Result.FailedFile)
		}
		row(&b, t("Error"), s.Result.Kind)
		row(&b, t("Reason"), s.Result.Reason)
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	generated := s.GeneratedAt.Format(time.RFC3339)
	if f.version != "" {
		fmt.Fprintf(&b, "%s timelapse %s, %s\n", t("Generated by"), f.version, generated)
	} else {
		fmt.Fprintf(&b, "%s timelapse, %s\n", t("Generated by"), generated)
	}

	return b.String()
}

func (f *MarkdownFormatter) writeFiles(b *strings.Builder, files []FileInfo) {
	t := f.translate

	fmt.Fprintf(b, "## %s\n\n", t("Outputs"))
	fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
		t("Source"), t("Output"), t("Resolution"), t("FPS"), t("Frames"), t("Size"))
	b.WriteString("|---|---|---|---|---|---|\n")

	for _, file := range files {
		size := "-"
		if file.FileSize > 0 {
			size = formatBytes(file.FileSize)
		}
		fmt.Fprintf(b, "| %s | %s | %dx%d | %.2f | %d / %d | %s |\n",
			escapeCell(filepath.Base(file.Source)),
			escapeCell(file.Output),
			file.Width, file.Height,
			file.FPS,
			file.FramesWritten, file.FramesRead,
			size,
		)
	}
	b.WriteString("\n")
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", label, escapeCell(value))
}

// escapeCell keeps pipes and line breaks from breaking table rows.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// formatBytes formats a byte count using binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
