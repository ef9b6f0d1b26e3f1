package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/fontpreview/fontpreview/internal/config"
	"github.com/fontpreview/fontpreview/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorRed     = "\033[31m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorGray    = "\033[90m"
)

// formatServing is printed once the preview page is reachable.
func formatServing(char, url string, watching bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ previewing %q%s at %s%s%s\n",
		colorBold, char, colorReset, colorCyan, url, colorReset))
	if watching {
		sb.WriteString(fmt.Sprintf("  %swatching families file for changes%s\n", colorGray, colorReset))
	}
	sb.WriteString(fmt.Sprintf("  %spress Ctrl+C to stop%s\n", colorGray, colorReset))
	return sb.String()
}

// formatHistory formats history entries for terminal display.
//
//	⚡ 2 previews
//	  2026-10-19 14:03  中  U+4E2D  3 families  http://localhost:40123
//	    Noto Sans CJK SC, Source Han Sans, ...
func formatHistory(entries []ports.HistoryEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %d previews%s\n", colorBold, len(entries), colorReset))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("  %s%s%s  %s%s%s  %s  %d families  %s%s%s\n",
			colorGray, e.CreatedAt.Local().Format("2006-01-02 15:04"), colorReset,
			colorBold, e.Char, colorReset,
			codePoint(e.Char),
			len(e.Families),
			colorCyan, e.URL, colorReset))
		if len(e.Families) > 0 {
			sb.WriteString(fmt.Sprintf("    %s%s%s\n", colorMagenta, strings.Join(e.Families, ", "), colorReset))
		}
	}
	return sb.String()
}

// codePoint renders the first character of s as U+XXXX.
func codePoint(s string) string {
	for _, r := range s {
		return fmt.Sprintf("U+%04X", r)
	}
	return "U+????"
}

// formatConfig formats the effective configuration for terminal display.
func formatConfig(c *config.Config) string {
	file := c.File
	if file == "" {
		file = fmt.Sprintf("%s(none)%s", colorGray, colorReset)
	}
	history := c.HistoryPath
	if history == "" {
		history = fmt.Sprintf("%sdisabled%s", colorGray, colorReset)
	}
	browser := fmt.Sprintf("%s✗ no%s", colorGray, colorReset)
	if c.OpenBrowser {
		browser = fmt.Sprintf("%s✓ yes%s", colorGreen, colorReset)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ fontpreview config%s\n", colorBold, colorReset))
	sb.WriteString(fmt.Sprintf("  File:       %s\n", file))
	sb.WriteString(fmt.Sprintf("  Address:    %s\n", c.Addr))
	sb.WriteString(fmt.Sprintf("  Browser:    %s\n", browser))
	sb.WriteString(fmt.Sprintf("  Grace:      %s\n", c.GracePeriod.Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("  History:    %s (limit %d)\n", history, c.HistoryLimit))
	sb.WriteString(fmt.Sprintf("  Log level:  %s\n", c.LogLevel))
	return sb.String()
}
