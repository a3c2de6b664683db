package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette
var (
	colorPrimary = lipgloss.Color("#6C5CE7") // Focus violet - main brand
	colorMuted   = lipgloss.Color("240")     // Muted gray for secondary text

	colorSuccess = lipgloss.Color("#22C55E") // Success green
	colorWarning = lipgloss.Color("#F59E0B") // Warning amber
	colorError   = lipgloss.Color("#EF4444") // Error red
)

// Styles
var (
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// Icons
const (
	iconSuccess = "✓"
	iconWarning = "⚠"
	iconInfo    = "●"
)

// Test hook for TTY detection. When testIsTTYOverride is non-nil its value
// wins over real detection.
var (
	testIsTTYMutex    sync.Mutex
	testIsTTYOverride *bool
)

// isTTY returns true if stdout is a terminal
func isTTY() bool {
	testIsTTYMutex.Lock()
	override := testIsTTYOverride
	testIsTTYMutex.Unlock()
	if override != nil {
		return *override
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// printStyled prints a message with an icon, applying style only in TTY mode
func printStyled(w io.Writer, icon string, style lipgloss.Style, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if isTTY() {
		fmt.Fprintf(w, "%s %s\n", style.Render(icon), msg)
	} else {
		fmt.Fprintf(w, "%s %s\n", icon, msg)
	}
}

// printSuccess prints a success message with green checkmark
func printSuccess(w io.Writer, format string, args ...interface{}) {
	printStyled(w, iconSuccess, successStyle, format, args...)
}

// printWarning prints a warning message with amber warning sign
func printWarning(w io.Writer, format string, args ...interface{}) {
	printStyled(w, iconWarning, warningStyle, format, args...)
}

// printInfo prints an info message with brand-colored dot
func printInfo(w io.Writer, format string, args ...interface{}) {
	printStyled(w, iconInfo, infoStyle, format, args...)
}

// printMuted prints muted/secondary text
func printMuted(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if isTTY() {
		fmt.Fprintln(w, mutedStyle.Render(msg))
	} else {
		fmt.Fprintln(w, msg)
	}
}

// renderLabel styles a field label in TTY mode
func renderLabel(s string) string {
	if isTTY() {
		return labelStyle.Render(s)
	}
	return s
}
