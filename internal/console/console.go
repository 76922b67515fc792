// Package console centralizes the styled terminal output used by the
// interactive session.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func Title(w io.Writer, msg string)   { fmt.Fprintln(w, titleStyle.Render(msg)) }
func Success(w io.Writer, msg string) { fmt.Fprintln(w, successStyle.Render("✓ "+msg)) }
func Warn(w io.Writer, msg string)    { fmt.Fprintln(w, warnStyle.Render("Warning: "+msg)) }
func Error(w io.Writer, msg string)   { fmt.Fprintln(w, errorStyle.Render("Error: "+msg)) }
func Faint(w io.Writer, msg string)   { fmt.Fprintln(w, faintStyle.Render(msg)) }
