// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the terminal rendering helpers shared by the hwke
// CLI commands: color toggling, colored message lines, and status glyphs.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	colorsEnabled = true

	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

// InitColors decides whether color output should be used: explicit
// --no-color, NO_COLOR, and non-tty stdout all disable it.
func InitColors(noColor bool) {
	colorsEnabled = !noColor &&
		os.Getenv("NO_COLOR") == "" &&
		isatty.IsTerminal(os.Stdout.Fd())
	color.NoColor = !colorsEnabled
}

// Enabled reports whether colorized output is currently active.
func Enabled() bool { return colorsEnabled }

// Success writes a green line to w.
func Success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, successColor.Sprintf(format, args...))
}

// Warn writes a yellow line to w.
func Warn(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, warnColor.Sprintf(format, args...))
}

// Error writes a red line to w.
func Error(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, errorColor.Sprintf(format, args...))
}

// Dim writes a faint line to w, used for secondary detail.
func Dim(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, dimColor.Sprintf(format, args...))
}

// StatusGlyph returns a short colorized marker for a lifecycle status name,
// used by `hwke status`.
func StatusGlyph(status string) string {
	switch status {
	case "Completed":
		return successColor.Sprint("✓")
	case "Cancelled":
		return errorColor.Sprint("✗")
	case "Active":
		return warnColor.Sprint("●")
	case "Blocked":
		return errorColor.Sprint("■")
	case "Waiting", "Pending":
		return dimColor.Sprint("○")
	default:
		return dimColor.Sprint("·")
	}
}
