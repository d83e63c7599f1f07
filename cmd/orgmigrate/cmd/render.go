package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

// outputWriter is used for printing output, can be overridden in tests
var outputWriter io.Writer = os.Stdout

// setOutputWriter sets the output writer (used for testing)
func setOutputWriter(w io.Writer) {
	outputWriter = w
}

// resetOutputWriter resets output to stdout (used for testing)
func resetOutputWriter() {
	outputWriter = os.Stdout
}

func printHeader(format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	fmt.Fprintln(outputWriter, color.Bold.Sprint(title))
	fmt.Fprintln(outputWriter, strings.Repeat("=", runewidth.StringWidth(title)))
}

func printSection(title string) {
	fmt.Fprintln(outputWriter, color.Cyan.Sprint(title))
}

func printOK(format string, args ...interface{}) {
	fmt.Fprintln(outputWriter, color.Green.Sprintf(format, args...))
}

func printFail(format string, args ...interface{}) {
	fmt.Fprintln(outputWriter, color.Red.Sprintf(format, args...))
}

// printTable renders rows with columns padded to the widest cell.
// runewidth keeps alignment correct for non-ASCII labels.
func printTable(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && runewidth.StringWidth(cell) > widths[i] {
				widths[i] = runewidth.StringWidth(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		fmt.Fprintln(outputWriter, "  "+strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(header)
	separator := make([]string, len(header))
	for i := range separator {
		separator[i] = strings.Repeat("-", widths[i])
	}
	printRow(separator)
	for _, row := range rows {
		printRow(row)
	}
}
