package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// printMigrations reports the outcome of a migrate or rollback run.
func printMigrations(verb string, names []string) {
	if len(names) == 0 {
		printSubtle("Database is up to date, nothing to do.")
		return
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("%s %d migration(s)", verb, len(names))))
	for _, name := range names {
		fmt.Println(subtleStyle.Render("  " + name))
	}
}

func printSubtle(msg string) {
	fmt.Println(subtleStyle.Render(msg))
}

func printError(msg string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+msg))
}
