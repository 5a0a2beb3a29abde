package main

import (
	"fmt"
	"os"

	"github.com/arfbllh/mdq/internal/commands"
	"github.com/arfbllh/mdq/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "query":
		commands.Query(os.Args[2:])
	case "repl":
		commands.Repl(os.Args[2:])
	case "outline":
		commands.Outline(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("mdq v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		// Anything else is treated as a selector query.
		commands.Query(os.Args[1:])
	}
}

func printUsage() {
	usage := fmt.Sprintf(`mdq - Query markdown documents with CSS-like selectors

Usage:
  mdq [--format <fmt>] '<query>' [file]
  mdq <command> [options]

Commands:
  query       Run a selector query (default when no command is given)
  repl        Start an interactive query session
  outline     Browse the document heading outline
  version     Show version information
  help        Show this help message

Queries:
  # Section                 Sections whose title matches
  - List item               List items (tasks: - [ ], - [x], - [?])
  [text](url)               Links by text and destination
  > Quote                   Blockquotes
  %s                     Code blocks by language
  P: text                   Paragraphs
  +++                       Front matter
  :-: Column :-: Row        Table columns and rows
  Chain selectors with |, e.g. '# Usage | - [ ] *'

Examples:
  mdq '# Installation' README.md
  mdq --format json '- [x] *' TODO.md
  cat notes.md | mdq '[](github.com)'
  mdq repl README.md
  mdq outline README.md

Exit codes:
  0  at least one element matched
  1  no matches, or an error occurred

Configuration:
  Config file:  %s
  History file: %s
`, "```go", config.ConfigPath(), config.HistoryPath())
	fmt.Print(usage)
}
