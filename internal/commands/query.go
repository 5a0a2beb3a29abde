// Package commands implements the CLI entry points.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/arfbllh/mdq/internal/config"
	"github.com/arfbllh/mdq/internal/logger"
	"github.com/arfbllh/mdq/internal/mdast"
	"github.com/arfbllh/mdq/internal/output"
	"github.com/arfbllh/mdq/internal/query"
	"github.com/arfbllh/mdq/internal/styles"
)

// Query runs a one-shot selector query against a file or stdin.
// Exits 0 when at least one node matched, 1 on no matches or error.
func Query(args []string) {
	formatArg := ""
	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--format", "-f":
			if i+1 < len(args) {
				i++
				formatArg = args[i]
			}
		default:
			rest = append(rest, args[i])
		}
	}

	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: mdq [--format <fmt>] '<query>' [file]")
		os.Exit(1)
	}
	queryText := rest[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
	log := newLogger(cfg)

	if formatArg == "" {
		formatArg = cfg.DefaultFormat
	}
	format, err := output.ParseFormat(formatArg)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}

	source, content, err := readInput(rest[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}

	doc, err := mdast.Parse(content)
	if err != nil {
		log.DocumentError(source, err)
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ failed to parse "+source+": "+err.Error()))
		os.Exit(1)
	}
	log.DocumentLoaded(source, len(content), doc.BlockCount())

	chain, err := query.Parse(queryText)
	if err != nil {
		log.QueryFailed(queryText, err)
		msg := err.Error()
		if perr, ok := err.(*query.ParseError); ok && cfg.Suggestions {
			msg = perr.WithSuggestions()
		}
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}

	nodes := chain.Find(doc)
	if len(nodes) == 0 {
		os.Exit(1)
	}

	if err := output.Write(os.Stdout, doc, nodes, format); err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}

// readInput returns the document source name and content from the first
// argument, or stdin when no file is given.
func readInput(args []string) (string, []byte, error) {
	if len(args) > 0 && args[0] != "-" {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return args[0], nil, err
		}
		return args[0], content, nil
	}
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "stdin", nil, err
	}
	return "stdin", content, nil
}

// newLogger builds the logger from config. Without a log_file setting all
// logging is discarded.
func newLogger(cfg *config.Config) *logger.Logger {
	if cfg.LogFile == "" {
		return logger.Discard()
	}
	log, _, err := logger.NewFileLogger(cfg.LogFile)
	if err != nil {
		return logger.Discard()
	}
	return log
}
