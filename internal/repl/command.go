// Package repl implements the interactive query session: dot commands,
// document state, command history, and the read-eval-print loop itself.
package repl

import "strings"

// CommandKind identifies a parsed REPL input line.
type CommandKind int

const (
	CmdQuery CommandKind = iota
	CmdLoad
	CmdReload
	CmdFormat
	CmdSet
	CmdGet
	CmdVars
	CmdHistory
	CmdOutline
	CmdInfo
	CmdClear
	CmdHelp
	CmdExit
	CmdUnknown
)

// Command is one parsed input line. Args carries the command arguments; for
// CmdQuery and CmdUnknown, Raw holds the original line.
type Command struct {
	Kind CommandKind
	Args []string
	Raw  string
}

// ParseCommand classifies an input line. Lines starting with '.' are dot
// commands; anything else is a query.
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)

	if input == "" {
		return Command{Kind: CmdUnknown, Raw: input}
	}

	if !strings.HasPrefix(input, ".") {
		return Command{Kind: CmdQuery, Raw: input}
	}

	parts := strings.Fields(input[1:])
	if len(parts) == 0 {
		return Command{Kind: CmdUnknown, Raw: input}
	}

	name, args := parts[0], parts[1:]
	switch name {
	case "load":
		if len(args) == 1 {
			return Command{Kind: CmdLoad, Args: args}
		}
	case "reload":
		return Command{Kind: CmdReload}
	case "format":
		if len(args) == 1 {
			return Command{Kind: CmdFormat, Args: args}
		}
	case "set":
		if len(args) >= 2 {
			return Command{Kind: CmdSet, Args: []string{args[0], strings.Join(args[1:], " ")}}
		}
	case "get":
		if len(args) == 1 {
			return Command{Kind: CmdGet, Args: args}
		}
	case "vars", "variables":
		return Command{Kind: CmdVars}
	case "history":
		return Command{Kind: CmdHistory}
	case "outline":
		return Command{Kind: CmdOutline}
	case "info":
		return Command{Kind: CmdInfo}
	case "clear":
		return Command{Kind: CmdClear}
	case "help":
		return Command{Kind: CmdHelp}
	case "exit", "quit":
		return Command{Kind: CmdExit}
	}

	return Command{Kind: CmdUnknown, Raw: input}
}

const helpText = `mdq REPL - Interactive Markdown Query Tool

Available commands:
  <selector>     Execute a selector query
  .load <file>   Load a document from file
  .reload        Reload the current document
  .format <fmt>  Change output format (md|json|plain|yaml)
  .set <n> <v>   Set a variable
  .get <n>       Get a variable value
  .vars          List all variables
  .history       Show command history
  .outline       Show the document heading outline
  .info          Show document information
  .clear         Clear current document
  .help          Show this help
  .exit          Exit REPL

Selector examples:
  # Section      - Select sections with title containing 'Section'
  - List item    - Select list items containing 'List item'
  [text](url)    - Select links with display text 'text'
  > Quote        - Select blockquotes containing 'Quote'
  ` + "```go" + `          - Select code blocks with language 'go'
`
