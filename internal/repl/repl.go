package repl

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/arfbllh/mdq/internal/config"
	"github.com/arfbllh/mdq/internal/logger"
	"github.com/arfbllh/mdq/internal/mdast"
	"github.com/arfbllh/mdq/internal/output"
	"github.com/arfbllh/mdq/internal/query"
	"github.com/arfbllh/mdq/internal/styles"
)

// Options configures a REPL.
type Options struct {
	Config      *config.Config
	Logger      *logger.Logger
	Interactive bool // render markdown output for the terminal
	HistoryPath string
}

// REPL drives one interactive session over the given reader and writer.
type REPL struct {
	in      *bufio.Scanner
	out     io.Writer
	log     *logger.Logger
	session *Session
	history *History
	vars    map[string]string

	format      output.Format
	prompt      string
	wrapWidth   int
	suggestions bool
	interactive bool
	historyPath string
}

// New creates a REPL reading commands from in and writing results to out.
func New(in io.Reader, out io.Writer, opts Options) *REPL {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	format, err := output.ParseFormat(cfg.DefaultFormat)
	if err != nil {
		format = output.FormatMarkdown
	}

	history := NewHistory(cfg.HistorySize)
	if opts.HistoryPath != "" {
		if loaded, err := LoadHistory(opts.HistoryPath, cfg.HistorySize); err == nil {
			history = loaded
		}
	}

	return &REPL{
		in:          bufio.NewScanner(in),
		out:         out,
		log:         log,
		session:     NewSession(),
		history:     history,
		vars:        make(map[string]string),
		format:      format,
		prompt:      cfg.Prompt,
		wrapWidth:   cfg.WrapWidth,
		suggestions: cfg.Suggestions,
		interactive: opts.Interactive,
		historyPath: opts.HistoryPath,
	}
}

// Session returns the underlying session, so callers can preload a document
// before starting the loop.
func (r *REPL) Session() *Session {
	return r.session
}

// Run executes the read-eval-print loop until EOF or .exit.
func (r *REPL) Run() error {
	r.log.SessionStarted(r.session.ID)
	r.showWelcome()

	commands := 0
	for {
		fmt.Fprint(r.out, styles.PromptStyle.Render(r.prompt))
		if !r.in.Scan() {
			break
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		r.history.Add(line)
		commands++

		cmd := ParseCommand(line)
		if cmd.Kind == CmdExit {
			break
		}
		r.execute(cmd)
	}

	fmt.Fprintln(r.out, "Goodbye!")
	r.log.SessionEnded(r.session.ID, commands)

	if r.historyPath != "" {
		if err := r.history.Save(r.historyPath); err != nil {
			r.log.Warn("failed to save history", "error", err)
		}
	}
	return r.in.Err()
}

func (r *REPL) showWelcome() {
	fmt.Fprintln(r.out, "mdq REPL - Interactive Markdown Query Tool")
	fmt.Fprintln(r.out, "Type '.help' for available commands, or enter a selector query")
	fmt.Fprintln(r.out, "Press Ctrl+D or type '.exit' to quit")
	fmt.Fprintln(r.out)
}

func (r *REPL) execute(cmd Command) {
	switch cmd.Kind {
	case CmdQuery:
		r.runQuery(cmd.Raw)

	case CmdLoad:
		path := cmd.Args[0]
		if err := r.session.LoadFile(path); err != nil {
			fmt.Fprintf(r.out, "Error loading document: %v\n", err)
			r.log.DocumentError(path, err)
			return
		}
		fmt.Fprintf(r.out, "Document loaded successfully: %s\n", path)
		fmt.Fprintln(r.out, r.session.Info())
		r.log.DocumentLoaded(path, len(r.session.content), r.session.doc.BlockCount())

	case CmdReload:
		if err := r.session.Reload(); err != nil {
			fmt.Fprintf(r.out, "Error reloading document: %v\n", err)
			return
		}
		fmt.Fprintln(r.out, "Document reloaded successfully")
		fmt.Fprintln(r.out, r.session.Info())

	case CmdFormat:
		format, err := output.ParseFormat(cmd.Args[0])
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return
		}
		r.format = format
		fmt.Fprintf(r.out, "Output format set to: %s\n", format)

	case CmdSet:
		name, value := cmd.Args[0], cmd.Args[1]
		r.vars[name] = value
		fmt.Fprintf(r.out, "Set variable '%s' = '%s'\n", name, value)

	case CmdGet:
		name := cmd.Args[0]
		if value, ok := r.vars[name]; ok {
			fmt.Fprintf(r.out, "%s = %s\n", name, value)
		} else {
			fmt.Fprintf(r.out, "Variable '%s' not found\n", name)
		}

	case CmdVars:
		if len(r.vars) == 0 {
			fmt.Fprintln(r.out, "No variables set")
			return
		}
		fmt.Fprintln(r.out, "Variables:")
		names := make([]string, 0, len(r.vars))
		for name := range r.vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(r.out, "  %s = %s\n", name, r.vars[name])
		}

	case CmdHistory:
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.out, "%4d  %s\n", i+1, entry)
		}

	case CmdOutline:
		if !r.session.HasDocument() {
			fmt.Fprintln(r.out, "No document loaded")
			return
		}
		r.writeOutline(r.session.Document().Blocks, 0)

	case CmdInfo:
		fmt.Fprintln(r.out, r.session.Info())

	case CmdClear:
		r.session.Clear()
		fmt.Fprintln(r.out, "Document cleared")

	case CmdHelp:
		fmt.Fprint(r.out, helpText)

	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", cmd.Raw)
		fmt.Fprintln(r.out, "Use .help for available commands")
	}
}

func (r *REPL) runQuery(queryText string) {
	if !r.session.HasDocument() {
		fmt.Fprintln(r.out, "Error: No document loaded. Use .load <file> first.")
		return
	}

	queryText = r.expandVariables(queryText)

	chain, err := query.Parse(queryText)
	if err != nil {
		msg := err.Error()
		if perr, ok := err.(*query.ParseError); ok && r.suggestions {
			msg = perr.WithSuggestions()
		}
		fmt.Fprintf(r.out, "Error parsing selector:\n%s\n", msg)
		r.log.QueryFailed(queryText, err)
		return
	}

	start := time.Now()
	doc := r.session.Document()
	nodes := chain.Find(doc)
	r.log.QueryExecuted(queryText, len(nodes), time.Since(start))

	if len(nodes) == 0 {
		fmt.Fprintln(r.out, "No elements matched the selector")
		return
	}

	if r.format == output.FormatMarkdown && r.interactive {
		fmt.Fprint(r.out, output.Terminal(output.Markdown(doc, nodes), r.wrapWidth))
	} else {
		if err := output.Write(r.out, doc, nodes, r.format); err != nil {
			fmt.Fprintf(r.out, "Error writing output: %v\n", err)
			return
		}
	}
	fmt.Fprintln(r.out, styles.CountStyle.Render(fmt.Sprintf("Found %d matching elements", len(nodes))))
}

var varRefRe = regexp.MustCompile(`\$\{(\w+)\}`)

// expandVariables substitutes ${name} references from session variables.
// Unset names and bare $word text pass through untouched, so queries can
// still match literal dollar signs.
func (r *REPL) expandVariables(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return varRefRe.ReplaceAllStringFunc(s, func(ref string) string {
		name := ref[2 : len(ref)-1]
		if v, ok := r.vars[name]; ok {
			return v
		}
		return ref
	})
}

func (r *REPL) writeOutline(blocks []mdast.Block, depth int) {
	for _, b := range blocks {
		sec, ok := b.(*mdast.Section)
		if !ok {
			continue
		}
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(r.out, "%s%s %s\n", indent, strings.Repeat("#", sec.Level), mdast.SpansText(sec.Title))
		r.writeOutline(sec.Blocks, depth+1)
	}
}
