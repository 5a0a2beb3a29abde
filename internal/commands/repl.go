package commands

import (
	"fmt"
	"os"

	"github.com/arfbllh/mdq/internal/config"
	"github.com/arfbllh/mdq/internal/repl"
	"github.com/arfbllh/mdq/internal/styles"
)

// Repl starts the interactive session, optionally preloading a document.
func Repl(args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
	log := newLogger(cfg)
	log.ConfigLoaded(cfg.DefaultFormat, cfg.WrapWidth)

	r := repl.New(os.Stdin, os.Stdout, repl.Options{
		Config:      cfg,
		Logger:      log,
		Interactive: true,
		HistoryPath: config.HistoryPath(),
	})

	if len(args) > 0 {
		if err := r.Session().LoadFile(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
			os.Exit(1)
		}
		fmt.Println(styles.SuccessStyle.Render("✓ " + r.Session().Info()))
	}

	if err := r.Run(); err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}
