package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kballard/go-shellquote"

	"github.com/bekirdag/gridview/internal/grid"
	"github.com/bekirdag/gridview/internal/layout"
	"github.com/bekirdag/gridview/internal/source"
)

func main() {
	var (
		layoutPath string
		dbPath     string
		tableName  string
		execLine   string
		splitFlag  string
		themeFlag  string
		navFlag    string
		logPath    string
	)
	flag.StringVar(&layoutPath, "layout", "", "layout file (defaults to the user layout)")
	flag.StringVar(&dbPath, "db", "", "SQLite database holding the table")
	flag.StringVar(&tableName, "table", "", "table to show; with -exec the output is imported into it")
	flag.StringVar(&execLine, "exec", "", "command whose tabular output becomes the rows, e.g. \"ps aux\"")
	flag.StringVar(&splitFlag, "split", "fields", "column split for -exec output: fields or wide")
	flag.StringVar(&themeFlag, "theme", "", "Markdown rendering theme for the detail pane: auto, light, or dark")
	flag.StringVar(&navFlag, "nav", "", "cell navigation mode: NONE, CHANGE_ROW or LOOP_OVER_ROW")
	flag.StringVar(&logPath, "log", "", "interaction log path (defaults to the user config dir)")
	flag.Parse()

	if layoutPath == "" {
		layoutPath = layout.DefaultPath()
	}
	cfg, err := layout.Load(layoutPath)
	if err != nil {
		exitWithError(fmt.Errorf("load layout: %w", err))
	}
	if navFlag != "" {
		if _, err := grid.ParseCellNavigationMode(navFlag); err != nil {
			exitWithError(err)
		}
		cfg.Navigation = navFlag
	}

	split, err := source.ParseSplit(splitFlag)
	if err != nil {
		exitWithError(err)
	}
	src := dataSource{dbPath: dbPath, table: tableName, split: split}
	fields, err := shellquote.Split(execLine)
	if err != nil {
		exitWithError(fmt.Errorf("parse -exec: %w", err))
	}
	if len(fields) > 0 {
		src.command = fields[0]
		src.args = fields[1:]
	}
	if src.command == "" && (dbPath == "" || tableName == "") {
		exitWithError(fmt.Errorf("pass -db and -table, or -exec"))
	}

	var store *source.Store
	if dbPath != "" {
		store, err = source.OpenStore(dbPath)
		if err != nil {
			exitWithError(fmt.Errorf("open database: %w", err))
		}
		defer store.Close()
	}

	state, statePath := loadUIState()
	if themeFlag != "" {
		state.Theme = string(markdownThemeFromString(themeFlag))
	}

	if logPath == "" {
		logPath = filepath.Join(resolveConfigDir(), "interactions.jsonl")
	}
	telemetry := newInteractionLog(logPath, newSessionID(), resolveUserID(), src.key())

	m := initialModel(src, cfg, store, state, telemetry)
	_, runErr := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run()
	if err := saveUIState(state, statePath); err != nil {
		fmt.Fprintln(os.Stderr, "warning: save ui state:", err)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "error:", runErr)
		store.Close()
		os.Exit(1)
	}
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "gridview: %v\n", err)
	os.Exit(1)
}
