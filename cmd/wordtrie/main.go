// Copyright 2025 The WordTrie Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the word index server and CLI [DBG] application.

WordTrie keeps a prefix tree of words with occurrence counts and answers
prefix searches with up to ten words. It can run as a MessagePack IPC server
for editors and other processes, or as an interactive prompt for testing.

# Usage

Start the server on stdin/stdout with a word list loaded:

	wordtrie serve -w words.txt

Load every *.txt and dict_*.bin file of a directory and open the prompt:

	wordtrie repl -w data/ -d

Print the version, or the active config file:

	wordtrie version
	wordtrie config
	wordtrie config --rebuild

# Configuration

Runtime configuration is read from a TOML file. The --config flag wins over
the default <config dir>/wordtrie/config.toml, which is created with
defaults when missing:

	[search]
	max_results = 10
	cache_size = 1024

	[server]
	min_prefix = 0
	max_prefix = 60
	max_word_len = 64

	[dict]
	encoding = "utf-8"
	workers = 4
	max_count = 1000000

	[cli]
	default_no_filter = false

# Word lists

Text lists hold one word per line with an optional count ("cat 12");
blank lines and lines starting with # are skipped. Chunked binary lists
are named dict_NNNN.bin. Directories given to --data are expanded to both
kinds of files.

See package server for the IPC protocol.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/bastiangx/wordtrie/internal/cli"
	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/index"
	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "wordtrie"
	gh      = "https://github.com/bastiangx/wordtrie"
)

// Globals are the flags shared by every command.
type Globals struct {
	Data   []string `short:"w" help:"Word list files or directories to load" type:"path"`
	Config string   `help:"Path to a config.toml" type:"path"`
	Debug  bool     `short:"d" help:"Toggle debug mode"`
}

var app struct {
	Globals

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve the index over msgpack IPC on stdin/stdout"`
	Repl    ReplCmd    `cmd:"" help:"Interactive prompt -- useful for testing and debugging"`
	Version VersionCmd `cmd:"" help:"Show current version"`
	Cfg     ConfigCmd  `cmd:"" name:"config" help:"Show or rebuild the config file"`
}

// ServeCmd starts the IPC server.
type ServeCmd struct{}

// Run loads the word lists and serves until stdin is closed.
func (cmd *ServeCmd) Run(g *Globals) error {
	cfg, configPath, idx, err := setup(g)
	if err != nil {
		return err
	}
	srv := server.NewServer(idx, cfg, configPath)
	showStartupInfo(g.Data, idx)
	return srv.Start()
}

// ReplCmd starts the interactive prompt.
type ReplCmd struct {
	Limit     int  `help:"Number of suggestions to return" default:"10"`
	MinPrefix int  `name:"prmin" help:"Minimum prefix length for suggestions" default:"1"`
	MaxPrefix int  `name:"prmax" help:"Maximum prefix length for suggestions" default:"60"`
	NoFilter  bool `help:"Disable input filtering (DBG only) - searches numbers, symbols, etc"`
}

// Run loads the word lists and reads commands until stdin is closed.
func (cmd *ReplCmd) Run(g *Globals) error {
	cfg, _, idx, err := setup(g)
	if err != nil {
		return err
	}
	log.SetReportTimestamp(false)
	noFilter := cmd.NoFilter || cfg.CLI.DefaultNoFilter
	log.Debug("Input info:",
		"minPrefix", cmd.MinPrefix,
		"maxPrefix", cmd.MaxPrefix,
		"limit", cmd.Limit,
		"noFilter", noFilter)

	return cli.NewInputHandler(idx, cmd.MinPrefix, cmd.MaxPrefix, cmd.Limit, noFilter).Start()
}

// VersionCmd prints the version banner.
type VersionCmd struct{}

func (cmd *VersionCmd) Run(g *Globals) error {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ WordTrie ] Counts words and finds them by prefix")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
	return nil
}

// ConfigCmd shows the config file in use.
type ConfigCmd struct {
	Rebuild bool `help:"Overwrite the default config file with defaults"`
}

func (cmd *ConfigCmd) Run(g *Globals) error {
	if cmd.Rebuild {
		if err := config.RebuildConfigFile(); err != nil {
			return fmt.Errorf("failed to rebuild config: %w", err)
		}
	}
	_, configPath, err := config.LoadConfigWithPriority(g.Config)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, config.GetActiveConfigPath(configPath))
	return nil
}

// setup applies the log level, loads the config and builds the index from the word lists.
func setup(g *Globals) (*config.Config, string, *index.Index, error) {
	level := log.WarnLevel
	if g.Debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	log.SetReportTimestamp(g.Debug)

	cfg, configPath, err := config.LoadConfigWithPriority(g.Config)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Debugf("Using config: (%s)", config.GetActiveConfigPath(configPath))

	idx := index.New(
		index.WithCacheSize(cfg.Search.CacheSize),
		index.WithLogger(logger.NewWithConfig("index", level, false, g.Debug, log.TextFormatter)),
	)

	if len(g.Data) == 0 {
		log.Warn("No word lists specified, running with an empty index...")
		return cfg, configPath, idx, nil
	}

	loader, err := dictionary.NewLoader(dictionary.Options{
		Encoding:   cfg.Dict.Encoding,
		Workers:    cfg.Dict.Workers,
		MaxCount:   cfg.Dict.MaxCount,
		MaxWordLen: cfg.Server.MaxWordLen,
		Logger:     logger.NewWithConfig("dict", level, false, g.Debug, log.TextFormatter),
	})
	if err != nil {
		return nil, "", nil, err
	}
	stats, err := loader.Load(g.Data, idx)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to load word lists: %w", err)
	}
	log.Debug("Word lists loaded",
		"files", stats.Files,
		"words", stats.Words,
		"occurrences", stats.Occurrences,
		"skipped", stats.Skipped)

	return cfg, configPath, idx, nil
}

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main parses the command line and runs the chosen command.
func main() {
	sigHandler()
	ctx := kong.Parse(&app,
		kong.Name(AppName),
		kong.Description("Prefix tree word index with msgpack IPC"),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&app.Globals); err != nil {
		log.Fatalf("%s: %v", AppName, err)
	}
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(data []string, idx *index.Index) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	stats := idx.Stats()
	println("===========")
	println(" WordTrie ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("word lists: %v", data)
	log.Infof("words: %s", utils.FormatWithCommas(stats["words"]))
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
