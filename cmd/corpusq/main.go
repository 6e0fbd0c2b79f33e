/*
Package main implements the corpusq title query server and its debugging CLI.

corpusq indexes a corpus of short titles and answers two kinds of queries:
prefix queries, returning whether the query is itself a title plus every
title starting with it, and contains queries, returning whether the query
occurs anywhere inside a title plus the titles it occurs in.

# Usage

Serve the builtin sample corpus over msgpack IPC:

	corpusq

Index a directory of article files and explore it interactively:

	corpusq -corpus ./articles -c

A corpus is a single file or a directory of files. Supported formats are
JSON and YAML article lists ([{"id": 1, "title": "..."}]), msgpack article
lists, and plain text with one title per line.

# Configuration

Runtime configuration is read from a TOML file, created with defaults in the
user config dir on first run:

	[server]
	max_limit = 64
	default_limit = 10
	min_query = 0
	max_query = 120
	allow_insert = false

	[index]
	enable_substring = true
	cache_size = 512
	max_title_length = 256

	[cli]
	default_limit = 24
	default_min_len = 1
	default_max_len = 120

# Index

The whole corpus is indexed before the first query is served. The substring
index stores every suffix of every title, so its size grows with the square
of title length; max_title_length skips titles that would blow it up, and
-no-substring turns it off in favour of a linear scan.

# Command Line Flags

	-corpus string
	    Corpus file or directory (builtin sample corpus when empty)
	-config string
	    Path to a config file
	-d  Enable debug logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of titles to print in CLI mode
	-qmin int / -qmax int
	    Query length bounds in CLI mode
	-no-substring
	    Disable the substring index
	-version
	    Show version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/corpusquery/internal/cli"
	clog "github.com/bastiangx/corpusquery/internal/logger"
	"github.com/bastiangx/corpusquery/internal/utils"
	"github.com/bastiangx/corpusquery/pkg/config"
	"github.com/bastiangx/corpusquery/pkg/corpus"
	"github.com/bastiangx/corpusquery/pkg/server"
	"github.com/bastiangx/corpusquery/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "corpusq"
)

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

func showVersion() {
	logger := clog.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ corpusq ] prefix and substring queries over title corpora")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
}

// loadArticles resolves and loads the corpus, falling back to the builtin
// sample when no path is given.
func loadArticles(resolver *utils.PathResolver, corpusPath string) ([]corpus.Article, string, error) {
	if corpusPath == "" {
		return corpus.Builtin(), "builtin", nil
	}

	resolved := corpusPath
	if resolver != nil {
		path, err := resolver.GetCorpusPath(corpusPath, corpus.HasCorpus)
		if err != nil {
			return nil, "", fmt.Errorf("no corpus found at %s: %w", corpusPath, err)
		}
		resolved = path
	}

	articles, err := corpus.LoadPath(resolved)
	if err != nil {
		return nil, "", err
	}
	return articles, resolved, nil
}

// buildCompleter indexes all titles up front, skipping those longer than
// maxTitleLength when it is positive.
func buildCompleter(articles []corpus.Article, opts suggest.Options, maxTitleLength int) *suggest.Completer {
	titles := corpus.Titles(articles)
	if maxTitleLength > 0 {
		kept := titles[:0]
		for _, t := range titles {
			if utils.RuneLen(t) > maxTitleLength {
				log.Warnf("Skipping title longer than %d characters: %.40s...", maxTitleLength, t)
				continue
			}
			kept = append(kept, t)
		}
		titles = kept
	}

	completer := suggest.NewCompleter(opts)
	completer.AddTitles(titles)
	return completer
}

// main wires config, corpus and index together and hands over to the
// server or the CLI.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	version := flag.Bool("version", false, "Show current version")
	corpusPath := flag.String("corpus", "", "Corpus file or directory (builtin sample corpus when empty)")
	configPath := flag.String("config", "", "Path to a config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "Number of titles to print in CLI mode")
	minQuery := flag.Int("qmin", defaults.CLI.DefaultMinLen, "Minimum query length in CLI mode")
	maxQuery := flag.Int("qmax", defaults.CLI.DefaultMaxLen, "Maximum query length in CLI mode")
	noSubstring := flag.Bool("no-substring", false, "Disable the substring index (contains queries scan all titles)")

	flag.Parse()

	if *version {
		showVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	resolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
	}

	appConfig, activeConfig := config.LoadConfigWithPriority(*configPath, resolver)
	log.Debugf("Using config: %s", utils.GetAbsolutePath(activeConfig))

	articles, source, err := loadArticles(resolver, *corpusPath)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}

	opts := suggest.Options{
		EnableSubstring: appConfig.Index.EnableSubstring && !*noSubstring,
		CacheSize:       appConfig.Index.CacheSize,
	}
	completer := buildCompleter(articles, opts, appConfig.Index.MaxTitleLength)
	stats := completer.Stats()
	log.Debug("Index built",
		"source", source,
		"titles", stats["totalTitles"],
		"prefixNodes", stats["prefixNodes"],
		"substringNodes", stats["substringNodes"])

	// CLI is mainly used for testing and debugging queries.
	if *cliMode {
		log.SetReportTimestamp(false)
		applyCliConfig(appConfig.CLI, limit, minQuery, maxQuery)
		inputHandler := cli.NewInputHandler(completer, *minQuery, *maxQuery, *limit)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, appConfig)
	showStartupInfo(source, stats["totalTitles"])

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// applyCliConfig takes CLI defaults from the config file for every flag the
// user did not set explicitly.
func applyCliConfig(cfg config.CliConfig, limit, minQuery, maxQuery *int) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["limit"] {
		*limit = cfg.DefaultLimit
	}
	if !set["qmin"] {
		*minQuery = cfg.DefaultMinLen
	}
	if !set["qmax"] {
		*maxQuery = cfg.DefaultMaxLen
	}
}

// showStartupInfo reports the loaded corpus on stderr.
func showStartupInfo(source string, titles int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("corpus: ( %s ), %s titles", source, utils.FormatWithCommas(titles))
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
