// Package cli handles interactive queries for debugging and exploring an index.
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bastiangx/corpusquery/internal/logger"
	"github.com/bastiangx/corpusquery/internal/utils"
	"github.com/bastiangx/corpusquery/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const helpText = `commands:
  <text>        titles starting with <text>
  :c <text>     titles containing <text>
  :dump [c]     print the prefix tree, or the suffix tree with c
  :stats        index statistics
  :q            quit`

var titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads queries line by line and prints their results.
// Lengths are measured in characters, not bytes.
type InputHandler struct {
	completer    suggest.ICompleter
	minLength    int
	maxLength    int
	suggestLimit int
	in           io.Reader
	out          io.Writer
	printer      *log.Logger
}

// NewInputHandler creates a handler on stdin/stdout.
func NewInputHandler(completer suggest.ICompleter, minLength, maxLength, limit int) *InputHandler {
	return NewInputHandlerWithIO(completer, minLength, maxLength, limit, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO creates a handler reading from in and printing to out.
func NewInputHandlerWithIO(completer suggest.ICompleter, minLength, maxLength, limit int, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		completer:    completer,
		minLength:    minLength,
		maxLength:    maxLength,
		suggestLimit: limit,
		in:           in,
		out:          out,
		printer:      logger.NewWithWriter(out, ""),
	}
}

// Start runs the prompt loop until the input ends or :q is entered.
func (h *InputHandler) Start() error {
	h.printer.Print("corpusq CLI")
	h.printer.Print("type a prefix and press Enter, :help for commands (Ctrl+C to exit)")

	reader := bufio.NewReader(h.in)
	for {
		h.printer.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !h.handleLine(line) {
			return nil
		}
	}
}

// handleLine dispatches a single input line. It returns false to stop the loop.
func (h *InputHandler) handleLine(line string) bool {
	switch {
	case line == ":q":
		return false
	case line == ":help":
		h.printer.Print(helpText)
	case line == ":stats":
		h.printStats()
	case line == ":dump" || line == ":dump c":
		mode := suggest.ModePrefix
		if line == ":dump c" {
			mode = suggest.ModeContains
		}
		if err := h.completer.Dump(h.out, mode); err != nil {
			h.printer.Errorf("Dump failed: %v", err)
		}
	case strings.HasPrefix(line, ":c "):
		h.query(strings.TrimPrefix(line, ":c "), suggest.ModeContains)
	case strings.HasPrefix(line, ":"):
		h.printer.Errorf("Unknown command: %s", line)
	default:
		h.query(line, suggest.ModePrefix)
	}
	return true
}

func (h *InputHandler) query(q string, mode suggest.Mode) {
	n := utils.RuneLen(q)
	if n < h.minLength {
		h.printer.Errorf("Query too short: %s", q)
		return
	}
	if n > h.maxLength {
		h.printer.Errorf("Query too long: %s", q)
		return
	}
	if !utils.IsValidQuery(q) {
		h.printer.Errorf("Query contains invalid characters: %q", q)
		return
	}

	start := time.Now()
	var res suggest.Result
	if mode == suggest.ModeContains {
		res = h.completer.Contains(q, h.suggestLimit)
	} else {
		res = h.completer.Complete(q, h.suggestLimit)
	}
	log.Debugf("Took %v for %s query '%s'", time.Since(start), mode, q)

	if res.Exact {
		if mode == suggest.ModeContains {
			h.printer.Printf("'%s' occurs in the corpus", q)
		} else {
			h.printer.Printf("'%s' is an indexed title", q)
		}
	}
	if len(res.Suggestions) == 0 {
		h.printer.Warnf("No titles found for %s '%s'", mode, q)
		return
	}

	h.printer.Printf("Found %d titles for %s '%s' (showing %d):", res.Total, mode, q, len(res.Suggestions))
	for _, s := range res.Suggestions {
		h.printer.Printf("%2d. %s", s.Rank, titleStyle.Render(s.Title))
	}
}

func (h *InputHandler) printStats() {
	stats := h.completer.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.printer.Printf("%-16s %10s", k, utils.FormatWithCommas(stats[k]))
	}
}
