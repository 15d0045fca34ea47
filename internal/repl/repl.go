// Package repl is the interactive prompt.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iotaledger/hive.go/logger"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"kanye-lang/impl/internal/evaluator"
	"kanye-lang/impl/internal/interp"
)

const (
	PromptMain = "kanye> "
	PromptCont = "  ...> "
)

// LineReader is the part of *liner.State the loop needs.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type REPL struct {
	in      LineReader
	out     io.Writer
	errOut  io.Writer
	session *interp.Session
}

func New(in LineReader, out, errOut io.Writer, opts ...evaluator.Option) *REPL {
	return &REPL{in: in, out: out, errOut: errOut, session: interp.NewSession(out, opts...)}
}

// Run reads and evaluates inputs until end of input or :quit. Errors in one
// input are reported and the loop carries on with the state it had.
func (r *REPL) Run() {
	for {
		src, ok := r.read()
		if !ok {
			fmt.Fprintln(r.out)
			return
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.ToLower(trimmed) == ":quit" {
				return
			}
			fmt.Fprintln(r.errOut, "unknown command. Type :quit to exit.")
			continue
		}
		r.in.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if err := r.session.Eval(src); err != nil {
			fmt.Fprintf(r.errOut, "💥 Error: %v\n", err)
		}
	}
}

// read collects lines until they form complete input: anything whose parse
// fails only because it ran out of tokens keeps prompting.
func (r *REPL) read() (string, bool) {
	var b strings.Builder
	for {
		prompt := PromptMain
		if b.Len() > 0 {
			prompt = PromptCont
		}
		line, err := r.in.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := interp.CompileStatements(src); perr != nil && interp.Incomplete(perr) {
			continue
		}
		return src, true
	}
}

// History is the part of *liner.State that persists entered lines.
type History interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
}

var (
	_ LineReader = (*liner.State)(nil)
	_ History    = (*liner.State)(nil)
)

// LoadHistory reads earlier entries from path. A missing file is not an error.
func LoadHistory(h History, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "history")
	}
	defer f.Close()
	n, err := h.ReadHistory(f)
	if err != nil {
		return n, errors.Wrapf(err, "history: read %s", path)
	}
	return n, nil
}

// SaveHistory replaces path with the current entries.
func SaveHistory(h History, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "history")
	}
	n, err := h.WriteHistory(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, errors.Wrapf(err, "history: write %s", path)
	}
	return n, nil
}

// Start runs an interactive session on the terminal, loading and saving
// history at historyPath when it is set.
func Start(historyPath string, log *logger.Logger, opts ...evaluator.Option) {
	wl := logger.NewWrappedLogger(log)
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if n, err := LoadHistory(ln, historyPath); err != nil {
			wl.LogWarnf("history not loaded: %v", err)
		} else {
			wl.LogDebugf("loaded %d history entries from %s", n, historyPath)
		}
		defer func() {
			if _, err := SaveHistory(ln, historyPath); err != nil {
				wl.LogWarnf("history not saved: %v", err)
			}
		}()
	}

	fmt.Printf("Kanye %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", interp.Version)
	New(ln, os.Stdout, os.Stderr, opts...).Run()
}
