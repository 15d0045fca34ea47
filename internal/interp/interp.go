// Package interp ties the lexer, parser and evaluator into one pipeline.
package interp

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"kanye-lang/impl/internal/evaluator"
	"kanye-lang/impl/internal/lexer"
	"kanye-lang/impl/internal/parser"
)

// Version is reported by the greeting program.
const Version = "1.0.0"

// Greeting is what runs when no source is given.
var Greeting = `yeezy { spit "Helo kaney v` + Version + ` 👋"; }`

// Script is source that lexed and parsed cleanly.
type Script struct {
	Source  string
	Tokens  []lexer.Token
	Program parser.Program
}

func Compile(src string) (*Script, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}
	return &Script{Source: src, Tokens: toks, Program: prog}, nil
}

// Exec runs the script with a fresh evaluator writing to w.
func (s *Script) Exec(w io.Writer, opts ...evaluator.Option) error {
	return evaluator.New(w, opts...).Run(s.Program)
}

func Run(src string, w io.Writer, opts ...evaluator.Option) error {
	s, err := Compile(src)
	if err != nil {
		return err
	}
	return s.Exec(w, opts...)
}

// Offset returns the source byte offset an error points at. Runtime errors
// carry none.
func Offset(err error) (int, bool) {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return lexErr.Offset, true
	}
	var parseErr *parser.Error
	if errors.As(err, &parseErr) {
		return parseErr.Actual.Pos, true
	}
	return 0, false
}

// Position converts a byte offset into a 1-based line and column. Columns
// count runes. Offsets past the end clamp to the end of src.
func Position(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	if offset < 0 {
		offset = 0
	}
	before := src[:offset]
	line = strings.Count(before, "\n") + 1
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	return line, utf8.RuneCountInString(before) + 1
}

// CompileStatements parses input for interactive use: either a full
// `yeezy { ... }` program or a bare statement list.
func CompileStatements(src string) (parser.Block, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return parser.Block{}, err
	}
	p := parser.New(toks)
	if len(toks) > 0 && toks[0].Type == lexer.KEYWORD && toks[0].Lit == "yeezy" {
		prog, err := p.ParseProgram()
		return prog.Body, err
	}
	return p.ParseStatements()
}

// Incomplete reports whether err means the input ended too early, so more
// lines could still complete it.
func Incomplete(err error) bool {
	var parseErr *parser.Error
	if errors.As(err, &parseErr) {
		return parseErr.AtEOF()
	}
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return lexErr.Reason == lexer.ReasonUnterminatedString
	}
	return false
}

// Session runs successive inputs against one evaluator, so declarations
// survive from one input to the next.
type Session struct {
	ev *evaluator.Evaluator
}

func NewSession(w io.Writer, opts ...evaluator.Option) *Session {
	return &Session{ev: evaluator.New(w, opts...)}
}

func (s *Session) Eval(src string) error {
	blk, err := CompileStatements(src)
	if err != nil {
		return err
	}
	return s.ev.Exec(blk)
}
