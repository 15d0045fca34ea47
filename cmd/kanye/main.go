package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/iotaledger/hive.go/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kanye-lang/impl/internal/config"
	"kanye-lang/impl/internal/evaluator"
	"kanye-lang/impl/internal/interp"
	"kanye-lang/impl/internal/parser"
	"kanye-lang/impl/internal/repl"
)

const usageText = `Usage: kanye [options] [file.kl]
       kanye [tokens|ast|fmt] <file.kl>
       kanye repl

Options:
  --strict         Enable strict mode
  --eval <code>    Run code directly
  --tokens         Print tokens before running
  --ast            Print the syntax tree before running
  --config <file>  Read settings from file (default ./.kanye.yaml)
  --debug          Log evaluator activity to stderr
  --version        Display version
  --help           Show this help
`

type options struct {
	command    string
	path       string
	eval       string
	hasEval    bool
	strict     bool
	debug      bool
	showTokens bool
	showAST    bool
	configPath string
}

// parseArgs walks the arguments by hand: the first bare word may be a
// subcommand, the next one is the source file.
func parseArgs(args []string) (options, error) {
	var o options
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "--strict":
			o.strict = true
		case "--debug":
			o.debug = true
		case "--tokens":
			o.showTokens = true
		case "--ast":
			o.showAST = true
		case "--help", "-h":
			o.command = "help"
		case "--version":
			o.command = "version"
		case "--eval", "--config":
			if i+1 >= len(args) {
				return o, errors.Errorf("missing value for %s", a)
			}
			i++
			if a == "--eval" {
				o.eval, o.hasEval = unquoteEval(args[i]), true
			} else {
				o.configPath = args[i]
			}
		default:
			if len(a) > 1 && a[0] == '-' {
				return o, errors.Errorf("unknown option %s", a)
			}
			switch {
			case o.command == "" && o.path == "" && isSubcommand(a):
				o.command = a
			case o.path == "":
				o.path = a
			default:
				return o, errors.Errorf("unexpected argument %s", a)
			}
		}
	}
	if o.command == "" {
		o.command = "run"
	}
	if (o.command == "tokens" || o.command == "ast" || o.command == "fmt") && o.path == "" && !o.hasEval {
		return o, errors.Errorf("%s needs a file", o.command)
	}
	return o, nil
}

// unquoteEval undoes shell quoting that survives into --eval code: escaped
// double quotes and one pair of wrapping single quotes.
func unquoteEval(code string) string {
	code = strings.ReplaceAll(code, `\"`, `"`)
	if len(code) >= 2 && code[0] == '\'' && code[len(code)-1] == '\'' && !strings.Contains(code, "\n") {
		code = code[1 : len(code)-1]
	}
	return code
}

func isSubcommand(s string) bool {
	switch s {
	case "tokens", "ast", "fmt", "repl":
		return true
	}
	return false
}

// source picks what to run: --eval code, then the file, then the greeting.
func source(o options) (string, error) {
	if o.hasEval {
		return o.eval, nil
	}
	if o.path == "" {
		return interp.Greeting, nil
	}
	data, err := os.ReadFile(o.path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", o.path)
	}
	return string(data), nil
}

func loadConfig(o options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return cfg, err
	}
	if o.strict {
		cfg.Strict = true
	}
	if o.debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func printTokens(w io.Writer, s *interp.Script) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, t := range s.Tokens {
		if err := enc.Encode(t); err != nil {
			return err
		}
	}
	return nil
}

func printAST(w io.Writer, s *interp.Script) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Program); err != nil {
		return err
	}
	return bw.Flush()
}

// newLogger builds the run's root logger: console lines on w, tagged with a
// fresh run id.
func newLogger(w io.Writer, level zapcore.Level) *logger.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).Named("kanye").Sugar().With("run", uuid.NewString())
}

// report prints err the way every failure reaches the user, with a line and
// column when the error points into src.
func report(w io.Writer, src string, err error) {
	if off, ok := interp.Offset(err); ok {
		line, col := interp.Position(src, off)
		fmt.Fprintf(w, "💥 Error: %v (line %d, column %d)\n", err, line, col)
		return
	}
	fmt.Fprintf(w, "💥 Error: %v\n", err)
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseArgs(args)
	if err != nil {
		report(stderr, "", err)
		fmt.Fprint(stderr, usageText)
		return 1
	}
	switch o.command {
	case "help":
		fmt.Fprint(stdout, usageText)
		return 0
	case "version":
		fmt.Fprintf(stdout, "v%s\n", interp.Version)
		return 0
	}

	cfg, err := loadConfig(o)
	if err != nil {
		report(stderr, "", err)
		return 1
	}
	log := newLogger(stderr, cfg.Level())
	defer func() { _ = log.Sync() }()
	log.Debugw("config", "path", cfg.Path, "strict", cfg.Strict, "max-depth", cfg.MaxDepth)
	opts := append(cfg.Options(), evaluator.WithLogger(log))

	if o.command == "repl" {
		repl.Start(cfg.History(), log, opts...)
		return 0
	}

	src, err := source(o)
	if err != nil {
		report(stderr, "", err)
		return 1
	}
	script, err := interp.Compile(src)
	if err != nil {
		report(stderr, src, err)
		return 1
	}

	switch o.command {
	case "tokens":
		err = printTokens(stdout, script)
	case "ast":
		err = printAST(stdout, script)
	case "fmt":
		_, err = io.WriteString(stdout, parser.Print(script.Program))
	default:
		if o.showTokens {
			err = printTokens(stdout, script)
		}
		if err == nil && o.showAST {
			err = printAST(stdout, script)
		}
		if err == nil {
			err = script.Exec(stdout, opts...)
		}
	}
	if err != nil {
		report(stderr, src, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
