package evaluator

import (
	"fmt"
	"io"

	"github.com/iotaledger/hive.go/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kanye-lang/impl/internal/parser"
)

// DefaultMaxDepth bounds nested function calls.
const DefaultMaxDepth = 10000

// Evaluator walks a parsed program. It is not safe for concurrent use.
type Evaluator struct {
	out      io.Writer
	root     *Env
	env      *Env
	strict   bool
	maxDepth int
	depth    int
	log      *logger.Logger
}

type Option func(*Evaluator)

// WithStrict turns undefined reads, undefined assignments and duplicate
// declarations into runtime errors.
func WithStrict(strict bool) Option { return func(ev *Evaluator) { ev.strict = strict } }

// WithMaxDepth sets the call depth limit; n <= 0 removes it.
func WithMaxDepth(n int) Option { return func(ev *Evaluator) { ev.maxDepth = n } }

// WithLogger receives call and repeat events at debug level.
func WithLogger(l *logger.Logger) Option {
	return func(ev *Evaluator) {
		if l != nil {
			ev.log = l
		}
	}
}

func New(w io.Writer, opts ...Option) *Evaluator {
	root := NewEnv(nil)
	ev := &Evaluator{out: w, root: root, env: root, maxDepth: DefaultMaxDepth, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// Root returns the program-level scope.
func (ev *Evaluator) Root() *Env { return ev.root }

// outcome is how a statement finished: normally, or by a bounce carrying a value.
type outcome struct {
	returning bool
	value     Value
}

var completed = outcome{}

// Run executes a whole program in the root scope.
func (ev *Evaluator) Run(prog parser.Program) error {
	return ev.Exec(prog.Body)
}

// Exec runs statements in the root scope. Bindings persist between calls,
// which is what the REPL relies on.
func (ev *Evaluator) Exec(b parser.Block) error {
	ev.env = ev.root
	ev.depth = 0
	out, err := ev.execBlock(b)
	ev.env = ev.root
	if err != nil {
		return err
	}
	if out.returning {
		return &RuntimeError{Err: ErrReturnOutsideFunction}
	}
	return nil
}

// execBlock runs statements in the current scope, stopping at the first bounce.
func (ev *Evaluator) execBlock(b parser.Block) (outcome, error) {
	for _, st := range b.Statements {
		out, err := ev.execStmt(st)
		if err != nil {
			return completed, err
		}
		if out.returning {
			return out, nil
		}
	}
	return completed, nil
}

func (ev *Evaluator) execStmt(st parser.Statement) (outcome, error) {
	switch s := st.(type) {
	case parser.VarDecl:
		if ev.strict && ev.env.HasOwn(s.Name) {
			return completed, runtimeError(ErrDuplicateDeclaration, "%s", s.Name)
		}
		v, err := ev.evalExpr(s.Value)
		if err != nil {
			return completed, err
		}
		ev.env.Define(s.Name, v)
	case parser.VarChange:
		if ev.strict {
			if _, ok := ev.env.Get(s.Name); !ok {
				return completed, runtimeError(ErrUndefinedVariable, "%s", s.Name)
			}
		}
		v, err := ev.evalExpr(s.Value)
		if err != nil {
			return completed, err
		}
		if !ev.env.Assign(s.Name, v) {
			ev.env.Define(s.Name, v)
		}
	case parser.Spit:
		v, err := ev.evalExpr(s.Value)
		if err != nil {
			return completed, err
		}
		if _, err := fmt.Fprintln(ev.out, Format(v)); err != nil {
			return completed, errors.Wrap(err, "spit")
		}
	case parser.Repeat:
		return ev.execRepeat(s)
	case parser.IfStatement:
		cond, err := ev.evalExpr(s.Condition)
		if err != nil {
			return completed, err
		}
		// No new scope: declarations inside either branch land in the enclosing one.
		if isTruthy(cond) {
			return ev.execBlock(s.Then)
		}
		return ev.execBlock(s.Else)
	case parser.FunctionDecl:
		ev.env.DefineFunc(&Function{Name: s.Name, Params: s.Params, Body: s.Body, Closure: ev.env})
	case parser.Return:
		v, err := ev.evalExpr(s.Value)
		if err != nil {
			return completed, err
		}
		return outcome{returning: true, value: v}, nil
	default:
		return completed, errors.Errorf("unknown statement %T", st)
	}
	return completed, nil
}

func (ev *Evaluator) execRepeat(s parser.Repeat) (outcome, error) {
	cv, err := ev.evalExpr(s.Count)
	if err != nil {
		return completed, err
	}
	count, ok := cv.(Int)
	if !ok {
		return completed, runtimeError(ErrInvalidRepeatCount, "got %s", typeName(cv))
	}
	outer := ev.env
	defer func() { ev.env = outer }()
	if ev.debugEnabled() {
		ev.log.Debugw("repeat", "count", count.V, "iterator", s.Iterator, "scope-depth", outer.Depth()+1)
	}
	for i := int64(0); i < count.V; i++ {
		ev.env = NewEnv(outer)
		if s.Iterator != "" {
			ev.env.Define(s.Iterator, Int{V: i})
		}
		out, err := ev.execBlock(s.Body)
		if err != nil || out.returning {
			return out, err
		}
	}
	return completed, nil
}

func (ev *Evaluator) debugEnabled() bool {
	return ev.log.Desugar().Core().Enabled(zapcore.DebugLevel)
}

func (ev *Evaluator) evalExpr(e parser.Expr) (Value, error) {
	switch ex := e.(type) {
	case parser.NumberLit:
		return Int{V: ex.Value}, nil
	case parser.StringLit:
		return Str{V: ex.Value}, nil
	case parser.BooleanLit:
		return Bool{V: ex.Value}, nil
	case parser.VariableRef:
		if v, ok := ev.env.Get(ex.Name); ok {
			return v, nil
		}
		if ev.strict {
			return nil, runtimeError(ErrUndefinedVariable, "%s", ex.Name)
		}
		return Null{}, nil
	case parser.BinaryOp:
		l, err := ev.evalExpr(ex.Left)
		if err != nil {
			return nil, err
		}
		r, err := ev.evalExpr(ex.Right)
		if err != nil {
			return nil, err
		}
		return apply(ex.Operator, l, r)
	case parser.CallExpr:
		return ev.call(ex)
	default:
		return nil, errors.Errorf("unknown expression %T", e)
	}
}

// call runs a function body in a fresh scope whose parent is the function's
// declaration scope, so free names resolve lexically rather than in the caller.
func (ev *Evaluator) call(ex parser.CallExpr) (Value, error) {
	fn, ok := ev.env.Func(ex.Name)
	if !ok {
		return nil, runtimeError(ErrUndefinedFunction, "%s", ex.Name)
	}
	args := make([]Value, 0, len(ex.Arguments))
	for _, a := range ex.Arguments {
		v, err := ev.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	if ev.maxDepth > 0 && ev.depth >= ev.maxDepth {
		return nil, runtimeError(ErrMaxDepthExceeded, "%d calls deep in %s", ev.depth, ex.Name)
	}

	callEnv := NewEnv(fn.Closure)
	// Missing arguments leave their parameters unbound; extra ones are dropped.
	for i, name := range fn.Params {
		if i >= len(args) {
			break
		}
		callEnv.Define(name, args[i])
	}

	saved := ev.env
	ev.env = callEnv
	ev.depth++
	ev.log.Debugw("call", "function", fn.Name, "argument-count", len(args), "depth", ev.depth)
	defer func() {
		ev.env = saved
		ev.depth--
	}()

	out, err := ev.execBlock(fn.Body)
	if err != nil {
		return nil, err
	}
	if out.returning {
		return out.value, nil
	}
	return Null{}, nil
}
