package parser

import (
	"fmt"
	"strings"
)

// Print renders prog as canonical source. Lexing and parsing the result
// yields a tree equal to prog.
func Print(prog Program) string {
	var b strings.Builder
	b.WriteString("yeezy ")
	printBlock(&b, prog.Body, 0)
	b.WriteByte('\n')
	return b.String()
}

// PrintStatements renders a bare statement list, one statement per line.
func PrintStatements(blk Block) string {
	var b strings.Builder
	for _, st := range blk.Statements {
		printStatement(&b, st, 0)
		b.WriteByte('\n')
	}
	return b.String()
}

func printBlock(b *strings.Builder, blk Block, depth int) {
	if len(blk.Statements) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	for _, st := range blk.Statements {
		indent(b, depth+1)
		printStatement(b, st, depth+1)
		b.WriteByte('\n')
	}
	indent(b, depth)
	b.WriteByte('}')
}

func indent(b *strings.Builder, depth int) { b.WriteString(strings.Repeat("    ", depth)) }

func printStatement(b *strings.Builder, st Statement, depth int) {
	switch s := st.(type) {
	case VarDecl:
		fmt.Fprintf(b, "bleached %s be %s;", s.Name, FormatExpr(s.Value))
	case VarChange:
		fmt.Fprintf(b, "aldi %s to %s;", s.Name, FormatExpr(s.Value))
	case Spit:
		fmt.Fprintf(b, "spit %s;", FormatExpr(s.Value))
	case Return:
		fmt.Fprintf(b, "bounce %s;", FormatExpr(s.Value))
	case Repeat:
		fmt.Fprintf(b, "repeat %s times ", FormatExpr(s.Count))
		if s.Iterator != "" {
			fmt.Fprintf(b, "be %s ", s.Iterator)
		}
		printBlock(b, s.Body, depth)
	case IfStatement:
		fmt.Fprintf(b, "drip (%s) ", FormatExpr(s.Condition))
		printBlock(b, s.Then, depth)
		if len(s.Else.Statements) > 0 {
			b.WriteString(" nah ")
			printBlock(b, s.Else, depth)
		}
	case FunctionDecl:
		fmt.Fprintf(b, "flex %s(%s) ", s.Name, strings.Join(s.Params, ", "))
		printBlock(b, s.Body, depth)
	}
}

// FormatExpr renders e as source. Only a binary operation on the right of
// another one needs parentheses, since everything else folds left to right.
func FormatExpr(e Expr) string {
	switch ex := e.(type) {
	case StringLit:
		return quote(ex.Value)
	case NumberLit:
		return fmt.Sprintf("%d", ex.Value)
	case BooleanLit:
		if ex.Value {
			return "true"
		}
		return "false"
	case VariableRef:
		return ex.Name
	case CallExpr:
		args := make([]string, len(ex.Arguments))
		for i, a := range ex.Arguments {
			args[i] = FormatExpr(a)
		}
		return fmt.Sprintf("%s(%s)", ex.Name, strings.Join(args, ", "))
	case BinaryOp:
		right := FormatExpr(ex.Right)
		if _, nested := ex.Right.(BinaryOp); nested {
			right = "(" + right + ")"
		}
		return fmt.Sprintf("%s %s %s", FormatExpr(ex.Left), ex.Operator, right)
	}
	return ""
}

// quote is the inverse of the lexer's escape handling.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
