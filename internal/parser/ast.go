package parser

// Ordered JSON fields are ensured by struct field order.

// Program is the root AST node.
type Program struct {
	Body Block  `json:"body"`
	Type string `json:"type"`
}

// Block is an ordered statement list. It does not by itself introduce a scope.
type Block struct {
	Statements []Statement `json:"statements"`
	Type       string      `json:"type"`
}

// Statement is a marker interface.
type Statement interface{ isStatement() }

type VarDecl struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value Expr   `json:"value"`
}
func (VarDecl) isStatement() {}

type VarChange struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value Expr   `json:"value"`
}
func (VarChange) isStatement() {}

type Spit struct {
	Type  string `json:"type"`
	Value Expr   `json:"value"`
}
func (Spit) isStatement() {}

// Repeat runs Body Count times. Iterator is empty when no `be NAME` clause was given.
type Repeat struct {
	Body     Block  `json:"body"`
	Count    Expr   `json:"count"`
	Iterator string `json:"iterator,omitempty"`
	Type     string `json:"type"`
}
func (Repeat) isStatement() {}

type IfStatement struct {
	Condition Expr   `json:"condition"`
	Else      Block  `json:"else"`
	Then      Block  `json:"then"`
	Type      string `json:"type"`
}
func (IfStatement) isStatement() {}

type FunctionDecl struct {
	Body   Block    `json:"body"`
	Name   string   `json:"name"`
	Params []string `json:"params"`
	Type   string   `json:"type"`
}
func (FunctionDecl) isStatement() {}

type Return struct {
	Type  string `json:"type"`
	Value Expr   `json:"value"`
}
func (Return) isStatement() {}

// Expr is a marker interface for expressions.
type Expr interface{ isExpr() }

type StringLit struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
func (StringLit) isExpr() {}

type NumberLit struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
}
func (NumberLit) isExpr() {}

type BooleanLit struct {
	Type  string `json:"type"`
	Value bool   `json:"value"`
}
func (BooleanLit) isExpr() {}

type VariableRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
func (VariableRef) isExpr() {}

// BinaryOp is always left-associative; the parser has no precedence levels.
type BinaryOp struct {
	Left     Expr   `json:"left"`
	Operator string `json:"operator"`
	Right    Expr   `json:"right"`
	Type     string `json:"type"`
}
func (BinaryOp) isExpr() {}

type CallExpr struct {
	Arguments []Expr `json:"arguments"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}
func (CallExpr) isExpr() {}
