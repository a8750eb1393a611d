package ast

import "fmt"

type NodeType string

const (
	NodeNumberLiteral     NodeType = "NumberLiteral"
	NodeBooleanLiteral    NodeType = "BooleanLiteral"
	NodeStringLiteral     NodeType = "StringLiteral"
	NodePrimitiveOperator NodeType = "PrimitiveOperator"
	NodeVarRef            NodeType = "VarRef"
	NodeVarDecl           NodeType = "VarDecl"
	NodeIfExpression      NodeType = "IfExpression"
	NodeProcExpression    NodeType = "ProcExpression"
	NodeAppExpression     NodeType = "AppExpression"
	NodeLiteralExpression NodeType = "LiteralExpression"
	NodeDictExpression    NodeType = "DictExpression"
	NodeDictEntry         NodeType = "DictEntry"
	NodeDefineExpression  NodeType = "DefineExpression"
	NodeProgram           NodeType = "Program"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

// Form is anything that may appear at the top level of a program.
type Form interface {
	Node
	formNode()
}

type formMarker struct{}

func (formMarker) formNode() {}

// Expression is a form that produces a value. Definitions are forms but not
// expressions.
type Expression interface {
	Form
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// Atomic expressions have no sub-expressions.
type Atomic interface {
	Expression
	atomicNode()
}

type atomicMarker struct{}

func (atomicMarker) atomicNode() {}

// Datum is a quoted value carried by a LiteralExpression. Runtime
// S-expression values satisfy it.
type Datum interface {
	fmt.Stringer
}

// Literals

type NumberLiteral struct {
	nodeImpl
	formMarker
	expressionMarker
	atomicMarker

	Value float64 `json:"value"`
}

func NewNumberLiteral(value float64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	formMarker
	expressionMarker
	atomicMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	formMarker
	expressionMarker
	atomicMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

// PrimitiveOperator references a built-in operation by name. Primitive
// operators are first-class: they evaluate to themselves.
type PrimitiveOperator struct {
	nodeImpl
	formMarker
	expressionMarker
	atomicMarker

	Op PrimitiveOp `json:"op"`
}

func NewPrimitiveOperator(op PrimitiveOp) *PrimitiveOperator {
	return &PrimitiveOperator{nodeImpl: newNodeImpl(NodePrimitiveOperator), Op: op}
}

// Variables

type VarRef struct {
	nodeImpl
	formMarker
	expressionMarker
	atomicMarker

	Name string `json:"name"`
}

func NewVarRef(name string) *VarRef {
	return &VarRef{nodeImpl: newNodeImpl(NodeVarRef), Name: name}
}

// VarDecl names a binding occurrence (a lambda parameter or a define target).
type VarDecl struct {
	nodeImpl

	Name string `json:"name"`
}

func NewVarDecl(name string) *VarDecl {
	return &VarDecl{nodeImpl: newNodeImpl(NodeVarDecl), Name: name}
}

// Compound expressions

type IfExpression struct {
	nodeImpl
	formMarker
	expressionMarker

	Test Expression `json:"test"`
	Then Expression `json:"then"`
	Alt  Expression `json:"alt"`
}

func NewIfExpression(test, then, alt Expression) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Test: test, Then: then, Alt: alt}
}

type ProcExpression struct {
	nodeImpl
	formMarker
	expressionMarker

	Params []*VarDecl   `json:"params"`
	Body   []Expression `json:"body"`
}

func NewProcExpression(params []*VarDecl, body []Expression) *ProcExpression {
	return &ProcExpression{nodeImpl: newNodeImpl(NodeProcExpression), Params: params, Body: body}
}

// ParamNames returns the parameter names in declaration order.
func (p *ProcExpression) ParamNames() []string {
	names := make([]string, len(p.Params))
	for i, param := range p.Params {
		names[i] = param.Name
	}
	return names
}

type AppExpression struct {
	nodeImpl
	formMarker
	expressionMarker

	Operator Expression   `json:"operator"`
	Operands []Expression `json:"operands"`
}

func NewAppExpression(operator Expression, operands []Expression) *AppExpression {
	return &AppExpression{nodeImpl: newNodeImpl(NodeAppExpression), Operator: operator, Operands: operands}
}

// LiteralExpression wraps a quoted datum; it evaluates to the datum unchanged.
type LiteralExpression struct {
	nodeImpl
	formMarker
	expressionMarker

	Datum Datum `json:"datum"`
}

func NewLiteralExpression(datum Datum) *LiteralExpression {
	return &LiteralExpression{nodeImpl: newNodeImpl(NodeLiteralExpression), Datum: datum}
}

type DictEntry struct {
	nodeImpl

	Key   string     `json:"key"`
	Value Expression `json:"value"`
}

func NewDictEntry(key string, value Expression) *DictEntry {
	return &DictEntry{nodeImpl: newNodeImpl(NodeDictEntry), Key: key, Value: value}
}

// DictExpression is the native `{key: expr, ...}` literal. Entries keep
// declaration order; duplicate keys are allowed.
type DictExpression struct {
	nodeImpl
	formMarker
	expressionMarker

	Entries []*DictEntry `json:"entries"`
}

func NewDictExpression(entries []*DictEntry) *DictExpression {
	return &DictExpression{nodeImpl: newNodeImpl(NodeDictExpression), Entries: entries}
}

// Program level

type DefineExpression struct {
	nodeImpl
	formMarker

	Var   *VarDecl   `json:"var"`
	Value Expression `json:"value"`
}

func NewDefineExpression(v *VarDecl, value Expression) *DefineExpression {
	return &DefineExpression{nodeImpl: newNodeImpl(NodeDefineExpression), Var: v, Value: value}
}

type Program struct {
	nodeImpl

	Forms []Form `json:"forms"`
}

func NewProgram(forms []Form) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Forms: forms}
}
