// Package phpast declares the syntax tree that the build pipeline transforms.
//
// A tree is a list of statements. Statements that own other statements expose
// them through plain `Stmts` fields, and StmtLists reports which of those
// fields exist for a given node kind.
package phpast

// Node is any element of the syntax tree
type Node interface {
	node()
}

// Stmt is a node that can appear in a statement list
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a node that produces a value
type Expr interface {
	Node
	exprNode()
}

// ---------------------------------------------------------------------------
// Statements

// Comment is a free-standing comment, including doc comments
type Comment struct {
	Text string
}

// Blank separates groups of statements, and is printed as an empty line
type Blank struct{}

// InlineHTML is text outside of the php tags, including the closing and
// opening tags around it
type InlineHTML struct {
	Text string
}

// Declare is a `declare(...)` directive, kept as its directive text
// Ex: strict_types=1
type Declare struct {
	Directive string
}

// Namespace is a namespace declaration. Semicolon-style namespaces own all the
// statements that follow them, up until the next namespace
type Namespace struct {
	Name   string
	Braced bool
	Stmts  []Stmt
}

type UseKind uint8

const (
	UseNormal UseKind = iota
	UseFunction
	UseConstant
)

// Use is an import statement, with one or more imported names
type Use struct {
	Kind UseKind
	Uses []*UseClause
}

// UseClause is a single imported name, such as `Foo\Bar as Baz`
type UseClause struct {
	// The imported name, never with a leading backslash
	Name  string
	Alias string
}

type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindInterface
	KindTrait
	KindEnum
)

// Class is a class, interface, trait, or enum declaration
type Class struct {
	Kind       ClassKind
	Attributes string
	Modifiers  Modifier
	Name       string
	// Backing type of an enum
	BackingType *TypeHint
	Extends     []*Name
	Implements  []*Name
	Stmts       []Stmt
}

// Property declares one or more properties that share their modifiers
type Property struct {
	Attributes string
	Modifiers  Modifier
	Type       *TypeHint
	Props      []*PropertyItem
}

type PropertyItem struct {
	// Name of the property, without the `$`
	Name    string
	Default Expr
}

// ClassConst declares one or more class constants
type ClassConst struct {
	Attributes string
	Modifiers  Modifier
	Consts     []*ConstItem
}

type ConstItem struct {
	Name  string
	Value Expr
}

type ClassMethod struct {
	Attributes string
	Modifiers  Modifier
	ByRef      bool
	Name       string
	Params     []*Param
	ReturnType *TypeHint
	// Abstract and interface methods have no body
	HasBody bool
	Stmts   []Stmt
}

// TraitUse is a `use A, B;` statement inside a class body
type TraitUse struct {
	Traits []*Name
	// The `{ ... }` adaptation block, kept verbatim
	Adaptations string
}

type EnumCase struct {
	Attributes string
	Name       string
	Value      Expr
}

type Function struct {
	Attributes string
	ByRef      bool
	Name       string
	Params     []*Param
	ReturnType *TypeHint
	Stmts      []Stmt
}

type Param struct {
	Attributes string
	// Set for promoted constructor parameters
	Promoted Modifier
	Type     *TypeHint
	ByRef    bool
	Variadic bool
	// Name of the parameter, without the `$`
	Name    string
	Default Expr
}

// Const is a top-level `const` declaration
type Const struct {
	Consts []*ConstItem
}

// Expression is an expression used as a statement
type Expression struct {
	X Expr
}

type Echo struct {
	Exprs []Expr
}

type Return struct {
	X Expr
}

type If struct {
	Cond    Expr
	Stmts   []Stmt
	ElseIfs []*ElseIf
	Else    *Else
}

type ElseIf struct {
	Cond  Expr
	Stmts []Stmt
}

type Else struct {
	Stmts []Stmt
}

type While struct {
	Cond  Expr
	Stmts []Stmt
}

type Do struct {
	Stmts []Stmt
	Cond  Expr
}

type For struct {
	Init  []Expr
	Cond  []Expr
	Loop  []Expr
	Stmts []Stmt
}

type Foreach struct {
	X     Expr
	Key   Expr
	ByRef bool
	Value Expr
	Stmts []Stmt
}

type Switch struct {
	Cond  Expr
	Cases []*Case
}

// Case is a single case in a switch, the default case has no condition
type Case struct {
	Cond  Expr
	Stmts []Stmt
}

type Break struct {
	Num Expr
}

type Continue struct {
	Num Expr
}

type Try struct {
	Stmts   []Stmt
	Catches []*Catch
	Finally *Finally
}

type Catch struct {
	Types []*Name
	// Name of the caught variable without the `$`, may be empty
	Var   string
	Stmts []Stmt
}

type Finally struct {
	Stmts []Stmt
}

type Unset struct {
	Vars []Expr
}

// Block is a bare `{ ... }` block
type Block struct {
	Stmts []Stmt
}

// RawStmt is a statement the tree does not model, kept as its source text
type RawStmt struct {
	Text string
}

// ---------------------------------------------------------------------------
// Expressions

type Variable struct {
	// Name of the variable, without the `$`
	Name string
}

type LiteralKind uint8

const (
	LitNumber LiteralKind = iota
	LitString
	LitHeredoc
	LitBool
	LitNull
)

// Literal is a scalar value, stored as its source text
type Literal struct {
	Kind  LiteralKind
	Value string
}

// ConstFetch is a reference to a global or namespaced constant
type ConstFetch struct {
	Name *Name
}

type FuncCall struct {
	// Either a *Name, or any other callable expression
	Func Expr
	Args []*Arg
}

type Arg struct {
	// Set for named arguments
	Name   string
	Unpack bool
	Value  Expr
}

type New struct {
	// Either a *Name, or an expression that evaluates to a class name
	Class   Expr
	HasArgs bool
	Args    []*Arg
}

// PropertyFetch is an access such as `$a->b`. Dynamic accesses (`$a->$b`)
// set NameExpr instead of Name
type PropertyFetch struct {
	X        Expr
	Nullsafe bool
	Name     string
	NameExpr Expr
}

type MethodCall struct {
	X        Expr
	Nullsafe bool
	Name     string
	NameExpr Expr
	Args     []*Arg
}

type StaticPropertyFetch struct {
	Class Expr
	// Name of the property, without the `$`
	Name string
}

type StaticCall struct {
	Class    Expr
	Name     string
	NameExpr Expr
	Args     []*Arg
}

type ClassConstFetch struct {
	Class Expr
	Name  string
}

// Assign is any assignment, including compound ones such as `.=`
type Assign struct {
	Left  Expr
	Op    string
	ByRef bool
	Right Expr
}

type Binary struct {
	Left  Expr
	Op    string
	Right Expr
}

// Unary is a prefix operator. Keyword operators such as `clone`, `print`, or
// `include` are also unary
type Unary struct {
	Op string
	X  Expr
}

type IncDec struct {
	Op     string
	Prefix bool
	X      Expr
}

type Cast struct {
	Type string
	X    Expr
}

// Ternary is a conditional expression, the short form `a ?: b` has no Then
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
}

type Paren struct {
	X Expr
}

type Array struct {
	Items []*ArrayItem
}

type ArrayItem struct {
	Key    Expr
	ByRef  bool
	Unpack bool
	Value  Expr
}

// Index is an array access, the append form `$a[]` has no Index
type Index struct {
	X     Expr
	Index Expr
}

type Closure struct {
	Static     bool
	ByRef      bool
	Params     []*Param
	Uses       []*ClosureUse
	ReturnType *TypeHint
	Stmts      []Stmt
}

type ClosureUse struct {
	ByRef bool
	Name  string
}

type ArrowFunc struct {
	Static     bool
	ByRef      bool
	Params     []*Param
	ReturnType *TypeHint
	X          Expr
}

// ThrowExpr is a `throw`, which is an expression since PHP 8
type ThrowExpr struct {
	X Expr
}

// RawExpr is an expression the tree does not model, kept as its source text
type RawExpr struct {
	Text string
}

// ---------------------------------------------------------------------------

func (*Comment) node()      {}
func (*Blank) node()        {}
func (*InlineHTML) node()   {}
func (*Declare) node()      {}
func (*Namespace) node()    {}
func (*Use) node()          {}
func (*UseClause) node()    {}
func (*Class) node()        {}
func (*Property) node()     {}
func (*PropertyItem) node() {}
func (*ClassConst) node()   {}
func (*ConstItem) node()    {}
func (*ClassMethod) node()  {}
func (*TraitUse) node()     {}
func (*EnumCase) node()     {}
func (*Function) node()     {}
func (*Param) node()        {}
func (*Const) node()        {}
func (*Expression) node()   {}
func (*Echo) node()         {}
func (*Return) node()       {}
func (*If) node()           {}
func (*ElseIf) node()       {}
func (*Else) node()         {}
func (*While) node()        {}
func (*Do) node()           {}
func (*For) node()          {}
func (*Foreach) node()      {}
func (*Switch) node()       {}
func (*Case) node()         {}
func (*Break) node()        {}
func (*Continue) node()     {}
func (*Try) node()          {}
func (*Catch) node()        {}
func (*Finally) node()      {}
func (*Unset) node()        {}
func (*Block) node()        {}
func (*RawStmt) node()      {}

func (*Variable) node()            {}
func (*Literal) node()             {}
func (*Name) node()                {}
func (*TypeHint) node()            {}
func (*ConstFetch) node()          {}
func (*FuncCall) node()            {}
func (*Arg) node()                 {}
func (*New) node()                 {}
func (*PropertyFetch) node()       {}
func (*MethodCall) node()          {}
func (*StaticPropertyFetch) node() {}
func (*StaticCall) node()          {}
func (*ClassConstFetch) node()     {}
func (*Assign) node()              {}
func (*Binary) node()              {}
func (*Unary) node()               {}
func (*IncDec) node()              {}
func (*Cast) node()                {}
func (*Ternary) node()             {}
func (*Paren) node()               {}
func (*Array) node()               {}
func (*ArrayItem) node()           {}
func (*Index) node()               {}
func (*Closure) node()             {}
func (*ClosureUse) node()          {}
func (*ArrowFunc) node()           {}
func (*ThrowExpr) node()           {}
func (*RawExpr) node()             {}

func (*Comment) stmtNode()     {}
func (*Blank) stmtNode()       {}
func (*InlineHTML) stmtNode()  {}
func (*Declare) stmtNode()     {}
func (*Namespace) stmtNode()   {}
func (*Use) stmtNode()         {}
func (*Class) stmtNode()       {}
func (*Property) stmtNode()    {}
func (*ClassConst) stmtNode()  {}
func (*ClassMethod) stmtNode() {}
func (*TraitUse) stmtNode()    {}
func (*EnumCase) stmtNode()    {}
func (*Function) stmtNode()    {}
func (*Const) stmtNode()       {}
func (*Expression) stmtNode()  {}
func (*Echo) stmtNode()        {}
func (*Return) stmtNode()      {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*Do) stmtNode()          {}
func (*For) stmtNode()         {}
func (*Foreach) stmtNode()     {}
func (*Switch) stmtNode()      {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Try) stmtNode()         {}
func (*Unset) stmtNode()       {}
func (*Block) stmtNode()       {}
func (*RawStmt) stmtNode()     {}

func (*Variable) exprNode()            {}
func (*Literal) exprNode()             {}
func (*Name) exprNode()                {}
func (*ConstFetch) exprNode()          {}
func (*FuncCall) exprNode()            {}
func (*New) exprNode()                 {}
func (*PropertyFetch) exprNode()       {}
func (*MethodCall) exprNode()          {}
func (*StaticPropertyFetch) exprNode() {}
func (*StaticCall) exprNode()          {}
func (*ClassConstFetch) exprNode()     {}
func (*Assign) exprNode()              {}
func (*Binary) exprNode()              {}
func (*Unary) exprNode()               {}
func (*IncDec) exprNode()              {}
func (*Cast) exprNode()                {}
func (*Ternary) exprNode()             {}
func (*Paren) exprNode()               {}
func (*Array) exprNode()               {}
func (*Index) exprNode()               {}
func (*Closure) exprNode()             {}
func (*ArrowFunc) exprNode()           {}
func (*ThrowExpr) exprNode()           {}
func (*RawExpr) exprNode()             {}
