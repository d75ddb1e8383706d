package syntax

import (
	"strconv"

	"github.com/polly2d/shaderc/ir"
)

// Parser parses shader tokens into top-level declarations. The first
// syntax error aborts parsing.
type Parser struct {
	tokens  []Token
	current int
	types   *ir.TypeCache

	uboIndex int
}

type binOpInfo struct {
	precedence int
	op         ir.BinOpKind
}

var binOps = map[TokenKind]binOpInfo{
	TokenDot:          {11, ir.BinMemberAccess},
	TokenStar:         {10, ir.BinMultiply},
	TokenSlash:        {9, ir.BinDivide},
	TokenPlus:         {8, ir.BinAdd},
	TokenHyphen:       {8, ir.BinSubtract},
	TokenLeftShift:    {7, ir.BinLeftShift},
	TokenRightShift:   {7, ir.BinRightShift},
	TokenLess:         {7, ir.BinLessThan},
	TokenLessEqual:    {7, ir.BinLessThanOrEqual},
	TokenGreater:      {7, ir.BinGreaterThan},
	TokenGreaterEqual: {7, ir.BinGreaterThanOrEqual},
	TokenEqualEqual:   {6, ir.BinEqual},
	TokenBangEqual:    {6, ir.BinNotEqual},
	TokenAmpersand:    {5, ir.BinBitwiseAnd},
	TokenHat:          {4, ir.BinBitwiseXor},
	TokenBar:          {3, ir.BinBitwiseOr},
	TokenAmpAmp:       {2, ir.BinLogicalAnd},
	TokenBarBar:       {1, ir.BinLogicalOr},
}

var compoundOps = map[TokenKind]ir.CompoundKind{
	TokenPlusEqual:  ir.CompoundAdd,
	TokenMinusEqual: ir.CompoundSubtract,
	TokenStarEqual:  ir.CompoundMultiply,
	TokenSlashEqual: ir.CompoundDivide,
}

// NewParser creates a new parser for the given tokens. Array and named
// types are allocated in types.
func NewParser(tokens []Token, types *ir.TypeCache) *Parser {
	return &Parser{
		tokens: tokens,
		types:  types,
	}
}

// Parse lexes and parses source in one step.
func Parse(source, filename string, types *ir.TypeCache) ([]ir.Decl, error) {
	tokens, err := Lex(source, filename, true)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens, types).Parse()
}

// Parse returns the top-level declarations in source order.
func (p *Parser) Parse() ([]ir.Decl, error) {
	if len(p.tokens) == 0 {
		return nil, ir.Internalf("no tokens specified")
	}

	var decls []ir.Decl
	for !p.isAtEnd() {
		start := p.peek()
		decl, err := p.globalDecl()
		if err != nil {
			return nil, err
		}
		if decl == nil {
			return nil, ir.Errorf(start.Loc, "Invalid declaration at global scope.")
		}
		if v, ok := decl.(*ir.VarDecl); ok && !v.IsConst {
			return nil, ir.Errorf(p.peek().Loc,
				"Invalid declaration '%s' at global scope; Variables at global scope must be const.", v.Name)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func (p *Parser) globalDecl() (ir.Decl, error) {
	if tok := p.peek(); tok.Is(TokenPreprocessorID) {
		if tok.Value[1:] != "type" {
			return nil, ir.Errorf(tok.Loc, "Invalid preprocessor token '%s'.", tok.Value)
		}
		p.advance()
		id, err := p.consumeIdent()
		if err != nil {
			return nil, err
		}
		return &ir.ShaderTypeDecl{Loc: tok.Loc, ID: id.Value}, nil
	}

	if p.matchKeyword(KeywordAuto) {
		stmt, err := p.varStmt(false)
		if err != nil {
			return nil, err
		}
		return stmt.Var, nil
	}
	if p.matchKeyword(KeywordConst) {
		stmt, err := p.varStmt(true)
		if err != nil {
			return nil, err
		}
		return stmt.Var, nil
	}

	// Only declarations that start with a type remain.
	typ, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	name, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}
	if p.check(TokenLeftParen) {
		return p.functionDecl(typ, name)
	}
	return p.shaderParam(typ, name)
}

func (p *Parser) shaderParam(typ ir.Type, name Token) (*ir.ShaderParamDecl, error) {
	var def ir.Expr
	if p.match(TokenEqual) {
		var err error
		def, err = p.expression("default parameter value expression")
		if err != nil {
			return nil, err
		}
	}
	if err := p.consume(TokenSemicolon, ""); err != nil {
		return nil, err
	}

	param := &ir.ShaderParamDecl{
		Loc:        name.Loc,
		Name:       name.Value,
		Type:       typ,
		Default:    def,
		IndexInUbo: p.uboIndex,
	}
	p.uboIndex++
	return param, nil
}

func (p *Parser) functionDecl(ret ir.Type, name Token) (*ir.FunctionDecl, error) {
	if err := p.consume(TokenLeftParen, ""); err != nil {
		return nil, err
	}

	var params []*ir.FunctionParamDecl
	for !p.isAtEnd() && !p.check(TokenRightParen) {
		start := p.peek()
		typ, err := p.typeSpec()
		if err != nil {
			return nil, err
		}
		pname, err := p.consumeIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, &ir.FunctionParamDecl{Loc: start.Loc, Name: pname.Value, Type: typ})
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.consume(TokenRightParen, ""); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ir.FunctionDecl{
		Loc:        name.Loc,
		Name:       name.Value,
		Params:     params,
		ReturnType: ret,
		Body:       body,
	}, nil
}

// typeSpec parses a type name, optionally followed by [size].
func (p *Parser) typeSpec() (ir.Type, error) {
	name, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}
	if !p.match(TokenLeftBracket) {
		return p.types.Unresolved(name.Loc, name.Value), nil
	}

	size, err := p.expression("")
	if err != nil {
		return nil, err
	}
	if size == nil {
		return nil, ir.Errorf(p.peek().Loc, "Expected a size expression for the array type.")
	}
	if err := p.consume(TokenRightBracket, "Expected a ']' that ends the array type."); err != nil {
		return nil, err
	}
	return p.types.ArrayOf(name.Loc, name.Value, size), nil
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

func (p *Parser) block() (*ir.CodeBlock, error) {
	loc := p.peek().Loc
	if err := p.consume(TokenLeftBrace, "Expected a code block."); err != nil {
		return nil, err
	}

	var stmts []ir.Stmt
	for !p.isAtEnd() && !p.check(TokenRightBrace) {
		start := p.peek()
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return nil, ir.Errorf(p.peek().Loc,
				"\n    expected a statement, but found '%s' instead\n"+
					"    a statement might for example be one of the following:\n"+
					"        - 'auto' declaration like 'auto myVar = 0.5;'\n"+
					"        - 'const' declaration like 'const myConstant = 0.5;'\n"+
					"        - assignment like 'myVec.xy = Vec2(1, 2);' and 'myVec.x += 0.5;'",
				start.Value)
		}
		stmts = append(stmts, stmt)
	}
	if err := p.consume(TokenRightBrace, ""); err != nil {
		return nil, err
	}
	return &ir.CodeBlock{Loc: loc, Stmts: stmts}, nil
}

func (p *Parser) statement() (ir.Stmt, error) {
	switch {
	case p.matchKeyword(KeywordAuto):
		return p.varStmt(false)
	case p.matchKeyword(KeywordConst):
		return p.varStmt(true)
	case p.matchKeyword(KeywordReturn):
		return p.returnStmt()
	case p.matchKeyword(KeywordIf):
		return p.ifStmt(true)
	case p.matchKeyword(KeywordFor):
		return p.forStmt()
	case p.checkKeyword(KeywordBreak):
		tok := p.advance()
		if err := p.consume(TokenSemicolon, ""); err != nil {
			return nil, err
		}
		return &ir.BreakStmt{Loc: tok.Loc}, nil
	case p.checkKeyword(KeywordContinue):
		tok := p.advance()
		if err := p.consume(TokenSemicolon, ""); err != nil {
			return nil, err
		}
		return &ir.ContinueStmt{Loc: tok.Loc}, nil
	}
	return p.assignment()
}

// assignment parses "lhs op= rhs;" or "lhs = rhs;". The left-hand side is
// parsed once and shared by both forms.
func (p *Parser) assignment() (ir.Stmt, error) {
	start := p.peek()
	lhs, err := p.expression("")
	if err != nil || lhs == nil {
		return nil, err
	}

	if kind, ok := compoundOps[p.peek().Kind]; ok {
		p.advance()
		rhs, err := p.expression("")
		if err != nil || rhs == nil {
			return nil, err
		}
		if err := p.consume(TokenSemicolon, ""); err != nil {
			return nil, err
		}
		return &ir.CompoundAssignment{Loc: start.Loc, Kind: kind, LHS: lhs, RHS: rhs}, nil
	}

	if !p.match(TokenEqual) {
		return nil, nil
	}
	rhs, err := p.expression("")
	if err != nil {
		return nil, err
	}
	if rhs == nil {
		return nil, ir.Errorf(p.previous().Loc, "Expected a right-hand-side expression for the assignment.")
	}
	if err := p.consume(TokenSemicolon, ""); err != nil {
		return nil, err
	}
	return &ir.Assignment{Loc: start.Loc, LHS: lhs, RHS: rhs}, nil
}

// varStmt parses "name = expr;" after 'auto' or 'const'.
func (p *Parser) varStmt(isConst bool) (*ir.VarStmt, error) {
	name, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}
	if err := p.consume(TokenEqual, ""); err != nil {
		return nil, err
	}
	expr, err := p.expression("")
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nil, ir.Errorf(p.peek().Loc, "Expected a variable statement expression.")
	}
	if err := p.consume(TokenSemicolon, ""); err != nil {
		return nil, err
	}
	v := &ir.VarDecl{Loc: name.Loc, Name: name.Value, Expr: expr, IsConst: isConst}
	return &ir.VarStmt{Loc: name.Loc, Var: v}, nil
}

func (p *Parser) returnStmt() (ir.Stmt, error) {
	start := p.peek()
	expr, err := p.expression("")
	if err != nil || expr == nil {
		return nil, err
	}
	if err := p.consume(TokenSemicolon, ""); err != nil {
		return nil, err
	}
	return &ir.ReturnStmt{Loc: start.Loc, Expr: expr}, nil
}

func (p *Parser) forStmt() (ir.Stmt, error) {
	start := p.previous()
	if err := p.consume(TokenLeftParen, ""); err != nil {
		return nil, err
	}
	name, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}
	if err := p.consumeKeyword(KeywordIn); err != nil {
		return nil, err
	}

	rng, err := p.rangeExpr()
	if err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, ir.Errorf(p.peek().Loc, "Expected a range expression.")
	}
	if err := p.consume(TokenRightParen, ""); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ir.ForStmt{
		Loc:   start.Loc,
		Var:   &ir.ForLoopVariableDecl{Loc: name.Loc, Name: name.Value},
		Range: rng,
		Body:  body,
	}, nil
}

// ifStmt parses an if branch and its else chain. For a plain else,
// hasCond is false.
func (p *Parser) ifStmt(hasCond bool) (*ir.IfStmt, error) {
	start := p.previous()

	var cond ir.Expr
	if hasCond {
		if err := p.consume(TokenLeftParen, ""); err != nil {
			return nil, err
		}
		var err error
		cond, err = p.expression("")
		if err != nil {
			return nil, err
		}
		if cond == nil {
			return nil, ir.Errorf(p.peek().Loc, "Expected a condition expression.")
		}
		if err := p.consume(TokenRightParen, ""); err != nil {
			return nil, err
		}
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	stmt := &ir.IfStmt{Loc: start.Loc, Cond: cond, Body: body}
	if p.matchKeyword(KeywordElse) {
		next, err := p.ifStmt(p.matchKeyword(KeywordIf))
		if err != nil {
			return nil, err
		}
		stmt.Next = next
	}
	return stmt, nil
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

// expression parses a full expression including a trailing ternary. When
// name is non-empty a missing expression is an error mentioning name;
// otherwise it yields nil.
func (p *Parser) expression(name string) (ir.Expr, error) {
	lhs, err := p.primary()
	if err != nil {
		return nil, err
	}
	if lhs == nil {
		return nil, p.missing(name)
	}
	expr, err := p.binary(lhs, 0, name)
	if err != nil || expr == nil {
		return expr, err
	}
	if p.check(TokenQuestion) {
		return p.ternary(expr)
	}
	return expr, nil
}

func (p *Parser) missing(name string) error {
	if name == "" {
		return nil
	}
	return ir.Errorf(p.peek().Loc, "Expected a %s.", name)
}

// binary climbs operator precedence starting from lhs.
func (p *Parser) binary(lhs ir.Expr, minPrecedence int, name string) (ir.Expr, error) {
	for {
		opTok := p.peek()
		info, ok := binOps[opTok.Kind]
		if !ok || info.precedence < minPrecedence {
			return lhs, nil
		}
		p.advance()

		rhs, err := p.primary()
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, p.missing(name)
		}

		for {
			next, ok := binOps[p.peek().Kind]
			if !ok || next.precedence <= info.precedence {
				break
			}
			rhs, err = p.binary(rhs, info.precedence+1, name)
			if err != nil || rhs == nil {
				return nil, err
			}
		}

		lhs = ir.NewBinOp(opTok.Loc, info.op, lhs, rhs)
	}
}

func (p *Parser) ternary(cond ir.Expr) (ir.Expr, error) {
	p.advance() // '?'
	t, err := p.expression("true-expression")
	if err != nil {
		return nil, err
	}
	if err := p.consume(TokenColon, ""); err != nil {
		return nil, err
	}
	f, err := p.expression("false-expression")
	if err != nil {
		return nil, err
	}
	return ir.NewTernary(cond.Pos(), cond, t, f), nil
}

// primary parses an operand and at most one postfix call or subscript.
func (p *Parser) primary() (ir.Expr, error) {
	expr, err := p.operand()
	if err != nil || expr == nil {
		return nil, err
	}

	switch {
	case p.check(TokenLeftParen):
		return p.call(expr)
	case p.match(TokenLeftBracket):
		index, err := p.expression("")
		if err != nil || index == nil {
			return nil, err
		}
		if err := p.consume(TokenRightBracket, ""); err != nil {
			return nil, err
		}
		return ir.NewSubscript(index.Pos(), expr, index), nil
	}
	return expr, nil
}

func (p *Parser) operand() (ir.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenLeftParen:
		p.advance()
		inner, err := p.expression("")
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, ir.Errorf(p.peek().Loc, "Expected an expression inside parentheses.")
		}
		if err := p.consume(TokenRightParen, ""); err != nil {
			return nil, err
		}
		return ir.NewParen(tok.Loc, inner), nil

	case TokenIntLiteral:
		p.advance()
		v, err := strconv.ParseInt(tok.Value, 10, 32)
		if err != nil {
			return nil, ir.Errorf(tok.Loc, "Invalid integer literal '%s'.", tok.Value)
		}
		return ir.NewIntLiteral(tok.Loc, int32(v)), nil

	case TokenLeftBracket:
		return p.arrayExpr()

	case TokenScientificNumber:
		p.advance()
		return ir.NewScientificLiteral(tok.Loc, tok.Value), nil

	case TokenHexNumber:
		p.advance()
		return ir.NewHexLiteral(tok.Loc, tok.Value), nil

	case TokenFloatLiteral:
		p.advance()
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, ir.Errorf(tok.Loc, "Invalid floating-point literal '%s'.", tok.Value)
		}
		return ir.NewFloatLiteral(tok.Loc, tok.Value, v), nil

	case TokenKeyword:
		if tok.Value == KeywordTrue || tok.Value == KeywordFalse {
			p.advance()
			return ir.NewBoolLiteral(tok.Loc, tok.Value == KeywordTrue), nil
		}
		return nil, nil

	case TokenIdent:
		p.advance()
		return ir.NewSymAccess(tok.Loc, tok.Value), nil

	case TokenBang, TokenHyphen:
		p.advance()
		op := ir.UnaryNegate
		if tok.Kind == TokenBang {
			op = ir.UnaryLogicalNot
		}
		operand, err := p.primary()
		if err != nil {
			return nil, err
		}
		if operand == nil {
			return nil, ir.Errorf(p.peek().Loc, "Expected an expression for the unary operation.")
		}
		return ir.NewUnaryOp(tok.Loc, op, operand), nil
	}
	return nil, nil
}

// arrayExpr parses [Type, size].
func (p *Parser) arrayExpr() (ir.Expr, error) {
	start := p.advance()
	elem, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	if err := p.consume(TokenComma, ""); err != nil {
		return nil, err
	}
	size, err := p.expression("array size expression")
	if err != nil {
		return nil, err
	}
	if err := p.consume(TokenRightBracket, ""); err != nil {
		return nil, err
	}
	return ir.NewArrayExpr(start.Loc, elem, size), nil
}

func (p *Parser) call(callee ir.Expr) (ir.Expr, error) {
	start := p.advance() // '('
	sym, ok := callee.(*ir.SymAccess)
	if !ok {
		return nil, ir.Errorf(callee.Pos(), "Expected a function name before '('.")
	}

	var args []ir.Expr
	for !p.isAtEnd() && !p.check(TokenRightParen) {
		arg, err := p.expression("")
		if err != nil {
			return nil, err
		}
		if arg == nil {
			return nil, ir.Errorf(p.peek().Loc, "Expected a function call argument.")
		}
		args = append(args, arg)
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.consume(TokenRightParen, "Expected a function call argument or ')'."); err != nil {
		return nil, err
	}
	return ir.NewFunctionCall(start.Loc, sym, args), nil
}

// rangeExpr parses start..end.
func (p *Parser) rangeExpr() (*ir.Range, error) {
	start := p.peek()
	from, err := p.expression("")
	if err != nil || from == nil {
		return nil, err
	}
	if err := p.consume(TokenDotDot, ""); err != nil {
		return nil, err
	}
	to, err := p.expression("")
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, ir.Errorf(p.peek().Loc,
			"Expected an expression that represents the end of the range. A range is expected in the following form: 'min .. max'.")
	}
	return ir.NewRange(start.Loc, from, to), nil
}

// -----------------------------------------------------------------------------
// Token helpers
// -----------------------------------------------------------------------------

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.tokens) || p.tokens[p.current].Is(TokenEOF)
}

func (p *Parser) check(kind TokenKind) bool {
	return !p.isAtEnd() && p.peek().Is(kind)
}

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) checkKeyword(kw string) bool {
	tok := p.peek()
	return tok.Is(TokenKeyword) && tok.Value == kw
}

func (p *Parser) matchKeyword(kw string) bool {
	if p.checkKeyword(kw) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(kind TokenKind, msg string) error {
	if p.match(kind) {
		return nil
	}
	loc := p.peek().Loc
	if p.isAtEnd() {
		loc = p.previous().Loc
	}
	if msg == "" {
		return ir.Errorf(loc, "expected '%s'", kind)
	}
	return ir.Errorf(loc, "%s", msg)
}

func (p *Parser) consumeKeyword(kw string) error {
	if p.matchKeyword(kw) {
		return nil
	}
	return ir.Errorf(p.peek().Loc, "Expected keyword '%s'.", kw)
}

func (p *Parser) consumeIdent() (Token, error) {
	tok := p.peek()
	if !tok.Is(TokenIdent) {
		if tok.Is(TokenEOF) {
			return Token{}, ir.Errorf(tok.Loc, "Expected an identifier, but reached end-of-file.")
		}
		return Token{}, ir.Errorf(tok.Loc, "Expected an identifier.")
	}
	return p.advance(), nil
}
