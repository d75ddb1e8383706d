package syntax

import (
	"strings"

	"github.com/polly2d/shaderc/ir"
)

// Lexer tokenizes shader source code.
type Lexer struct {
	source   string
	filename string
	pos      int
	line     int
	column   int
	tokens   []Token

	// comments are skipped instead of producing '/' '/' tokens.
	skipComments bool
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source, filename string) *Lexer {
	// Estimate ~1 token per 4 characters of source.
	estTokens := len(source) / 4
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		column:   1,
		tokens:   make([]Token, 0, estTokens),
	}
}

// Lex tokenizes source. With postProcess set, line comments are skipped
// and multi-character operators and numbers are assembled from their parts.
// The result always ends with a TokenEOF.
func Lex(source, filename string, postProcess bool) ([]Token, error) {
	l := NewLexer(source, filename)
	l.skipComments = postProcess
	tokens, err := l.Tokenize()
	if err != nil {
		return nil, err
	}
	if postProcess {
		eof := tokens[len(tokens)-1]
		tokens, err = assemble(source, tokens[:len(tokens)-1])
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, eof)
	}
	return tokens, nil
}

// Tokenize returns the raw tokens of the source: identifiers, keywords,
// digit runs and single symbol characters.
func (l *Lexer) Tokenize() ([]Token, error) {
	if strings.TrimSpace(l.source) == "" {
		return nil, ir.Errorf(ir.Location{Filename: l.filename}, "No source code provided.")
	}

	for !l.isAtEnd() {
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	l.tokens = append(l.tokens, Token{
		Kind: TokenEOF,
		Loc:  ir.Location{Filename: l.filename},
	})
	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	start, loc := l.pos, l.location()
	ch := l.advance()

	switch {
	case ch == ' ' || ch == '\t' || ch == '\r':
		return nil
	case ch == '\n':
		l.line++
		l.column = 1
		return nil
	case isDigit(ch):
		for isDigit(l.peek()) {
			l.advance()
		}
		l.addToken(TokenIntLiteral, start, loc)
		return nil
	case ch == '/' && l.skipComments && l.peek() == '/':
		for !l.isAtEnd() && l.peek() != '\n' {
			l.advance()
		}
		return nil
	case isLetter(ch):
		for isLetter(l.peek()) || isDigit(l.peek()) {
			l.advance()
		}
		kind := TokenIdent
		if IsKeyword(l.source[start:l.pos]) {
			kind = TokenKeyword
		}
		l.addToken(kind, start, loc)
		return nil
	}

	kind, ok := singleCharTokens[ch]
	if !ok {
		return ir.Errorf(loc, "Invalid token '%s'.", l.source[start:l.pos])
	}
	l.addToken(kind, start, loc)
	return nil
}

var singleCharTokens = map[byte]TokenKind{
	'/':  TokenSlash,
	':':  TokenColon,
	';':  TokenSemicolon,
	'{':  TokenLeftBrace,
	'}':  TokenRightBrace,
	',':  TokenComma,
	'.':  TokenDot,
	'(':  TokenLeftParen,
	')':  TokenRightParen,
	'-':  TokenHyphen,
	'<':  TokenLess,
	'>':  TokenGreater,
	'*':  TokenStar,
	'#':  TokenNumberSign,
	'[':  TokenLeftBracket,
	']':  TokenRightBracket,
	'@':  TokenAt,
	'^':  TokenHat,
	'&':  TokenAmpersand,
	'|':  TokenBar,
	'%':  TokenPercent,
	'!':  TokenBang,
	'+':  TokenPlus,
	'=':  TokenEqual,
	'"':  TokenDoubleQuote,
	'\'': TokenSingleQuote,
	'?':  TokenQuestion,
}

func (l *Lexer) location() ir.Location {
	return ir.Location{Filename: l.filename, Line: l.line, Column: l.column, Offset: l.pos}
}

func (l *Lexer) addToken(kind TokenKind, start int, loc ir.Location) {
	l.tokens = append(l.tokens, Token{Kind: kind, Value: l.source[start:l.pos], Loc: loc})
}

func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	l.column++
	return ch
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

// -----------------------------------------------------------------------------
// Post-processing
// -----------------------------------------------------------------------------

func assemble(source string, tokens []Token) ([]Token, error) {
	tokens = assembleOperators(source, tokens)
	tokens = assembleFloats(source, tokens)
	tokens = assembleScientific(source, tokens)
	return assembleHex(source, tokens)
}

// neighbors reports whether every token starts right where the previous
// one ends, on the same line.
func neighbors(tokens ...Token) bool {
	for i := 1; i < len(tokens); i++ {
		prev, cur := tokens[i-1], tokens[i]
		if prev.Loc.Line != cur.Loc.Line || cur.Loc.Offset != prev.end() {
			return false
		}
	}
	return true
}

// merge replaces tokens[i:j+1] with a single token of the given kind.
func merge(source string, tokens []Token, i, j int, kind TokenKind) []Token {
	first, last := tokens[i], tokens[j]
	tokens[i] = Token{
		Kind:  kind,
		Value: source[first.Loc.Offset:last.end()],
		Loc:   first.Loc,
	}
	return append(tokens[:i+1], tokens[j+1:]...)
}

type tokenPair struct {
	first, second TokenKind
}

var operatorPairs = map[tokenPair]TokenKind{
	{TokenLess, TokenLess}:           TokenLeftShift,
	{TokenGreater, TokenGreater}:     TokenRightShift,
	{TokenLess, TokenEqual}:          TokenLessEqual,
	{TokenGreater, TokenEqual}:       TokenGreaterEqual,
	{TokenEqual, TokenEqual}:         TokenEqualEqual,
	{TokenBang, TokenEqual}:          TokenBangEqual,
	{TokenAmpersand, TokenAmpersand}: TokenAmpAmp,
	{TokenBar, TokenBar}:             TokenBarBar,
	{TokenPlus, TokenEqual}:          TokenPlusEqual,
	{TokenHyphen, TokenEqual}:        TokenMinusEqual,
	{TokenStar, TokenEqual}:          TokenStarEqual,
	{TokenSlash, TokenEqual}:         TokenSlashEqual,
	{TokenDot, TokenDot}:             TokenDotDot,
	{TokenNumberSign, TokenIdent}:    TokenPreprocessorID,
	{TokenNumberSign, TokenKeyword}:  TokenPreprocessorID,
}

func assembleOperators(source string, tokens []Token) []Token {
	for i := 0; i+1 < len(tokens); i++ {
		kind, ok := operatorPairs[tokenPair{tokens[i].Kind, tokens[i+1].Kind}]
		if ok && neighbors(tokens[i], tokens[i+1]) {
			tokens = merge(source, tokens, i, i+1, kind)
		}
	}
	return tokens
}

// assembleFloats merges <int> '.' <int> into a float literal.
func assembleFloats(source string, tokens []Token) []Token {
	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i].Is(TokenIntLiteral) && tokens[i+1].Is(TokenDot) && tokens[i+2].Is(TokenIntLiteral) &&
			neighbors(tokens[i], tokens[i+1], tokens[i+2]) {
			tokens = merge(source, tokens, i, i+2, TokenFloatLiteral)
		}
	}
	return tokens
}

// assembleScientific merges (<float>|<int>) 'e' ('+'|'-') <int>.
func assembleScientific(source string, tokens []Token) []Token {
	for i := 0; i+3 < len(tokens); i++ {
		t0, t1, t2, t3 := tokens[i], tokens[i+1], tokens[i+2], tokens[i+3]
		if (t0.Is(TokenFloatLiteral) || t0.Is(TokenIntLiteral)) &&
			t1.Value == "e" &&
			(t2.Is(TokenPlus) || t2.Is(TokenHyphen)) &&
			t3.Is(TokenIntLiteral) &&
			neighbors(t0, t1, t2, t3) {
			tokens = merge(source, tokens, i, i+3, TokenScientificNumber)
		}
	}
	return tokens
}

// assembleHex merges '0' followed by an identifier such as 'xFF'.
func assembleHex(source string, tokens []Token) ([]Token, error) {
	for i := 0; i+1 < len(tokens); i++ {
		t0, t1 := tokens[i], tokens[i+1]
		if t0.Value != "0" || !t1.Is(TokenIdent) || t1.Value[0] != 'x' || !neighbors(t0, t1) {
			continue
		}
		if !isHexSuffix(t1.Value[1:]) {
			return nil, ir.Errorf(t0.Loc, "Expected a valid hexadecimal number.")
		}
		tokens = merge(source, tokens, i, i+1, TokenHexNumber)
	}
	return tokens, nil
}

// isHexSuffix validates the part after '0x': 1 to 8 hex digits and an
// optional trailing 'u'.
func isHexSuffix(s string) bool {
	s = strings.TrimSuffix(s, "u")
	if len(s) == 0 || len(s) > 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !isDigit(ch) && !(ch >= 'a' && ch <= 'f') && !(ch >= 'A' && ch <= 'F') {
			return false
		}
	}
	return true
}
