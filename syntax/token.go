// Package syntax turns shader source text into declarations: a lexer that
// produces a flat token stream and a precedence-climbing parser.
package syntax

import "github.com/polly2d/shaderc/ir"

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenBOF TokenKind = iota

	// Literals
	TokenIntLiteral
	TokenFloatLiteral
	TokenScientificNumber
	TokenHexNumber

	// Single-character tokens
	TokenSlash        // /
	TokenColon        // :
	TokenSemicolon    // ;
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenComma        // ,
	TokenDot          // .
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenHyphen       // -
	TokenLess         // <
	TokenGreater      // >
	TokenStar         // *
	TokenNumberSign   // #
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenAt           // @
	TokenHat          // ^
	TokenAmpersand    // &
	TokenBar          // |
	TokenPercent      // %
	TokenBang         // !
	TokenPlus         // +
	TokenEqual        // =
	TokenDoubleQuote  // "
	TokenSingleQuote  // '
	TokenQuestion     // ?

	TokenIdent
	TokenKeyword

	// Assembled tokens
	TokenDotDot          // ..
	TokenLeftShift       // <<
	TokenRightShift      // >>
	TokenLessEqual       // <=
	TokenGreaterEqual    // >=
	TokenEqualEqual      // ==
	TokenBangEqual       // !=
	TokenAmpAmp          // &&
	TokenBarBar          // ||
	TokenPlusEqual       // +=
	TokenMinusEqual      // -=
	TokenStarEqual       // *=
	TokenSlashEqual      // /=
	TokenPreprocessorID  // #name

	TokenEOF
)

var tokenNames = [...]string{
	TokenBOF:              "<bof>",
	TokenIntLiteral:       "<int>",
	TokenFloatLiteral:     "<float>",
	TokenScientificNumber: "<scientific_number>",
	TokenHexNumber:        "<hex_number>",
	TokenSlash:            "/",
	TokenColon:            ":",
	TokenSemicolon:        ";",
	TokenLeftBrace:        "{",
	TokenRightBrace:       "}",
	TokenComma:            ",",
	TokenDot:              ".",
	TokenLeftParen:        "(",
	TokenRightParen:       ")",
	TokenHyphen:           "-",
	TokenLess:             "<",
	TokenGreater:          ">",
	TokenStar:             "*",
	TokenNumberSign:       "#",
	TokenLeftBracket:      "[",
	TokenRightBracket:     "]",
	TokenAt:               "@",
	TokenHat:              "^",
	TokenAmpersand:        "&",
	TokenBar:              "|",
	TokenPercent:          "%",
	TokenBang:             "!",
	TokenPlus:             "+",
	TokenEqual:            "=",
	TokenDoubleQuote:      "\"",
	TokenSingleQuote:      "'",
	TokenQuestion:         "?",
	TokenIdent:            "<id>",
	TokenKeyword:          "<keyword>",
	TokenDotDot:           "..",
	TokenLeftShift:        "<<",
	TokenRightShift:       ">>",
	TokenLessEqual:        "<=",
	TokenGreaterEqual:     ">=",
	TokenEqualEqual:       "==",
	TokenBangEqual:        "!=",
	TokenAmpAmp:           "&&",
	TokenBarBar:           "||",
	TokenPlusEqual:        "+=",
	TokenMinusEqual:       "-=",
	TokenStarEqual:        "*=",
	TokenSlashEqual:       "/=",
	TokenPreprocessorID:   "#preprocessor",
	TokenEOF:              "<eof>",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) && tokenNames[k] != "" {
		return tokenNames[k]
	}
	return "<unknown>"
}

// Token is a lexical token. Value is a slice of the source text.
type Token struct {
	Kind  TokenKind
	Value string
	Loc   ir.Location
}

// Is reports whether the token is of kind k.
func (t Token) Is(k TokenKind) bool { return t.Kind == k }

// end is the source offset just past the token.
func (t Token) end() int { return t.Loc.Offset + len(t.Value) }

// Keywords of the shader language.
const (
	KeywordReturn   = "return"
	KeywordAuto     = "auto"
	KeywordConst    = "const"
	KeywordFor      = "for"
	KeywordIf       = "if"
	KeywordIn       = "in"
	KeywordElse     = "else"
	KeywordTrue     = "true"
	KeywordFalse    = "false"
	KeywordInclude  = "include"
	KeywordBreak    = "break"
	KeywordContinue = "continue"
)

var keywords = map[string]bool{
	KeywordReturn:   true,
	KeywordAuto:     true,
	KeywordConst:    true,
	KeywordFor:      true,
	KeywordIf:       true,
	KeywordIn:       true,
	KeywordElse:     true,
	KeywordTrue:     true,
	KeywordFalse:    true,
	KeywordInclude:  true,
	KeywordBreak:    true,
	KeywordContinue: true,
}

// IsKeyword reports whether s is reserved by the language.
func IsKeyword(s string) bool { return keywords[s] }
