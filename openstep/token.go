package openstep

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// TokenType represents the type of a lexer token.
type TokenType uint8

const (
	TokenEOF TokenType = iota

	TokenString // "quoted string"
	TokenBare   // unquoted word or number
	TokenData   // <0a1b>

	TokenLBrace    // {
	TokenRBrace    // }
	TokenLParen    // (
	TokenRParen    // )
	TokenEq        // =
	TokenSemicolon // ;
	TokenComma     // ,
)

// String returns the token type name.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenString:
		return "STRING"
	case TokenBare:
		return "BARE"
	case TokenData:
		return "DATA"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenEq:
		return "="
	case TokenSemicolon:
		return ";"
	case TokenComma:
		return ","
	default:
		return "UNKNOWN"
	}
}

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexer token. Data tokens carry the decoded bytes in
// Value.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

// String returns a debug representation of the token.
func (t Token) String() string {
	switch t.Type {
	case TokenString, TokenBare:
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	default:
		return t.Type.String()
	}
}

// Lexer tokenizes OpenStep property list text.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Next returns the next token. At the end of input it keeps returning
// TokenEOF.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}
	startPos := l.currentPos()
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: startPos}, nil
	}

	ch := l.input[l.pos]
	switch ch {
	case '{':
		l.advance()
		return Token{Type: TokenLBrace, Value: "{", Pos: startPos}, nil
	case '}':
		l.advance()
		return Token{Type: TokenRBrace, Value: "}", Pos: startPos}, nil
	case '(':
		l.advance()
		return Token{Type: TokenLParen, Value: "(", Pos: startPos}, nil
	case ')':
		l.advance()
		return Token{Type: TokenRParen, Value: ")", Pos: startPos}, nil
	case '=':
		l.advance()
		return Token{Type: TokenEq, Value: "=", Pos: startPos}, nil
	case ';':
		l.advance()
		return Token{Type: TokenSemicolon, Value: ";", Pos: startPos}, nil
	case ',':
		l.advance()
		return Token{Type: TokenComma, Value: ",", Pos: startPos}, nil
	case '"':
		return l.scanString()
	case '<':
		return l.scanData()
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	if isBareRune(r) {
		return l.scanBare(), nil
	}
	return Token{}, &ParseError{Message: fmt.Sprintf("unexpected character %q", r), Pos: startPos}
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.col}
}

// advance consumes one rune.
func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v':
			l.advance()
		case strings.HasPrefix(l.input[l.pos:], "//"):
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		case strings.HasPrefix(l.input[l.pos:], "/*"):
			startPos := l.currentPos()
			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				return &ParseError{Message: "unterminated comment", Pos: startPos}
			}
			stop := l.pos + 2 + end + 2
			for l.pos < stop {
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

// isBareRune reports whether r may appear in an unquoted string.
func isBareRune(r rune) bool {
	if r < utf8.RuneSelf {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return true
		}
		return strings.ContainsRune("_.$/:+-*@'#!", r)
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) scanBare() Token {
	startPos := l.currentPos()
	start := l.pos
	for l.pos < len(l.input) {
		if strings.HasPrefix(l.input[l.pos:], "//") || strings.HasPrefix(l.input[l.pos:], "/*") {
			break
		}
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isBareRune(r) {
			break
		}
		l.advance()
	}
	return Token{Type: TokenBare, Value: l.input[start:l.pos], Pos: startPos}
}

// scanString scans a quoted string, resolving escapes.
func (l *Lexer) scanString() (Token, error) {
	startPos := l.currentPos()
	l.advance() // consume opening "

	var sb strings.Builder
	var pending []uint16 // utf-16 code units from \U escapes
	flush := func() {
		if len(pending) > 0 {
			sb.WriteString(string(utf16.Decode(pending)))
			pending = pending[:0]
		}
	}
	for {
		if l.pos >= len(l.input) {
			return Token{}, &ParseError{Message: "unterminated string", Pos: startPos}
		}
		ch := l.input[l.pos]
		if ch == '"' {
			l.advance() // consume closing "
			break
		}
		if ch != '\\' {
			flush()
			sb.WriteRune(l.advance())
			continue
		}

		l.advance()
		if l.pos >= len(l.input) {
			return Token{}, &ParseError{Message: "unterminated escape", Pos: l.currentPos()}
		}
		escaped := l.input[l.pos]
		if escaped == 'U' || escaped == 'u' {
			l.advance()
			v, n := l.scanDigits(4, isHexDigit, 16)
			if n == 0 {
				flush()
				sb.WriteByte(escaped)
				continue
			}
			pending = append(pending, uint16(v))
			continue
		}
		flush()
		switch {
		case escaped >= '0' && escaped <= '7':
			v, _ := l.scanDigits(3, isOctalDigit, 8)
			sb.WriteRune(rune(v))
		default:
			l.advance()
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'a':
				sb.WriteByte('\a')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'v':
				sb.WriteByte('\v')
			default:
				sb.WriteByte(escaped)
			}
		}
	}
	flush()
	return Token{Type: TokenString, Value: sb.String(), Pos: startPos}, nil
}

// scanDigits consumes up to limit digits accepted by ok and returns their value
// in base along with the number of digits read.
func (l *Lexer) scanDigits(limit int, ok func(byte) bool, base int) (int, int) {
	v, n := 0, 0
	for n < limit && l.pos < len(l.input) && ok(l.input[l.pos]) {
		v = v*base + digitValue(l.input[l.pos])
		l.advance()
		n++
	}
	return v, n
}

// scanData scans a hex data block, ignoring whitespace between digits.
func (l *Lexer) scanData() (Token, error) {
	startPos := l.currentPos()
	l.advance() // consume <

	var digits []byte
	for {
		if l.pos >= len(l.input) {
			return Token{}, &ParseError{Message: "unterminated data", Pos: startPos}
		}
		ch := l.input[l.pos]
		switch {
		case ch == '>':
			l.advance()
			if len(digits)%2 != 0 {
				return Token{}, &ParseError{Message: "odd number of hex digits in data", Pos: startPos}
			}
			out := make([]byte, len(digits)/2)
			if _, err := hex.Decode(out, digits); err != nil {
				return Token{}, &ParseError{Message: fmt.Sprintf("invalid data: %v", err), Pos: startPos}
			}
			return Token{Type: TokenData, Value: string(out), Pos: startPos}, nil
		case isHexDigit(ch):
			digits = append(digits, ch)
			l.advance()
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.advance()
		default:
			return Token{}, &ParseError{Message: fmt.Sprintf("unexpected character %q in data", ch), Pos: l.currentPos()}
		}
	}
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isOctalDigit(ch byte) bool {
	return ch >= '0' && ch <= '7'
}

func digitValue(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}
