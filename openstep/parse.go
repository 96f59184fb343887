package openstep

import (
	"fmt"
	"strconv"

	"github.com/calumari/keypath"
)

// Glyphs registers Decode for the ".glyphs" extension.
var Glyphs = keypath.NewFormat(".glyphs", Decode)

// ParseError represents a parsing error with location.
type ParseError struct {
	Message string
	Pos     Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// Decode parses an OpenStep property list whose root is a dictionary.
//
// Dictionaries become keypath.D in source order and arrays keypath.A.
// Unquoted integers decode as int64, unquoted floats as float64, data blocks
// as []byte and everything else as string.
func Decode(data []byte) (keypath.D, error) {
	p, err := newParser(string(data))
	if err != nil {
		return nil, err
	}
	if p.tok.Type != TokenLBrace {
		return nil, p.errorf("expected '{' at document root, got %s", p.tok)
	}
	root, err := p.parseDict()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != TokenEOF {
		return nil, p.errorf("unexpected %s after document root", p.tok)
	}
	return root, nil
}

// Parse parses any property list value.
func Parse(input string) (any, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != TokenEOF {
		return nil, p.errorf("unexpected %s after value", p.tok)
	}
	return v, nil
}

// parser is a recursive descent parser with one token of lookahead.
type parser struct {
	lexer *Lexer
	tok   Token
}

func newParser(input string) (*parser, error) {
	p := &parser{lexer: NewLexer(input)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Pos: p.tok.Pos}
}

// parseValue parses any value starting at the current token.
func (p *parser) parseValue() (any, error) {
	tok := p.tok
	switch tok.Type {
	case TokenLBrace:
		return p.parseDict()
	case TokenLParen:
		return p.parseArray()
	case TokenString:
		return tok.Value, p.advance()
	case TokenBare:
		return bareValue(tok.Value), p.advance()
	case TokenData:
		return []byte(tok.Value), p.advance()
	default:
		return nil, p.errorf("unexpected %s, expected value", tok)
	}
}

// parseDict parses { key = value; ... }. The separator before '}' is
// optional.
func (p *parser) parseDict() (keypath.D, error) {
	if err := p.advance(); err != nil { // '{'
		return nil, err
	}
	d := keypath.D{}
	for p.tok.Type != TokenRBrace {
		if p.tok.Type != TokenString && p.tok.Type != TokenBare {
			return nil, p.errorf("unexpected %s, expected dictionary key", p.tok)
		}
		key := p.tok.Value
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Type != TokenEq {
			return nil, p.errorf("unexpected %s after key %q, expected '='", p.tok, key)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		d = append(d, keypath.E{Key: key, Value: v})

		switch p.tok.Type {
		case TokenSemicolon:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case TokenRBrace:
		default:
			return nil, p.errorf("unexpected %s after value of %q, expected ';'", p.tok, key)
		}
	}
	return d, p.advance() // '}'
}

// parseArray parses ( value, ... ). A trailing comma is allowed.
func (p *parser) parseArray() (keypath.A, error) {
	if err := p.advance(); err != nil { // '('
		return nil, err
	}
	a := keypath.A{}
	for p.tok.Type != TokenRParen {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		a = append(a, v)

		switch p.tok.Type {
		case TokenComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case TokenRParen:
		default:
			return nil, p.errorf("unexpected %s in array, expected ',' or ')'", p.tok)
		}
	}
	return a, p.advance() // ')'
}

// bareValue converts numeric bare words.
func bareValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	switch s[0] {
	case '-', '+', '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
