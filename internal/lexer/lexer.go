package lexer

import (
	"fmt"
	"rite/internal/token"
	"unicode"
	"unicode/utf8"
)

// LexError records an unrecognized character without aborting the token
// stream; the caller decides whether to keep lexing or stop.
type LexError struct {
	Ch       rune
	Position int
}

func (e LexError) Error() string {
	return fmt.Sprintf("unrecognized character %q", e.Ch)
}

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF

	errors []LexError
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Errors returns the lexical diagnostics collected so far.
func (l *Lexer) Errors() []LexError {
	return l.errors
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	startPosition := l.position

	switch l.ch {
	case '=':
		tok = newToken(token.ASSIGN, l.ch, startPosition)
	case '+':
		tok = newToken(token.PLUS, l.ch, startPosition)
	case '-':
		tok = newToken(token.MINUS, l.ch, startPosition)
	case '!':
		tok = newToken(token.BANG, l.ch, startPosition)
	case '/':
		tok = newToken(token.SLASH, l.ch, startPosition)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, startPosition)
	case '<':
		tok = l.handleCompoundToken(token.LT, '=', token.LT_EQ)
	case '>':
		tok = l.handleCompoundToken(token.GT, '=', token.GT_EQ)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, startPosition)
	case ',':
		tok = newToken(token.COMMA, l.ch, startPosition)
	case '.':
		tok = newToken(token.PERIOD, l.ch, startPosition)
	case '{':
		tok = newToken(token.LBRACE, l.ch, startPosition)
	case '}':
		tok = newToken(token.RBRACE, l.ch, startPosition)
	case '(':
		tok = newToken(token.LPAREN, l.ch, startPosition)
	case ')':
		tok = newToken(token.RPAREN, l.ch, startPosition)
	case '"':
		literal, ok := l.readString()
		if !ok {
			l.errors = append(l.errors, LexError{Ch: '"', Position: startPosition})
			tok = token.Token{Type: token.ILLEGAL, Literal: literal, Position: startPosition}
			return tok
		}
		return token.Token{Type: token.STRING, Literal: literal, Position: startPosition}
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
		tok.Position = startPosition
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Position = startPosition
			return tok
		} else if isDigit(l.ch) {
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			tok.Position = startPosition
			return tok
		} else {
			l.errors = append(l.errors, LexError{Ch: l.ch, Position: startPosition})
			tok = newToken(token.ILLEGAL, l.ch, startPosition)
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) handleCompoundToken(
	t token.TokenType,
	ch1 rune,
	t1 token.TokenType,
) token.Token {
	startPosition := l.position
	if l.peekChar() == ch1 {
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		return token.Token{Type: t1, Literal: literal, Position: startPosition}
	}
	return newToken(t, l.ch, startPosition)
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '?':
			// comment runs to end of line
			l.skipToLineEnd()
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// readIdentifier returns the substring (bytes) covering the identifier runes.
// The first rune is a letter or underscore; the grammar's relaxed leading
// character rule would collide with number literals.
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber scans the integer part and an optional fraction. A trailing '.'
// not followed by a digit is left for the property-access token.
func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

// readString consumes the body of a double-quoted string. The opening quote
// is the current rune; the closing quote is consumed. Returns false on an
// unterminated string.
func (l *Lexer) readString() (string, bool) {
	l.readChar() // consume the opening "
	start := l.position
	for l.ch != '"' && l.ch != 0 {
		l.readChar()
	}
	if l.ch == 0 {
		return l.input[start:l.position], false
	}
	literal := l.input[start:l.position]
	l.readChar() // consume the closing "
	return literal, true
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func newToken(tokenType token.TokenType, ch rune, position int) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Position: position}
}
