package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // counter, total, x, y, ...
	NUMBER = "NUMBER" // 1343456, 3.14
	STRING = "STRING" // "foobar"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	// Delimiters
	PERIOD    = "."
	COMMA     = ","
	SEMICOLON = ";"

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"

	// Keywords
	FUNCTION = "FUNCTION"
	LET      = "LET"
	CLASS    = "CLASS"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	NONE     = "NONE"
	IF       = "IF"
	ELSE     = "ELSE"
	WHILE    = "WHILE"
	RETURN   = "RETURN"
	AND      = "AND"
	OR       = "OR"
	IS       = "IS"
	NOT      = "NOT"
	THIS     = "THIS"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src byte index of the token
}

var keywords = map[string]TokenType{
	// constants
	"none":  NONE,
	"true":  TRUE,
	"false": FALSE,

	// declarations
	"fn":    FUNCTION,
	"let":   LET,
	"class": CLASS,

	// flow control
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"return": RETURN,

	// operators
	"and": AND,
	"or":  OR,
	"is":  IS,
	"not": NOT,

	"this": THIS,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
