package token

type Type string

// Token is a single lexical unit of Yul source. Lexeme holds the raw source
// text; Literal holds the cooked value (identifier name, decoded string, digit
// run) where that differs.
type Token struct {
	Type    Type
	Lexeme  string
	Literal string
	Line    int
	Column  int
}

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	IDENT      Type = "IDENT"
	NUMBER     Type = "NUMBER"
	HEX_NUMBER Type = "HEX_NUMBER"
	STRING     Type = "STRING"

	LBRACE Type = "{"
	RBRACE Type = "}"
	LPAREN Type = "("
	RPAREN Type = ")"
	COMMA  Type = ","
	COLON  Type = ":"
	ARROW  Type = "->"
	ASSIGN Type = ":="

	FUNCTION Type = "FUNCTION"
	LET      Type = "LET"
	IF       Type = "IF"
	SWITCH   Type = "SWITCH"
	CASE     Type = "CASE"
	DEFAULT  Type = "DEFAULT"
	FOR      Type = "FOR"
	BREAK    Type = "BREAK"
	CONTINUE Type = "CONTINUE"
	LEAVE    Type = "LEAVE"
	TRUE     Type = "TRUE"
	FALSE    Type = "FALSE"
)

var keywords = map[string]Type{
	"function": FUNCTION,
	"let":      LET,
	"if":       IF,
	"switch":   SWITCH,
	"case":     CASE,
	"default":  DEFAULT,
	"for":      FOR,
	"break":    BREAK,
	"continue": CONTINUE,
	"leave":    LEAVE,
	"true":     TRUE,
	"false":    FALSE,
}

// LookupIdent maps reserved words to their keyword token type and everything
// else to IDENT.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
