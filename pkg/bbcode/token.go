package bbcode

import "fmt"

// TokenType is a kind of lexical token
type TokenType int

const (
	TokenText  TokenType = iota // literal text run
	TokenOpen                   // [name] or [name=value]
	TokenClose                  // [/name]
	TokenLeaf                   // [:name]
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenOpen:
		return "OPEN"
	case TokenClose:
		return "CLOSE"
	case TokenLeaf:
		return "LEAF"
	}
	return "?"
}

// Token is a piece of the input produced by the Scanner.
type Token struct {
	Type     TokenType
	Name     string // tag name as written in the source
	Param    string // value after '=' of an opening tag
	HasParam bool
	Raw      string // source text of the token
	Pos      int    // byte offset of Raw in the input
}

func (t Token) String() string {
	if t.Type == TokenText {
		return fmt.Sprintf("%s(%q)", t.Type, t.Raw)
	}
	if t.HasParam {
		return fmt.Sprintf("%s(%s=%q)", t.Type, t.Name, t.Param)
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Name)
}
