package bbcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func types(tokens []Token) []TokenType {
	result := []TokenType{}
	for _, tok := range tokens {
		result = append(result, tok.Type)
	}
	return result
}

func TestScanner(t *testing.T) {
	t.Run("text and tags", func(t *testing.T) {
		tokens := NewScanner("This is [b]bold[/b] text").Tokens()
		assert.Equal(t, []Token{
			{Type: TokenText, Raw: "This is ", Pos: 0},
			{Type: TokenOpen, Name: "b", Raw: "[b]", Pos: 8},
			{Type: TokenText, Raw: "bold", Pos: 11},
			{Type: TokenClose, Name: "b", Raw: "[/b]", Pos: 15},
			{Type: TokenText, Raw: " text", Pos: 19},
		}, tokens)
	})

	t.Run("parameter", func(t *testing.T) {
		tokens := NewScanner("[url=http://example.com/?a=1&b=2]x[/url]").Tokens()
		assert.Equal(t, TokenOpen, tokens[0].Type)
		assert.Equal(t, "url", tokens[0].Name)
		assert.True(t, tokens[0].HasParam)
		assert.Equal(t, "http://example.com/?a=1&b=2", tokens[0].Param)
	})

	t.Run("empty parameter", func(t *testing.T) {
		tokens := NewScanner("[url=]x").Tokens()
		assert.Equal(t, TokenOpen, tokens[0].Type)
		assert.False(t, tokens[0].HasParam)
	})

	t.Run("leaf and list items", func(t *testing.T) {
		tokens := NewScanner("[:br][*]a[/*]").Tokens()
		assert.Equal(t, []TokenType{TokenLeaf, TokenOpen, TokenText, TokenClose}, types(tokens))
		assert.Equal(t, "br", tokens[0].Name)
		assert.Equal(t, "*", tokens[1].Name)
		assert.Equal(t, "*", tokens[3].Name)
	})

	t.Run("malformed brackets are text", func(t *testing.T) {
		cases := map[string][]TokenType{
			"[i/]tag":       {TokenText},
			"[//i]":         {TokenText},
			"[ ] Yes":       {TokenText},
			"[:]":           {TokenText},
			"[url=unclosed": {TokenText},
			"[i2]":          {TokenText},
			"[":             {TokenText},
			"x[":            {TokenText},
		}
		for input, want := range cases {
			tokens := NewScanner(input).Tokens()
			assert.Equal(t, want, types(tokens), input)
			assert.Equal(t, input, tokens[0].Raw, input)
		}
	})

	t.Run("bracket before a tag", func(t *testing.T) {
		tokens := NewScanner("[[i]x").Tokens()
		assert.Equal(t, []TokenType{TokenText, TokenOpen, TokenText}, types(tokens))
		assert.Equal(t, "[", tokens[0].Raw)

		tokens = NewScanner("[i]tag[[/i]").Tokens()
		assert.Equal(t, []TokenType{TokenOpen, TokenText, TokenClose}, types(tokens))
		assert.Equal(t, "tag[", tokens[1].Raw)
	})

	t.Run("text is not escaped", func(t *testing.T) {
		tokens := NewScanner("a <b> & c").Tokens()
		assert.Equal(t, "a <b> & c", tokens[0].Raw)
	})

	t.Run("literal mode", func(t *testing.T) {
		s := NewScanner("[code]a [b]x[/b] [/CODE] [b]")
		open, _ := s.Next()
		assert.Equal(t, TokenOpen, open.Type)
		s.EnterLiteral(open.Name)

		text, _ := s.Next()
		assert.Equal(t, TokenText, text.Type)
		assert.Equal(t, "a [b]x[/b] ", text.Raw)

		closing, _ := s.Next()
		assert.Equal(t, TokenClose, closing.Type)

		rest := []Token{}
		for tok, ok := s.Next(); ok; tok, ok = s.Next() {
			rest = append(rest, tok)
		}
		assert.Equal(t, []TokenType{TokenText, TokenOpen}, types(rest))
	})

	t.Run("unterminated literal", func(t *testing.T) {
		s := NewScanner("[code]a [/b]")
		s.Next()
		s.EnterLiteral("code")
		text, ok := s.Next()
		assert.True(t, ok)
		assert.Equal(t, "a [/b]", text.Raw)
		_, ok = s.Next()
		assert.False(t, ok)
	})

	t.Run("reset", func(t *testing.T) {
		s := NewScanner("[b]x[/b]")
		first := s.Tokens()
		s.Reset()
		assert.Equal(t, first, s.Tokens())
	})
}
