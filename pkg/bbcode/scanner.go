package bbcode

import "strings"

// Scanner splits BBCode input into tokens. It only checks the bracket
// grammar: whether a tag name is recognized is decided by the tree builder.
type Scanner struct {
	data    string
	pos     int
	pending *Token
	literal string // name of the literal tag whose content is being scanned
}

func NewScanner(input string) *Scanner {
	return &Scanner{data: input}
}

// Reset restarts scanning from the beginning of the input.
func (s *Scanner) Reset() {
	s.pos = 0
	s.pending = nil
	s.literal = ""
}

// EnterLiteral switches the scanner to literal mode: everything up to the
// closing tag of name is returned as text.
func (s *Scanner) EnterLiteral(name string) {
	s.literal = name
}

// Tokens drains the scanner.
func (s *Scanner) Tokens() []Token {
	tokens := []Token{}
	for {
		tok, ok := s.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token, or false at the end of input.
func (s *Scanner) Next() (Token, bool) {
	if s.pending != nil {
		tok := *s.pending
		s.pending = nil
		return tok, true
	}
	if s.pos >= len(s.data) {
		return Token{}, false
	}
	if s.literal != "" {
		return s.nextLiteral()
	}

	start := s.pos
	for i := start; i < len(s.data); {
		next := strings.IndexByte(s.data[i:], '[')
		if next < 0 {
			break
		}
		i += next
		tok, width := matchTag(s.data, i)
		if width == 0 {
			// not a tag: the bracket stays in the text run
			i++
			continue
		}
		s.pos = i + width
		if i == start {
			return tok, true
		}
		s.pending = &tok
		return s.text(start, i), true
	}
	s.pos = len(s.data)
	return s.text(start, len(s.data)), true
}

func (s *Scanner) nextLiteral() (Token, bool) {
	start := s.pos
	for i := start; i < len(s.data); {
		next := strings.IndexByte(s.data[i:], '[')
		if next < 0 {
			break
		}
		i += next
		tok, width := matchTag(s.data, i)
		if width == 0 || tok.Type != TokenClose || !strings.EqualFold(tok.Name, s.literal) {
			i++
			continue
		}
		s.literal = ""
		s.pos = i + width
		if i == start {
			return tok, true
		}
		s.pending = &tok
		return s.text(start, i), true
	}
	s.pos = len(s.data)
	return s.text(start, len(s.data)), true
}

func (s *Scanner) text(beg, end int) Token {
	return Token{Type: TokenText, Raw: s.data[beg:end], Pos: beg}
}

// matchTag checks if there is a tag at data[i] (which is '[') and returns
// it with its width, or zero width if the bracket doesn't start a tag.
func matchTag(data string, i int) (Token, int) {
	n := len(data)
	j := i + 1
	if j >= n {
		return Token{}, 0
	}

	tag := func(t TokenType, name string, end int) (Token, int) {
		return Token{Type: t, Name: name, Raw: data[i:end], Pos: i}, end - i
	}

	switch data[j] {
	case '/':
		if hasPrefixAt(data, j+1, "*]") {
			return tag(TokenClose, "*", j+3)
		}
		if end := skipLetters(data, j+1); end > j+1 && end < n && data[end] == ']' {
			return tag(TokenClose, data[j+1:end], end+1)
		}
		return Token{}, 0
	case ':':
		if end := skipLetters(data, j+1); end > j+1 && end < n && data[end] == ']' {
			return tag(TokenLeaf, data[j+1:end], end+1)
		}
		return Token{}, 0
	case '*':
		if hasPrefixAt(data, j+1, "]") {
			return tag(TokenOpen, "*", j+2)
		}
		return Token{}, 0
	}

	end := skipLetters(data, j)
	if end == j || end >= n {
		return Token{}, 0
	}
	switch data[end] {
	case ']':
		return tag(TokenOpen, data[j:end], end+1)
	case '=':
		closing := strings.IndexByte(data[end+1:], ']')
		if closing < 0 {
			return Token{}, 0
		}
		closing += end + 1
		tok, width := tag(TokenOpen, data[j:end], closing+1)
		tok.Param = data[end+1 : closing]
		tok.HasParam = tok.Param != ""
		return tok, width
	}
	return Token{}, 0
}

// skipLetters advances i as long as data[i] is an ASCII letter
func skipLetters(data string, i int) int {
	for i < len(data) && IsLetter(data[i]) {
		i++
	}
	return i
}

func hasPrefixAt(data string, i int, prefix string) bool {
	return i <= len(data) && strings.HasPrefix(data[i:], prefix)
}

// IsLetter returns true if c is ascii letter
func IsLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
