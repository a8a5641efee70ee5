package bbcode

import (
	"fmt"
	"sort"
	"strings"
)

// Category describes how a tag is built into the tree and rendered.
type Category int

const (
	Inline   Category = iota // wraps children: b, i, u
	Link                     // anchor, parameter or content is the href
	Media                    // single source, children are not rendered as text
	Block                    // never wrapped in a paragraph: quote, list
	ListItem                 // item inside a Block container
	Leaf                     // self-closing [:name]
	Literal                  // content is raw text: code
)

var categoryNames = []string{
	Inline:   "inline",
	Link:     "link",
	Media:    "media",
	Block:    "block",
	ListItem: "listitem",
	Leaf:     "leaf",
	Literal:  "literal",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory returns the category with the given name. Names are the
// lower-case forms returned by Category.String.
func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range categoryNames {
		if n == name {
			return Category(c), nil
		}
	}
	return 0, fmt.Errorf("unknown tag category %q", name)
}

// DefaultContainer is the container of list items registered with AllowTag.
const DefaultContainer = "list"

// TagSpec is the schema entry of a tag.
type TagSpec struct {
	Category       Category
	TakesParameter bool
	Container      string // ListItem only: tag that must enclose the item
}

// Schema is a registry of recognized tags.
// It must not be mutated while a parse is reading it.
type Schema struct {
	tags map[string]TagSpec
}

// NewSchema creates an empty schema
func NewSchema() *Schema {
	return &Schema{tags: map[string]TagSpec{}}
}

// DefaultSchema creates a schema with the standard tag set.
// Every call returns a new schema, so callers may extend it freely.
func DefaultSchema() *Schema {
	s := NewSchema()
	s.AllowTag("b", Inline, false)
	s.AllowTag("i", Inline, false)
	s.AllowTag("u", Inline, false)
	s.AllowTag("url", Link, true)
	s.AllowTag("img", Media, true)
	s.AllowTag("quote", Block, false)
	s.AllowTag("list", Block, false)
	s.AllowTag("*", ListItem, false)
	s.AllowTag("code", Literal, false)
	return s
}

func normalizeName(name string) string {
	return strings.ToLower(name)
}

// AllowTag registers or overwrites a tag.
func (s *Schema) AllowTag(name string, category Category, takesParameter bool) {
	spec := TagSpec{Category: category, TakesParameter: takesParameter}
	if category == ListItem {
		spec.Container = DefaultContainer
	}
	s.Allow(name, spec)
}

// Allow registers or overwrites a tag with a full spec.
func (s *Schema) Allow(name string, spec TagSpec) {
	if spec.Category == ListItem && spec.Container == "" {
		spec.Container = DefaultContainer
	}
	spec.Container = normalizeName(spec.Container)
	s.tags[normalizeName(name)] = spec
}

func (s *Schema) Lookup(name string) (TagSpec, bool) {
	spec, ok := s.tags[normalizeName(name)]
	return spec, ok
}

func (s *Schema) IsRecognized(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Categories returns the categories used by registered tags in enum order.
func (s *Schema) Categories() []Category {
	seen := map[Category]bool{}
	for _, spec := range s.tags {
		seen[spec.Category] = true
	}
	result := make([]Category, 0, len(seen))
	for c := range seen {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Names returns registered tag names in sorted order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.tags))
	for name := range s.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Schema) Clone() *Schema {
	c := NewSchema()
	for name, spec := range s.tags {
		c.tags[name] = spec
	}
	return c
}
