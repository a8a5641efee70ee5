/*
Package bbcode converts BBCode markup into HTML.

Input is scanned into tokens, built into a tree of nodes with an explicit
stack of open tags, split into paragraphs and block-level elements and
finally rendered by a Renderer. Malformed markup never makes parsing fail:
stray brackets stay text, unmatched tags are closed implicitly and closing
tags without opening tags are dropped.
*/
package bbcode

import (
	"github.com/Dahie/rbbcode/pkg/log"
)

// process-wide defaults, never mutated
var (
	defaultSchema   = DefaultSchema()
	defaultRenderer = NewHTMLMaker()
)

type Parser struct {
	schema   *Schema
	renderer Renderer
	unknown  UnknownTags
	log      log.Logger
}

// Result is the outcome of a parse with its intermediate stages.
type Result struct {
	HTML     string
	Nodes    []Node    // document tree after pruning
	Sections []Section // paragraphs and block-level elements
	Warnings []Warning
}

// New creates a parser using the default schema and HTML maker unless
// options say otherwise.
func New(options ...func(*Parser)) *Parser {
	p := &Parser{
		schema:   defaultSchema,
		renderer: defaultRenderer,
		unknown:  KeepText,
		log:      log.NewEmptyLog(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func WithSchema(schema *Schema) func(*Parser) {
	return func(p *Parser) {
		if schema != nil {
			p.schema = schema
		}
	}
}

func WithRenderer(r Renderer) func(*Parser) {
	return func(p *Parser) {
		if r != nil {
			p.renderer = r
		}
	}
}

func WithUnknownTags(policy UnknownTags) func(*Parser) {
	return func(p *Parser) {
		p.unknown = policy
	}
}

// WithLogger reports recoveries from malformed markup as warnings.
func WithLogger(logger log.Logger) func(*Parser) {
	return func(p *Parser) {
		if logger != nil {
			p.log = logger
		}
	}
}

func (p *Parser) Schema() *Schema {
	return p.schema
}

// Parse converts input to HTML. The only possible error is a *ConfigError.
func (p *Parser) Parse(input string) (string, error) {
	res, err := p.ParseResult(input)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

func (p *Parser) ParseResult(input string) (*Result, error) {
	d, err := resolve(p.schema, p.renderer)
	if err != nil {
		p.log.Error("%s", err)
		return nil, err
	}

	nodes, warnings := Build(NormalizeNewlines(input), p.schema, p.unknown)
	for _, w := range warnings {
		p.log.Warning("%s", w)
	}
	sections := Segment(nodes)

	return &Result{
		HTML:     d.render(sections),
		Nodes:    nodes,
		Sections: sections,
		Warnings: warnings,
	}, nil
}

// Parse converts input to HTML. A nil schema or renderer selects the
// default one.
func Parse(input string, schema *Schema, r Renderer) (string, error) {
	return New(WithSchema(schema), WithRenderer(r)).Parse(input)
}
