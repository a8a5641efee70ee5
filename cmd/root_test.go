package cmd

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/Dahie/rbbcode/pkg/bbcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out := &bytes.Buffer{}
	inputs := []io.Reader{
		strings.NewReader("[b]one[/b]"),
		strings.NewReader("two\n\n[quote]three[/quote]"),
	}
	require.NoError(t, render(bbcode.New(), inputs, out))
	assert.Equal(t, "<p><strong>one</strong></p>\n<p>two</p><blockquote>three</blockquote>\n", out.String())
}

func TestNewParser(t *testing.T) {
	p, logger, err := newParser(programCfg{})
	require.NoError(t, err)
	defer logger.Close()
	assert.True(t, p.Schema().IsRecognized("url"))

	_, _, err = newParser(programCfg{ConfigPath: "missing.yaml"})
	assert.Error(t, err)
}
