package codeowners

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	content := strings.Join([]string{
		"# Global owners",
		"*       @org/everyone",
		"",
		"   # indented comment",
		"*.md    @docs-team",
		"/src/core/*  @core-team @lead   # core is special",
		"[Backend]",
		"^[Optional section] @someone",
		"!generated.go @bots",
		"src/[a- @broken",
		"docs/My\\ Guide.md @writer",
		"/vendor/",
		"build/\t@ci  user@example.com",
	}, "\r\n")

	rules := Parse(content)
	require.Len(t, rules, 6)

	assert.Equal(t, Rule{Pattern: "*", Owners: []string{"@org/everyone"}, Line: 2}, rules[0])
	assert.Equal(t, Rule{Pattern: "*.md", Owners: []string{"@docs-team"}, Line: 5}, rules[1])
	assert.Equal(t, Rule{Pattern: "/src/core/*", Owners: []string{"@core-team", "@lead"}, Line: 6}, rules[2])
	assert.Equal(t, Rule{Pattern: "docs/My\\ Guide.md", Owners: []string{"@writer"}, Line: 11}, rules[3])
	assert.Equal(t, Rule{Pattern: "/vendor/", Owners: []string{}, Line: 12}, rules[4])
	assert.Equal(t, Rule{Pattern: "build/", Owners: []string{"@ci", "user@example.com"}, Line: 13}, rules[5])
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\n\n  \n# only comments\n"))
}

func TestParse_PreservesOrder(t *testing.T) {
	rules := Parse("b @two\na @one\nc @three")
	require.Len(t, rules, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{rules[0].Pattern, rules[1].Pattern, rules[2].Pattern})
}

type failingReader struct{}

func (failingReader) Read(_ []byte) (int, error) { return 0, errors.New("boom") }

func TestParseReader(t *testing.T) {
	rules, err := ParseReader(strings.NewReader("*.go @gophers\n"))
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "*.go", rules[0].Pattern)

	_, err = ParseReader(failingReader{})
	assert.Error(t, err)
}
