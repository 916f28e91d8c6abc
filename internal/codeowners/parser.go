package codeowners

import (
	"fmt"
	"io"
	"strings"
)

// Rule is one line of a CODEOWNERS file. Owners are kept exactly as written,
// including any "@" prefix. Line is the 1-based line number in the source.
type Rule struct {
	Pattern string   `json:"pattern" yaml:"pattern"`
	Owners  []string `json:"owners" yaml:"owners"`
	Line    int      `json:"line" yaml:"line"`
}

// Parse reads CODEOWNERS content into rules in file order. Blank lines and
// comments are skipped, and so is any line that cannot be interpreted as a
// rule; one bad line never prevents the rest of the file from loading.
func Parse(content string) []Rule {
	var rules []Rule
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	for i, line := range lines {
		rule, ok := parseLine(line)
		if !ok {
			continue
		}
		rule.Line = i + 1
		rules = append(rules, rule)
	}
	return rules
}

// ParseReader is Parse over an io.Reader.
func ParseReader(r io.Reader) ([]Rule, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CODEOWNERS content: %w", err)
	}
	return Parse(string(content)), nil
}

func parseLine(line string) (Rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Rule{}, false
	}
	// GitLab section headings have no meaning here.
	if strings.HasPrefix(line, "[") || strings.HasPrefix(line, "^[") {
		return Rule{}, false
	}

	tokens := splitTokens(line)
	pattern := tokens[0]
	if strings.HasPrefix(pattern, "!") || !validPattern(pattern) {
		return Rule{}, false
	}

	owners := make([]string, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		if strings.HasPrefix(tok, "#") {
			break
		}
		owners = append(owners, tok)
	}
	return Rule{Pattern: pattern, Owners: owners}, true
}

// splitTokens splits on unescaped spaces and tabs. Escape sequences are kept
// in the token so the glob matcher sees them.
func splitTokens(line string) []string {
	var (
		tokens  []string
		current strings.Builder
		escaped bool
	)
	for _, c := range line {
		switch {
		case escaped:
			current.WriteRune(c)
			escaped = false
		case c == '\\':
			current.WriteRune(c)
			escaped = true
		case c == ' ' || c == '\t':
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(c)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}
