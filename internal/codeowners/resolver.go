package codeowners

import (
	"strings"

	"github.com/sevigo/review-lens/internal/core"
)

// Resolution is the ownership of one set of changed files.
type Resolution struct {
	// OwnersByFile maps every input filename to its owners, "@" stripped.
	// Unowned files map to an empty slice.
	OwnersByFile map[string][]string
	// CodeOwners lists every owner in order of first appearance.
	CodeOwners []core.CodeOwner
	// MatchedRules holds the winning rule per owned or explicitly un-owned file.
	MatchedRules map[string]Rule
}

// Owners returns the owners of filename, or nil when it was not resolved.
func (r Resolution) Owners(filename string) []string {
	return r.OwnersByFile[filename]
}

// Resolve determines the owners of each file. The last rule in the file that
// matches wins, and only that rule's owners apply.
func Resolve(files []core.FileChange, rules []Rule) Resolution {
	res := Resolution{
		OwnersByFile: make(map[string][]string, len(files)),
		CodeOwners:   []core.CodeOwner{},
		MatchedRules: make(map[string]Rule),
	}
	ownerIndex := make(map[string]int)

	for _, file := range files {
		name := file.Filename
		if _, seen := res.OwnersByFile[name]; seen {
			continue
		}

		owners := []string{}
		if rule, ok := lastMatch(name, rules); ok {
			res.MatchedRules[name] = rule
			owners = normalizeOwners(rule.Owners)
		}
		res.OwnersByFile[name] = owners

		for _, owner := range owners {
			idx, ok := ownerIndex[owner]
			if !ok {
				idx = len(res.CodeOwners)
				ownerIndex[owner] = idx
				res.CodeOwners = append(res.CodeOwners, core.CodeOwner{
					Username:       owner,
					Files:          []string{},
					ExclusiveFiles: []string{},
				})
			}
			co := &res.CodeOwners[idx]
			co.Files = append(co.Files, name)
			if len(owners) == 1 {
				co.ExclusiveFiles = append(co.ExclusiveFiles, name)
			}
		}
	}
	return res
}

// ResolveContent parses raw CODEOWNERS content and resolves files against it.
func ResolveContent(files []core.FileChange, content string) Resolution {
	return Resolve(files, Parse(content))
}

func lastMatch(filename string, rules []Rule) (Rule, bool) {
	for i := len(rules) - 1; i >= 0; i-- {
		if Matches(filename, strings.TrimPrefix(rules[i].Pattern, "/")) {
			return rules[i], true
		}
	}
	return Rule{}, false
}

func normalizeOwners(raw []string) []string {
	owners := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, o := range raw {
		o = strings.TrimPrefix(o, "@")
		if o == "" {
			continue
		}
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		owners = append(owners, o)
	}
	return owners
}
