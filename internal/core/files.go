package core

// FileStatus is the change status of a file in a pull request.
type FileStatus string

// FileStatus values. GitHub also reports renamed, copied, changed and
// unchanged; those are passed through as-is.
const (
	FileStatusAdded    FileStatus = "added"
	FileStatusModified FileStatus = "modified"
	FileStatusRemoved  FileStatus = "removed"
)

// FileChange is one file touched by a pull request.
type FileChange struct {
	Filename         string     `json:"filename" yaml:"filename"`
	Status           FileStatus `json:"status" yaml:"status"`
	Patch            string     `json:"patch,omitempty" yaml:"patch,omitempty"`
	PreviousFilename string     `json:"previous_filename,omitempty" yaml:"previous_filename,omitempty"`
	Additions        int        `json:"additions" yaml:"additions"`
	Deletions        int        `json:"deletions" yaml:"deletions"`
	Changes          int        `json:"changes" yaml:"changes"`
}

// CodeOwner is an owner resolved for the files of one pull request.
// ExclusiveFiles is the subset of Files where the owner is the only owner.
type CodeOwner struct {
	Username       string   `json:"username" yaml:"username"`
	Files          []string `json:"files" yaml:"files"`
	ExclusiveFiles []string `json:"exclusiveFiles" yaml:"exclusiveFiles"`
}

// AggregatedFileData joins one changed file with its owners and reviews.
type AggregatedFileData struct {
	File       FileChange `json:"file" yaml:"file"`
	CodeOwners []string   `json:"codeOwners" yaml:"codeOwners"`
	Reviews    []Review   `json:"reviews" yaml:"reviews"`
	IsReviewed bool       `json:"isReviewed" yaml:"isReviewed"`
}

// IsExclusive reports whether the file has exactly one owner.
func (a AggregatedFileData) IsExclusive() bool {
	return len(a.CodeOwners) == 1
}
