package reception

import "strings"

// The log files are hand-annotated during the experiment: whole regions get wrapped in
// triple-quote lines, and single lines get a leading hash.
const (
	DefaultBlockDelimiter = "'''"
	DefaultCommentMarker  = "#"
)

type LineKind int

const (
	LineData LineKind = iota
	LineBlank
	LineComment
	LineDelimiter
)

var lineKindNames = [...]string{"data", "blank", "comment", "delimiter"}

func (k LineKind) String() string {
	if int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "unknown"
}

// CommentSyntax names the two comment conventions used in the logs.
type CommentSyntax struct {
	BlockDelimiter string `yaml:"block_comment"`
	LineMarker     string `yaml:"line_comment"`
}

func DefaultCommentSyntax() CommentSyntax {
	return CommentSyntax{BlockDelimiter: DefaultBlockDelimiter, LineMarker: DefaultCommentMarker}
}

// Classifier sorts the lines of one file into data and non-data. It holds the block
// comment state, so use a fresh one per file.
//
// An unbalanced delimiter leaves the classifier inside a comment until the end of the file;
// we would rather lose trailing data than parse commentary as packets.
type Classifier struct {
	Syntax        CommentSyntax
	insideComment bool
}

func NewClassifier(syntax CommentSyntax) *Classifier {
	return &Classifier{Syntax: syntax}
}

func (c *Classifier) InsideComment() bool { return c.insideComment }

// {{{ c.Classify

// Classify returns what kind of line this is; only LineData should be handed to a parser.
// Everything that isn't data while inside a block comment is reported as LineComment.
func (c *Classifier) Classify(line string) LineKind {
	line = strings.TrimRight(line, "\r\n")

	if c.Syntax.BlockDelimiter != "" && line == c.Syntax.BlockDelimiter {
		c.insideComment = !c.insideComment
		return LineDelimiter
	}
	if c.insideComment {
		return LineComment
	}
	if line == "" {
		return LineBlank
	}
	if c.Syntax.LineMarker != "" && strings.HasPrefix(line, c.Syntax.LineMarker) {
		return LineComment
	}
	return LineData
}

// }}}
