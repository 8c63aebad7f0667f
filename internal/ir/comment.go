package ir

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultCommentWidth is the display-column budget one comment line gets
// before wrapping.
const DefaultCommentWidth = 100

// CommentStmt is a free-text comment carried through to the generated
// source. Newlines are stripped and the text is wrapped to a display width
// at construction.
type CommentStmt struct {
	stmtBase
	lines []string
}

// NewComment creates a comment wrapped at DefaultCommentWidth.
func NewComment(ctx *Context, text string) (*CommentStmt, error) {
	return NewCommentWidth(ctx, text, DefaultCommentWidth)
}

// NewCommentWidth creates a comment wrapped at lineWidth display columns.
func NewCommentWidth(ctx *Context, text string, lineWidth int) (*CommentStmt, error) {
	text = strings.ReplaceAll(text, "\n", "")
	s := &CommentStmt{lines: wrapComment(text, lineWidth)}
	s.kind = StmtKindComment
	if err := ctx.register(s, &s.id); err != nil {
		return nil, err
	}
	return s, nil
}

// RestoreComment rebuilds a comment from already-wrapped lines, bypassing
// the wrapping pass. The serialization layer uses it to round-trip comments
// byte-exactly.
func RestoreComment(ctx *Context, lines []string) (*CommentStmt, error) {
	s := &CommentStmt{lines: append([]string(nil), lines...)}
	s.kind = StmtKindComment
	if err := ctx.register(s, &s.id); err != nil {
		return nil, err
	}
	return s, nil
}

// Lines returns the wrapped comment lines.
func (s *CommentStmt) Lines() []string { return s.lines }

func (s *CommentStmt) String() string {
	return "// " + strings.Join(s.lines, " ")
}

// wrapComment greedily packs words into lines of at most lineWidth display
// columns. A single word wider than the budget gets its own line.
func wrapComment(text string, lineWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if lineWidth <= 0 {
		lineWidth = DefaultCommentWidth
	}
	var lines []string
	var line strings.Builder
	width := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)
		if width > 0 && width+1+w > lineWidth {
			lines = append(lines, line.String())
			line.Reset()
			width = 0
		}
		if width > 0 {
			line.WriteByte(' ')
			width++
		}
		line.WriteString(word)
		width += w
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
