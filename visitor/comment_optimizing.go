package visitor

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/phpast"
)

// CommentOptimizing removes every comment, except for the annotations (lines
// starting with `@`) of doc comments, which can be read at runtime
type CommentOptimizing struct {
	Base
}

func NewCommentOptimizing() *CommentOptimizing {
	return &CommentOptimizing{}
}

func (v *CommentOptimizing) EnterNode(node phpast.Node) Result {
	comment, ok := node.(*phpast.Comment)
	if !ok {
		return NoChange
	}

	optimized, ok := OptimizeDocComment(comment.Text)
	if !ok {
		return RemoveNode
	}
	if optimized != comment.Text {
		comment.Text = optimized
		return ReplaceWith(comment)
	}
	return NoChange
}

// OptimizeDocComment strips everything but the annotations from a doc
// comment. It returns false for comments that should be removed
// Ex: "/**\n * Does a thing\n *\n * @priority HIGH\n */" -> "/**\n * @priority HIGH\n */"
func OptimizeDocComment(text string) (string, bool) {
	if !strings.HasPrefix(text, "/**") || !strings.HasSuffix(text, "*/") || text == "/**/" {
		return "", false
	}

	var annotations []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
		if strings.HasPrefix(line, "@") {
			annotations = append(annotations, line)
		}
	}
	if len(annotations) == 0 {
		return "", false
	}
	return "/**\n * " + strings.Join(annotations, "\n * ") + "\n */", true
}
