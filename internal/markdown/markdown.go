// Package markdown turns Markdown documents into the plain prose that gets
// proofread. Code, raw HTML and link targets are left out.
package markdown

import (
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// ToPlainText returns the prose of md, one block (paragraph, heading, list
// item, table row) per line.
func ToPlainText(md []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse(md)

	var b strings.Builder
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.CodeBlock, *ast.Code, *ast.HTMLBlock, *ast.HTMLSpan:
			return ast.SkipChildren
		case *ast.Text:
			if entering {
				// Line breaks inside a paragraph are not block boundaries.
				b.WriteString(strings.ReplaceAll(string(n.Literal), "\n", " "))
			}
		case *ast.Softbreak:
			b.WriteByte(' ')
		case *ast.Hardbreak:
			b.WriteByte('\n')
		case *ast.Paragraph, *ast.Heading, *ast.TableRow:
			if !entering {
				b.WriteByte('\n')
			}
		case *ast.TableCell:
			if !entering {
				b.WriteByte(' ')
			}
		}
		return ast.GoToNext
	})

	return compactLines(b.String())
}

func compactLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
