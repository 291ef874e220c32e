package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under `node` in document order
// without trimming or collapsing anything.
func GetText(node *html.Node) string {
	var buffer strings.Builder
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *strings.Builder) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// SelectionText is GetText over the first node of a selection, empty
// when the selection is empty.
func SelectionText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return GetText(sel.Get(0))
}

// FirstAttr finds the first element matching `selector` under `sel` and
// returns its `attr`. ok is false when there is no such element or the
// element does not carry the attribute.
func FirstAttr(sel *goquery.Selection, selector, attr string) (value string, ok bool) {
	found := sel.Find(selector)
	if found.Length() == 0 {
		return "", false
	}
	return found.First().Attr(attr)
}
