package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t testing.TB, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestGetText(t *testing.T) {
	doc := parse(t, `<ul><li id="slot"><a href="/x"><em>10:30</em><span><span class="hidden">잔여좌석</span>120석</span></a></li></ul>`)

	require.Equal(t, "10:30잔여좌석120석", SelectionText(doc.Find("#slot")))
	require.Equal(t, "", SelectionText(doc.Find("#missing")))

	doc = parse(t, "<p>\n  a <b>b</b>\r\n</p>")
	require.Equal(t, "\n  a b\n", SelectionText(doc.Find("p")))
}

func TestFirstAttr(t *testing.T) {
	doc := parse(t, `<div><a href="/first">1</a><a href="/second">2</a><a>no href</a></div><p><a>bare</a></p>`)

	href, ok := FirstAttr(doc.Find("div"), "a", "href")
	require.True(t, ok)
	require.Equal(t, "/first", href)

	_, ok = FirstAttr(doc.Find("p"), "a", "href")
	require.False(t, ok)

	_, ok = FirstAttr(doc.Find("p"), "span", "href")
	require.False(t, ok)
}
