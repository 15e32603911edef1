package htmlutil

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
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

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// Text returns the joined text content of a selection with non-printable
// characters dropped and whitespace runs collapsed to a single space.
func Text(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		parts = append(parts, GetText(n))
	}
	t := removeNonPrintable(strings.Join(parts, " "))
	t = strings.Trim(t, " \t\n")
	return innerWhitespace.ReplaceAllString(t, " ")
}

// MetaContent returns the content attribute of a <meta name="..."> tag,
// or "" when the tag is absent.
func MetaContent(doc *goquery.Document, name string) string {
	return doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).AttrOr("content", "")
}
