package htmlutil

import (
	"bytes"
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

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText strips non-printable characters, trims, and collapses
// inner whitespace runs. Scraped cells routinely carry footnote markup
// and stray newlines that would poison name comparisons downstream.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// Row is one <tr>: Header is true when the row contains <th> cells,
// Cells holds the cleaned text of its <td> cells in document order.
type Row struct {
	Header bool
	Cells  []string
}

// Table is one parsed table as rows of text cells.
type Table struct {
	Rows []Row
}

// Tables extracts every table matching the selector from a document,
// reduced to rows of text cells. This is the entire scraping surface
// the extraction pipeline sees, so it can run against static fixtures.
func Tables(doc *goquery.Document, selector string) []Table {
	var tables []Table
	doc.Find(selector).Each(func(_ int, table *goquery.Selection) {
		var t Table
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			r := Row{
				Header: row.Find("th").Length() > 0,
			}
			row.Find("td").Each(func(_ int, cell *goquery.Selection) {
				r.Cells = append(r.Cells, CleanText(cell.Text()))
			})
			t.Rows = append(t.Rows, r)
		})
		tables = append(tables, t)
	})
	return tables
}
