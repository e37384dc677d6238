package htmlutil

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses the whitespace noise portal markup tends to carry
// into cell and banner text.
func CleanText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return removeNonPrintable(s)
}

// ParseTable converts a thead/tbody selection pair into an ordered header
// row plus ordered data rows. Cell order follows document order.
func ParseTable(thead, tbody *goquery.Selection) ([]string, [][]string) {
	var head []string
	thead.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		head = append(head, CleanText(cell.Text()))
	})

	var body [][]string
	tbody.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, CleanText(cell.Text()))
		})
		body = append(body, row)
	})

	return head, body
}

// ExtractAlerts collects the text of every alert banner in the document.
func ExtractAlerts(doc *goquery.Document) []string {
	var alerts []string
	doc.Find(".alert-danger").Each(func(_ int, sel *goquery.Selection) {
		text := CleanText(sel.Text())
		if text != "" {
			alerts = append(alerts, text)
		}
	})
	return alerts
}

// HTTPDateToUnix parses an RFC 7231 date header value into a unix timestamp.
func HTTPDateToUnix(value string) (int64, error) {
	t, err := http.ParseTime(value)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
