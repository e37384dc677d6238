package kbulib

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"slices"

	"kbuassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// CheckoutTable is the parsed loan table: the header row plus one row per
// outstanding loan, both in document order.
type CheckoutTable struct {
	Head []string
	Rows [][]string
}

const (
	detailUrlHeader     = "상세페이지 URL"
	noCheckoutsTitle    = "대출한 내역이 없습니다."
	sessionExpiredTitle = "세션이 만료되어 로그인페이지로 리다이렉트 되었습니다."
)

// sessionExpired is the precondition shared by parse steps that require a
// live session: the portal answers 302 towards the login page instead of
// content, which must not reach the table parser.
func sessionExpired(res *resty.Response) *ErrorInfo {
	if res.StatusCode() == http.StatusFound {
		return &ErrorInfo{Title: sessionExpiredTitle}
	}
	return nil
}

// CheckoutList fetches /MyLibrary with the session's cookies and extracts
// the current loan table. An empty table is reported as an in-band failure.
func (c *Client) CheckoutList(ctx context.Context, session Session) (Result[CheckoutTable], error) {
	ctx, span := tracer.Start(ctx, "client:CheckoutList")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetCookies(session.Cookies).
		Get("/MyLibrary")
	if err != nil && !errors.Is(err, resty.ErrAutoRedirectDisabled) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout list request failed")
		return Result[CheckoutTable]{}, err
	}
	link := res.Request.URL

	if blocked := sessionExpired(res); blocked != nil {
		span.SetStatus(codes.Error, "session expired")
		return failure[CheckoutTable](blocked, link), nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse checkout list html")
		return Result[CheckoutTable]{}, err
	}

	table := parseCheckoutTable(doc)
	if len(table.Rows) == 0 {
		return failure[CheckoutTable](&ErrorInfo{Title: noCheckoutsTitle}, link), nil
	}
	return success(table, link), nil
}

// the raw table carries an unused renewal-control column at index 4, the
// bold anchor inside column 1 holds the real title, and the last column's
// anchor holds the detail page path
func parseCheckoutTable(doc *goquery.Document) CheckoutTable {
	thead := doc.Find(".sponge-table-default thead")
	tbody := doc.Find(".sponge-table-default tbody")
	head, rows := htmlutil.ParseTable(thead, tbody)

	if len(head) > 4 {
		head = slices.Delete(head, 4, 5)
	}
	if len(head) > 0 {
		head[len(head)-1] = detailUrlHeader
	}

	tbody.Find("tr").Each(func(i int, tr *goquery.Selection) {
		row := rows[i]
		if len(row) > 4 {
			row = slices.Delete(row, 4, 5)
		}
		if len(row) > 1 {
			row[1] = htmlutil.CleanText(tr.Find("td a strong").First().Text())
		}
		if len(row) > 0 {
			row[len(row)-1] = tr.Find(".left a").First().AttrOr("href", "")
		}
		rows[i] = row
	})

	return CheckoutTable{Head: head, Rows: rows}
}
