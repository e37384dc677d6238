package kbulib

import (
	"bytes"
	"context"
	"regexp"

	"kbuassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// BookDetail is the metadata pulled off a book's detail page. CoverUrl is
// empty when the page only carries a relative placeholder image.
type BookDetail struct {
	Isbn     string
	CoverUrl string
}

var absoluteUrlRegex = regexp.MustCompile(`^https?://`)

// BookDetail fetches the detail page behind a checkout row's relative path
// and extracts the ISBN plus cover image url. This is an unconditional
// extraction, the only modeled failures are transport level.
func (c *Client) BookDetail(ctx context.Context, path string) (Result[BookDetail], error) {
	ctx, span := tracer.Start(ctx, "client:BookDetail")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "book detail request failed")
		return Result[BookDetail]{}, err
	}
	link := res.Request.URL

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse book detail html")
		return Result[BookDetail]{}, err
	}

	// the ISBN sits in the second metadata cell of the detail block
	isbn := htmlutil.CleanText(doc.Find("#detailtoprightnew .sponge-book-list-data").Eq(1).Text())

	coverUrl := doc.Find(".page-detail-title-image a img").First().AttrOr("src", "")
	if !absoluteUrlRegex.MatchString(coverUrl) {
		coverUrl = ""
	}

	return success(BookDetail{Isbn: isbn, CoverUrl: coverUrl}, link), nil
}
