package kbulib

import (
	"context"
	"errors"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const notAnImageTitle = "도서 이미지를 불러오지 못했습니다."

// BookPhoto fetches the cover image behind an absolute url (covers are
// served off an external CDN). A response that is not an image content
// type is reported as an in-band failure.
func (c *Client) BookPhoto(ctx context.Context, photoUrl string) (Result[[]byte], error) {
	ctx, span := tracer.Start(ctx, "client:BookPhoto")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(photoUrl)
	if err != nil && !errors.Is(err, resty.ErrAutoRedirectDisabled) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "book photo request failed")
		return Result[[]byte]{}, err
	}
	link := res.Request.URL

	if !strings.HasPrefix(res.Header().Get("Content-Type"), "image") {
		span.SetStatus(codes.Error, "response is not an image")
		return failure[[]byte](&ErrorInfo{Title: notAnImageTitle}, link), nil
	}

	return success(res.Body(), link), nil
}
