package kbulib

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"regexp"

	"kbuassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// Session is what a successful login hands to the caller: the portal's
// cookies plus the issuing timestamp taken from the response date header.
// Expiry is decided server side and only detected, never tracked here.
type Session struct {
	Cookies  []*http.Cookie
	IssuedAt int64
}

const invalidPathTitle = "잘못된 경로입니다."

var errorCodeRegex = regexp.MustCompile(`ErrorCode=(\d+)`)

// Login authenticates against /Account/LogOn with base64-encoded
// credential fields. The portal reports the outcome in-band:
//   - 302: success, session cookies issued
//   - 200 without a location header: rejected input or an account the
//     service refuses, both arrive as alert banners and are not
//     distinguished further
//   - 200 with a location header: a malformed path, the numeric error code
//     is embedded in the redirect target
func (c *Client) Login(ctx context.Context, userId, userPw string) (Result[Session], error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"l_id":   base64.StdEncoding.EncodeToString([]byte(userId)),
			"l_pass": base64.StdEncoding.EncodeToString([]byte(userPw)),
		}).
		Post("/Account/LogOn")
	if err != nil && !errors.Is(err, resty.ErrAutoRedirectDisabled) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login request failed")
		return Result[Session]{}, err
	}
	link := res.Request.URL

	if res.StatusCode() == http.StatusFound {
		iat, err := htmlutil.HTTPDateToUnix(res.Header().Get("Date"))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "unparsable date header")
			return Result[Session]{}, err
		}
		return success(Session{Cookies: res.Cookies(), IssuedAt: iat}, link), nil
	}

	if res.Header().Get("Location") == "" {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse login page html")
			return Result[Session]{}, err
		}

		alerts := htmlutil.ExtractAlerts(doc)
		warning := htmlutil.CleanText(doc.Find(".alert-warning").First().Text())
		if warning != "" {
			alerts = append(alerts, warning)
		}
		title := ""
		if len(alerts) > 0 {
			title = alerts[0]
		}

		span.SetStatus(codes.Error, "login rejected")
		return failure[Session](&ErrorInfo{Title: title, Alerts: alerts}, link), nil
	}

	errInfo := &ErrorInfo{Title: invalidPathTitle}
	if m := errorCodeRegex.FindStringSubmatch(res.Header().Get("Location")); m != nil {
		errInfo.Code = m[1]
	}
	span.SetStatus(codes.Error, "invalid login path")
	return failure[Session](errInfo, link), nil
}
