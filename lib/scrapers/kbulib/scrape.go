package kbulib

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Checkout is one loan enriched across the whole pipeline: the checkout
// list row, plus the ISBN and cover from the detail page, plus the cover
// bytes themselves.
type Checkout struct {
	No           string
	Title        string
	CheckoutDate string
	DueDate      string
	Status       string
	Renewable    string
	DetailPath   string
	Isbn         string
	CoverUrl     string
	Photo        []byte
}

func checkoutFromRow(row []string) Checkout {
	var out Checkout
	fields := []*string{
		&out.No,
		&out.Title,
		&out.CheckoutDate,
		&out.DueDate,
		&out.Status,
		&out.Renewable,
		&out.DetailPath,
	}
	for i, field := range fields {
		if i < len(row) {
			*field = row[i]
		}
	}
	return out
}

// Scrape runs the full pipeline: checkout list, then detail page and cover
// photo for every row. Rows are independent of each other and enriched
// concurrently. A row whose detail or photo step fails keeps whatever
// fields were already extracted; transport errors are joined into the
// returned error without discarding the rest of the result.
func (c *Client) Scrape(ctx context.Context, session Session) (Result[[]Checkout], error) {
	ctx, span := tracer.Start(ctx, "client:Scrape")
	defer span.End()

	list, err := c.CheckoutList(ctx, session)
	if err != nil {
		return Result[[]Checkout]{}, err
	}
	if !list.Ok() {
		return failure[[]Checkout](list.Error, list.Link), nil
	}

	checkouts := make([]Checkout, len(list.Data.Rows))
	var errList []error
	errLock := sync.Mutex{}
	wg := sync.WaitGroup{}

	for i, row := range list.Data.Rows {
		checkouts[i] = checkoutFromRow(row)
		if checkouts[i].DetailPath == "" {
			continue
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out := &checkouts[i]

			detail, err := c.BookDetail(ctx, out.DetailPath)
			if err != nil {
				slog.WarnContext(ctx, "failed to fetch book detail", "path", out.DetailPath, "err", err)
				errLock.Lock()
				errList = append(errList, err)
				errLock.Unlock()
				return
			}
			out.Isbn = detail.Data.Isbn
			out.CoverUrl = detail.Data.CoverUrl
			if out.CoverUrl == "" {
				return
			}

			photo, err := c.BookPhoto(ctx, out.CoverUrl)
			if err != nil {
				slog.WarnContext(ctx, "failed to fetch book photo", "url", out.CoverUrl, "err", err)
				errLock.Lock()
				errList = append(errList, err)
				errLock.Unlock()
				return
			}
			if !photo.Ok() {
				slog.WarnContext(ctx, "book photo unavailable", "url", out.CoverUrl, "title", photo.Error.Title)
				return
			}
			out.Photo = photo.Data
		}(i)
	}

	wg.Wait()

	return success(checkouts, list.Link), errors.Join(errList...)
}
