package kbulib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"kbuassist-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestScrape(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/kbulib")
	defer cleanup()

	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/MyLibrary", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(checkoutListPage))
	})
	mux.HandleFunc("/Search/Detail/87421", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailPage(srv.URL + "/covers/87421.jpg")))
	})
	mux.HandleFunc("/Search/Detail/10293", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailPage("/Content/images/noimage.gif")))
	})
	mux.HandleFunc("/covers/87421.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	})

	client, err := NewClient(context.Background(), ClientOptions{BaseUrl: srv.URL})
	require.NoError(t, err)

	session := Session{Cookies: []*http.Cookie{{Name: "ASP.NET_SessionId", Value: "abc123"}}}
	res, err := client.Scrape(context.Background(), session)
	require.NoError(t, err)
	require.True(t, res.Ok())
	require.Len(t, res.Data, 2)

	first := res.Data[0]
	require.Equal(t, "1", first.No)
	require.Equal(t, "파과 : 구병모 장편소설", first.Title)
	require.Equal(t, "2026-08-10", first.CheckoutDate)
	require.Equal(t, "2026-08-24", first.DueDate)
	require.Equal(t, "대출중", first.Status)
	require.Equal(t, "가능", first.Renewable)
	require.Equal(t, "/Search/Detail/87421", first.DetailPath)
	require.Equal(t, "9788936434267", first.Isbn)
	require.Equal(t, srv.URL+"/covers/87421.jpg", first.CoverUrl)
	require.Equal(t, payload, first.Photo)

	second := res.Data[1]
	require.Equal(t, "채식주의자", second.Title)
	require.Empty(t, second.CoverUrl)
	require.Nil(t, second.Photo)
}

func TestScrapeSessionExpired(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/kbulib")
	defer cleanup()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/Account/LogOn")
		w.WriteHeader(http.StatusFound)
	}))

	res, err := client.Scrape(context.Background(), Session{})
	require.NoError(t, err)
	require.False(t, res.Ok())
	require.Equal(t, sessionExpiredTitle, res.Error.Title)
}
