package kbulib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"kbuassist-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestBookPhoto(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/kbulib")
	defer cleanup()

	payload := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 0x4a, 0x46}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, http.NotFoundHandler())

	res, err := client.BookPhoto(context.Background(), srv.URL+"/cover.jpg")
	require.NoError(t, err)
	require.True(t, res.Ok())
	require.Equal(t, payload, res.Data)
}

func TestBookPhotoNotAnImage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/kbulib")
	defer cleanup()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>not found</body></html>"))
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, http.NotFoundHandler())

	res, err := client.BookPhoto(context.Background(), srv.URL+"/cover.jpg")
	require.NoError(t, err)
	require.False(t, res.Ok())
	require.Equal(t, notAnImageTitle, res.Error.Title)
}
