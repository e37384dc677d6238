package kbulib

import (
	"context"
	"encoding/base64"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kbuassist-backend/lib/telemetry"
	"kbuassist-backend/lib/testutil"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), ClientOptions{BaseUrl: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestLoginSuccess(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/kbulib")
	defer cleanup()

	rndm := rand.New(rand.NewSource(1))
	userId := testutil.RandomString(rndm, 8)
	userPw := testutil.RandomString(rndm, 12)

	var gotPath, gotMethod, gotId, gotPw string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotId = r.FormValue("l_id")
		gotPw = r.FormValue("l_pass")

		http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "abc123"})
		w.Header().Set("Location", "/MyLibrary")
		w.WriteHeader(http.StatusFound)
	}))

	res, err := client.Login(context.Background(), userId, userPw)
	require.NoError(t, err)
	require.True(t, res.Ok())

	require.Equal(t, "/Account/LogOn", gotPath)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte(userId)), gotId)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte(userPw)), gotPw)

	require.Len(t, res.Data.Cookies, 1)
	require.Equal(t, "ASP.NET_SessionId", res.Data.Cookies[0].Name)
	require.Equal(t, "abc123", res.Data.Cookies[0].Value)
	require.InDelta(t, time.Now().Unix(), res.Data.IssuedAt, 5)
}

func TestLoginRejected(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/kbulib")
	defer cleanup()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<div class="alert alert-danger">아이디 또는 비밀번호가 맞지 않습니다.</div>
			<div class="alert alert-warning">로그인 후 이용 가능합니다.</div>
		</body></html>`))
	}))

	res, err := client.Login(context.Background(), "user", "pw")
	require.NoError(t, err)
	require.False(t, res.Ok())

	require.Equal(t, "아이디 또는 비밀번호가 맞지 않습니다.", res.Error.Title)
	require.Equal(t, []string{
		"아이디 또는 비밀번호가 맞지 않습니다.",
		"로그인 후 이용 가능합니다.",
	}, res.Error.Alerts)
}

// an account the portal refuses to serve only carries the warning banner,
// the warning then becomes the reported title
func TestLoginRejectedWarningOnly(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/kbulib")
	defer cleanup()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<div class="alert alert-warning">졸업예정자는 서비스를 이용할 수 없습니다.</div>
		</body></html>`))
	}))

	res, err := client.Login(context.Background(), "user", "pw")
	require.NoError(t, err)
	require.False(t, res.Ok())
	require.Equal(t, "졸업예정자는 서비스를 이용할 수 없습니다.", res.Error.Title)
}

func TestLoginInvalidPath(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/kbulib")
	defer cleanup()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/Error/Unexpected?ErrorCode=42")
		w.WriteHeader(http.StatusOK)
	}))

	res, err := client.Login(context.Background(), "user", "pw")
	require.NoError(t, err)
	require.False(t, res.Ok())
	require.Equal(t, invalidPathTitle, res.Error.Title)
	require.Equal(t, "42", res.Error.Code)
}
