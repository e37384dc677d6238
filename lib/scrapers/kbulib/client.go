package kbulib

import (
	"context"
	"net/http/cookiejar"
	"time"

	"kbuassist-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/kbulib")

// DefaultBaseUrl is the production library portal.
const DefaultBaseUrl = "https://lib.bible.ac.kr"

var instrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput enables raw request/response dumping for every
// client created afterwards.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	instrumentOutput = out
}

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl when empty
	BaseUrl string
	// defaults to 30 seconds when zero
	Timeout time.Duration
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	// the portal signals login success and session expiry through 302s,
	// so redirects are never followed
	client.SetRedirectPolicy(resty.NoRedirectPolicy())
	client.SetTimeout(timeout)

	restyutil.InstrumentClient(client, otel.Tracer("scrapers/kbulib/http"), instrumentOutput)

	return &Client{http: client}, nil
}
