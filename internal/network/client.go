package network

import (
	"math/rand"
	"net/url"
	"sync"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

const DefaultUserAgent = "Mozilla/5.0 (compatible; JobTrackrBot/1.0; +http://jobtrackr.me)"

// Doer sends one HTTP request. Adapters and stores depend on this rather
// than on Client so tests can substitute canned responses.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

// Options configures a Client.
type Options struct {
	Timeout    time.Duration
	UserAgents []string
}

// Client is safe for concurrent use. With a rotator, requests through one
// Client are serialized so each status is reported against the proxy that
// carried it.
type Client struct {
	http       tls_client.HttpClient
	rotator    *Rotator
	userAgents []string

	randMu sync.Mutex
	rand   *rand.Rand

	proxyMu sync.Mutex
}

var _ Doer = (*Client)(nil)

func NewClient(rotator *Rotator, opts Options) (*Client, error) {
	jar, _ := fhttpcookiejar.New(nil)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(int(timeout.Seconds())),
		tls_client.WithCookieJar(jar),
	)
	if err != nil {
		return nil, err
	}

	agents := opts.UserAgents
	if len(agents) == 0 {
		agents = []string{DefaultUserAgent}
	}

	return &Client{
		http:       client,
		rotator:    rotator,
		userAgents: append([]string{}, agents...),
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.randomUA())
	}
	if c.rotator == nil {
		return c.http.Do(req)
	}

	c.proxyMu.Lock()
	defer c.proxyMu.Unlock()

	proxy, _ := c.rotateProxy()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if proxy != nil {
		c.rotator.Report(proxy, resp.StatusCode)
	}
	return resp, nil
}

// rotateProxy must be called with proxyMu held.
func (c *Client) rotateProxy() (*url.URL, error) {
	proxy, err := c.rotator.Next()
	if err != nil {
		return nil, err
	}

	if proxy != nil {
		_ = c.http.SetProxy(proxy.String())
	}
	return proxy, nil
}

func (c *Client) randomUA() string {
	if len(c.userAgents) == 0 {
		return DefaultUserAgent
	}
	c.randMu.Lock()
	defer c.randMu.Unlock()
	return c.userAgents[c.rand.Intn(len(c.userAgents))]
}
