package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"oda/mcp/internal/config"
	"oda/mcp/internal/session"

	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const csrfHeader = "X-CSRF-Token"

// transport issues all requests toward the origin. It owns the header
// profiles (browser-like for document fetches, JSON for the cart API),
// attaches the session cookies to every request, and merges Set-Cookie
// response headers back into the session store before the caller sees the
// body.
type transport struct {
	rl      ratelimit.Limiter
	http    *resty.Client
	session *session.Store
	baseURL string
	origin  string // scheme://host of baseURL, sent as the Origin header
}

func newTransport(cfg config.OdaConfig, sess *session.Store) *transport {
	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30
	}

	// The session store is the single cookie authority, so resty's own jar
	// stays disabled.
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(timeout) * time.Second).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept-Language", cfg.AcceptLanguage).
		SetCookieJar(nil)

	origin := cfg.BaseURL
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		origin = u.Scheme + "://" + u.Host
	}

	return &transport{
		rl:      ratelimit.New(rps),
		http:    httpClient,
		session: sess,
		baseURL: cfg.BaseURL,
		origin:  origin,
	}
}

// pageURL builds the absolute URL of a site page, with query parameters in
// canonical (sorted) order so result pages report a stable source_url.
func (t *transport) pageURL(path string, params map[string]string) string {
	u := t.baseURL + path
	if len(params) == 0 {
		return u
	}
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return u + "?" + values.Encode()
}

// document fetches a site page with the browser header profile, following
// redirects. Returns the final document body.
func (t *transport) document(ctx context.Context, path string, params map[string]string) (string, error) {
	t.rl.Take()

	req := t.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetCookies(t.session.HTTPCookies())
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return "", err
	}
	t.captureCookies(resp)
	if err := t.statusError(resp); err != nil {
		return "", err
	}
	return resp.String(), nil
}

// api performs a JSON-API call against the cart endpoints. POST and DELETE
// carry the CSRF token header when the session holds one; a missing token is
// not an error here, the origin rejects the call itself.
func (t *transport) api(ctx context.Context, method, path, referer string, body any, params map[string]string) (*resty.Response, error) {
	t.rl.Take()

	req := t.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("Origin", t.origin).
		SetHeader("Referer", referer).
		SetCookies(t.session.HTTPCookies())
	if method != http.MethodGet {
		if token := t.session.CSRFToken(); token != "" {
			req.SetHeader(csrfHeader, token)
		}
	}
	if body != nil {
		req.SetBody(body)
	}
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, err
	}
	t.captureCookies(resp)
	if err := t.statusError(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// postForm submits a form-encoded POST (the login endpoint), CSRF header
// attached when present.
func (t *transport) postForm(ctx context.Context, path, referer string, form map[string]string) (*resty.Response, error) {
	t.rl.Take()

	req := t.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("Origin", t.origin).
		SetHeader("Referer", referer).
		SetCookies(t.session.HTTPCookies()).
		SetFormData(form)
	if token := t.session.CSRFToken(); token != "" {
		req.SetHeader(csrfHeader, token)
	}

	resp, err := req.Post(path)
	if err != nil {
		return nil, err
	}
	t.captureCookies(resp)
	if err := t.statusError(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// captureCookies merges every Set-Cookie of a response into the session store.
// Runs before any status or body inspection so even failed responses update
// the session.
func (t *transport) captureCookies(resp *resty.Response) {
	for _, c := range resp.Cookies() {
		t.session.Merge(c.Name, c.Value)
	}
}

// statusError classifies a response: 425 becomes the distinguished overload
// condition, other non-2xx/3xx become a RequestError with a bounded body
// excerpt.
func (t *transport) statusError(resp *resty.Response) error {
	code := resp.StatusCode()
	switch {
	case code == http.StatusTooEarly:
		return ErrTooEarly
	case code >= 200 && code < 400:
		return nil
	default:
		return &RequestError{StatusCode: code, Body: truncateBody(resp.String())}
	}
}
