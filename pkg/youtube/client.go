package youtube

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"ypscraper/pkg/errors"
	"ypscraper/pkg/logger"
)

const (
	clientName     = "WEB"
	clientVersion  = "2.20231010.10.01"
	clientPlatform = "DESKTOP"
	browserName    = "Chrome"
	browserVersion = "117.0.0.0"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"
)

// Client wraps the HTTP boundary: the consent flow, the community page and
// the Innertube browse endpoint. One Client is shared by all channel
// sessions; it carries the consent cookie for every request.
type Client struct {
	http      *resty.Client
	userAgent string
	logger    logger.Logger
}

// NewClient creates a client with a fresh cookie jar and browser-identity
// headers.
func NewClient(timeout time.Duration, userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", acceptHeader)
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Client{
		http:      client,
		userAgent: userAgent,
		logger:    log,
	}
}

// SetConsentCookie attaches the consent cookie to every subsequent request.
func (c *Client) SetConsentCookie(value string) {
	c.http.SetCookie(&http.Cookie{
		Name:   consentCookieName,
		Value:  value,
		Domain: ".youtube.com",
		Path:   "/",
	})
}

// FetchLandingPage fetches the feed landing page unauthenticated. Used by
// the consent bootstrapper.
func (c *Client) FetchLandingPage() (string, error) {
	resp, err := c.http.R().Get(FeedURL)
	if err != nil {
		return "", errors.Newf(errors.ErrorTypeNetwork, "landing page fetch failed: %v", err)
	}
	c.logger.DebugWithFields("landing page fetched", map[string]interface{}{
		"status": resp.StatusCode(),
		"bytes":  len(resp.Body()),
	})
	return resp.String(), nil
}

// SubmitConsentForm posts the consent form's input name/value pairs to the
// consent save endpoint. The resulting cookie lands in the client's jar.
func (c *Client) SubmitConsentForm(fields map[string]string) error {
	resp, err := c.http.R().SetFormData(fields).Post(ConsentSaveURL)
	if err != nil {
		return errors.Newf(errors.ErrorTypeConsent, "consent submission failed: %v", err)
	}
	c.logger.DebugWithFields("consent form submitted", map[string]interface{}{
		"status": resp.StatusCode(),
		"fields": len(fields),
	})
	return nil
}

// CookieValue reads a cookie for the youtube.com domain out of the jar.
func (c *Client) CookieValue(name string) (string, bool) {
	jar := c.http.GetClient().Jar
	if jar == nil {
		return "", false
	}
	for _, target := range []string{BaseURL, "https://youtube.com", "https://consent.youtube.com"} {
		u, err := url.Parse(target)
		if err != nil {
			continue
		}
		for _, cookie := range jar.Cookies(u) {
			if cookie.Name == name {
				return cookie.Value, true
			}
		}
	}
	return "", false
}

// FetchCommunityPage fetches the channel's posts tab with the consent
// cookie attached.
func (c *Client) FetchCommunityPage(target ChannelTarget) (string, error) {
	resp, err := c.http.R().Get(target.CommunityURL())
	if err != nil {
		return "", errors.Newf(errors.ErrorTypeNetwork, "community page fetch failed: %v", err)
	}
	c.logger.DebugWithFields("community page fetched", map[string]interface{}{
		"channel": target.Name,
		"status":  resp.StatusCode(),
		"bytes":   len(resp.Body()),
	})
	return resp.String(), nil
}

// Browse issues one continuation request against the session's extracted
// endpoint and parses the response envelope. Malformed JSON is terminal for
// the channel.
func (c *Client) Browse(creds SessionCredentials, originalURL string) (*BrowseResponse, error) {
	payload := BrowseRequest{
		Context: ClientContext{
			Client: InnertubeClient{
				UserAgent:        c.userAgent,
				ClientName:       clientName,
				ClientVersion:    clientVersion,
				OriginalURL:      originalURL,
				Platform:         clientPlatform,
				BrowserName:      browserName,
				BrowserVersion:   browserVersion,
				AcceptHeader:     acceptHeader,
				UTCOffsetMinutes: 0,
			},
		},
		Continuation: creds.Token,
	}

	resp, err := c.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(BrowseURL(creds.APIPath, creds.APIKey))
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeNetwork, "browse request failed: %v", err)
	}

	var envelope BrowseResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, errors.Newf(errors.ErrorTypeParsing, "browse response is not valid JSON: %v", err)
	}
	return &envelope, nil
}
