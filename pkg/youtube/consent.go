package youtube

import (
	"bufio"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ypscraper/pkg/logger"
)

const (
	// consentCookieName is the cookie proving the regional privacy-consent
	// form was acknowledged.
	consentCookieName = "SOCS"

	// consentPendingValue is the sentinel the platform sets before any
	// consent has actually been saved. It unlocks nothing.
	consentPendingValue = "CAAA"

	// consentMinLength guards against truncated or placeholder cookies.
	consentMinLength = 16

	// DefaultConsentCookie is the built-in fallback used when every stage
	// of the bootstrap chain fails. It is never persisted to the cache.
	DefaultConsentCookie = "CAISNQgDEitib3FfaWRlbnRpdHlmcm9udGVuZHVpc2VydmVyXzIwMjMwOTI2LjA2X3AwGgJlbiACGgYIgJqVqAY"

	// consentFormSelector is the fixed structural path of the consent form
	// in the landing page's rendered DOM. It mirrors the page layout and
	// breaks if the platform reshuffles it; the chain then degrades to the
	// jar or the built-in default.
	consentFormSelector = "body > c-wiz > div > div > div > div:nth-of-type(2) > div:nth-of-type(1) > div:nth-of-type(3) > div:nth-of-type(1) > form:nth-of-type(1)"
)

// Bootstrapper obtains the consent cookie used on every subsequent request.
// It never fails: each stage of the chain degrades to the next, bottoming
// out at the built-in default cookie.
type Bootstrapper struct {
	client     *Client
	cookieFile string
	fallback   string
	logger     logger.Logger
}

// NewBootstrapper creates a consent bootstrapper backed by the given client
// and cookie cache file. An empty fallback selects the built-in default.
func NewBootstrapper(client *Client, cookieFile, fallback string, log logger.Logger) *Bootstrapper {
	if log == nil {
		log = logger.GetLogger()
	}
	if fallback == "" {
		fallback = DefaultConsentCookie
	}
	return &Bootstrapper{
		client:     client,
		cookieFile: cookieFile,
		fallback:   fallback,
		logger:     log,
	}
}

// Cookie returns a usable consent cookie value, possibly degraded to the
// built-in default. The cache file, when present, wins verbatim.
func (b *Bootstrapper) Cookie() string {
	if cached, ok := b.readCache(); ok {
		b.logger.DebugWithFields("using cached consent cookie", map[string]interface{}{
			"file": b.cookieFile,
		})
		return cached
	}

	cookie, err := b.bootstrap()
	if err != nil {
		b.logger.WithError(err).Warn("consent bootstrap failed, using built-in default cookie")
		return b.fallback
	}
	return cookie
}

// readCache returns the first line of the cookie cache file verbatim.
func (b *Bootstrapper) readCache() (string, bool) {
	f, err := os.Open(b.cookieFile)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return scanner.Text(), true
	}
	return "", false
}

// writeCache persists a freshly obtained cookie. Failure to persist is not
// failure to bootstrap.
func (b *Bootstrapper) writeCache(value string) {
	if err := os.WriteFile(b.cookieFile, []byte(value+"\n"), 0644); err != nil {
		b.logger.WithError(err).Warn("failed to persist consent cookie cache")
	}
}

// ResetCache overwrites the cookie cache with the built-in default cookie.
func (b *Bootstrapper) ResetCache() error {
	return os.WriteFile(b.cookieFile, []byte(b.fallback+"\n"), 0644)
}

// DeleteCache removes the cookie cache file. A missing file is not an error.
func (b *Bootstrapper) DeleteCache() error {
	err := os.Remove(b.cookieFile)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// bootstrap runs the network stages of the chain: fetch the landing page,
// submit the consent form when present, otherwise salvage a cookie from the
// response jar.
func (b *Bootstrapper) bootstrap() (string, error) {
	body, err := b.client.FetchLandingPage()
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", err
	}

	form := doc.Find(consentFormSelector).First()
	if form.Length() > 0 {
		fields := make(map[string]string)
		form.Find("input").Each(func(_ int, input *goquery.Selection) {
			name, okName := input.Attr("name")
			value, okValue := input.Attr("value")
			if okName && okValue {
				fields[name] = value
			}
		})

		if err := b.client.SubmitConsentForm(fields); err != nil {
			b.logger.WithError(err).Warn("consent form submission failed")
		} else if cookie, ok := b.client.CookieValue(consentCookieName); ok {
			b.writeCache(cookie)
			b.logger.Info("consent cookie obtained and cached")
			return cookie, nil
		}
	}

	// Some locales skip the consent interstitial entirely; the landing
	// response may then already carry a usable cookie.
	if cookie, ok := b.client.CookieValue(consentCookieName); ok && validConsentValue(cookie) {
		b.logger.Debug("consent cookie taken from landing response")
		return cookie, nil
	}

	b.logger.Warn("no consent form or usable cookie found, using built-in default cookie")
	return b.fallback, nil
}

// validConsentValue rejects the pre-consent sentinel and trivially short
// values.
func validConsentValue(value string) bool {
	return value != consentPendingValue && len(value) >= consentMinLength
}
