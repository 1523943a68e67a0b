package scraper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ypscraper/pkg/errors"
	"ypscraper/pkg/logger"
	"ypscraper/pkg/ui"
	"ypscraper/pkg/youtube"
)

// fakeAPI scripts the community page body and one browse response per
// continuation token.
type fakeAPI struct {
	page      string
	pageErr   error
	responses map[string]*youtube.BrowseResponse
	browseErr error
	calls     []string
}

func (f *fakeAPI) FetchCommunityPage(target youtube.ChannelTarget) (string, error) {
	if f.pageErr != nil {
		return "", f.pageErr
	}
	return f.page, nil
}

func (f *fakeAPI) Browse(creds youtube.SessionCredentials, originalURL string) (*youtube.BrowseResponse, error) {
	f.calls = append(f.calls, creds.Token)
	if f.browseErr != nil {
		return nil, f.browseErr
	}
	if resp, ok := f.responses[creds.Token]; ok {
		return resp, nil
	}
	return &youtube.BrowseResponse{}, nil
}

func ago(text string) *youtube.TextRuns {
	return &youtube.TextRuns{Runs: []youtube.TextRun{{Text: text}}}
}

func postItem(id string) youtube.ContinuationItem {
	return youtube.ContinuationItem{
		BackstagePostThreadRenderer: &youtube.BackstagePostThreadRenderer{
			Post: youtube.PostWrapper{
				BackstagePostRenderer: &youtube.BackstagePostRenderer{
					PostID:            id,
					PublishedTimeText: ago("1 day ago"),
				},
			},
		},
	}
}

func tokenItem(token string) youtube.ContinuationItem {
	return youtube.ContinuationItem{
		ContinuationItemRenderer: &youtube.ContinuationItemRenderer{
			ContinuationEndpoint: &youtube.ContinuationEndpoint{
				ContinuationCommand: &youtube.ContinuationCommand{Token: token},
			},
		},
	}
}

func messageItem(text string) youtube.ContinuationItem {
	return youtube.ContinuationItem{
		MessageRenderer: &youtube.MessageRenderer{Text: ago(text)},
	}
}

func envelope(items ...youtube.ContinuationItem) *youtube.BrowseResponse {
	return &youtube.BrowseResponse{
		OnResponseReceivedEndpoints: []youtube.ReceivedEndpoint{
			{AppendContinuationItemsAction: &youtube.AppendContinuationItemsAction{
				ContinuationItems: items,
			}},
		},
	}
}

// pageWith renders a community page body carrying credentials and the given
// server-side posts. An empty token leaves the token marker out entirely.
func pageWith(token string, postIDs ...string) string {
	var b strings.Builder
	b.WriteString(`<script>{"INNERTUBE_API_KEY":"AIzaTestKey",`)
	b.WriteString(`"apiUrl":"/youtubei/v1/browse",`)
	if token != "" {
		b.WriteString(fmt.Sprintf(`"continuationCommand":{"token":"%s"},`, token))
	}
	b.WriteString(`"items":[`)
	for i, id := range postIDs {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf(`{"backstagePostThreadRenderer":{"post":{"backstagePostRenderer":`+
			`{"postId":"%s","publishedTimeText":{"runs":[{"text":"1 day ago"}]}},`+
			`"enableDisplayloggerExperiment":true}}}`, id))
	}
	b.WriteString(`]}</script>`)
	return b.String()
}

func ids(n int, prefix string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func newTestSession(api *fakeAPI, progress ui.Progress, limit int) *Session {
	target := youtube.NewChannelTarget("https://www.youtube.com/@somechannel")
	return NewSession(target, api, progress, 10, limit, logger.NewTestLogger())
}

func TestSessionFullPagination(t *testing.T) {
	api := &fakeAPI{
		page: pageWith("tok1", ids(10, "init")...),
		responses: map[string]*youtube.BrowseResponse{
			"tok1": envelope(append(items(ids(9, "p")...), tokenItem("tok2"))...),
			"tok2": envelope(postItem("q0"), postItem("q1"), postItem("q2")),
		},
	}
	progress := ui.NewCountingProgress()
	session := newTestSession(api, progress, 0)

	records, err := session.Scrape()
	require.NoError(t, err)

	// 10 server-rendered + 9 from the first page + 3 from the terminal page.
	require.Len(t, records, 22)

	// Pagination consumed each token exactly once.
	assert.Equal(t, []string{"tok1", "tok2"}, api.calls)

	// The engine accumulates newest first and flips at the end: the last
	// post of the terminal page comes out first, the newest rendered post last.
	assert.Equal(t, "https://www.youtube.com/post/q2", records[0].PostLink)
	assert.Equal(t, "https://www.youtube.com/post/init0", records[21].PostLink)

	// The display lands exactly on 100%.
	id := session.TaskID()
	assert.Equal(t, 22, progress.Totals[id])
	assert.Equal(t, 22, progress.Completed[id])
}

func items(ids ...string) []youtube.ContinuationItem {
	out := make([]youtube.ContinuationItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, postItem(id))
	}
	return out
}

func TestSessionBootstrapSkip(t *testing.T) {
	// Fewer posts than a full first page and no continuation token means
	// the whole history is already in hand.
	api := &fakeAPI{page: pageWith("", ids(3, "only")...)}
	session := newTestSession(api, ui.NewCountingProgress(), 0)

	records, err := session.Scrape()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Empty(t, api.calls, "pagination should be skipped entirely")

	// Oldest first after the final flip.
	assert.Equal(t, "https://www.youtube.com/post/only2", records[0].PostLink)
	assert.Equal(t, "https://www.youtube.com/post/only0", records[2].PostLink)
}

func TestSessionEmptyChannel(t *testing.T) {
	api := &fakeAPI{
		page: pageWith("tok1"),
		responses: map[string]*youtube.BrowseResponse{
			"tok1": envelope(messageItem("This channel has no posts.")),
		},
	}
	session := newTestSession(api, ui.NewCountingProgress(), 0)

	records, err := session.Scrape()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSessionFormatChange(t *testing.T) {
	// Nothing server-rendered and no continuation envelope on the very
	// first page points at a markup change, not an empty feed.
	api := &fakeAPI{
		page:      pageWith("tok1"),
		responses: map[string]*youtube.BrowseResponse{},
	}
	session := newTestSession(api, ui.NewCountingProgress(), 0)

	records, err := session.Scrape()
	require.Error(t, err)
	assert.Empty(t, records)

	var scrapeErr *errors.Error
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, errors.ErrorTypeFormatChange, scrapeErr.Type)
}

func TestSessionEndOfFeedMidPagination(t *testing.T) {
	// A missing envelope after at least one successful page is a normal
	// end of feed, not an error.
	api := &fakeAPI{
		page: pageWith("tok1", ids(10, "init")...),
		responses: map[string]*youtube.BrowseResponse{
			"tok1": envelope(append(items("p0", "p1"), tokenItem("tok2"))...),
		},
	}
	session := newTestSession(api, ui.NewCountingProgress(), 0)

	records, err := session.Scrape()
	require.NoError(t, err)
	assert.Len(t, records, 12)
	assert.Equal(t, []string{"tok1", "tok2"}, api.calls)
}

func TestSessionLimitStopsFetching(t *testing.T) {
	api := &fakeAPI{page: pageWith("tok1", ids(10, "init")...)}
	session := newTestSession(api, ui.NewCountingProgress(), 5)

	records, err := session.Scrape()
	require.NoError(t, err)

	// The cap keeps the most recent posts; with newest first accumulated,
	// that is the head before the flip, so the oldest surviving post leads.
	require.Len(t, records, 5)
	assert.Equal(t, "https://www.youtube.com/post/init4", records[0].PostLink)
	assert.Equal(t, "https://www.youtube.com/post/init0", records[4].PostLink)
	assert.Empty(t, api.calls, "limit already satisfied before any fetch")
}

func TestSessionLimitMidPagination(t *testing.T) {
	api := &fakeAPI{
		page: pageWith("tok1", ids(10, "init")...),
		responses: map[string]*youtube.BrowseResponse{
			"tok1": envelope(append(items(ids(5, "p")...), tokenItem("tok2"))...),
		},
	}
	session := newTestSession(api, ui.NewCountingProgress(), 12)

	records, err := session.Scrape()
	require.NoError(t, err)
	require.Len(t, records, 12)
	assert.Equal(t, []string{"tok1"}, api.calls, "second fetch exceeds the limit")
}

func TestSessionBrowseError(t *testing.T) {
	api := &fakeAPI{
		page:      pageWith("tok1", ids(10, "init")...),
		browseErr: errors.New(errors.ErrorTypeNetwork, "connection reset"),
	}
	session := newTestSession(api, ui.NewCountingProgress(), 0)

	records, err := session.Scrape()
	require.Error(t, err)

	// The page's own posts survive a failed continuation.
	assert.Len(t, records, 10)
}

func TestSessionFetchError(t *testing.T) {
	api := &fakeAPI{pageErr: errors.New(errors.ErrorTypeNetwork, "timeout")}
	progress := ui.NewCountingProgress()
	session := newTestSession(api, progress, 0)

	records, err := session.Scrape()
	require.Error(t, err)
	assert.Nil(t, records)

	// The failed channel still occupies a row on the board.
	assert.Equal(t, 0, progress.Totals[session.TaskID()])
}

func TestSessionSkipsMalformedBatchPost(t *testing.T) {
	missingTime := youtube.ContinuationItem{
		BackstagePostThreadRenderer: &youtube.BackstagePostThreadRenderer{
			Post: youtube.PostWrapper{
				BackstagePostRenderer: &youtube.BackstagePostRenderer{PostID: "broken"},
			},
		},
	}
	api := &fakeAPI{
		page: pageWith("tok1", ids(10, "init")...),
		responses: map[string]*youtube.BrowseResponse{
			"tok1": envelope(postItem("p0"), missingTime, postItem("p1")),
		},
	}
	session := newTestSession(api, ui.NewCountingProgress(), 0)

	records, err := session.Scrape()
	require.NoError(t, err)

	// Terminal page: the last item is a post, everything decodable kept.
	assert.Len(t, records, 12)
	for _, rec := range records {
		assert.NotContains(t, rec.PostLink, "broken")
	}
}
