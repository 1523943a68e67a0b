package youtube

import (
	"fmt"
	"strings"
)

const (
	// BaseURL is the base URL for YouTube
	BaseURL = "https://www.youtube.com"

	// FeedURL is the landing page used to trigger the consent flow
	FeedURL = BaseURL + "/feed"

	// ConsentSaveURL is the endpoint the consent form is submitted to
	ConsentSaveURL = "https://consent.youtube.com/save"

	// CommunitySuffix is appended to a channel URL to reach its posts tab.
	// persist_hl pins the interface language so the extraction markers stay stable.
	CommunitySuffix = "/community?persist_hl=1&hl=en"

	// PostURLPrefix is the canonical link prefix for a single post
	PostURLPrefix = BaseURL + "/post/"

	// WatchURLPrefix is the canonical link prefix for an embedded video
	WatchURLPrefix = BaseURL + "/watch?v="

	// channelPrefixLen is the length of "https://www.youtube.com/". The
	// channel name is whatever follows it; this is a string-layout
	// invariant of channel URLs, not general URL parsing.
	channelPrefixLen = len(BaseURL) + 1
)

// ChannelTarget identifies one channel to scrape. Immutable once constructed.
type ChannelTarget struct {
	URL  string
	Name string
}

// NewChannelTarget derives the channel name from its URL by stripping the
// fixed-length platform prefix and any trailing slash.
func NewChannelTarget(channelURL string) ChannelTarget {
	name := channelURL
	if len(name) >= channelPrefixLen {
		name = name[channelPrefixLen:]
	}
	name = strings.TrimSuffix(name, "/")
	return ChannelTarget{URL: strings.TrimSuffix(channelURL, "/"), Name: name}
}

// CommunityURL returns the channel's posts-tab URL
func (c ChannelTarget) CommunityURL() string {
	return c.URL + CommunitySuffix
}

// OutputFileName returns the deterministic per-channel output file name
func (c ChannelTarget) OutputFileName() string {
	return c.Name + "_posts.json"
}

// BrowseURL constructs the continuation-API URL from the extracted
// per-session endpoint path and API key.
func BrowseURL(apiPath, apiKey string) string {
	return fmt.Sprintf("%s%s?key=%s&prettyPrint=false", BaseURL, apiPath, apiKey)
}
