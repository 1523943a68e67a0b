package scraper

import "ypscraper/pkg/youtube"

// PostsAPI is the slice of the platform client the pagination engine
// consumes. Keeping it narrow lets tests drive the state machine with
// synthetic response sequences.
type PostsAPI interface {
	FetchCommunityPage(target youtube.ChannelTarget) (string, error)
	Browse(creds youtube.SessionCredentials, originalURL string) (*youtube.BrowseResponse, error)
}
