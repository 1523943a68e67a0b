// Package youtube models the platform boundary of the scraper: the consent
// flow, the community-page markup and the Innertube browse API that serves
// community ("backstage") posts behind opaque continuation tokens.
package youtube

// BrowseRequest is the JSON payload sent to the extracted browse endpoint.
type BrowseRequest struct {
	Context      ClientContext `json:"context"`
	Continuation string        `json:"continuation"`
}

// ClientContext wraps the client identity for the API request.
type ClientContext struct {
	Client InnertubeClient `json:"client"`
}

// InnertubeClient carries the fixed browser-identity fields the backend
// expects, plus the originating page URL.
type InnertubeClient struct {
	UserAgent        string `json:"userAgent"`
	ClientName       string `json:"clientName"`
	ClientVersion    string `json:"clientVersion"`
	OriginalURL      string `json:"originalUrl"`
	Platform         string `json:"platform"`
	BrowserName      string `json:"browserName"`
	BrowserVersion   string `json:"browserVersion"`
	AcceptHeader     string `json:"acceptHeader"`
	UTCOffsetMinutes int    `json:"utcOffsetMinutes"`
}

// BrowseResponse is the "append continuation items" envelope returned by the
// browse endpoint. Absence of the expected chain of keys means end-of-feed.
type BrowseResponse struct {
	OnResponseReceivedEndpoints []ReceivedEndpoint `json:"onResponseReceivedEndpoints,omitempty"`
}

// ReceivedEndpoint holds one response action.
type ReceivedEndpoint struct {
	AppendContinuationItemsAction *AppendContinuationItemsAction `json:"appendContinuationItemsAction,omitempty"`
}

// AppendContinuationItemsAction carries one page of continuation items.
type AppendContinuationItemsAction struct {
	ContinuationItems []ContinuationItem `json:"continuationItems,omitempty"`
}

// ContinuationItem is a tagged union over the shapes a batch item can take:
// a post thread, a bare shared post, the next continuation token, or the
// channel-empty message marker. Unrecognized shapes leave every field nil.
type ContinuationItem struct {
	BackstagePostThreadRenderer *BackstagePostThreadRenderer `json:"backstagePostThreadRenderer,omitempty"`
	SharedPostRenderer          *SharedPostRenderer          `json:"sharedPostRenderer,omitempty"`
	ContinuationItemRenderer    *ContinuationItemRenderer    `json:"continuationItemRenderer,omitempty"`
	MessageRenderer             *MessageRenderer             `json:"messageRenderer,omitempty"`
}

// BackstagePostThreadRenderer wraps one post thread.
type BackstagePostThreadRenderer struct {
	Post PostWrapper `json:"post"`
}

// PostWrapper is the union of known post render variants.
type PostWrapper struct {
	BackstagePostRenderer *BackstagePostRenderer `json:"backstagePostRenderer,omitempty"`
	SharedPostRenderer    *SharedPostRenderer    `json:"sharedPostRenderer,omitempty"`
}

// BackstagePostRenderer is a plain community post.
type BackstagePostRenderer struct {
	PostID              string      `json:"postId,omitempty"`
	ContentText         *TextRuns   `json:"contentText,omitempty"`
	PublishedTimeText   *TextRuns   `json:"publishedTimeText,omitempty"`
	BackstageAttachment *Attachment `json:"backstageAttachment,omitempty"`
}

// SharedPostRenderer is a post re-sharing another post; its own commentary
// lives in Content rather than contentText.
type SharedPostRenderer struct {
	PostID            string       `json:"postId,omitempty"`
	PublishedTimeText *TextRuns    `json:"publishedTimeText,omitempty"`
	Content           *TextRuns    `json:"content,omitempty"`
	OriginalPost      *PostWrapper `json:"originalPost,omitempty"`
}

// Attachment is the union of known attachment variants.
type Attachment struct {
	VideoRenderer          *VideoRenderer          `json:"videoRenderer,omitempty"`
	BackstageImageRenderer *BackstageImageRenderer `json:"backstageImageRenderer,omitempty"`
	PostMultiImageRenderer *PostMultiImageRenderer `json:"postMultiImageRenderer,omitempty"`
}

// VideoRenderer is a video attachment.
type VideoRenderer struct {
	VideoID string `json:"videoId,omitempty"`
}

// BackstageImageRenderer is a single-image attachment.
type BackstageImageRenderer struct {
	Image *ThumbnailList `json:"image,omitempty"`
}

// PostMultiImageRenderer is a multi-image attachment.
type PostMultiImageRenderer struct {
	Images []ImageWrapper `json:"images,omitempty"`
}

// ImageWrapper wraps one image of a multi-image attachment.
type ImageWrapper struct {
	BackstageImageRenderer *BackstageImageRenderer `json:"backstageImageRenderer,omitempty"`
}

// ThumbnailList contains thumbnail variants, smallest first.
type ThumbnailList struct {
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
}

// Thumbnail is a single thumbnail variant.
type Thumbnail struct {
	URL    string `json:"url,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// TextRuns holds a sequence of text segments.
type TextRuns struct {
	Runs []TextRun `json:"runs,omitempty"`
}

// TextRun is one segment: plain text, a navigation link, or (degenerate)
// neither.
type TextRun struct {
	Text               string              `json:"text,omitempty"`
	NavigationEndpoint *NavigationEndpoint `json:"navigationEndpoint,omitempty"`
}

// NavigationEndpoint carries the link target of a navigation run.
type NavigationEndpoint struct {
	CommandMetadata *CommandMetadata `json:"commandMetadata,omitempty"`
}

// CommandMetadata wraps web command metadata.
type CommandMetadata struct {
	WebCommandMetadata *WebCommandMetadata `json:"webCommandMetadata,omitempty"`
}

// WebCommandMetadata holds the target URL.
type WebCommandMetadata struct {
	URL string `json:"url,omitempty"`
}

// ContinuationItemRenderer carries the next page's continuation token.
type ContinuationItemRenderer struct {
	ContinuationEndpoint *ContinuationEndpoint `json:"continuationEndpoint,omitempty"`
}

// ContinuationEndpoint wraps the continuation command.
type ContinuationEndpoint struct {
	ContinuationCommand *ContinuationCommand `json:"continuationCommand,omitempty"`
}

// ContinuationCommand holds the actual token.
type ContinuationCommand struct {
	Token string `json:"token,omitempty"`
}

// MessageRenderer is the marker the platform serves as the sole batch item
// of a channel that has never posted.
type MessageRenderer struct {
	Text *TextRuns `json:"text,omitempty"`
}

// FirstRunText returns the text of the first run, or false when there is none.
func (t *TextRuns) FirstRunText() (string, bool) {
	if t == nil || len(t.Runs) == 0 {
		return "", false
	}
	return t.Runs[0].Text, true
}

// TargetURL returns the navigation target of a run, or false when the run
// carries no navigation endpoint.
func (r TextRun) TargetURL() (string, bool) {
	if r.NavigationEndpoint == nil ||
		r.NavigationEndpoint.CommandMetadata == nil ||
		r.NavigationEndpoint.CommandMetadata.WebCommandMetadata == nil {
		return "", false
	}
	return r.NavigationEndpoint.CommandMetadata.WebCommandMetadata.URL, true
}

// Token returns a continuation token carried by this item, or false.
func (ci ContinuationItem) Token() (string, bool) {
	if ci.ContinuationItemRenderer == nil ||
		ci.ContinuationItemRenderer.ContinuationEndpoint == nil ||
		ci.ContinuationItemRenderer.ContinuationEndpoint.ContinuationCommand == nil {
		return "", false
	}
	token := ci.ContinuationItemRenderer.ContinuationEndpoint.ContinuationCommand.Token
	if token == "" {
		return "", false
	}
	return token, true
}

// PostRenderer returns the renderer of a post item, trying the backstage
// thread variant first and falling back to a bare shared post.
func (ci ContinuationItem) PostRenderer() (*BackstagePostRenderer, *SharedPostRenderer, bool) {
	if ci.BackstagePostThreadRenderer != nil {
		p := ci.BackstagePostThreadRenderer.Post
		if p.BackstagePostRenderer != nil {
			return p.BackstagePostRenderer, nil, true
		}
		if p.SharedPostRenderer != nil {
			return nil, p.SharedPostRenderer, true
		}
	}
	if ci.SharedPostRenderer != nil {
		return nil, ci.SharedPostRenderer, true
	}
	return nil, nil, false
}
