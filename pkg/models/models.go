package models

import "time"

// DownloadTimeFormat is the timestamp layout recorded on every scraped post.
const DownloadTimeFormat = "02/01/2006, 15:04:05"

// PostRecord is the canonical output unit for a single community post.
// PostLink doubles as the identity key for deduplication; every other
// non-identity field is best-effort and may be null in the output JSON.
type PostRecord struct {
	PostLink       string   `json:"post_link"`
	TimeSince      string   `json:"time_since"`
	TimeOfDownload string   `json:"time_of_download"`
	Video          *string  `json:"video"`
	Images         []string `json:"images"`
	Text           *string  `json:"text"`
}

// NewPostRecord creates a record with the download timestamp set to now.
func NewPostRecord(postLink, timeSince string) PostRecord {
	return PostRecord{
		PostLink:       postLink,
		TimeSince:      timeSince,
		TimeOfDownload: time.Now().UTC().Format(DownloadTimeFormat),
	}
}
