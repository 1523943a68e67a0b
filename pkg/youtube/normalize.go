package youtube

import (
	"net/url"
	"strings"

	"ypscraper/pkg/errors"
	"ypscraper/pkg/logger"
	"ypscraper/pkg/models"
)

// Normalize converts one raw post payload into a canonical PostRecord.
// The post identifier and published-time text are required; a payload
// missing either fails for that single post only. Every other field is
// independently best-effort and absent on any lookup failure.
func Normalize(post PostWrapper, log logger.Logger) (models.PostRecord, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	switch {
	case post.BackstagePostRenderer != nil:
		return normalizeBackstage(post.BackstagePostRenderer, log)
	case post.SharedPostRenderer != nil:
		return normalizeShared(post.SharedPostRenderer, log)
	default:
		return models.PostRecord{}, errors.New(errors.ErrorTypeParsing, "unrecognized post render variant")
	}
}

func normalizeBackstage(post *BackstagePostRenderer, log logger.Logger) (models.PostRecord, error) {
	if post.PostID == "" {
		return models.PostRecord{}, errors.New(errors.ErrorTypeParsing, "post has no identifier")
	}
	timeSince, ok := post.PublishedTimeText.FirstRunText()
	if !ok {
		return models.PostRecord{}, errors.Newf(errors.ErrorTypeParsing, "post %s has no published-time text", post.PostID)
	}

	record := models.NewPostRecord(PostURLPrefix+post.PostID, timeSince)
	record.Video = videoLink(post.BackstageAttachment, log)
	record.Images = imageLinks(post.BackstageAttachment, log)
	record.Text = runsText(post.ContentText, log)
	return record, nil
}

// normalizeShared handles the re-shared variant: the sharer's commentary
// lives in the wrapping content structure, and any attachment belongs to
// the original post.
func normalizeShared(post *SharedPostRenderer, log logger.Logger) (models.PostRecord, error) {
	if post.PostID == "" {
		return models.PostRecord{}, errors.New(errors.ErrorTypeParsing, "shared post has no identifier")
	}
	timeSince, ok := post.PublishedTimeText.FirstRunText()
	if !ok {
		return models.PostRecord{}, errors.Newf(errors.ErrorTypeParsing, "shared post %s has no published-time text", post.PostID)
	}

	record := models.NewPostRecord(PostURLPrefix+post.PostID, timeSince)
	record.Text = runsText(post.Content, log)
	if post.OriginalPost != nil && post.OriginalPost.BackstagePostRenderer != nil {
		attachment := post.OriginalPost.BackstagePostRenderer.BackstageAttachment
		record.Video = videoLink(attachment, log)
		record.Images = imageLinks(attachment, log)
	}
	return record, nil
}

// videoLink returns the watch URL of a video attachment, or nil.
func videoLink(attachment *Attachment, log logger.Logger) *string {
	if attachment == nil || attachment.VideoRenderer == nil || attachment.VideoRenderer.VideoID == "" {
		log.Debug("post has no video attachment")
		return nil
	}
	link := WatchURLPrefix + attachment.VideoRenderer.VideoID
	return &link
}

// imageLinks returns the image URLs of an image attachment. The single-image
// variant is checked before the multi-image variant; first match wins.
func imageLinks(attachment *Attachment, log logger.Logger) []string {
	if attachment == nil {
		log.Debug("post has no image attachment")
		return nil
	}
	if link, ok := largestThumbnail(attachment.BackstageImageRenderer); ok {
		return []string{link}
	}
	if attachment.PostMultiImageRenderer != nil {
		var links []string
		for _, image := range attachment.PostMultiImageRenderer.Images {
			if link, ok := largestThumbnail(image.BackstageImageRenderer); ok {
				links = append(links, link)
			}
		}
		if len(links) > 0 {
			return links
		}
	}
	log.Debug("post has no image attachment")
	return nil
}

// largestThumbnail returns the last (largest) thumbnail URL of an image.
func largestThumbnail(image *BackstageImageRenderer) (string, bool) {
	if image == nil || image.Image == nil || len(image.Image.Thumbnails) == 0 {
		return "", false
	}
	return image.Image.Thumbnails[len(image.Image.Thumbnails)-1].URL, true
}

// runsText concatenates all runs of a content-text structure. Navigation
// runs contribute their target URL, decoded through the q= redirect
// parameter when present; runs carrying neither a target nor plain text
// contribute nothing at all.
func runsText(content *TextRuns, log logger.Logger) *string {
	if content == nil || len(content.Runs) == 0 {
		log.Debug("post has no content text")
		return nil
	}

	var builder strings.Builder
	for _, run := range content.Runs {
		if target, ok := run.TargetURL(); ok {
			builder.WriteString(resolveRedirect(target))
			continue
		}
		if run.Text != "" {
			builder.WriteString(run.Text)
			continue
		}
		log.Debug("content run has neither text nor navigation target")
	}
	text := builder.String()
	return &text
}

// resolveRedirect unwraps the platform's redirect URLs: the true destination
// is carried URL-escaped in the q= query parameter. URLs without the
// parameter pass through untouched.
func resolveRedirect(target string) string {
	if !strings.Contains(target, "q=") {
		return target
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return target
	}
	if destination := parsed.Query().Get("q"); destination != "" {
		return destination
	}
	return target
}
