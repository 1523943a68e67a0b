package scraper

import (
	"ypscraper/pkg/errors"
	"ypscraper/pkg/logger"
	"ypscraper/pkg/models"
	"ypscraper/pkg/storage"
	"ypscraper/pkg/ui"
	"ypscraper/pkg/youtube"
)

// Session drives one channel's scrape: credential extraction, the
// continuation-token loop, and final ordering. Sessions are independent;
// one Session per channel, no state shared between them beyond the
// progress sink.
type Session struct {
	target   youtube.ChannelTarget
	api      PostsAPI
	progress ui.Progress
	logger   logger.Logger

	// initBatchSize is the number of posts the platform serves on the
	// first page. Fewer initial posts and no token means no further
	// history, so paging is skipped entirely.
	initBatchSize int

	// limit caps the number of accumulated records; zero means unlimited.
	limit int

	creds   youtube.SessionCredentials
	records []models.PostRecord
	taskID  int
}

// NewSession creates a session for one channel target.
func NewSession(target youtube.ChannelTarget, api PostsAPI, progress ui.Progress, initBatchSize, limit int, log logger.Logger) *Session {
	if log == nil {
		log = logger.GetLogger()
	}
	if progress == nil {
		progress = ui.NopProgress{}
	}
	if initBatchSize <= 0 {
		initBatchSize = 10
	}
	return &Session{
		target:        target,
		api:           api,
		progress:      progress,
		logger:        log.WithField("channel", target.Name),
		initBatchSize: initBatchSize,
		limit:         limit,
	}
}

// TaskID returns the progress task this session reports into. Valid after
// Scrape has started.
func (s *Session) TaskID() int {
	return s.taskID
}

// Scrape runs the session to completion and returns the accumulated
// records in oldest-first order. On a terminal error the records gathered
// so far are returned alongside it; the caller persists them regardless.
func (s *Session) Scrape() ([]models.PostRecord, error) {
	body, err := s.api.FetchCommunityPage(s.target)
	if err != nil {
		s.logger.WithError(err).Error("community page fetch failed")
		s.taskID = s.progress.AddTask(s.target.Name, 0)
		return nil, err
	}

	s.creds = youtube.ExtractCredentials(body, s.target.Name, s.logger)
	s.collectInitial(body)

	initTotal := len(s.records)
	s.taskID = s.progress.AddTask(s.target.Name, initTotal)

	err = s.paginate(initTotal)

	// One synthetic completed signal equal to the initial total: the
	// per-item increments never covered the server-rendered posts, and the
	// display should land on 100%.
	s.progress.Advance(s.taskID, initTotal)

	// Most recent posts win when a cap is set; the platform's natural
	// order is newest-first at this point.
	if s.limit > 0 && len(s.records) > s.limit {
		s.records = s.records[:s.limit]
	}

	storage.Reverse(s.records)
	return s.records, err
}

// collectInitial normalizes the server-rendered posts embedded in the
// community page.
func (s *Session) collectInitial(body string) {
	for _, post := range youtube.ExtractInitialPosts(body, s.target.Name, s.logger) {
		record, err := youtube.Normalize(post, s.logger)
		if err != nil {
			s.logger.WithError(err).Warn("skipping malformed server-rendered post")
			continue
		}
		s.records = append(s.records, record)
	}
}

// paginate runs the continuation-token loop. Each iteration consumes the
// current token and atomically replaces it with the one found in the
// response, or terminates.
func (s *Session) paginate(initTotal int) error {
	// Bootstrap skip: a first page with fewer posts than a full initial
	// batch and no continuation token has no further history behind it.
	if initTotal < s.initBatchSize && s.creds.Token == "" {
		s.logger.DebugWithFields("skipping pagination", map[string]interface{}{
			"initial_posts": initTotal,
		})
		return nil
	}

	total := initTotal
	firstPage := true

	for {
		if s.limit > 0 && len(s.records) >= s.limit {
			s.logger.DebugWithFields("record limit reached", map[string]interface{}{
				"limit": s.limit,
			})
			return nil
		}

		envelope, err := s.api.Browse(s.creds, s.target.CommunityURL())
		if err != nil {
			s.logger.WithError(err).Error("pagination request failed")
			return err
		}

		items, ok := continuationItems(envelope)
		if !ok {
			if firstPage && initTotal == 0 {
				// Nothing server-rendered and no envelope either: more
				// likely a markup format change than an empty feed.
				s.logger.Warn("no posts and no continuation envelope; the page format may have changed")
				return errors.New(errors.ErrorTypeFormatChange, "continuation envelope missing on first page").ForChannel(s.target.Name)
			}
			return nil
		}

		if firstPage && len(items) == 1 && items[0].MessageRenderer != nil {
			// The platform marks channels that have never posted with a
			// lone message item.
			s.logger.Info("channel has no posts")
			return nil
		}

		total += len(items) - 1
		s.progress.SetTotal(s.taskID, total)

		done, extra := s.consumeBatch(items)
		total += extra
		if extra != 0 {
			s.progress.SetTotal(s.taskID, total)
		}
		if done {
			return nil
		}
		firstPage = false
	}
}

// consumeBatch appends every post in the batch and pulls the next token
// out of the final item. Returns done=true when pagination must stop, and
// the number of unexpected extra posts found in the final item.
func (s *Session) consumeBatch(items []youtube.ContinuationItem) (bool, int) {
	for i, item := range items {
		if i != len(items)-1 {
			s.appendPost(item)
			continue
		}

		// The last item normally carries the next continuation token.
		if token, ok := item.Token(); ok {
			s.creds.Token = token
			return false, 0
		}

		// A terminal page ends with a post instead of a token.
		if _, _, ok := item.PostRenderer(); ok {
			s.appendPost(item)
			return true, 1
		}

		s.logger.Warn("final batch item is neither a post nor a continuation token")
		return true, 0
	}
	return true, 0
}

// appendPost normalizes one batch item and accumulates it. A malformed
// post is skipped without ending the batch.
func (s *Session) appendPost(item youtube.ContinuationItem) {
	backstage, shared, ok := item.PostRenderer()
	if !ok {
		s.logger.Warn("skipping unrecognized batch item")
		return
	}

	wrapper := youtube.PostWrapper{BackstagePostRenderer: backstage, SharedPostRenderer: shared}
	record, err := youtube.Normalize(wrapper, s.logger)
	if err != nil {
		s.logger.WithError(err).Warn("skipping malformed post")
		return
	}
	s.records = append(s.records, record)
	s.progress.Advance(s.taskID, 1)
}

// continuationItems unwraps the append-continuation-items envelope.
func continuationItems(envelope *youtube.BrowseResponse) ([]youtube.ContinuationItem, bool) {
	if envelope == nil || len(envelope.OnResponseReceivedEndpoints) == 0 {
		return nil, false
	}
	action := envelope.OnResponseReceivedEndpoints[0].AppendContinuationItemsAction
	if action == nil || len(action.ContinuationItems) == 0 {
		return nil, false
	}
	return action.ContinuationItems, true
}
