package scraper

import (
	"sync"

	"ypscraper/pkg/config"
	"ypscraper/pkg/logger"
	"ypscraper/pkg/models"
	"ypscraper/pkg/storage"
	"ypscraper/pkg/ui"
	"ypscraper/pkg/youtube"
)

// Result is the outcome of one channel's scrape-and-persist run. Failures
// are values here, never faults that cancel sibling channels.
type Result struct {
	Target   youtube.ChannelTarget
	Records  []models.PostRecord
	NewPosts int
	Err      error
}

// Scraper fans scrape sessions out over channel targets and persists each
// channel's outcome once all sessions have finished.
type Scraper struct {
	api      PostsAPI
	storage  *storage.Manager
	progress ui.Progress
	config   *config.Config
	logger   logger.Logger
}

// New creates a Scraper writing into the configured output folder.
func New(cfg *config.Config, api PostsAPI, progress ui.Progress, log logger.Logger) (*Scraper, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	if progress == nil {
		progress = ui.NopProgress{}
	}

	manager, err := storage.NewManager(cfg.Scrape.OutputFolder, log)
	if err != nil {
		return nil, err
	}

	return &Scraper{
		api:      api,
		storage:  manager,
		progress: progress,
		config:   cfg,
		logger:   log,
	}, nil
}

// Run scrapes every channel link concurrently, waits for all of them, then
// persists each channel's records. A channel that failed mid-pagination
// still gets whatever it accumulated written out.
func (s *Scraper) Run(links []string) []Result {
	targets := make([]youtube.ChannelTarget, len(links))
	for i, link := range links {
		targets[i] = youtube.NewChannelTarget(link)
	}

	results := make([]Result, len(targets))
	sessions := make([]*Session, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target youtube.ChannelTarget) {
			defer wg.Done()
			session := NewSession(target, s.api, s.progress,
				s.config.Scrape.InitBatchSize, s.config.Scrape.Limit, s.logger)
			sessions[i] = session
			records, err := session.Scrape()
			results[i] = Result{Target: target, Records: records, Err: err}
		}(i, target)
	}

	// Persistence waits for every session so the progress display stays
	// stable while tasks are still running.
	wg.Wait()

	for i := range results {
		s.persist(&results[i], sessions[i])
	}
	return results
}

// persist writes one channel's outcome, applying reverse and update modes.
func (s *Scraper) persist(result *Result, session *Session) {
	added, err := s.storage.Persist(result.Target.OutputFileName(), result.Records, storage.PersistOptions{
		Reverse: s.config.Scrape.Reverse,
		Update:  s.config.Scrape.Update,
	})
	if err != nil {
		s.logger.WithError(err).WithField("channel", result.Target.Name).
			Error("failed to persist posts")
		if result.Err == nil {
			result.Err = err
		}
		return
	}

	result.NewPosts = added
	if s.config.Scrape.Update && session != nil {
		s.progress.SetNew(session.TaskID(), added)
	}
}
