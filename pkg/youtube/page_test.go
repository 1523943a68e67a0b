package youtube

import (
	"fmt"
	"testing"

	"ypscraper/pkg/logger"
)

func TestExtractCredentials(t *testing.T) {
	body := `<script>var cfg = {"INNERTUBE_API_KEY":"AIzaTestKey123","other":1,` +
		`"browseEndpoint":{"commandMetadata":{"webCommandMetadata":{"apiUrl":"/youtubei/v1/browse"}}},` +
		`"continuationCommand":{"token":"4qmFsgKqARIYVUN0ZXN0"}};</script>`

	creds := ExtractCredentials(body, "@somechannel", logger.NewTestLogger())

	if creds.APIKey != "AIzaTestKey123" {
		t.Errorf("APIKey = %q, want %q", creds.APIKey, "AIzaTestKey123")
	}
	if creds.APIPath != "/youtubei/v1/browse" {
		t.Errorf("APIPath = %q, want %q", creds.APIPath, "/youtubei/v1/browse")
	}
	if creds.Token != "4qmFsgKqARIYVUN0ZXN0" {
		t.Errorf("Token = %q, want %q", creds.Token, "4qmFsgKqARIYVUN0ZXN0")
	}
}

func TestExtractCredentialsMissingMarkers(t *testing.T) {
	log := logger.NewTestLogger()
	creds := ExtractCredentials(`<html>nothing here</html>`, "@somechannel", log)

	if creds.APIKey != "" || creds.APIPath != "" || creds.Token != "" {
		t.Errorf("expected empty credentials, got %+v", creds)
	}
	if len(log.MessagesByLevel("WARN")) != 3 {
		t.Errorf("expected 3 warnings, got %d", len(log.MessagesByLevel("WARN")))
	}
}

func TestExtractCredentialsPartial(t *testing.T) {
	body := `{"INNERTUBE_API_KEY":"AIzaOnlyKey"}`
	creds := ExtractCredentials(body, "@somechannel", logger.NewTestLogger())

	if creds.APIKey != "AIzaOnlyKey" {
		t.Errorf("APIKey = %q, want %q", creds.APIKey, "AIzaOnlyKey")
	}
	if creds.APIPath != "" || creds.Token != "" {
		t.Errorf("expected only the API key set, got %+v", creds)
	}
}

// renderedPost builds one server-side post object the way the page markup
// nests it, with the experiment flag closing the post wrapper.
func renderedPost(id, text, timeSince string) string {
	return fmt.Sprintf(`{"backstagePostThreadRenderer":{"post":{"backstagePostRenderer":`+
		`{"postId":"%s","contentText":{"runs":[{"text":"%s"}]},`+
		`"publishedTimeText":{"runs":[{"text":"%s"}]}},`+
		`"enableDisplayloggerExperiment":true}}}`, id, text, timeSince)
}

func TestExtractInitialPosts(t *testing.T) {
	body := `<script>var ytInitialData = {"items":[` +
		renderedPost("post1", "first post", "2 days ago") + "," +
		renderedPost("post2", "second post", "1 week ago") +
		`]};</script>`

	posts := ExtractInitialPosts(body, "@somechannel", logger.NewTestLogger())

	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].BackstagePostRenderer == nil || posts[0].BackstagePostRenderer.PostID != "post1" {
		t.Errorf("first post = %+v, want postId post1", posts[0])
	}
	if posts[1].BackstagePostRenderer == nil || posts[1].BackstagePostRenderer.PostID != "post2" {
		t.Errorf("second post = %+v, want postId post2", posts[1])
	}
	if text, ok := posts[0].BackstagePostRenderer.ContentText.FirstRunText(); !ok || text != "first post" {
		t.Errorf("first post text = %q, want %q", text, "first post")
	}
}

func TestExtractInitialPostsSkipsUndecodable(t *testing.T) {
	broken := `{"backstagePostThreadRenderer":{"post":[},"enableDisplayloggerExperiment":true}}}`
	body := broken + renderedPost("post1", "still here", "3 days ago")

	log := logger.NewTestLogger()
	posts := ExtractInitialPosts(body, "@somechannel", log)

	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].BackstagePostRenderer.PostID != "post1" {
		t.Errorf("post = %+v, want postId post1", posts[0])
	}
	if !log.HasMessage("skipping undecodable server-rendered post") {
		t.Error("expected a debug entry for the skipped post")
	}
}

func TestExtractInitialPostsEmpty(t *testing.T) {
	posts := ExtractInitialPosts(`<html>no embedded posts</html>`, "@somechannel", logger.NewTestLogger())
	if len(posts) != 0 {
		t.Errorf("expected no posts, got %d", len(posts))
	}
}
