package youtube

import (
	"encoding/json"
	"strings"

	"ypscraper/pkg/logger"
)

// SessionCredentials are the ephemeral per-session tokens embedded in the
// community page markup. Any field may be absent after extraction; requests
// made with absent credentials fail at the network layer, which ends the
// session through the engine's normal terminal path.
type SessionCredentials struct {
	APIKey  string
	APIPath string
	Token   string
}

const (
	apiKeyMarker = `"INNERTUBE_API_KEY":"`
	apiURLMarker = `"apiUrl":"`
	tokenMarker  = `"token":"`

	// initPostMarker opens each server-rendered post object in the page's
	// embedded script content.
	initPostMarker = `{"backstagePostThreadRenderer":`

	// initPostTerminator closes each server-rendered post object. The final
	// brace belongs to the wrapping structure and is dropped before decoding.
	initPostTerminator = `"enableDisplayloggerExperiment":true}}}`
)

// extractAfterMarker returns the text between the first occurrence of
// marker and the next quote character.
func extractAfterMarker(body, marker string) (string, bool) {
	idx := strings.Index(body, marker)
	if idx < 0 {
		return "", false
	}
	start := idx + len(marker)
	end := strings.IndexByte(body[start:], '"')
	if end <= 0 {
		return "", false
	}
	return body[start : start+end], true
}

// ExtractCredentials recovers the session API key, endpoint path and
// initial continuation token from the community page body. The three
// extractions are independent; a missing marker logs a warning and leaves
// that credential unset.
func ExtractCredentials(body, channel string, log logger.Logger) SessionCredentials {
	if log == nil {
		log = logger.GetLogger()
	}

	var creds SessionCredentials
	if key, ok := extractAfterMarker(body, apiKeyMarker); ok {
		creds.APIKey = key
	} else {
		log.WarnWithFields("API key not found", map[string]interface{}{"channel": channel})
	}
	if path, ok := extractAfterMarker(body, apiURLMarker); ok {
		creds.APIPath = path
	} else {
		log.WarnWithFields("API URL not found", map[string]interface{}{"channel": channel})
	}
	if token, ok := extractAfterMarker(body, tokenMarker); ok {
		creds.Token = token
	} else {
		log.WarnWithFields("continuation token not found", map[string]interface{}{"channel": channel})
	}
	return creds
}

// ExtractInitialPosts slices the server-rendered posts out of the community
// page's script content. Posts sit back to back between a repeated opening
// marker and a fixed terminator; each slice decodes as a self-contained
// thread renderer. An empty result is not an error: the channel may have no
// posts, or the markup format may have changed.
func ExtractInitialPosts(body, channel string, log logger.Logger) []PostWrapper {
	if log == nil {
		log = logger.GetLogger()
	}

	var posts []PostWrapper
	rest := body
	for {
		start := strings.Index(rest, initPostMarker)
		if start < 0 {
			break
		}
		rest = rest[start+len(initPostMarker):]

		end := strings.Index(rest, initPostTerminator)
		if end < 0 {
			break
		}
		// Keep the terminator but drop its final brace, which closes the
		// wrapper object rather than the thread renderer itself.
		slice := rest[:end+len(initPostTerminator)-1]
		rest = rest[end+len(initPostTerminator):]

		var thread BackstagePostThreadRenderer
		if err := json.Unmarshal([]byte(slice), &thread); err != nil {
			log.DebugWithFields("skipping undecodable server-rendered post", map[string]interface{}{
				"channel": channel,
				"error":   err.Error(),
			})
			continue
		}
		posts = append(posts, thread.Post)
	}

	if len(posts) == 0 {
		log.DebugWithFields("no server-rendered posts found", map[string]interface{}{
			"channel": channel,
		})
	}
	return posts
}
