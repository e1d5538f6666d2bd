package main

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"
)

// publishAll runs the publish step for every candidate tweet in order. One
// tweet fully completes before the next begins; the first failure aborts
// the remaining items.
func (b *Bot) publishAll(tweets []*NormalizedTweet) error {
	for _, t := range tweets {
		if b.store.Contains(t.ID) {
			b.logger.Info("tweet already saved, skipping", zap.String("id", t.ID))
			continue
		}
		if err := b.publish(t); err != nil {
			return err
		}
	}
	return nil
}

// publish uploads the tweet's attachments, creates the memo and records the
// result in the state store.
func (b *Bot) publish(t *NormalizedTweet) error {
	resourceList := make([]string, 0, len(t.Media))
	for i, m := range t.Media {
		mediaURL := m.URL
		if m.VideoURL != "" {
			mediaURL = m.VideoURL
		}
		filename := fmt.Sprintf("%s_%d.%s", t.ID, i+1, extensionOf(mediaURL))

		data, err := b.download(mediaURL)
		if err != nil {
			return fmt.Errorf("downloading media of tweet %s: %w", t.ID, err)
		}
		resourceID, err := b.memos.UploadBlob(data, filename)
		if err != nil {
			return fmt.Errorf("uploading media of tweet %s: %w", t.ID, err)
		}
		resourceList = append(resourceList, resourceID)
		b.logger.Info("upload media success",
			zap.String("resource_id", resourceID),
			zap.String("media_url", mediaURL),
		)
	}

	memoID, err := b.memos.CreateMemo(buildMarkdown(t), resourceList)
	if err != nil {
		return fmt.Errorf("creating memo for tweet %s: %w", t.ID, err)
	}

	if err := b.store.Append(SavedRecord{ResourceList: resourceList, Tweet: *t}); err != nil {
		return fmt.Errorf("saving state for tweet %s: %w", t.ID, err)
	}
	b.logger.Info("new memos success", zap.String("memo_id", memoID))
	return nil
}

// buildMarkdown renders the memo body: normalized text, a rule, the tweet
// permalink, linked attribution, the local date and a trailing tag.
func buildMarkdown(t *NormalizedTweet) string {
	tweetURL := "https://twitter.com/" + t.ScreenName + "/status/" + t.ID
	userURL := "https://twitter.com/" + t.ScreenName
	return t.Text + "\n\n---\n" +
		tweetURL + "\n" +
		"[@" + t.UserName + "](" + userURL + ")\n" +
		t.Date + "\n\n#tweet"
}

func (b *Bot) download(mediaURL string) ([]byte, error) {
	resp, err := b.http.Get(mediaURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, mediaURL)
	}
	return io.ReadAll(resp.Body)
}

// extensionOf derives the file extension from the path of a media URL.
func extensionOf(mediaURL string) string {
	u, err := url.Parse(mediaURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(path.Ext(u.Path), ".")
}
