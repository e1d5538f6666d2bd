package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dghubble/go-twitter/twitter"
)

var hashtagPattern = regexp.MustCompile(`#([^\s#]+)`)

// NormalizedTweet is the immutable record a tweet is reduced to before
// publishing. JSON tags match the state file written by earlier versions.
type NormalizedTweet struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	UserName   string      `json:"user_name"`
	ScreenName string      `json:"user_screen_name"`
	Date       string      `json:"date"`
	Media      []MediaItem `json:"media,omitempty"`
}

// MediaItem describes one attachment of a tweet. VideoURL is only set when
// the attachment carries an mp4 variant (videos and animated gifs).
type MediaItem struct {
	URL      string `json:"url"`
	VideoURL string `json:"video_url,omitempty"`
	Type     string `json:"type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

const dateLayout = "2006-01-02 15:04:05"

// getTweet fetches one tweet with its entities and normalizes it.
func (b *Bot) getTweet(id int64) (*NormalizedTweet, error) {
	status, _, err := b.client.Statuses.Show(id, &twitter.StatusShowParams{
		IncludeEntities: twitter.Bool(true),
		TweetMode:       "extended",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching tweet %d: %w", id, err)
	}

	var urls []twitter.URLEntity
	if status.Entities != nil {
		urls = status.Entities.Urls
	}
	var media []twitter.MediaEntity
	if status.ExtendedEntities != nil {
		media = status.ExtendedEntities.Media
	}

	created, err := status.CreatedAtTime()
	if err != nil {
		return nil, fmt.Errorf("parsing created_at of tweet %d: %v", id, err)
	}

	return &NormalizedTweet{
		ID:         status.IDStr,
		Text:       normalizeText(tweetText(status), urls, media),
		UserName:   status.User.Name,
		ScreenName: status.User.ScreenName,
		Date:       created.Local().Format(dateLayout),
		Media:      mediaItems(media),
	}, nil
}

// tweetText returns the extended text when present, falling back to the
// truncated one.
func tweetText(t *twitter.Tweet) string {
	if t.FullText != "" {
		return t.FullText
	}
	return t.Text
}

// normalizeText rewrites the raw tweet text for the memo body: shortened
// URLs are expanded, media short links are dropped (attachments carry the
// media instead), and hashtags become emphasized words.
func normalizeText(text string, urls []twitter.URLEntity, media []twitter.MediaEntity) string {
	for _, u := range urls {
		text = strings.ReplaceAll(text, u.URL, u.ExpandedURL)
	}
	for _, m := range media {
		text = strings.ReplaceAll(text, m.URL, "")
	}
	text = hashtagPattern.ReplaceAllString(text, "*$1*")
	return strings.TrimSpace(text)
}

// mediaItems maps tweet attachments to media descriptors, picking the first
// video/mp4 variant and the large rendition's dimensions.
func mediaItems(media []twitter.MediaEntity) []MediaItem {
	if len(media) == 0 {
		return nil
	}
	items := make([]MediaItem, 0, len(media))
	for i := range media {
		m := &media[i]
		item := MediaItem{
			URL:    m.MediaURLHttps,
			Type:   m.Type,
			Width:  m.Sizes.Large.Width,
			Height: m.Sizes.Large.Height,
		}
		for _, v := range m.VideoInfo.Variants {
			if v.ContentType == "video/mp4" {
				item.VideoURL = v.URL
				break
			}
		}
		items = append(items, item)
	}
	return items
}
