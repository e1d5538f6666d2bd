package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText_Hashtags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"no tags here", "no tags here"},
		{"#foo", "*foo*"},
		{"look at #golang and #testing", "look at *golang* and *testing*"},
		{"trailing #tag", "trailing *tag*"},
		{"double##x stays odd", "double#*x* stays odd"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := normalizeText(tt.in, nil, nil)
			assert.Equal(t, tt.want, got)
			if tt.in != tt.want {
				assert.NotContains(t, got, "#foo")
			}
		})
	}
}

func TestNormalizeText_ExpandsURLs(t *testing.T) {
	urls := []twitter.URLEntity{
		{URL: "https://t.co/abc", ExpandedURL: "https://example.com/article"},
		{URL: "https://t.co/def", ExpandedURL: "https://example.org/page"},
	}
	got := normalizeText("see https://t.co/abc and https://t.co/def", urls, nil)
	assert.Equal(t, "see https://example.com/article and https://example.org/page", got)
	assert.NotContains(t, got, "t.co")
}

func TestNormalizeText_StripsMediaLinks(t *testing.T) {
	media := []twitter.MediaEntity{{URLEntity: twitter.URLEntity{URL: "https://t.co/pic"}}}
	got := normalizeText("a photo https://t.co/pic", nil, media)
	assert.Equal(t, "a photo", got)
}

func TestNormalizeText_Order(t *testing.T) {
	// The media short link must be stripped after URL expansion and the
	// result trimmed.
	urls := []twitter.URLEntity{{URL: "https://t.co/l", ExpandedURL: "https://example.com"}}
	media := []twitter.MediaEntity{{URLEntity: twitter.URLEntity{URL: "https://t.co/m"}}}
	got := normalizeText("  #news https://t.co/l https://t.co/m  ", urls, media)
	assert.Equal(t, "*news* https://example.com", got)
}

func TestMediaItems_PhotoAndVideo(t *testing.T) {
	media := []twitter.MediaEntity{
		{
			MediaURLHttps: "https://pbs.twimg.com/media/a.jpg",
			Type:          "photo",
			Sizes: twitter.MediaSizes{
				Large: twitter.MediaSize{Width: 1200, Height: 800},
			},
		},
		{
			MediaURLHttps: "https://pbs.twimg.com/media/b.jpg",
			Type:          "video",
			Sizes: twitter.MediaSizes{
				Large: twitter.MediaSize{Width: 1280, Height: 720},
			},
			VideoInfo: twitter.VideoInfo{
				Variants: []twitter.VideoVariant{
					{ContentType: "application/x-mpegURL", URL: "https://video.twimg.com/pl.m3u8"},
					{ContentType: "video/mp4", Bitrate: 832000, URL: "https://video.twimg.com/a.mp4"},
					{ContentType: "video/mp4", Bitrate: 2176000, URL: "https://video.twimg.com/b.mp4"},
				},
			},
		},
	}

	items := mediaItems(media)
	require.Len(t, items, 2)

	assert.Equal(t, "https://pbs.twimg.com/media/a.jpg", items[0].URL)
	assert.Empty(t, items[0].VideoURL)
	assert.Equal(t, "photo", items[0].Type)
	assert.Equal(t, 1200, items[0].Width)
	assert.Equal(t, 800, items[0].Height)

	// First mp4 variant wins.
	assert.Equal(t, "https://video.twimg.com/a.mp4", items[1].VideoURL)
	assert.Equal(t, "video", items[1].Type)
}

func TestMediaItems_Empty(t *testing.T) {
	assert.Nil(t, mediaItems(nil))
}

func TestGetTweet(t *testing.T) {
	const createdAt = "Mon Sep 24 03:35:21 +0000 2018"
	mux := http.NewServeMux()
	mux.HandleFunc("/1.1/statuses/show.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "987", r.URL.Query().Get("id"))
		assert.Equal(t, "true", r.URL.Query().Get("include_entities"))
		assert.Equal(t, "extended", r.URL.Query().Get("tweet_mode"))
		w.Write([]byte(`{
			"id": 987,
			"id_str": "987",
			"full_text": "read https://t.co/x #go https://t.co/m",
			"created_at": "` + createdAt + `",
			"user": {"name": "Alice", "screen_name": "alice"},
			"entities": {"urls": [{"url": "https://t.co/x", "expanded_url": "https://example.com/post"}]},
			"extended_entities": {"media": [{
				"url": "https://t.co/m",
				"media_url_https": "https://pbs.twimg.com/media/x.png",
				"type": "photo",
				"sizes": {"large": {"w": 640, "h": 480, "resize": "fit"}}
			}]}
		}`))
	})

	b, _ := newTestBot(t, mux)
	tweet, err := b.getTweet(987)
	require.NoError(t, err)

	created, err := time.Parse(time.RubyDate, createdAt)
	require.NoError(t, err)

	assert.Equal(t, "987", tweet.ID)
	assert.Equal(t, "read https://example.com/post *go*", tweet.Text)
	assert.Equal(t, "Alice", tweet.UserName)
	assert.Equal(t, "alice", tweet.ScreenName)
	assert.Equal(t, created.Local().Format(dateLayout), tweet.Date)
	require.Len(t, tweet.Media, 1)
	assert.Equal(t, "https://pbs.twimg.com/media/x.png", tweet.Media[0].URL)
	assert.Equal(t, 640, tweet.Media[0].Width)
}

func TestGetTweet_FetchFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/1.1/statuses/show.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		w.Write([]byte(`{"errors":[{"code":144,"message":"No status found with that ID."}]}`))
	})

	b, _ := newTestBot(t, mux)
	_, err := b.getTweet(1)
	assert.Error(t, err)
}
