package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/dghubble/go-twitter/twitter"
	"go.uber.org/zap"
)

var statusIDPattern = regexp.MustCompile(`^\d+$`)

const triggerSuffix = " memo"

// collectCandidates gathers the tweet ids to publish: mention targets first,
// then ids linked from direct messages. Ids seen in both sources are kept
// once, in first-seen order.
func (b *Bot) collectCandidates() ([]int64, error) {
	mentions, err := b.mentionCandidates()
	if err != nil {
		return nil, err
	}
	dms, err := b.dmCandidates()
	if err != nil {
		return nil, err
	}

	seen := mapset.NewSet()
	var ids []int64
	for _, id := range append(mentions, dms...) {
		if seen.Add(id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// mentionCandidates scans the recent mentions timeline for replies whose
// text ends with "@<bot> memo" and resolves each to the tweet being replied
// to. Mentions without a reply target are skipped.
func (b *Bot) mentionCandidates() ([]int64, error) {
	mentions, _, err := b.client.Timelines.MentionTimeline(&twitter.MentionTimelineParams{
		TrimUser:  twitter.Bool(true),
		TweetMode: "extended",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching mention timeline: %w", err)
	}

	suffix := "@" + b.self.ScreenName + triggerSuffix
	var ids []int64
	for i := range mentions {
		m := &mentions[i]
		if !strings.HasSuffix(strings.TrimSpace(tweetText(m)), suffix) {
			continue
		}
		if m.InReplyToStatusID == 0 {
			b.logger.Warn("mention has no reply target, skipping",
				zap.String("mention_id", m.IDStr),
			)
			continue
		}
		ids = append(ids, m.InReplyToStatusID)
	}
	return ids, nil
}

// dmCandidates walks the direct message event history one page at a time
// and extracts tweet ids from the first URL of each incoming message.
func (b *Bot) dmCandidates() ([]int64, error) {
	var ids []int64
	pager := newDMEventPager(b.client)
	for {
		events, err := pager.next()
		if err != nil {
			return nil, fmt.Errorf("fetching direct message events: %w", err)
		}
		if len(events) == 0 {
			return ids, nil
		}
		for i := range events {
			if id, ok := b.tweetIDFromDM(&events[i]); ok {
				ids = append(ids, id)
			}
		}
	}
}

// tweetIDFromDM extracts a tweet id from one direct message event. Only
// incoming message_create events whose first URL ends with an all-digit
// path segment qualify.
func (b *Bot) tweetIDFromDM(e *twitter.DirectMessageEvent) (int64, bool) {
	if e.Type != "message_create" || e.Message == nil {
		return 0, false
	}
	if e.Message.SenderID == b.self.IDStr {
		return 0, false
	}
	data := e.Message.Data
	if data == nil || data.Entities == nil || len(data.Entities.Urls) == 0 {
		return 0, false
	}

	segment := lastPathSegment(data.Entities.Urls[0].ExpandedURL)
	if !statusIDPattern.MatchString(segment) {
		return 0, false
	}
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func lastPathSegment(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// dmEventPager walks the paginated direct message event history
// front-to-back, one network fetch per next call. The sequence is finite:
// next returns nil events once the cursor is exhausted.
type dmEventPager struct {
	client *twitter.Client
	cursor string
	done   bool
}

func newDMEventPager(client *twitter.Client) *dmEventPager {
	return &dmEventPager{client: client}
}

func (p *dmEventPager) next() ([]twitter.DirectMessageEvent, error) {
	if p.done {
		return nil, nil
	}
	page, _, err := p.client.DirectMessages.EventsList(&twitter.DirectMessageEventsListParams{
		Cursor: p.cursor,
	})
	if err != nil {
		return nil, err
	}
	p.cursor = page.NextCursor
	if p.cursor == "" {
		p.done = true
	}
	// An empty page still ends the walk even if a cursor came back.
	if len(page.Events) == 0 {
		p.done = true
	}
	return page.Events, nil
}
