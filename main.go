package main

import (
	"context"
	"net/http"
	"time"

	"MemoBot/config"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Bot holds everything one sync run needs. There is no shared mutable
// module state; main builds one Bot and runs it to completion.
type Bot struct {
	client *twitter.Client
	memos  *MemosClient
	store  *Store
	http   *http.Client
	logger *zap.Logger

	// self is the authenticated account, set by run before anything else.
	self *twitter.User
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	c, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config from environment", zap.Error(err))
	}

	if c.SentryDsn != "" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn: c.SentryDsn,
		})
		if err != nil {
			logger.Fatal("failed to initialize sentry client",
				zap.Error(err),
				zap.String("dsn", c.SentryDsn),
			)
		}
		defer sentry.Flush(2 * time.Second)
	}

	httpClient := newHTTPClient(c)
	bot := &Bot{
		client: initTwitterClient(c, httpClient),
		memos:  NewMemosClient(c.Memos.Host, c.Memos.OpenID, httpClient),
		http:   httpClient,
		logger: logger,
	}

	// The run error is reported but the exit status stays zero so a
	// scheduler keeps invoking the job on its normal cadence.
	if err := bot.run(c.DBFile); err != nil {
		sentry.CaptureException(err)
		logger.Error("sync run failed", zap.Error(err))
	}
}

// run executes one full sync pass: load state, resolve candidates,
// normalize and publish.
func (b *Bot) run(dbFile string) error {
	store, err := LoadStore(dbFile)
	if err != nil {
		return err
	}
	b.store = store

	user, _, err := b.client.Accounts.VerifyCredentials(nil)
	if err != nil {
		return err
	}
	b.self = user
	b.logger.Info("bot info",
		zap.String("name", user.Name),
		zap.String("screen_name", user.ScreenName),
	)

	ids, err := b.collectCandidates()
	if err != nil {
		return err
	}
	b.logger.Info("collected candidate tweets", zap.Int64s("ids", ids))

	tweets := make([]*NormalizedTweet, 0, len(ids))
	for _, id := range ids {
		tweet, err := b.getTweet(id)
		if err != nil {
			return err
		}
		tweets = append(tweets, tweet)
	}

	return b.publishAll(tweets)
}

// newHTTPClient builds the client used for media downloads and Memos calls,
// honoring the configured outbound proxy.
func newHTTPClient(c *config.Config) *http.Client {
	if c.ProxyURL == nil {
		return &http.Client{}
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyURL(c.ProxyURL),
		},
	}
}

// initTwitterClient initializes twitter client from specified config. The
// oauth1 transport signs every request on top of the shared base client.
func initTwitterClient(c *config.Config, base *http.Client) *twitter.Client {
	oauthConfig := oauth1.NewConfig(c.Twitter.ConsumerKey, c.Twitter.ConsumerSecret)
	token := oauth1.NewToken(c.Twitter.AccessToken, c.Twitter.AccessTokenSecret)
	ctx := context.WithValue(oauth1.NoContext, oauth1.HTTPClient, base)

	return twitter.NewClient(oauthConfig.Client(ctx, token))
}
