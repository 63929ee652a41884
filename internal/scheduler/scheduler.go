package scheduler

import (
	"context"
	"log"
	"log/slog"
	"sync"
	"time"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/transfer"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStore is the slice of the post repository the scheduler drives.
type PostStore interface {
	GetDuePosts(ctx context.Context, asOf time.Time) ([]*models.ScheduledPost, error)
	MarkPublished(ctx context.Context, id primitive.ObjectID, publishedAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, id primitive.ObjectID, errorMessage string) (bool, error)
}

// CredentialSource resolves the decrypted token bundle for an account.
// (nil, nil) means the account is unknown, inactive or holds no tokens.
type CredentialSource interface {
	GetTokens(ctx context.Context, accountID string) (*transfer.TokenBundle, error)
}

type PublishedPostStore interface {
	Create(ctx context.Context, post *models.PublishedPost) (primitive.ObjectID, error)
}

type ActivityRecorder interface {
	Log(ctx context.Context, entry *models.ActivityLog) error
}

// PublishRouter dispatches one post to its platform client.
type PublishRouter interface {
	Publish(ctx context.Context, platform models.Platform, creds *transfer.TokenBundle, content string, mediaURLs []string) (string, error)
}

// Pinger is the store health probe run before each cycle.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scheduler polls for due posts on a fixed interval and publishes them one
// at a time, oldest due first. A single instance owns the scheduled_posts
// collection; there is no competing consumer.
type Scheduler struct {
	interval  time.Duration
	posts     PostStore
	creds     CredentialSource
	published PublishedPostStore
	activity  ActivityRecorder
	router    PublishRouter
	pinger    Pinger

	quit chan struct{}
	wg   sync.WaitGroup
	idle bool
}

func New(interval time.Duration, posts PostStore, creds CredentialSource, published PublishedPostStore, activity ActivityRecorder, router PublishRouter, pinger Pinger) *Scheduler {
	return &Scheduler{
		interval:  interval,
		posts:     posts,
		creds:     creds,
		published: published,
		activity:  activity,
		router:    router,
		pinger:    pinger,
		quit:      make(chan struct{}),
	}
}

// Start runs the polling loop until Stop is called. The in-flight cycle
// always finishes before Stop returns.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		log.Printf("scheduler started, polling every %s", s.interval)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunCycle(ctx)
			case <-s.quit:
				log.Println("scheduler stopping")
				return
			case <-ctx.Done():
				log.Println("scheduler context cancelled")
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}

// RunCycle executes one poll: health check, fetch due posts, dispatch them
// sequentially. A failing health check or fetch skips the whole cycle; the
// next tick retries.
func (s *Scheduler) RunCycle(ctx context.Context) {
	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			slog.Info(err.Error())
			return
		}
	}

	now := time.Now().UTC()
	due, err := s.posts.GetDuePosts(ctx, now)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	if len(due) == 0 {
		if !s.idle {
			log.Println("no due posts, scheduler idle")
			s.idle = true
		}
		return
	}
	s.idle = false

	log.Printf("processing %d due post(s)", len(due))
	for _, post := range due {
		s.processPost(ctx, post)
	}
}

// processPost publishes one post and settles its final state. A failure of
// one post never stops the rest of the batch.
func (s *Scheduler) processPost(ctx context.Context, post *models.ScheduledPost) {
	creds, err := s.creds.GetTokens(ctx, post.SocialAccountID)
	if err != nil {
		s.fail(ctx, post, "credentials unavailable: "+err.Error())
		return
	}
	if creds == nil {
		s.fail(ctx, post, "no credentials for account")
		return
	}

	platformPostID, err := s.router.Publish(ctx, post.Platform, creds, post.Content, post.MediaURLs)
	if err != nil {
		s.fail(ctx, post, err.Error())
		return
	}

	publishedAt := time.Now().UTC()
	marked, err := s.posts.MarkPublished(ctx, post.ID, publishedAt)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if !marked {
		// Already settled elsewhere; the external post exists either way.
		return
	}

	if s.published != nil {
		record := &models.PublishedPost{
			SocialAccountID: post.SocialAccountID,
			RequestedBy:     post.RequestedBy,
			Platform:        post.Platform,
			Content:         post.Content,
			MediaURLs:       post.MediaURLs,
			PlatformPostID:  platformPostID,
			PublishedAt:     publishedAt,
		}
		if _, err := s.published.Create(ctx, record); err != nil {
			slog.Info(err.Error())
		}
	}

	s.record(ctx, post, models.ActionPostPublished, bson.M{
		"post_id":          post.ID.Hex(),
		"platform_post_id": platformPostID,
	})
	log.Printf("published post %s to %s as %s", post.ID.Hex(), post.Platform, platformPostID)
}

func (s *Scheduler) fail(ctx context.Context, post *models.ScheduledPost, reason string) {
	marked, err := s.posts.MarkFailed(ctx, post.ID, reason)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if !marked {
		return
	}

	s.record(ctx, post, models.ActionPostFailed, bson.M{
		"post_id": post.ID.Hex(),
		"error":   reason,
	})
	log.Printf("post %s failed: %s", post.ID.Hex(), reason)
}

func (s *Scheduler) record(ctx context.Context, post *models.ScheduledPost, action string, details bson.M) {
	if s.activity == nil {
		return
	}

	entry := &models.ActivityLog{
		DiscordID:       post.RequestedBy,
		Action:          action,
		SocialAccountID: post.SocialAccountID,
		Platform:        post.Platform,
		Details:         details,
	}
	if err := s.activity.Log(ctx, entry); err != nil {
		slog.Info(err.Error())
	}
}
