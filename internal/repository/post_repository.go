package repository

import (
	"context"
	"log/slog"
	"time"

	"discord-social-bot/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.ScheduledPost) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ScheduledPost, error)
	GetDuePosts(ctx context.Context, asOf time.Time) ([]*models.ScheduledPost, error)
	MarkPublished(ctx context.Context, id primitive.ObjectID, publishedAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, id primitive.ObjectID, errorMessage string) (bool, error)
	ListByRequester(ctx context.Context, discordID string) ([]*models.ScheduledPost, error)
	Cancel(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type postRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{col: db.Collection(ColScheduledPosts)}
}

func (r *postRepository) Create(ctx context.Context, post *models.ScheduledPost) (primitive.ObjectID, error) {
	if post.Status == "" {
		post.Status = models.PostStatusScheduled
	}
	if post.MaxAttempts == 0 {
		post.MaxAttempts = models.DefaultMaxAttempts
	}
	if post.MediaURLs == nil {
		post.MediaURLs = []string{}
	}

	result, err := r.col.InsertOne(ctx, post)
	if err != nil {
		slog.Info(err.Error())
		return primitive.NilObjectID, err
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *postRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ScheduledPost, error) {
	var post models.ScheduledPost
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &post, nil
}

// GetDuePosts returns every post that is still scheduled, became due at or
// before asOf and has attempts left, earliest-due first.
func (r *postRepository) GetDuePosts(ctx context.Context, asOf time.Time) ([]*models.ScheduledPost, error) {
	filter := bson.M{
		"status":         models.PostStatusScheduled,
		"scheduled_time": bson.M{"$lte": asOf},
		"$expr":          bson.M{"$lt": []string{"$attempts", "$max_attempts"}},
	}

	opts := options.Find().SetSort(bson.D{{Key: "scheduled_time", Value: 1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*models.ScheduledPost
	if err := cursor.All(ctx, &posts); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

// MarkPublished records a successful publish. The filter keeps it a no-op
// for posts that already left the scheduled state, so a repeated call
// neither errors nor bumps the attempt counter twice.
func (r *postRepository) MarkPublished(ctx context.Context, id primitive.ObjectID, publishedAt time.Time) (bool, error) {
	filter := bson.M{"_id": id, "status": models.PostStatusScheduled}
	update := bson.M{
		"$set": bson.M{
			"status":       models.PostStatusPublished,
			"published_at": publishedAt,
		},
		"$inc": bson.M{"attempts": 1},
	}

	result, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *postRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, errorMessage string) (bool, error) {
	filter := bson.M{"_id": id, "status": models.PostStatusScheduled}
	update := bson.M{
		"$set": bson.M{
			"status":        models.PostStatusFailed,
			"error_message": errorMessage,
		},
		"$inc": bson.M{"attempts": 1},
	}

	result, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *postRepository) ListByRequester(ctx context.Context, discordID string) ([]*models.ScheduledPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_time", Value: 1}})

	cursor, err := r.col.Find(ctx, bson.M{"requested_by_discord_id": discordID}, opts)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*models.ScheduledPost
	if err := cursor.All(ctx, &posts); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

// Cancel is a moderation action of the command layer, never of the
// scheduler. Only still-scheduled posts can be cancelled.
func (r *postRepository) Cancel(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": id, "status": models.PostStatusScheduled}
	update := bson.M{"$set": bson.M{"status": models.PostStatusCancelled}}

	result, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return result.ModifiedCount > 0, nil
}
