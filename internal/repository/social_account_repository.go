package repository

import (
	"context"
	"log/slog"
	"time"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/transfer"
	"discord-social-bot/pkg/vault"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SocialAccountRepository interface {
	Create(ctx context.Context, sa *models.SocialMediaAccount) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SocialMediaAccount, error)
	ListActive(ctx context.Context) ([]*models.SocialMediaAccount, error)
	ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialMediaAccount, error)
	GetTokens(ctx context.Context, accountID string) (*transfer.TokenBundle, error)
	SetTokens(ctx context.Context, id primitive.ObjectID, tokens models.PlatformTokens) error
	Deactivate(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type socialAccountRepository struct {
	col   *mongo.Collection
	vault *vault.Vault
}

func NewSocialAccountRepository(db *mongo.Database, v *vault.Vault) SocialAccountRepository {
	return &socialAccountRepository{col: db.Collection(ColSocialAccounts), vault: v}
}

func (r *socialAccountRepository) Create(ctx context.Context, sa *models.SocialMediaAccount) (primitive.ObjectID, error) {
	if sa.ConnectedAt.IsZero() {
		sa.ConnectedAt = time.Now().UTC()
	}
	sa.IsActive = true

	result, err := r.col.InsertOne(ctx, sa)
	if err != nil {
		slog.Info(err.Error())
		return primitive.NilObjectID, err
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *socialAccountRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SocialMediaAccount, error) {
	var sa models.SocialMediaAccount
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&sa)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &sa, nil
}

func (r *socialAccountRepository) ListActive(ctx context.Context) ([]*models.SocialMediaAccount, error) {
	opts := options.Find().SetSort(bson.D{{Key: "connected_at", Value: 1}})

	cursor, err := r.col.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []*models.SocialMediaAccount
	if err := cursor.All(ctx, &accounts); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return accounts, nil
}

func (r *socialAccountRepository) ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialMediaAccount, error) {
	filter := bson.M{
		"is_active": true,
		"$or": []bson.M{
			{"tokens.expires_at": bson.M{"$gte": initialTime, "$lte": finalTime}},
			{"tokens.expires_at": bson.M{"$lt": initialTime}},
		},
	}

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []*models.SocialMediaAccount
	if err := cursor.All(ctx, &accounts); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return accounts, nil
}

// GetTokens resolves and decrypts the credential bundle for an account.
// Inactive or unknown accounts come back as (nil, nil); a decrypt failure
// means the stored credentials are unusable and is returned as an error.
func (r *socialAccountRepository) GetTokens(ctx context.Context, accountID string) (*transfer.TokenBundle, error) {
	id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return nil, nil
	}

	var sa models.SocialMediaAccount
	err = r.col.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&sa)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return decryptBundle(r.vault, &sa)
}

func decryptBundle(v *vault.Vault, sa *models.SocialMediaAccount) (*transfer.TokenBundle, error) {
	if sa.Tokens.AccessToken == "" {
		return nil, nil
	}

	accessToken, err := v.Decrypt(sa.Tokens.AccessToken)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	bundle := &transfer.TokenBundle{
		AccessToken: accessToken,
		ExpiresAt:   sa.Tokens.ExpiresAt,
	}

	if sa.Tokens.RefreshToken != "" {
		refreshToken, err := v.Decrypt(sa.Tokens.RefreshToken)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		bundle.RefreshToken = &refreshToken
	}

	return bundle, nil
}

func (r *socialAccountRepository) SetTokens(ctx context.Context, id primitive.ObjectID, tokens models.PlatformTokens) error {
	update := bson.M{
		"$set": bson.M{
			"tokens":       tokens,
			"last_refresh": time.Now().UTC(),
		},
	}

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate keeps the document around; disconnects are soft.
func (r *socialAccountRepository) Deactivate(ctx context.Context, id primitive.ObjectID) (bool, error) {
	update := bson.M{"$set": bson.M{"is_active": false}}

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return result.ModifiedCount > 0, nil
}
