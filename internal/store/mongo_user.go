package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// userDocument is the bson shape of a user in the "users" collection.
type userDocument struct {
	ID           bson.ObjectID   `bson:"_id,omitempty"`
	Username     string          `bson:"username"`
	Email        string          `bson:"email"`
	FullName     string          `bson:"fullName"`
	Avatar       string          `bson:"avatar"`
	CoverImage   string          `bson:"coverImage"`
	WatchHistory []bson.ObjectID `bson:"watchHistory"`
	PasswordHash string          `bson:"password"`
	RefreshToken string          `bson:"refreshToken,omitempty"`
	CreatedAt    time.Time       `bson:"createdAt"`
	UpdatedAt    time.Time       `bson:"updatedAt"`
}

func newUserDocument(user models.User, now time.Time) userDocument {
	return userDocument{
		ID:           bson.NewObjectID(),
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Avatar:       user.Avatar,
		CoverImage:   user.CoverImage,
		WatchHistory: []bson.ObjectID{},
		PasswordHash: user.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (d userDocument) toModel() models.User {
	history := make([]string, 0, len(d.WatchHistory))
	for _, id := range d.WatchHistory {
		history = append(history, id.Hex())
	}
	return models.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		FullName:     d.FullName,
		Avatar:       d.Avatar,
		CoverImage:   d.CoverImage,
		WatchHistory: history,
		PasswordHash: d.PasswordHash,
		RefreshToken: d.RefreshToken,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// mongoUserRepository is the MongoDB implementation of [UserRepository].
type mongoUserRepository struct {
	logger *logger.Logger
	db     *MongoDB
	users  *mongo.Collection
	now    func() time.Time
}

func NewMongoUserRepository(db *MongoDB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating mongo user repository")
	return &mongoUserRepository{
		logger: logger,
		db:     db,
		users:  db.collection(usersCollection),
		now:    time.Now,
	}
}

func (r *mongoUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	doc := newUserDocument(user, r.now().UTC())

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrUserAlreadyExists
		}
		logger.FromContext(ctx).Err(err).Str("func", "*mongoUserRepository.CreateUser").Bool("retryable", r.db.retryable(err)).Msg("error inserting user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return doc.toModel(), nil
}

func (r *mongoUserRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}
	return r.findOne(ctx, "*mongoUserRepository.FindUserByID", bson.D{{Key: "_id", Value: id}})
}

func (r *mongoUserRepository) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (models.User, error) {
	filter := usernameOrEmailFilter(username, email)
	if filter == nil {
		return models.User{}, ErrUserNotFound
	}
	return r.findOne(ctx, "*mongoUserRepository.FindUserByUsernameOrEmail", filter)
}

// usernameOrEmailFilter matches any of the non-empty identifiers, or returns
// nil when both are empty.
func usernameOrEmailFilter(username, email string) bson.D {
	var or bson.A
	if username != "" {
		or = append(or, bson.D{{Key: "username", Value: username}})
	}
	if email != "" {
		or = append(or, bson.D{{Key: "email", Value: email}})
	}
	if len(or) == 0 {
		return nil
	}
	return bson.D{{Key: "$or", Value: or}}
}

func (r *mongoUserRepository) findOne(ctx context.Context, funcName string, filter bson.D) (models.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", funcName).Bool("retryable", r.db.retryable(err)).Msg("error reading user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoUserRepository) SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}
	return r.updateOne(ctx, "*mongoUserRepository.SetRefreshToken", ErrUserNotFound,
		bson.D{{Key: "_id", Value: id}},
		r.set(bson.E{Key: "refreshToken", Value: refreshToken}))
}

func (r *mongoUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	update := bson.D{
		{Key: "$unset", Value: bson.D{{Key: "refreshToken", Value: ""}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: r.now().UTC()}}},
	}
	if _, err = r.users.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*mongoUserRepository.ClearRefreshToken").Msg("error clearing refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *mongoUserRepository) RotateRefreshToken(ctx context.Context, userID, current, next string) error {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrRefreshTokenMismatch
	}
	return r.updateOne(ctx, "*mongoUserRepository.RotateRefreshToken", ErrRefreshTokenMismatch,
		bson.D{{Key: "_id", Value: id}, {Key: "refreshToken", Value: current}},
		r.set(bson.E{Key: "refreshToken", Value: next}))
}

func (r *mongoUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}
	return r.updateOne(ctx, "*mongoUserRepository.UpdatePassword", ErrUserNotFound,
		bson.D{{Key: "_id", Value: id}},
		r.set(bson.E{Key: "password", Value: passwordHash}))
}

func (r *mongoUserRepository) UpdateAccountDetails(ctx context.Context, userID string, details models.AccountDetails) (models.User, error) {
	return r.findOneAndSet(ctx, "*mongoUserRepository.UpdateAccountDetails", userID,
		bson.E{Key: "fullName", Value: details.FullName},
		bson.E{Key: "email", Value: details.Email})
}

func (r *mongoUserRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) (models.User, error) {
	return r.findOneAndSet(ctx, "*mongoUserRepository.UpdateAvatar", userID, bson.E{Key: "avatar", Value: avatarURL})
}

func (r *mongoUserRepository) UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (models.User, error) {
	return r.findOneAndSet(ctx, "*mongoUserRepository.UpdateCoverImage", userID, bson.E{Key: "coverImage", Value: coverImageURL})
}

// set builds a $set document that also bumps updatedAt.
func (r *mongoUserRepository) set(fields ...bson.E) bson.D {
	doc := append(bson.D{}, fields...)
	doc = append(doc, bson.E{Key: "updatedAt", Value: r.now().UTC()})
	return bson.D{{Key: "$set", Value: doc}}
}

func (r *mongoUserRepository) updateOne(ctx context.Context, funcName string, noMatch error, filter, update bson.D) error {
	result, err := r.users.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		logger.FromContext(ctx).Err(err).Str("func", funcName).Bool("retryable", r.db.retryable(err)).Msg("error updating user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if result.MatchedCount == 0 {
		return noMatch
	}
	return nil
}

func (r *mongoUserRepository) findOneAndSet(ctx context.Context, funcName, userID string, fields ...bson.E) (models.User, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}

	var doc userDocument
	err = r.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		r.set(fields...),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.User{}, ErrUserNotFound
	case mongo.IsDuplicateKeyError(err):
		return models.User{}, ErrUserAlreadyExists
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("func", funcName).Bool("retryable", r.db.retryable(err)).Msg("error updating user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return doc.toModel(), nil
}
