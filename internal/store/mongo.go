package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// MongoStore persists users as documents, favorites embedded as an array.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
}

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Favorites    []int64            `bson:"favorites"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d userDocument) user() User {
	favorites := d.Favorites
	if favorites == nil {
		favorites = []int64{}
	}
	return User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Favorites:    favorites,
		CreatedAt:    d.CreatedAt,
	}
}

// OpenMongo connects to uri, pings the primary and ensures indexes.
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := NewMongoStore(client, client.Database(dbName))
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStore wraps an already connected client. client may be nil when the
// caller owns its lifecycle.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *MongoStore {
	return &MongoStore{
		client: client,
		users:  db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the unique username index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

// CreateUser inserts a user document.
func (s *MongoStore) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	doc := userDocument{
		ID:           primitive.NewObjectID(),
		Username:     username,
		PasswordHash: passwordHash,
		Favorites:    []int64{},
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return doc.user(), nil
}

// UserByUsername finds a user by its unique name.
func (s *MongoStore) UserByUsername(ctx context.Context, username string) (User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

// UserByID finds a user by its ObjectID hex string.
func (s *MongoStore) UserByID(ctx context.Context, id string) (User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return User{}, ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// AddFavorite pushes movieID only when it is not yet present, in a single
// conditional update.
func (s *MongoStore) AddFavorite(ctx context.Context, userID string, movieID int64) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid, "favorites": bson.M{"$ne": movieID}},
		bson.M{"$push": bson.M{"favorites": movieID}},
	)
	if err != nil {
		return fmt.Errorf("update favorites: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	count, err := s.users.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("count user: %w", err)
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return ErrFavoriteExists
}

// Close disconnects the client if the store owns one.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.user(), nil
}
