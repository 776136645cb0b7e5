package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"advisor/internal/core"
)

// mongoStore implements core.Store on MongoDB
type mongoStore struct {
	client    *mongo.Client
	history   *mongo.Collection
	favorites *mongo.Collection
}

// searchDoc is the search_history document shape
type searchDoc struct {
	ID              string                `bson:"_id"`
	Query           string                `bson:"query"`
	CreatedAt       time.Time             `bson:"created_at"`
	Recommendations []core.Recommendation `bson:"recommendations,omitempty"`
}

// favoriteDoc is the favorites document shape
type favoriteDoc struct {
	ProductID string    `bson:"_id"`
	AddedAt   time.Time `bson:"added_at"`
}

// NewMongoDB creates a MongoDB-backed store.
func NewMongoDB(ctx context.Context, cfg MongoDBConfig) (core.Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("MongoDB URL is required")
	}

	dbName := cfg.Database
	if dbName == "" {
		dbName = "advisor"
	}

	clientOpts := options.Client().ApplyURI(cfg.URL)

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)

	return &mongoStore{
		client:    client,
		history:   db.Collection("search_history"),
		favorites: db.Collection("favorites"),
	}, nil
}

func (s *mongoStore) SaveSearch(ctx context.Context, rec core.SearchRecord) error {
	doc := searchDoc{
		ID:              rec.ID,
		Query:           rec.Query,
		CreatedAt:       rec.Timestamp.UTC(),
		Recommendations: rec.Recommendations,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.history.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("failed to insert search record: %w", err)
	}

	// Keep only the newest entries: collect ids beyond the limit and remove them
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(HistoryLimit)).
		SetProjection(bson.M{"_id": 1})
	cur, err := s.history.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return fmt.Errorf("failed to find stale history: %w", err)
	}

	var stale []searchDoc
	if err := cur.All(ctx, &stale); err != nil {
		return fmt.Errorf("failed to decode stale history: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	ids := make([]string, len(stale))
	for i, d := range stale {
		ids[i] = d.ID
	}
	if _, err := s.history.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("failed to trim search history: %w", err)
	}
	return nil
}

func (s *mongoStore) SearchHistory(ctx context.Context) ([]core.SearchRecord, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(HistoryLimit))
	cur, err := s.history.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}

	var docs []searchDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode search history: %w", err)
	}

	records := make([]core.SearchRecord, len(docs))
	for i, d := range docs {
		records[i] = core.SearchRecord{
			ID:              d.ID,
			Query:           d.Query,
			Timestamp:       d.CreatedAt,
			Recommendations: d.Recommendations,
		}
	}
	return records, nil
}

func (s *mongoStore) ClearSearchHistory(ctx context.Context) error {
	if _, err := s.history.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}

func (s *mongoStore) AddFavorite(ctx context.Context, productID string) error {
	doc := favoriteDoc{ProductID: productID, AddedAt: time.Now().UTC()}
	_, err := s.favorites.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *mongoStore) RemoveFavorite(ctx context.Context, productID string) error {
	if _, err := s.favorites.DeleteOne(ctx, bson.M{"_id": productID}); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *mongoStore) Favorites(ctx context.Context) ([]string, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}})
	cur, err := s.favorites.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}

	var docs []favoriteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ProductID
	}
	return ids, nil
}

func (s *mongoStore) IsFavorite(ctx context.Context, productID string) (bool, error) {
	n, err := s.favorites.CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return n > 0, nil
}

func (s *mongoStore) Close() error {
	if s.client != nil {
		return s.client.Disconnect(context.Background())
	}
	return nil
}
