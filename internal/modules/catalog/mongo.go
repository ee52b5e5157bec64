package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})

type mongoProducts struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProducts{collection: db.Collection("products")}
}

func (m *mongoProducts) List(ctx context.Context) ([]*Product, error) {
	cursor, err := m.collection.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, mongoError("failed to list products", err)
	}
	products := []*Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, mongoError("failed to decode products", err)
	}
	for _, p := range products {
		p.normalize()
	}
	return products, nil
}

func (m *mongoProducts) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, mongoError("failed to get product", err)
	}
	p.normalize()
	return &p, nil
}

func (m *mongoProducts) GetByIDs(ctx context.Context, ids []string) ([]*Product, error) {
	products := []*Product{}
	if len(ids) == 0 {
		return products, nil
	}
	cursor, err := m.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mongoError("failed to get products", err)
	}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, mongoError("failed to decode products", err)
	}
	for _, p := range products {
		p.normalize()
	}
	return products, nil
}

func (m *mongoProducts) Create(ctx context.Context, p *Product) error {
	if _, err := m.collection.InsertOne(ctx, p); err != nil {
		return mongoError("failed to create product", err)
	}
	return nil
}

func (m *mongoProducts) CreateMany(ctx context.Context, ps []*Product) error {
	if len(ps) == 0 {
		return nil
	}
	docs := make([]interface{}, len(ps))
	for i, p := range ps {
		docs[i] = p
	}
	if _, err := m.collection.InsertMany(ctx, docs); err != nil {
		return mongoError("failed to create products", err)
	}
	return nil
}

func (m *mongoProducts) Update(ctx context.Context, p *Product) error {
	result, err := m.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return mongoError("failed to update product", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *mongoProducts) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError("failed to delete product", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *mongoProducts) DeleteAll(ctx context.Context) error {
	if _, err := m.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return mongoError("failed to clear products", err)
	}
	return nil
}

func (m *mongoProducts) Count(ctx context.Context) (int64, error) {
	n, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mongoError("failed to count products", err)
	}
	return n, nil
}

type mongoCombos struct {
	collection *mongo.Collection
}

func NewMongoComboRepository(db *mongo.Database) ComboRepository {
	return &mongoCombos{collection: db.Collection("combos")}
}

func (m *mongoCombos) List(ctx context.Context) ([]*Combo, error) {
	cursor, err := m.collection.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, mongoError("failed to list combos", err)
	}
	combos := []*Combo{}
	if err := cursor.All(ctx, &combos); err != nil {
		return nil, mongoError("failed to decode combos", err)
	}
	return combos, nil
}

func (m *mongoCombos) GetByID(ctx context.Context, id string) (*Combo, error) {
	var c Combo
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrComboNotFound
		}
		return nil, mongoError("failed to get combo", err)
	}
	return &c, nil
}

func (m *mongoCombos) Create(ctx context.Context, c *Combo) error {
	if _, err := m.collection.InsertOne(ctx, c); err != nil {
		return mongoError("failed to create combo", err)
	}
	return nil
}

func (m *mongoCombos) Update(ctx context.Context, c *Combo) error {
	result, err := m.collection.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return mongoError("failed to update combo", err)
	}
	if result.MatchedCount == 0 {
		return ErrComboNotFound
	}
	return nil
}

func (m *mongoCombos) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError("failed to delete combo", err)
	}
	if result.DeletedCount == 0 {
		return ErrComboNotFound
	}
	return nil
}

// EnsureMongoIndexes creates the listing indexes on both collections.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if err := createdAtIndex(ctx, db.Collection("products")); err != nil {
		return err
	}
	return createdAtIndex(ctx, db.Collection("combos"))
}

func createdAtIndex(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return mongoError("failed to create indexes", err)
	}
	return nil
}

// mongoError wraps err, classifying connectivity failures as unavailable.
func mongoError(msg string, err error) error {
	var selection topology.ServerSelectionError
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.As(err, &selection) ||
		errors.Is(err, mongo.ErrClientDisconnected) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", msg, httpx.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
