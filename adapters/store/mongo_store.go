package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sandipan3/hackoasis-backend/core"
	"github.com/Sandipan3/hackoasis-backend/ports"
)

const (
	identityCollection = "identities"
	operationTimeout   = 5 * time.Second
)

// identityDoc is the MongoDB representation of a core.Identity.
type identityDoc struct {
	ID        string    `bson:"_id"`
	Address   string    `bson:"address"`
	Nonce     string    `bson:"nonce"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d *identityDoc) toIdentity() *core.Identity {
	return &core.Identity{
		ID:        d.ID,
		Address:   core.Address(d.Address),
		Nonce:     d.Nonce,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoStore is a MongoDB implementation of the IdentityStore interface.
// Every mutation is a single-document operation; there is no cache in front,
// so concurrent logins always read the current nonce from storage.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a new Mongo-backed identity store.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		collection: client.Database(database).Collection(identityCollection),
	}
}

// EnsureIndexes creates the unique address index. Call once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "address", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create address index: %w", err)
	}
	return nil
}

// FindByAddress looks up the record for an address.
func (s *MongoStore) FindByAddress(ctx context.Context, address core.Address) (*core.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var doc identityDoc
	err := s.collection.FindOne(ctx, bson.M{"address": address.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to find identity: %w", core.ErrStoreOperationFailed)
	}

	return doc.toIdentity(), nil
}

// Create inserts a fresh record for an address never seen before.
func (s *MongoStore) Create(ctx context.Context, identity *core.Identity) (*core.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := identityDoc{
		ID:        identity.ID,
		Address:   identity.Address.String(),
		Nonce:     identity.Nonce,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, core.ErrIdentityExists
		}
		return nil, fmt.Errorf("failed to insert identity: %w", core.ErrStoreOperationFailed)
	}

	return doc.toIdentity(), nil
}

// RotateNonce swaps the nonce in a single compare-and-set update. The filter
// matches on the consumed nonce as well as the address, so of two logins
// racing on the same challenge exactly one rotation lands.
func (s *MongoStore) RotateNonce(ctx context.Context, address core.Address, current, next string) (*core.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	filter := bson.M{"address": address.String(), "nonce": current}
	update := bson.M{"$set": bson.M{"nonce": next, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc identityDoc
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.ErrNonceConsumed
		}
		return nil, fmt.Errorf("failed to rotate nonce: %w", core.ErrStoreOperationFailed)
	}

	return doc.toIdentity(), nil
}

var _ ports.IdentityStore = (*MongoStore)(nil)
