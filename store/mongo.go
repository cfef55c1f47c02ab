// store/mongo.go
package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kindbites-api/models"
)

type cartDocument struct {
	SessionID string            `bson:"session_id"`
	Items     []models.LineItem `bson:"items"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// MongoStore keeps one cart document per session in a carts collection
// and appends confirmed orders to an orders collection.
type MongoStore struct {
	carts  *mongo.Collection
	orders *mongo.Collection
	log    logrus.FieldLogger
}

// NewMongoStore creates a MongoStore on the given database.
func NewMongoStore(client *mongo.Client, database string, log logrus.FieldLogger) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		carts:  db.Collection("carts"),
		orders: db.Collection("orders"),
		log:    log,
	}
}

// Load reads the session's cart. A missing document or one that no
// longer decodes yields an empty cart; the failure is logged and
// absorbed, never surfaced.
func (s *MongoStore) Load(ctx context.Context, sessionID string) []models.LineItem {
	var doc cartDocument
	err := s.carts.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&doc)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			s.log.WithError(err).WithField("session", sessionID).Warn("stored cart unreadable, starting empty")
		}
		return nil
	}
	return doc.Items
}

// Save writes the full cart for the session, creating the document on
// first use. Callers invoke it after every mutation so the stored state
// never lags the in-memory one.
func (s *MongoStore) Save(ctx context.Context, sessionID string, items []models.LineItem) error {
	doc := cartDocument{
		SessionID: sessionID,
		Items:     items,
		UpdatedAt: time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.carts.ReplaceOne(ctx, bson.M{"session_id": sessionID}, doc, opts)
	return err
}

// Record appends a confirmed order.
func (s *MongoStore) Record(ctx context.Context, order models.Order) error {
	_, err := s.orders.InsertOne(ctx, order)
	return err
}
