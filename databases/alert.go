package databases

// go generate: mockery --name AlertDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cropwatch-lk/cropwatch-api/models"
)

const alertName = "communityAlerts"

// AlertDatabase contains the methods to use with the community alert collection.
//
// Upsert is backed by the unique partial index created by EnsureIndexes on
// {disease, gnDivision} filtered to status in {active, monitoring} so that two
// concurrent submissions can never create two live alerts for the same key.
type AlertDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.CommunityAlert, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CommunityAlert, error)
	Upsert(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	EnsureIndexes(ctx context.Context) error
}

type alertDatabase struct {
	db DatabaseHelper
}

// NewAlertDatabase initializes a new instance of alert database with the provided db connection
func NewAlertDatabase(db DatabaseHelper) AlertDatabase {
	return &alertDatabase{
		db: db,
	}
}

func (c *alertDatabase) FindOne(ctx context.Context, filter interface{}) (*models.CommunityAlert, error) {
	alert := &models.CommunityAlert{}
	err := c.db.Collection(alertName).FindOne(ctx, filter).Decode(&alert)
	if err != nil {
		return nil, err
	}
	return alert, nil
}

func (c *alertDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CommunityAlert, error) {
	cursor, err := c.db.Collection(alertName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var alerts []models.CommunityAlert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (c *alertDatabase) Upsert(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	opts := options.Update().SetUpsert(true)
	return c.db.Collection(alertName).UpdateOne(ctx, filter, update, opts)
}

func (c *alertDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(alertName).UpdateOne(ctx, filter, update, opts...)
}

// EnsureIndexes creates the unique partial index that makes the aggregator's
// conditional upsert atomic. One of two racing inserts for the same
// (disease, gnDivision) live-alert key loses with a duplicate key error.
func (c *alertDatabase) EnsureIndexes(ctx context.Context) error {
	_, err := c.db.Collection(alertName).CreateIndex(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "disease", Value: 1}, {Key: "gnDivision", Value: 1}},
		Options: options.Index().
			SetName("live_alert_key").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"status": bson.M{"$in": []string{string(models.AlertActive), string(models.AlertMonitoring)}},
			}),
	})
	return err
}
