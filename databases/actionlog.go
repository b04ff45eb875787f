package databases

// go generate: mockery --name ActionLogDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cropwatch-lk/cropwatch-api/models"
)

const actionLogName = "officerActionLogs"

// ActionLogDatabase contains the methods to use with the officer action log
// collection. The log is append-only; there is deliberately no update or
// delete method.
type ActionLogDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.OfficerActionLog, error)
	InsertOne(ctx context.Context, entry models.OfficerActionLog) (interface{}, error)
}

type actionLogDatabase struct {
	db DatabaseHelper
}

// NewActionLogDatabase initializes a new instance of action log database with the provided db connection
func NewActionLogDatabase(db DatabaseHelper) ActionLogDatabase {
	return &actionLogDatabase{
		db: db,
	}
}

func (c *actionLogDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.OfficerActionLog, error) {
	cursor, err := c.db.Collection(actionLogName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var entries []models.OfficerActionLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *actionLogDatabase) InsertOne(ctx context.Context, entry models.OfficerActionLog) (interface{}, error) {
	return c.db.Collection(actionLogName).InsertOne(ctx, entry)
}
