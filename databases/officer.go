package databases

// go generate: mockery --name OfficerDatabase

import (
	"context"

	"github.com/cropwatch-lk/cropwatch-api/models"
)

const officerName = "officers"

// OfficerDatabase contains the read methods for officer accounts. Officer
// provisioning happens in the external auth service.
type OfficerDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Officer, error)
	Find(ctx context.Context, filter interface{}) ([]models.Officer, error)
}

type officerDatabase struct {
	db DatabaseHelper
}

// NewOfficerDatabase initializes a new instance of officer database with the provided db connection
func NewOfficerDatabase(db DatabaseHelper) OfficerDatabase {
	return &officerDatabase{
		db: db,
	}
}

func (c *officerDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Officer, error) {
	officer := &models.Officer{}
	err := c.db.Collection(officerName).FindOne(ctx, filter).Decode(&officer)
	if err != nil {
		return nil, err
	}
	return officer, nil
}

func (c *officerDatabase) Find(ctx context.Context, filter interface{}) ([]models.Officer, error) {
	cursor, err := c.db.Collection(officerName).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var officers []models.Officer
	if err := cursor.All(ctx, &officers); err != nil {
		return nil, err
	}
	return officers, nil
}
