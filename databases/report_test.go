package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cropwatch-lk/cropwatch-api/config"
	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/databases/mocks"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

func TestNewReportDatabase(t *testing.T) {
	_ = os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	_ = os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	reportDB := databases.NewReportDatabase(db)

	assert.NotEmpty(t, reportDB)
}

func TestReportDatabase_FindOne(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	mockedID := primitive.NewObjectID()

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.DiseaseReport)
		(*arg).ID = mockedID
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "reports").Return(collectionHelper)

	// Create new database with mocked Database interface
	reportDba := databases.NewReportDatabase(dbHelper)

	// Call method with defined filter, that in our mocked function returns
	// mocked-error
	report, err := reportDba.FindOne(context.Background(), bson.M{"error": true})

	assert.Empty(t, report)
	assert.EqualError(t, err, "mocked-error")

	// Now call the same function with different filter for correct
	// result
	report, err = reportDba.FindOne(context.Background(), bson.M{"error": false})

	assert.Equal(t, &models.DiseaseReport{ID: mockedID}, report)
	assert.NoError(t, err)
}

func TestReportDatabase_Find(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var cursorHelperCorrect databases.CursorHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	cursorHelperCorrect = &mocks.CursorHelper{}

	mockedID := primitive.NewObjectID()

	cursorHelperCorrect.(*mocks.CursorHelper).
		On("All", context.Background(), mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.DiseaseReport)
		*arg = []models.DiseaseReport{{ID: mockedID}}
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"error": true}).
		Return(nil, errors.New("mocked-error"))

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"error": false}).
		Return(cursorHelperCorrect, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "reports").Return(collectionHelper)

	// Create new database with mocked Database interface
	reportDba := databases.NewReportDatabase(dbHelper)

	// Call method with defined filter, that in our mocked function returns
	// mocked-error
	reports, err := reportDba.Find(context.Background(), bson.M{"error": true})

	assert.Empty(t, reports)
	assert.EqualError(t, err, "mocked-error")

	// Now call the same function with different filter for correct
	// result
	reports, err = reportDba.Find(context.Background(), bson.M{"error": false})

	assert.Equal(t, []models.DiseaseReport{{ID: mockedID}}, reports)
	assert.NoError(t, err)
}

func TestAlertDatabase_FindOne(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperCorrect databases.SingleResultHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	mockedID := primitive.NewObjectID()

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.CommunityAlert)
		(*arg).ID = mockedID
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "communityAlerts").Return(collectionHelper)

	alertDba := databases.NewAlertDatabase(dbHelper)

	alert, err := alertDba.FindOne(context.Background(), bson.M{"error": false})

	assert.Equal(t, &models.CommunityAlert{ID: mockedID}, alert)
	assert.NoError(t, err)
}

func TestAlertDatabase_EnsureIndexes(t *testing.T) {

	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.
		On("CreateIndex", context.Background(), mock.MatchedBy(func(model mongo.IndexModel) bool {
			keys, ok := model.Keys.(bson.D)
			if !ok || len(keys) != 2 || keys[0].Key != "disease" || keys[1].Key != "gnDivision" {
				return false
			}
			if model.Options.Unique == nil || !*model.Options.Unique {
				return false
			}
			partial, ok := model.Options.PartialFilterExpression.(bson.M)
			return ok && partial["status"] != nil
		})).
		Return("live_alert_key", nil)

	dbHelper.On("Collection", "communityAlerts").Return(collectionHelper)

	alertDba := databases.NewAlertDatabase(dbHelper)

	err := alertDba.EnsureIndexes(context.Background())

	assert.NoError(t, err)
	collectionHelper.AssertNumberOfCalls(t, "CreateIndex", 1)
}
