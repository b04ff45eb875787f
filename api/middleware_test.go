package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/cropwatch-lk/cropwatch-api/api"
	mocksdb "github.com/cropwatch-lk/cropwatch-api/databases/mocks"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

func testOfficer(t *testing.T, password string) *models.Officer {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &models.Officer{
		ID:       primitive.NewObjectID(),
		Name:     "W.M. Bandara",
		Email:    "bandara@doa.gov.lk",
		Password: string(hash),
		District: "Anuradhapura",
		Active:   true,
	}
}

func TestCreateTokenRejectsWrongPassword(t *testing.T) {
	db := &mocksdb.OfficerDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).
		Return(testOfficer(t, "correct-horse"), nil)

	m := api.MiddlewareDB{DB: db, Secret: "test-secret"}
	m.SetupGoGuardian()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil)
	req.SetBasicAuth("bandara@doa.gov.lk", "wrong-password")
	rr := httptest.NewRecorder()

	api.Middleware(http.HandlerFunc(m.CreateToken)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotContains(t, rr.Body.String(), "token")
}

func TestCreateTokenIssuesTokenForValidCredentials(t *testing.T) {
	officer := testOfficer(t, "correct-horse")
	db := &mocksdb.OfficerDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).
		Return(officer, nil)

	m := api.MiddlewareDB{DB: db, Secret: "test-secret"}
	m.SetupGoGuardian()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil)
	req.SetBasicAuth("bandara@doa.gov.lk", "correct-horse")
	rr := httptest.NewRecorder()

	api.Middleware(http.HandlerFunc(m.CreateToken)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, officer.ID.Hex(), body["_id"])
}
