package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

type contextKey string

const actorContextKey contextKey = "actor"

const tokenTTL = 12 * time.Hour

// MiddlewareDB is a struct that holds the officer database and signing secret
type MiddlewareDB struct {
	DB     databases.OfficerDatabase
	Secret string
}

var authenticator auth.Authenticator
var cache store.Cache

// Middleware adds officer authentication around accessing the routes and
// attaches the authenticated actor to the request context
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("Officer %s Authenticated\n", user.UserName())

		actor := models.Actor{
			OfficerID: user.ID(),
			Name:      user.UserName(),
		}
		if districts := user.Extensions()["district"]; len(districts) > 0 {
			actor.District = districts[0]
		}
		if names := user.Extensions()["name"]; len(names) > 0 {
			actor.Name = names[0]
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor attaches an actor to a context
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext returns the authenticated actor attached by Middleware
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(models.Actor)
	return actor, ok
}

type officerClaims struct {
	Name     string `json:"name"`
	District string `json:"district"`
	jwt.RegisteredClaims
}

// CreateToken returns a signed token for the authenticated officer
func (m MiddlewareDB) CreateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	email, _, ok := r.BasicAuth()
	if !ok {
		http.Error(w, "basic auth failed", http.StatusUnauthorized)
		return
	}

	officer, err := m.DB.FindOne(r.Context(), bson.M{"email": email, "active": true})
	if err != nil {
		http.Error(w, "failed to get officer by email", http.StatusUnauthorized)
		return
	}

	claims := officerClaims{
		Name:     officer.Name,
		District: officer.District,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   officer.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.Secret))
	if err != nil {
		http.Error(w, "failed to sign token", http.StatusInternalServerError)
		return
	}

	authUser := auth.NewDefaultUser(officer.Name, officer.ID.Hex(), nil, map[string][]string{
		"name":     {officer.Name},
		"district": {officer.District},
	})
	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Append(tokenStrategy, token, authUser, r)

	response := map[string]string{
		"token": token,
		"_id":   officer.ID.Hex(),
	}

	responseBody, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Write(responseBody)
}

// SetupGoGuardian sets up the go-guardian middleware
func (m MiddlewareDB) SetupGoGuardian() {
	authenticator = auth.New()
	cache = store.NewFIFO(context.Background(), tokenTTL)
	basicStrategy := basic.New(m.ValidateOfficer, cache)
	tokenStrategy := bearer.New(m.verifyToken, cache)

	authenticator.EnableStrategy(basic.StrategyKey, basicStrategy)
	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// ValidateOfficer checks basic credentials against the officer collection
func (m MiddlewareDB) ValidateOfficer(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	officer, err := m.DB.FindOne(ctx, bson.M{"email": email, "active": true})
	if err != nil {
		return nil, fmt.Errorf("no matching officer found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(officer.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("failed to compare password")
	}

	return auth.NewDefaultUser(officer.Name, officer.ID.Hex(), nil, map[string][]string{
		"name":     {officer.Name},
		"district": {officer.District},
	}), nil
}

// verifyToken validates bearer tokens that fell out of the cache
func (m MiddlewareDB) verifyToken(ctx context.Context, r *http.Request, tokenString string) (auth.Info, error) {
	claims := &officerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return auth.NewDefaultUser(claims.Name, claims.Subject, nil, map[string][]string{
		"name":     {claims.Name},
		"district": {claims.District},
	}), nil
}

// RevokeToken revokes a token
func RevokeToken(w http.ResponseWriter, r *http.Request) {
	reqToken := r.Header.Get("Authorization")
	splitToken := strings.Split(reqToken, "Bearer ")
	if len(splitToken) < 2 {
		http.Error(w, "missing bearer token", http.StatusBadRequest)
		return
	}
	reqToken = splitToken[1]

	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Revoke(tokenStrategy, reqToken, r)
	body := fmt.Sprintf(`{"revoked token": "%s"}`, reqToken)
	w.Write([]byte(body))
}
