package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hyperlocal/internal/auth"
	"hyperlocal/internal/cache"
	"hyperlocal/internal/db"
	"hyperlocal/internal/handler"
	"hyperlocal/internal/location"
	"hyperlocal/internal/repository"
	"hyperlocal/internal/service"
)

type testServer struct {
	t  *testing.T
	e  *echo.Echo
	mr *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gormDB, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0)
	directory := location.NewDirectory(location.Defaults{Country: "India", State: "Maharashtra", District: "Mumbai Suburban"})
	jwtService := auth.NewJWTService("test-secret")

	posts := service.NewPostService(repository.NewPostRepository(gormDB), client, zap.NewNop())
	accounts := service.NewAccountService(repository.NewUserRepository(gormDB), posts, client, directory.Defaults())
	authSvc := service.NewAuthService(accounts, jwtService, auth.NewTokenStore(client))

	e := echo.New()
	Register(e, zap.NewNop(), jwtService, authSvc, Handlers{
		Auth:     handler.NewAuthHandler(accounts, authSvc),
		Profile:  handler.NewProfileHandler(accounts),
		Post:     handler.NewPostHandler(posts),
		Location: handler.NewLocationHandler(directory),
	})
	return &testServer{t: t, e: e, mr: mr}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	out := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec.Code, out
}

func TestRouter_FeedLifecycle(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"full_name": "Asha", "phone": "9999999999", "email": "asha@x.com", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"full_name": "Asha", "phone": "9999999999", "email": "asha@x.com", "password": "pw1",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_EMAIL", body["code"])

	status, body = s.do(http.MethodPost, "/api/login", "", map[string]string{"email": "asha@x.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "authenticated_incomplete", body["session"])
	assert.Equal(t, false, body["profile_complete"])
	token := body["access_token"].(string)
	refresh := body["refresh_token"].(string)

	status, body = s.do(http.MethodGet, "/api/posts", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "PROFILE_INCOMPLETE", body["code"])

	status, body = s.do(http.MethodPost, "/api/profile", token, map[string]string{
		"public_name": "Asha", "pin_code": "400072", "area": "Jari Mari",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "authenticated_complete", body["session"])
	assert.Equal(t, "India", body["user"].(map[string]interface{})["country"])

	status, body = s.do(http.MethodGet, "/api/posts", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["posts"], 5)

	status, body = s.do(http.MethodPost, "/api/posts", token, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "EMPTY_CONTENT", body["code"])

	status, body = s.do(http.MethodPost, "/api/posts", token, map[string]string{"content": "Dog loose near market"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Asha", body["author"])
	assert.Equal(t, "Jari Mari", body["area"])

	status, body = s.do(http.MethodGet, "/api/posts?pin_code=400072&area=Jari%20Mari", token, nil)
	require.Equal(t, http.StatusOK, status)
	feed := body["posts"].([]interface{})
	require.Len(t, feed, 6)
	assert.Equal(t, "Asha", feed[5].(map[string]interface{})["author"])

	status, body = s.do(http.MethodGet, "/api/posts?pin_code=400087&area=Powai", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["posts"])

	status, body = s.do(http.MethodPost, "/api/logout", token, map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body["session"])

	status, _ = s.do(http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodPost, "/api/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, status)
}

// signIn registers and logs in, returning the access and refresh tokens.
func (s *testServer) signIn(email string) (string, string) {
	s.t.Helper()
	status, _ := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"full_name": "Asha", "phone": "9999999999", "email": email, "password": "pw1",
	})
	require.Equal(s.t, http.StatusCreated, status)
	status, body := s.do(http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": "pw1"})
	require.Equal(s.t, http.StatusOK, status)
	return body["access_token"].(string), body["refresh_token"].(string)
}

func TestRouter_RefreshTokenIsNotABearerCredential(t *testing.T) {
	s := newTestServer(t)
	token, refresh := s.signIn("asha@x.com")

	status, body := s.do(http.MethodGet, "/api/me", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", body["code"])

	status, _ = s.do(http.MethodPost, "/api/logout", token, map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, status)

	for _, tc := range []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodGet, "/api/me", nil},
		{http.MethodPost, "/api/profile", map[string]string{"public_name": "Asha", "pin_code": "400072", "area": "Jari Mari"}},
		{http.MethodGet, "/api/posts", nil},
	} {
		status, _ := s.do(tc.method, tc.path, refresh, tc.body)
		assert.Equal(t, http.StatusUnauthorized, status, tc.path)
	}

	status, body = s.do(http.MethodPost, "/api/refresh", "", map[string]string{"refresh_token": token})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", body["code"])
}

func TestRouter_ProfileSetupHappensOnce(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signIn("asha@x.com")

	status, _ := s.do(http.MethodPost, "/api/profile", token, map[string]string{
		"public_name": "Asha", "pin_code": "400072", "area": "Jari Mari",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := s.do(http.MethodPost, "/api/profile", token, map[string]string{
		"public_name": "Impostor", "pin_code": "400087", "area": "Powai",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "PROFILE_ALREADY_COMPLETE", body["code"])

	status, body = s.do(http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "Asha", user["public_name"])
	assert.Equal(t, "Jari Mari", user["area"])
}

func TestRouter_TokenStoreOutageFailsClosed(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signIn("asha@x.com")
	s.mr.Close()

	status, body := s.do(http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "STORAGE_UNAVAILABLE", body["code"])

	status, body = s.do(http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "STORAGE_UNAVAILABLE", body["code"])

	status, _ = s.do(http.MethodPost, "/api/login", "", map[string]string{"email": "asha@x.com", "password": "pw1"})
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestRouter_LoginFailuresAreUniform(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"full_name": "Asha", "phone": "9999999999", "email": "asha@x.com", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, status)

	unknownStatus, unknown := s.do(http.MethodPost, "/api/login", "", map[string]string{"email": "unknown@x.com", "password": "pw"})
	wrongStatus, wrong := s.do(http.MethodPost, "/api/login", "", map[string]string{"email": "asha@x.com", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, unknownStatus)
	assert.Equal(t, unknownStatus, wrongStatus)
	assert.Equal(t, unknown, wrong)
	assert.Equal(t, "INVALID_CREDENTIALS", unknown["code"])
}

func TestRouter_RefreshRotatesTokens(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/register", "", map[string]string{
		"full_name": "Asha", "phone": "9999999999", "email": "asha@x.com", "password": "pw1",
	})
	_, body := s.do(http.MethodPost, "/api/login", "", map[string]string{"email": "asha@x.com", "password": "pw1"})
	refresh := body["refresh_token"].(string)

	status, body := s.do(http.MethodPost, "/api/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEqual(t, refresh, body["refresh_token"])

	status, _ = s.do(http.MethodGet, "/api/me", body["access_token"].(string), nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodPost, "/api/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_Validation(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(http.MethodPost, "/api/register", "", map[string]string{"email": "not-an-email", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	s.do(http.MethodPost, "/api/register", "", map[string]string{
		"full_name": "Asha", "phone": "9999999999", "email": "asha@x.com", "password": "pw1",
	})
	_, body = s.do(http.MethodPost, "/api/login", "", map[string]string{"email": "asha@x.com", "password": "pw1"})
	token := body["access_token"].(string)

	status, body = s.do(http.MethodPost, "/api/profile", token, map[string]string{"public_name": "Asha", "pin_code": "400072"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestRouter_AnonymousAccess(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/posts"},
		{http.MethodPost, "/api/posts"},
		{http.MethodPost, "/api/profile"},
		{http.MethodGet, "/api/me"},
		{http.MethodPost, "/api/logout"},
	} {
		status, body := s.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, tc.path)
		assert.Equal(t, "UNAUTHENTICATED", body["code"], tc.path)
	}

	status, _ := s.do(http.MethodGet, "/api/posts", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := s.do(http.MethodGet, "/api/locations", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["pin_codes"], 2)

	status, _ = s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
}
