package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letteryzzm/jike-skill/internal"
	"github.com/letteryzzm/jike-skill/internal/models"
)

type stubClient struct {
	internal.JikeClient
	feed    func(limit int, loadMoreKey any) (models.Result, error)
	search  func(keyword string, limit int, loadMoreKey any) (models.Result, error)
	profile func(username string) (models.Result, error)
}

func (s *stubClient) Feed(limit int, loadMoreKey any) (models.Result, error) {
	return s.feed(limit, loadMoreKey)
}

func (s *stubClient) Search(keyword string, limit int, loadMoreKey any) (models.Result, error) {
	return s.search(keyword, limit, loadMoreKey)
}

func (s *stubClient) Profile(username string) (models.Result, error) {
	return s.profile(username)
}

func serve(t *testing.T, client internal.JikeClient, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/feed", Feed(client))
	r.GET("/search", Search(client))
	r.GET("/profile/:username", Profile(client))

	req, err := http.NewRequest("GET", target, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFeedRoute(t *testing.T) {
	t.Run("passes query parameters through", func(t *testing.T) {
		client := &stubClient{feed: func(limit int, loadMoreKey any) (models.Result, error) {
			assert.Equal(t, 5, limit)
			assert.Equal(t, "cursor-1", loadMoreKey)
			return models.Result{"data": []any{}}, nil
		}}

		w := serve(t, client, "/feed?limit=5&loadMoreKey=cursor-1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data": []}`, w.Body.String())
	})

	t.Run("rejects an invalid limit", func(t *testing.T) {
		client := &stubClient{feed: func(limit int, loadMoreKey any) (models.Result, error) {
			t.Fatal("client must not be called")
			return nil, nil
		}}

		w := serve(t, client, "/feed?limit=bogus")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps upstream status errors onto the same code", func(t *testing.T) {
		client := &stubClient{feed: func(limit int, loadMoreKey any) (models.Result, error) {
			return nil, &internal.HTTPStatusError{URL: "u", Status: "401 Unauthorized", StatusCode: http.StatusUnauthorized}
		}}

		w := serve(t, client, "/feed")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("hides other failures behind a 500", func(t *testing.T) {
		client := &stubClient{feed: func(limit int, loadMoreKey any) (models.Result, error) {
			return nil, errors.New("connection reset")
		}}

		w := serve(t, client, "/feed")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestSearchRoute(t *testing.T) {
	t.Run("requires a keyword", func(t *testing.T) {
		client := &stubClient{search: func(keyword string, limit int, loadMoreKey any) (models.Result, error) {
			t.Fatal("client must not be called")
			return nil, nil
		}}

		w := serve(t, client, "/search")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("passes the keyword through", func(t *testing.T) {
		client := &stubClient{search: func(keyword string, limit int, loadMoreKey any) (models.Result, error) {
			assert.Equal(t, "golang", keyword)
			assert.Equal(t, 20, limit)
			return models.Result{"data": []any{}}, nil
		}}

		w := serve(t, client, "/search?keyword=golang")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestProfileRoute(t *testing.T) {
	client := &stubClient{profile: func(username string) (models.Result, error) {
		assert.Equal(t, "alice", username)
		return models.Result{"user": map[string]any{"username": "alice"}}, nil
	}}

	w := serve(t, client, "/profile/alice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}
