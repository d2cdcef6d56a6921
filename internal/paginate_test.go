package internal

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letteryzzm/jike-skill/internal/models"
)

// stubClient overrides just the endpoints a test exercises.
type stubClient struct {
	JikeClient
	userPosts func(username string, loadMoreKey any) (models.Result, error)
	search    func(keyword string, limit int, loadMoreKey any) (models.Result, error)
	profile   func(username string) (models.Result, error)
}

func (s *stubClient) UserPosts(username string, loadMoreKey any) (models.Result, error) {
	return s.userPosts(username, loadMoreKey)
}

func (s *stubClient) Search(keyword string, limit int, loadMoreKey any) (models.Result, error) {
	return s.search(keyword, limit, loadMoreKey)
}

func (s *stubClient) Profile(username string) (models.Result, error) {
	return s.profile(username)
}

func post(id string) models.Result {
	return models.Result{"id": id}
}

func TestFetchAllPosts(t *testing.T) {
	t.Run("follows the cursor until it disappears", func(t *testing.T) {
		pages := []models.Result{
			{"data": []any{map[string]any{"id": "p1"}, map[string]any{"id": "p2"}}, "loadMoreKey": "k1"},
			{"data": []any{map[string]any{"id": "p3"}}},
		}
		var cursors []any
		client := &stubClient{userPosts: func(username string, loadMoreKey any) (models.Result, error) {
			assert.Equal(t, "someone", username)
			cursors = append(cursors, loadMoreKey)
			page := pages[0]
			pages = pages[1:]
			return page, nil
		}}

		var collected []models.Result
		count, err := FetchAllPosts(client, "someone", 0, func(batch []models.Result) (int, error) {
			collected = append(collected, batch...)
			return len(batch), nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, []models.Result{post("p1"), post("p2"), post("p3")}, collected)
		assert.Equal(t, []any{nil, "k1"}, cursors)
	})

	t.Run("stops on an empty page even with a cursor", func(t *testing.T) {
		calls := 0
		client := &stubClient{userPosts: func(username string, loadMoreKey any) (models.Result, error) {
			calls++
			return models.Result{"data": []any{}, "loadMoreKey": "k1"}, nil
		}}

		count, err := FetchAllPosts(client, "someone", 0, func(batch []models.Result) (int, error) {
			return len(batch), nil
		})
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.Equal(t, 1, calls)
	})

	t.Run("propagates callback errors", func(t *testing.T) {
		client := &stubClient{userPosts: func(username string, loadMoreKey any) (models.Result, error) {
			return models.Result{"data": []any{map[string]any{"id": "p1"}}}, nil
		}}

		_, err := FetchAllPosts(client, "someone", 0, func(batch []models.Result) (int, error) {
			return 0, errors.New("boom")
		})
		assert.ErrorContains(t, err, "callback error")
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		client := &stubClient{userPosts: func(username string, loadMoreKey any) (models.Result, error) {
			return nil, errors.New("upstream down")
		}}

		_, err := FetchAllPosts(client, "someone", 0, func(batch []models.Result) (int, error) {
			t.Fatal("callback must not run")
			return 0, nil
		})
		assert.ErrorContains(t, err, "upstream down")
	})
}
