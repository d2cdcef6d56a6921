package internal

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letteryzzm/jike-skill/internal/models"
)

func searchPage(usernames ...string) models.Result {
	posts := make([]any, 0, len(usernames))
	for _, u := range usernames {
		posts = append(posts, map[string]any{"user": map[string]any{"username": u}})
	}
	return models.Result{"data": posts}
}

func profileFor(username string) models.Result {
	return models.Result{"user": map[string]any{
		"screenName":     "Screen " + username,
		"bio":            "bio of " + username,
		"followersCount": float64(42),
	}}
}

func TestFindUsers(t *testing.T) {
	t.Run("dedupes users and records all keywords", func(t *testing.T) {
		profileCalls := map[string]int{}
		client := &stubClient{
			search: func(keyword string, limit int, loadMoreKey any) (models.Result, error) {
				if keyword == "golang" {
					return searchPage("alice", "bob"), nil
				}
				return searchPage("bob", "carol"), nil
			},
			profile: func(username string) (models.Result, error) {
				profileCalls[username]++
				return profileFor(username), nil
			},
		}

		users, err := NewDiscoverer(client, 0).FindUsers([]string{"golang", "open source"}, 1)
		require.NoError(t, err)
		require.Len(t, users, 3)

		assert.Equal(t, "alice", users[0].Username)
		assert.Equal(t, "bob", users[1].Username)
		assert.Equal(t, "carol", users[2].Username)

		assert.Equal(t, []string{"golang"}, users[0].FoundVia)
		assert.Equal(t, []string{"golang", "open source"}, users[1].FoundVia)
		assert.Equal(t, []string{"open source"}, users[2].FoundVia)

		assert.Equal(t, "Screen alice", users[0].ScreenName)
		assert.Equal(t, "bio of alice", users[0].Bio)
		assert.Equal(t, "https://okjike.com/u/alice", users[0].ProfileURL)
		assert.Equal(t, 42, users[0].FollowersCount)

		for username, calls := range profileCalls {
			assert.Equalf(t, 1, calls, "profile for %s fetched more than once", username)
		}
	})

	t.Run("memoizes profile lookups across runs", func(t *testing.T) {
		profileCalls := 0
		client := &stubClient{
			search: func(keyword string, limit int, loadMoreKey any) (models.Result, error) {
				return searchPage("alice"), nil
			},
			profile: func(username string) (models.Result, error) {
				profileCalls++
				return profileFor(username), nil
			},
		}

		d := NewDiscoverer(client, 0)
		_, err := d.FindUsers([]string{"golang"}, 1)
		require.NoError(t, err)
		_, err = d.FindUsers([]string{"golang"}, 1)
		require.NoError(t, err)

		assert.Equal(t, 1, profileCalls)
	})

	t.Run("paginates search up to the page budget", func(t *testing.T) {
		searchCalls := 0
		var cursors []any
		client := &stubClient{
			search: func(keyword string, limit int, loadMoreKey any) (models.Result, error) {
				searchCalls++
				cursors = append(cursors, loadMoreKey)
				page := searchPage("alice")
				page["loadMoreKey"] = "next"
				return page, nil
			},
			profile: func(username string) (models.Result, error) {
				return profileFor(username), nil
			},
		}

		_, err := NewDiscoverer(client, 0).FindUsers([]string{"golang"}, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, searchCalls)
		assert.Equal(t, []any{nil, "next", "next"}, cursors)
	})

	t.Run("skips users whose profile fetch fails", func(t *testing.T) {
		client := &stubClient{
			search: func(keyword string, limit int, loadMoreKey any) (models.Result, error) {
				return searchPage("alice", "broken"), nil
			},
			profile: func(username string) (models.Result, error) {
				if username == "broken" {
					return nil, errors.New("profile gone")
				}
				return profileFor(username), nil
			},
		}

		users, err := NewDiscoverer(client, 0).FindUsers([]string{"golang"}, 1)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "alice", users[0].Username)
	})

	t.Run("a failed keyword does not abort the others", func(t *testing.T) {
		client := &stubClient{
			search: func(keyword string, limit int, loadMoreKey any) (models.Result, error) {
				if keyword == "bad" {
					return nil, errors.New("search down")
				}
				return searchPage("alice"), nil
			},
			profile: func(username string) (models.Result, error) {
				return profileFor(username), nil
			},
		}

		users, err := NewDiscoverer(client, 0).FindUsers([]string{"bad", "golang"}, 1)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, []string{"golang"}, users[0].FoundVia)
	})
}
