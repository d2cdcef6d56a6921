package internal

import (
	"fmt"
	"log"
	"time"

	"github.com/letteryzzm/jike-skill/internal/models"
)

type BatchCallback func([]models.Result) (int, error)

// FetchAllPosts pages through every post of a user, invoking the callback
// once per page. Pagination follows the loadMoreKey cursor until the
// server stops returning one or a page comes back empty, with a
// rate-limit sleep between pages. Returns the total record count.
func FetchAllPosts(client JikeClient, username string, delay time.Duration, callback BatchCallback) (int, error) {
	var loadMoreKey any
	page := 0
	count := 0

	for {
		page++
		res, err := client.UserPosts(username, loadMoreKey)
		if err != nil {
			return count, err
		}

		items := res.Items()
		numRecords, err := callback(items)
		if err != nil {
			return count, fmt.Errorf("callback error: %w", err)
		}
		count += numRecords
		log.Printf("page %d: got %d posts (total: %d)", page, len(items), count)

		loadMoreKey = res.LoadMoreKey()
		if loadMoreKey == nil || len(items) == 0 {
			break
		}
		time.Sleep(delay)
	}

	return count, nil
}
