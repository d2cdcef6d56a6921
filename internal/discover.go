package internal

import (
	"log"
	"time"

	"github.com/kofalt/go-memoize"

	"github.com/letteryzzm/jike-skill/internal/models"
)

// Discoverer finds unique users behind keyword searches. Profile lookups
// are memoized so repeated runs within a process do not refetch.
type Discoverer struct {
	client   JikeClient
	profiles *memoize.Memoizer
	delay    time.Duration
}

func NewDiscoverer(client JikeClient, delay time.Duration) *Discoverer {
	return &Discoverer{
		client:   client,
		profiles: memoize.NewMemoizer(15*time.Minute, time.Hour),
		delay:    delay,
	}
}

// FindUsers searches each keyword (paginated up to `pages` pages),
// deduplicates post authors by username, then fetches each unique
// profile. Users are returned in first-seen order, each annotated with
// the keywords that surfaced them.
func (d *Discoverer) FindUsers(keywords []string, pages int) ([]models.DiscoveredUser, error) {
	byUsername := make(map[string]*models.DiscoveredUser)
	var order []string

	for _, keyword := range keywords {
		posts := d.searchKeyword(keyword, pages)
		for _, post := range posts {
			username := postAuthor(post)
			if username == "" {
				continue
			}
			if existing, ok := byUsername[username]; ok {
				if !contains(existing.FoundVia, keyword) {
					existing.FoundVia = append(existing.FoundVia, keyword)
				}
				continue
			}
			byUsername[username] = &models.DiscoveredUser{
				Username: username,
				FoundVia: []string{keyword},
			}
			order = append(order, username)
		}
		time.Sleep(d.delay)
	}

	log.Printf("found %d unique users, fetching profiles...", len(order))

	results := make([]models.DiscoveredUser, 0, len(order))
	for _, username := range order {
		user := byUsername[username]
		if err := d.fillProfile(user); err != nil {
			log.Printf("skipping @%s: %v", username, err)
			continue
		}
		results = append(results, *user)
		time.Sleep(d.delay)
	}

	return results, nil
}

func (d *Discoverer) searchKeyword(keyword string, pages int) []models.Result {
	var posts []models.Result
	var loadMoreKey any

	for i := 0; i < pages; i++ {
		res, err := d.client.Search(keyword, 20, loadMoreKey)
		if err != nil {
			log.Printf("search for %q failed: %v", keyword, err)
			break
		}
		posts = append(posts, res.Items()...)
		loadMoreKey = res.LoadMoreKey()
		if loadMoreKey == nil {
			break
		}
		time.Sleep(d.delay)
	}

	return posts
}

func (d *Discoverer) fillProfile(user *models.DiscoveredUser) error {
	username := user.Username
	val, err, _ := d.profiles.Memoize(username, func() (any, error) {
		return d.client.Profile(username)
	})
	if err != nil {
		return err
	}

	res := val.(models.Result)
	// the profile endpoint nests the interesting fields under "user"
	fields := res
	if nested, ok := res["user"].(map[string]any); ok {
		fields = models.Result(nested)
	}

	user.ScreenName, _ = fields["screenName"].(string)
	user.Bio, _ = fields["bio"].(string)
	user.ProfileURL = "https://okjike.com/u/" + username
	if n, ok := fields["followersCount"].(float64); ok {
		user.FollowersCount = int(n)
	}
	return nil
}

func postAuthor(post models.Result) string {
	user, ok := post["user"].(map[string]any)
	if !ok {
		return ""
	}
	if username, ok := user["username"].(string); ok && username != "" {
		return username
	}
	id, _ := user["id"].(string)
	return id
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
