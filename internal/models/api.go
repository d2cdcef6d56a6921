package models

// Result is a pass-through API response body. The content endpoints
// return free-form JSON objects which the client does not interpret.
type Result map[string]any

// Items returns the paged `data` array for list-shaped responses.
func (r Result) Items() []Result {
	raw, _ := r["data"].([]any)
	items := make([]Result, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			items = append(items, Result(m))
		}
	}
	return items
}

// LoadMoreKey returns the pagination cursor, if any. Depending on the
// endpoint it is a string or an object, and must be echoed back verbatim
// in the next request body, so it is carried as `any`.
func (r Result) LoadMoreKey() any {
	return r["loadMoreKey"]
}

// DiscoveredUser is one unique author surfaced by a keyword search.
type DiscoveredUser struct {
	Username       string   `json:"username"`
	ScreenName     string   `json:"screen_name"`
	Bio            string   `json:"bio"`
	ProfileURL     string   `json:"profile_url"`
	FollowersCount int      `json:"followers_count"`
	FoundVia       []string `json:"found_via"`
}
