package internal

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	neturl "net/url"
	"sync"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/letteryzzm/jike-skill/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	headerAccessToken  = "x-jike-access-token"
	headerRefreshToken = "x-jike-refresh-token"
)

// HTTPStatusError is returned when the remote server responds with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status response from %s: %s", e.URL, e.Status)
}

type JikeClient interface {
	Tokens() models.TokenPair
	Feed(limit int, loadMoreKey any) (models.Result, error)
	GetPost(postID string) (models.Result, error)
	CreatePost(content string, pictureKeys []string) (models.Result, error)
	DeletePost(postID string) (models.Result, error)
	AddComment(postID, content string) (models.Result, error)
	DeleteComment(commentID string) (models.Result, error)
	Search(keyword string, limit int, loadMoreKey any) (models.Result, error)
	Profile(username string) (models.Result, error)
	Followers(userID string, loadMoreKey any) (models.Result, error)
	Following(userID string, loadMoreKey any) (models.Result, error)
	UserPosts(username string, loadMoreKey any) (models.Result, error)
	UnreadNotifications() (models.Result, error)
	ListNotifications(loadMoreKey any) (models.Result, error)
}

type jikeManager struct {
	cfg    Config
	client *http.Client

	// mux guards tokens: the facade serves requests on separate
	// goroutines, so concurrent 401s must coalesce into one refresh.
	mux    sync.RWMutex
	tokens models.TokenPair
}

func NewJikeClient(cfg Config, tokens models.TokenPair) (JikeClient, error) {
	if !tokens.Valid() {
		return nil, errors.New("both access and refresh tokens are required")
	}

	return &jikeManager{
		cfg:    cfg,
		tokens: tokens,
		client: cfg.httpClient(),
	}, nil
}

func (mgr *jikeManager) Tokens() models.TokenPair {
	mgr.mux.RLock()
	defer mgr.mux.RUnlock()
	return mgr.tokens
}

// request performs one authenticated call. A 401 on the first attempt
// triggers exactly one token refresh and one replay; a second 401 is
// surfaced as *HTTPStatusError like any other error status.
func (mgr *jikeManager) request(method, path string, body any, out any) error {
	attempted := mgr.Tokens()
	resp, err := mgr.send(method, path, body, attempted.AccessToken)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		if err := mgr.refresh(attempted); err != nil {
			return errors.Wrap(err, "token refresh failed")
		}
		resp, err = mgr.send(method, path, body, mgr.Tokens().AccessToken)
		if err != nil {
			return err
		}
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close body: %v", err)
		}
	}()

	if resp.StatusCode > 299 {
		return &HTTPStatusError{URL: mgr.cfg.BaseURL + path, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (mgr *jikeManager) send(method, path string, body any, accessToken string) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewBuffer(jsonData)
	}

	log.Printf("%s %s", method, path)
	req, err := http.NewRequest(method, mgr.cfg.BaseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	mgr.cfg.applyHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerAccessToken, accessToken)

	resp, err := mgr.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	return resp, nil
}

// refresh exchanges the refresh token for a new pair, unless another
// request already replaced the pair the failed attempt was sent with.
func (mgr *jikeManager) refresh(attempted models.TokenPair) error {
	mgr.mux.Lock()
	defer mgr.mux.Unlock()

	if mgr.tokens != attempted {
		return nil
	}

	refreshed, err := RefreshTokenPair(mgr.cfg, mgr.tokens)
	if err != nil {
		return err
	}
	mgr.tokens = refreshed
	return nil
}

// ── Feed ──────────────────────────────────────────────────

func (mgr *jikeManager) Feed(limit int, loadMoreKey any) (models.Result, error) {
	body := models.Result{"limit": limit}
	if loadMoreKey != nil {
		body["loadMoreKey"] = loadMoreKey
	}
	var out models.Result
	err := mgr.request("POST", "/1.0/personalUpdate/followingUpdates", body, &out)
	return out, err
}

// ── Posts ─────────────────────────────────────────────────

func (mgr *jikeManager) GetPost(postID string) (models.Result, error) {
	var out models.Result
	err := mgr.request("GET", "/1.0/originalPosts/get?id="+neturl.QueryEscape(postID), nil, &out)
	return out, err
}

func (mgr *jikeManager) CreatePost(content string, pictureKeys []string) (models.Result, error) {
	if pictureKeys == nil {
		pictureKeys = []string{}
	}
	var out models.Result
	err := mgr.request("POST", "/1.0/originalPosts/create", models.Result{
		"content":     content,
		"pictureKeys": pictureKeys,
	}, &out)
	return out, err
}

func (mgr *jikeManager) DeletePost(postID string) (models.Result, error) {
	var out models.Result
	err := mgr.request("POST", "/1.0/originalPosts/remove", models.Result{"id": postID}, &out)
	return out, err
}

// ── Comments ──────────────────────────────────────────────

func (mgr *jikeManager) AddComment(postID, content string) (models.Result, error) {
	var out models.Result
	err := mgr.request("POST", "/1.0/comments/add", models.Result{
		"targetType":            "ORIGINAL_POST",
		"targetId":              postID,
		"content":               content,
		"syncToPersonalUpdates": false,
		"pictureKeys":           []string{},
		"force":                 false,
	}, &out)
	return out, err
}

func (mgr *jikeManager) DeleteComment(commentID string) (models.Result, error) {
	var out models.Result
	err := mgr.request("POST", "/1.0/comments/remove", models.Result{
		"id":         commentID,
		"targetType": "ORIGINAL_POST",
	}, &out)
	return out, err
}

// ── Search ────────────────────────────────────────────────

func (mgr *jikeManager) Search(keyword string, limit int, loadMoreKey any) (models.Result, error) {
	body := models.Result{"keyword": keyword, "limit": limit}
	if loadMoreKey != nil {
		body["loadMoreKey"] = loadMoreKey
	}
	var out models.Result
	err := mgr.request("POST", "/1.0/search/integrate", body, &out)
	return out, err
}

// ── Users ─────────────────────────────────────────────────

func (mgr *jikeManager) Profile(username string) (models.Result, error) {
	var out models.Result
	err := mgr.request("GET", "/1.0/users/profile?username="+neturl.QueryEscape(username), nil, &out)
	return out, err
}

func (mgr *jikeManager) Followers(userID string, loadMoreKey any) (models.Result, error) {
	return mgr.userRelation("/1.0/userRelation/getFollowerList", userID, loadMoreKey)
}

func (mgr *jikeManager) Following(userID string, loadMoreKey any) (models.Result, error) {
	return mgr.userRelation("/1.0/userRelation/getFollowingList", userID, loadMoreKey)
}

func (mgr *jikeManager) userRelation(path, userID string, loadMoreKey any) (models.Result, error) {
	body := models.Result{"userId": userID}
	if loadMoreKey != nil {
		body["loadMoreKey"] = loadMoreKey
	}
	var out models.Result
	err := mgr.request("POST", path, body, &out)
	return out, err
}

func (mgr *jikeManager) UserPosts(username string, loadMoreKey any) (models.Result, error) {
	body := models.Result{"username": username}
	if loadMoreKey != nil {
		body["loadMoreKey"] = loadMoreKey
	}
	var out models.Result
	err := mgr.request("POST", "/1.0/personalUpdate/single", body, &out)
	return out, err
}

// ── Notifications ─────────────────────────────────────────

func (mgr *jikeManager) UnreadNotifications() (models.Result, error) {
	var out models.Result
	err := mgr.request("GET", "/1.0/notifications/unread", nil, &out)
	return out, err
}

func (mgr *jikeManager) ListNotifications(loadMoreKey any) (models.Result, error) {
	body := models.Result{}
	if loadMoreKey != nil {
		body["loadMoreKey"] = loadMoreKey
	}
	var out models.Result
	err := mgr.request("POST", "/1.0/notifications/list", body, &out)
	return out, err
}
