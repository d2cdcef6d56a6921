package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/letteryzzm/jike-skill/internal"
	"github.com/letteryzzm/jike-skill/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Run executes a single authenticated call and pretty-prints the result.
// The subcommand dispatch in main supplies the call as a closure.
func Run(accessToken, refreshToken string, call func(internal.JikeClient) (any, error)) error {
	client, _, err := bootstrap(accessToken, refreshToken)
	if err != nil {
		return err
	}

	result, err := call(client)
	if err != nil {
		return err
	}
	return printJSON(result)
}

// Notifications fetches the unread summary and the notification list in
// one go, mirroring what the web client shows on its bell icon.
func Notifications(accessToken, refreshToken string) error {
	return Run(accessToken, refreshToken, func(client internal.JikeClient) (any, error) {
		unread, err := client.UnreadNotifications()
		if err != nil {
			return nil, err
		}
		list, err := client.ListNotifications(nil)
		if err != nil {
			return nil, err
		}
		return map[string]any{"unread": unread, "list": list}, nil
	})
}

// Posts pages through every post of a user and prints them as one array.
func Posts(accessToken, refreshToken, username string) error {
	client, cfg, err := bootstrap(accessToken, refreshToken)
	if err != nil {
		return err
	}

	var all []models.Result
	_, err = internal.FetchAllPosts(client, username, cfg.RateLimitDelay, func(batch []models.Result) (int, error) {
		all = append(all, batch...)
		return len(batch), nil
	})
	if err != nil {
		return fmt.Errorf("failed to fetch posts for %s: %w", username, err)
	}
	return printJSON(all)
}

// FindUsers searches the given keywords and prints the deduplicated
// authors with their profiles.
func FindUsers(accessToken, refreshToken string, keywords []string, pages int) error {
	client, cfg, err := bootstrap(accessToken, refreshToken)
	if err != nil {
		return err
	}

	users, err := internal.NewDiscoverer(client, cfg.RateLimitDelay).FindUsers(keywords, pages)
	if err != nil {
		return fmt.Errorf("user discovery failed: %w", err)
	}
	return printJSON(users)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
