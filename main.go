package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/letteryzzm/jike-skill/cmd"
	"github.com/letteryzzm/jike-skill/internal"
)

func main() {
	var accessToken, refreshToken string

	root := &cobra.Command{
		Use:           "jike",
		Short:         "Command-line client for the Jike social network API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&accessToken, "access-token", "", "access token (defaults to JIKE_ACCESS_TOKEN)")
	root.PersistentFlags().StringVar(&refreshToken, "refresh-token", "", "refresh token (defaults to JIKE_REFRESH_TOKEN)")

	root.AddCommand(&cobra.Command{
		Use:   "auth",
		Short: "Log in by scanning a QR payload with the Jike app",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Auth()
		},
	})

	var feedLimit int
	var feedLoadMoreKey string
	feedCmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the following feed",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Run(accessToken, refreshToken, func(client internal.JikeClient) (any, error) {
				return client.Feed(feedLimit, optionalKey(feedLoadMoreKey))
			})
		},
	}
	feedCmd.Flags().IntVar(&feedLimit, "limit", 20, "number of feed entries")
	feedCmd.Flags().StringVar(&feedLoadMoreKey, "load-more-key", "", "pagination cursor from a previous page")
	root.AddCommand(feedCmd)

	var postContent string
	var pictureKeys []string
	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Create a post",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Run(accessToken, refreshToken, func(client internal.JikeClient) (any, error) {
				return client.CreatePost(postContent, pictureKeys)
			})
		},
	}
	postCmd.Flags().StringVar(&postContent, "content", "", "post content")
	postCmd.Flags().StringSliceVar(&pictureKeys, "picture-keys", nil, "picture keys to attach")
	_ = postCmd.MarkFlagRequired("content")
	root.AddCommand(postCmd)

	var deletePostID string
	deletePostCmd := &cobra.Command{
		Use:   "delete-post",
		Short: "Delete a post",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Run(accessToken, refreshToken, func(client internal.JikeClient) (any, error) {
				return client.DeletePost(deletePostID)
			})
		},
	}
	deletePostCmd.Flags().StringVar(&deletePostID, "post-id", "", "id of the post to delete")
	_ = deletePostCmd.MarkFlagRequired("post-id")
	root.AddCommand(deletePostCmd)

	var commentPostID, commentContent string
	commentCmd := &cobra.Command{
		Use:   "comment",
		Short: "Comment on a post",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Run(accessToken, refreshToken, func(client internal.JikeClient) (any, error) {
				return client.AddComment(commentPostID, commentContent)
			})
		},
	}
	commentCmd.Flags().StringVar(&commentPostID, "post-id", "", "id of the post to comment on")
	commentCmd.Flags().StringVar(&commentContent, "content", "", "comment content")
	_ = commentCmd.MarkFlagRequired("post-id")
	_ = commentCmd.MarkFlagRequired("content")
	root.AddCommand(commentCmd)

	var deleteCommentID string
	deleteCommentCmd := &cobra.Command{
		Use:   "delete-comment",
		Short: "Delete a comment",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Run(accessToken, refreshToken, func(client internal.JikeClient) (any, error) {
				return client.DeleteComment(deleteCommentID)
			})
		},
	}
	deleteCommentCmd.Flags().StringVar(&deleteCommentID, "comment-id", "", "id of the comment to delete")
	_ = deleteCommentCmd.MarkFlagRequired("comment-id")
	root.AddCommand(deleteCommentCmd)

	var searchKeyword string
	var searchLimit int
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search posts and users",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Run(accessToken, refreshToken, func(client internal.JikeClient) (any, error) {
				return client.Search(searchKeyword, searchLimit, nil)
			})
		},
	}
	searchCmd.Flags().StringVar(&searchKeyword, "keyword", "", "search keyword")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "number of results")
	_ = searchCmd.MarkFlagRequired("keyword")
	root.AddCommand(searchCmd)

	var profileUsername string
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show a user profile",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Run(accessToken, refreshToken, func(client internal.JikeClient) (any, error) {
				return client.Profile(profileUsername)
			})
		},
	}
	profileCmd.Flags().StringVar(&profileUsername, "username", "", "username to look up")
	_ = profileCmd.MarkFlagRequired("username")
	root.AddCommand(profileCmd)

	var followersUserID string
	followersCmd := &cobra.Command{
		Use:   "followers",
		Short: "List a user's followers",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Run(accessToken, refreshToken, func(client internal.JikeClient) (any, error) {
				return client.Followers(followersUserID, nil)
			})
		},
	}
	followersCmd.Flags().StringVar(&followersUserID, "user-id", "", "id of the user")
	_ = followersCmd.MarkFlagRequired("user-id")
	root.AddCommand(followersCmd)

	var followingUserID string
	followingCmd := &cobra.Command{
		Use:   "following",
		Short: "List who a user follows",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Run(accessToken, refreshToken, func(client internal.JikeClient) (any, error) {
				return client.Following(followingUserID, nil)
			})
		},
	}
	followingCmd.Flags().StringVar(&followingUserID, "user-id", "", "id of the user")
	_ = followingCmd.MarkFlagRequired("user-id")
	root.AddCommand(followingCmd)

	var postsUsername string
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Fetch all posts of a user (paginated)",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Posts(accessToken, refreshToken, postsUsername)
		},
	}
	postsCmd.Flags().StringVar(&postsUsername, "username", "", "username whose posts to fetch")
	_ = postsCmd.MarkFlagRequired("username")
	root.AddCommand(postsCmd)

	root.AddCommand(&cobra.Command{
		Use:   "notifications",
		Short: "Show unread summary and notification list",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Notifications(accessToken, refreshToken)
		},
	})

	var findKeywords string
	var findPages int
	findUsersCmd := &cobra.Command{
		Use:   "find-users",
		Short: "Find unique users behind keyword searches",
		RunE: func(_ *cobra.Command, _ []string) error {
			keywords := splitKeywords(findKeywords)
			if len(keywords) == 0 {
				return fmt.Errorf("at least one keyword is required")
			}
			return cmd.FindUsers(accessToken, refreshToken, keywords, findPages)
		},
	}
	findUsersCmd.Flags().StringVar(&findKeywords, "keywords", "", "comma-separated search keywords")
	findUsersCmd.Flags().IntVar(&findPages, "pages", 2, "search pages per keyword")
	_ = findUsersCmd.MarkFlagRequired("keywords")
	root.AddCommand(findUsersCmd)

	root.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Watch for unread notifications until interrupted",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Watch(accessToken, refreshToken)
		},
	})

	var servePort int
	var serveDebug bool
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the client as a local HTTP facade",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Serve(accessToken, refreshToken, servePort, serveDebug)
		},
	}
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable pprof endpoints")
	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}

func optionalKey(key string) any {
	if key == "" {
		return nil
	}
	return key
}

func splitKeywords(raw string) []string {
	var keywords []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}
