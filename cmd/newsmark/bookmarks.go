package main

import (
	"fmt"

	"newsmark/internal/bookmark"
	"newsmark/internal/model"
	"newsmark/internal/store"

	"github.com/spf13/cobra"
)

var bookmarkTitle string

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Manage saved articles",
}

// withStore opens the configured storage for a one-shot command.
// Badger and bolt hold a file lock, so these fail while `serve` runs on them.
func withStore(fn func(st *bookmark.Store) error) error {
	kv, err := store.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer kv.Close()

	return fn(bookmark.New(kv, cfg.Storage.BookmarksKey, logger.Named("bookmarks")))
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all bookmarks in the order they were saved",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *bookmark.Store) error {
			articles, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(articles)
		})
	},
}

var bookmarksAddCmd = &cobra.Command{
	Use:   "add [url]",
	Short: "Bookmark a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		article := model.Article{URL: args[0], Title: bookmarkTitle}
		return withStore(func(st *bookmark.Store) error {
			if err := st.Add(cmd.Context(), article); err != nil {
				return err
			}
			fmt.Println("bookmarked", article.URL)
			return nil
		})
	},
}

var bookmarksRemoveCmd = &cobra.Command{
	Use:   "remove [url]",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *bookmark.Store) error {
			if err := st.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("removed", args[0])
			return nil
		})
	},
}

var bookmarksCheckCmd = &cobra.Command{
	Use:   "check [url]",
	Short: "Report whether a URL is bookmarked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *bookmark.Store) error {
			ok, err := st.IsBookmarked(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(ok)
			return nil
		})
	},
}

func init() {
	bookmarksAddCmd.Flags().StringVar(&bookmarkTitle, "title", "", "Title to store with the bookmark")

	bookmarksCmd.AddCommand(bookmarksListCmd, bookmarksAddCmd, bookmarksRemoveCmd, bookmarksCheckCmd)
}
