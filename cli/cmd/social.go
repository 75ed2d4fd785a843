package cmd

import (
	"fmt"
	"strings"

	"github.com/photoapp/photoapp/cli/internal/output"
	"github.com/spf13/cobra"
)

func newLikeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "like <assetid>",
		Short: "Like a photo as the active user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			client, _, err := app.authedClient()
			if err != nil {
				return err
			}

			likeID, created, err := client.Like(id)
			if err != nil {
				return fmt.Errorf("liking asset %d: %w", id, err)
			}
			if app.JSON {
				output.JSON(app.Out, map[string]interface{}{"likeid": likeID, "created": created})
				return nil
			}
			if created {
				fmt.Fprintf(app.Out, "Liked asset %d (likeid %d)\n", id, likeID)
			} else {
				fmt.Fprintf(app.Out, "Already liked asset %d (likeid %d)\n", id, likeID)
			}
			return nil
		},
	}
}

func newLikesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "likes <assetid>",
		Short: "List the likes of a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			likes, err := app.readClient().Likes(id)
			if err != nil {
				return fmt.Errorf("listing likes of asset %d: %w", id, err)
			}
			if app.JSON {
				output.JSON(app.Out, likes)
				return nil
			}
			output.LikeTable(app.Out, likes)
			return nil
		},
	}
}

func newCommentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <assetid> <text...>",
		Short: "Comment on a photo as the active user",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			client, _, err := app.authedClient()
			if err != nil {
				return err
			}

			commentID, err := client.Comment(id, strings.Join(args[1:], " "))
			if err != nil {
				return fmt.Errorf("commenting on asset %d: %w", id, err)
			}
			if app.JSON {
				output.JSON(app.Out, map[string]interface{}{"commentid": commentID})
				return nil
			}
			fmt.Fprintf(app.Out, "Commented on asset %d (commentid %d)\n", id, commentID)
			return nil
		},
	}
}

func newCommentsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "comments <assetid>",
		Short: "List the comments on a photo, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			comments, err := app.readClient().Comments(id)
			if err != nil {
				return fmt.Errorf("listing comments of asset %d: %w", id, err)
			}
			if app.JSON {
				output.JSON(app.Out, comments)
				return nil
			}
			output.CommentTable(app.Out, comments)
			return nil
		},
	}
}
