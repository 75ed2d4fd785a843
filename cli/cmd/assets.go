package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/photoapp/photoapp/cli/internal/output"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newAssetsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List the assets you can see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assets, err := app.readClient().Assets()
			if err != nil {
				return fmt.Errorf("listing assets: %w", err)
			}
			if app.JSON {
				output.JSON(app.Out, assets)
				return nil
			}
			output.AssetTable(app.Out, assets)
			return nil
		},
	}
}

func newUploadCmd(app *App) *cobra.Command {
	var public bool

	cmd := &cobra.Command{
		Use:   "upload <file.jpg>",
		Short: "Upload a photo as the active user",
		Long: `Upload a local .jpg file. Photos are private unless --public is given.

  photoapp upload cat.jpg
  photoapp upload cat.jpg --public`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, username, err := app.authedClient()
			if err != nil {
				return err
			}

			path := args[0]
			data, err := afero.ReadFile(app.FS, path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			name := filepath.Base(path)
			id, err := client.Upload(name, data, public)
			if err != nil {
				return fmt.Errorf("uploading %s: %w", name, err)
			}

			if app.JSON {
				output.JSON(app.Out, map[string]interface{}{"assetid": id, "assetname": name})
				return nil
			}
			fmt.Fprintf(app.Out, "Uploaded %s (%s) as %s, assetid %d\n", name, output.FormatSize(int64(len(data))), username, id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&public, "public", false, "Make the photo visible to everyone")
	return cmd
}

func newDownloadCmd(app *App) *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "download <assetid>",
		Short: "Download a photo",
		Long: `Download a photo by id. The file is written under its asset name
unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}

			meta, data, err := app.readClient().Download(id)
			if err != nil {
				return fmt.Errorf("downloading asset %d: %w", id, err)
			}

			target := dest
			if target == "" {
				target = filepath.Base(meta.AssetName)
			}
			if err := afero.WriteFile(app.FS, target, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}

			if app.JSON {
				output.JSON(app.Out, map[string]interface{}{
					"assetid":    id,
					"asset_name": meta.AssetName,
					"user_id":    meta.UserID,
					"bucket_key": meta.BucketKey,
					"path":       target,
					"size":       len(data),
				})
				return nil
			}
			fmt.Fprintf(app.Out, "Downloaded %s (%s) to %s\n", meta.AssetName, output.FormatSize(int64(len(data))), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dest, "output", "o", "", "Destination file")
	return cmd
}
