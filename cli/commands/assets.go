package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/petal-labs/reel/synthesia"
)

func (a *App) newAssetsCommand() *cobra.Command {
	assets := &cobra.Command{
		Use:   "assets",
		Short: "Upload media assets",
	}

	var contentType, title string
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image, video or audio file",
		Long: `Upload a media file for use as a background or script audio.
The content type is detected from the file contents unless --content-type is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return exitWithCode(ExitValidation, err)
			}
			defer f.Close()

			if title == "" {
				title = filepath.Base(args[0])
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Assets().Upload(commandContext(cmd), &synthesia.UploadAssetRequest{
				Body:        f,
				ContentType: contentType,
				Title:       title,
			})
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			asset := res.Value()
			if a.jsonOutput {
				return a.outputJSON(asset)
			}
			fmt.Fprintf(a.stdout, "Uploaded %s as asset %s\n", title, asset.ID)
			return nil
		},
	}
	upload.Flags().StringVar(&contentType, "content-type", "", "MIME type of the file (detected when empty)")
	upload.Flags().StringVar(&title, "title", "", "asset title (default: file name)")

	assets.AddCommand(upload)
	return assets
}
