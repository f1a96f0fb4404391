package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/encore/internal/api"
)

var (
	uploadTitle       string
	uploadDescription string
	uploadGenre       string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path>...",
	Short: "Upload audio files as new tracks",
	Long: `Upload one or more local audio files to the music service. Requires api.token.

Each file is sent once. When some uploads fail the rest still go through,
and the failures are reported at the end.

Examples:
  encore upload ~/Music/night-drive.mp3 --title "Night Drive" --genre Synthwave
  encore upload demos/*.wav --genre Lofi`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadTitle, "title", "", "track title (single file only; defaults to the file name)")
	uploadCmd.Flags().StringVar(&uploadDescription, "description", "", "track description")
	uploadCmd.Flags().StringVar(&uploadGenre, "genre", "", "genre name")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	reqs, err := uploadRequests(args, uploadTitle, uploadDescription, uploadGenre)
	if err != nil {
		return err
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}

	res := client.UploadTracks(cmd.Context(), reqs)

	if JSONOutput() {
		if err := json.NewEncoder(os.Stdout).Encode(res.Data); err != nil {
			return err
		}
	} else if len(res.Data) > 0 {
		t := NewTable("ID", "TITLE", "GENRE")
		for _, dto := range res.Data {
			t.Row(dto.ID, TruncateString(dto.Title, 48), dto.GenreName)
		}
		t.Flush()
	}

	if res.HasErrors() {
		return fmt.Errorf("%d of %d uploads failed: %w", len(res.Errors), len(reqs), res.Err())
	}
	return nil
}

// uploadRequests builds one request per path. A title names a single
// track, so it cannot be combined with several paths.
func uploadRequests(paths []string, title, description, genre string) ([]api.UploadRequest, error) {
	if title != "" && len(paths) > 1 {
		return nil, fmt.Errorf("--title can only be used with a single file")
	}
	reqs := make([]api.UploadRequest, 0, len(paths))
	for _, path := range paths {
		reqs = append(reqs, api.UploadRequest{
			Path:        path,
			Title:       title,
			Description: description,
			Genre:       genre,
		})
	}
	return reqs, nil
}
