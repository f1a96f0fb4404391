package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tessro/encore/internal/api"
)

var (
	searchPick  bool
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tracks, users and playlists",
	Long: `Search the music service.

With --pick, choose a track from the results and play it.

Examples:
  encore search "night drive"
  encore search lofi --pick`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List genres",
	Args:  cobra.NoArgs,
	RunE:  runGenres,
}

var profileCmd = &cobra.Command{
	Use:   "profile <user-id>",
	Short: "Show a user's tracks and playlists",
	Long:  `Show a user's profile. Requires api.token.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func init() {
	searchCmd.Flags().BoolVarP(&searchPick, "pick", "p", false, "pick a track to play")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum results per type")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(profileCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := newAPIClient()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results, err := client.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	limitResults(results, searchLimit)

	if searchPick {
		return pickAndPlay(cmd, client, results)
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(results)
	}

	if results.Empty() {
		fmt.Printf("No results found for '%s'\n", query)
		return nil
	}

	if len(results.Tracks) > 0 {
		fmt.Println("Tracks")
		t := NewTable("  ID", "TITLE", "LENGTH")
		for _, hit := range results.Tracks {
			length := "-"
			if hit.Duration > 0 {
				length = FormatDuration(int(hit.Duration))
			}
			t.Row("  "+hit.ID, TruncateString(hit.Title, 48), length)
		}
		t.Flush()
	}
	if len(results.Users) > 0 {
		fmt.Println("\nUsers")
		t := NewTable("  ID", "NAME")
		for _, u := range results.Users {
			t.Row("  "+u.ID, u.UserName)
		}
		t.Flush()
	}
	if len(results.Playlists) > 0 {
		fmt.Println("\nPlaylists")
		t := NewTable("  ID", "NAME")
		for _, p := range results.Playlists {
			t.Row("  "+p.ID, TruncateString(p.Name, 48))
		}
		t.Flush()
	}
	return nil
}

func limitResults(r *api.SearchResults, n int) {
	if n <= 0 {
		return
	}
	if len(r.Tracks) > n {
		r.Tracks = r.Tracks[:n]
	}
	if len(r.Users) > n {
		r.Users = r.Users[:n]
	}
	if len(r.Playlists) > n {
		r.Playlists = r.Playlists[:n]
	}
}

func pickAndPlay(cmd *cobra.Command, client *api.Client, results *api.SearchResults) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("--pick needs an interactive terminal")
	}
	if len(results.Tracks) == 0 {
		return fmt.Errorf("no tracks to pick from")
	}

	options := make([]huh.Option[string], 0, len(results.Tracks))
	for _, hit := range results.Tracks {
		label := hit.Title
		if hit.Duration > 0 {
			label = fmt.Sprintf("%s (%s)", hit.Title, FormatDuration(int(hit.Duration)))
		}
		options = append(options, huh.NewOption(label, hit.ID))
	}

	var selectedID string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a track").
				Options(options...).
				Value(&selectedID),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("selection cancelled: %w", err)
	}

	return runPlay(cmd, []string{selectedID})
}

func runGenres(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	genres, err := client.Genres(cmd.Context())
	if err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(genres)
	}

	t := NewTable("ID", "GENRE", "TRACKS")
	for _, g := range genres {
		t.Row(g.ID, g.Name, strconv.Itoa(g.TrackCount))
	}
	t.Flush()
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	profile, err := client.Profile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(profile)
	}

	fmt.Printf("%s\n", profile.UserName)
	if profile.Bio != nil && *profile.Bio != "" {
		fmt.Printf("  %s\n", *profile.Bio)
	}
	fmt.Printf("  %s followers · %s following\n",
		humanize.Comma(int64(profile.FollowersCount)),
		humanize.Comma(int64(profile.FollowingsCount)))

	if tracks := client.TracksFromProfile(profile); len(tracks) > 0 {
		fmt.Println("\nTracks")
		t := NewTable("  ID", "TITLE", "UPLOADED")
		for i, track := range tracks {
			uploaded := "-"
			if at, ok := profile.Tracks[i].Uploaded(); ok {
				uploaded = humanize.Time(at)
			}
			t.Row("  "+track.ID, TruncateString(track.Title, 48), uploaded)
		}
		t.Flush()
	}

	if len(profile.Playlists) > 0 {
		fmt.Println("\nPlaylists")
		t := NewTable("  ID", "NAME", "TRACKS", "CREATED")
		for _, p := range profile.Playlists {
			created := "-"
			if at, ok := p.Created(); ok {
				created = at.Format(time.DateOnly)
			}
			t.Row("  "+p.ID, TruncateString(p.Name, 40), strconv.Itoa(p.TrackCount), created)
		}
		t.Flush()
	}
	return nil
}
