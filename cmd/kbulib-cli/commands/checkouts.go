package commands

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"kbuassist-backend/lib/osutil"
	"kbuassist-backend/lib/restyutil"
	"kbuassist-backend/lib/scrapers/kbulib"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var coversDir *string
var debugHttpDir *string

func init() {
	coversDir = checkoutsCmd.Flags().String("covers", "", "Directory to save cover images to.")
	debugHttpDir = checkoutsCmd.Flags().String("debug-http", "", "Directory to dump raw http exchanges to.")
	rootCmd.AddCommand(checkoutsCmd)
}

var checkoutsCmd = &cobra.Command{
	Use:   "checkouts [--covers <dir>]",
	Short: "Scrapes the patron's checkout list with book details and covers.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg := readConfig()
		if *debugHttpDir != "" {
			kbulib.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(*debugHttpDir))
		}

		client, session := login(ctx, cfg)

		res, err := client.Scrape(ctx, session)
		// an empty Link means the checkout list itself never came back,
		// otherwise the error only covers per-row enrichment
		if err != nil && res.Link == "" {
			osutil.Fatal("scrape failed", err)
		}
		if err != nil {
			slog.Warn("some rows could not be fully enriched", "err", err)
		}
		if !res.Ok() {
			osutil.Fatal("scrape failed", errors.New(res.Error.Title))
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"No", "ISBN", "서지정보", "대출일자", "반납예정일", "대출상태", "연기신청"})
		for _, c := range res.Data {
			t.AppendRow(table.Row{c.No, c.Isbn, c.Title, c.CheckoutDate, c.DueDate, c.Status, c.Renewable})
		}
		t.Render()

		if *coversDir != "" {
			saveCovers(*coversDir, res.Data)
		}
	},
}

func saveCovers(dir string, checkouts []kbulib.Checkout) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		osutil.Fatal("failed to create covers directory", err)
	}

	for _, c := range checkouts {
		if len(c.Photo) == 0 || c.Isbn == "" {
			continue
		}
		ext := filepath.Ext(c.CoverUrl)
		if ext == "" {
			ext = ".jpg"
		}
		path := filepath.Join(dir, c.Isbn+ext)
		err := os.WriteFile(path, c.Photo, 0644)
		if err != nil {
			slog.Warn("failed to write cover", "path", path, "err", err)
			continue
		}
		slog.Info("saved cover", "path", path)
	}
}
