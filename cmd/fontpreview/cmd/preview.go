package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fontpreview/fontpreview/internal/adapters/bbolt"
	"github.com/fontpreview/fontpreview/internal/adapters/browser"
	"github.com/fontpreview/fontpreview/internal/adapters/web"
	"github.com/fontpreview/fontpreview/internal/app"
	"github.com/fontpreview/fontpreview/internal/config"
	"github.com/fontpreview/fontpreview/internal/ports"
	"github.com/spf13/cobra"
)

var (
	previewFamiliesFile string
	previewWatch        bool
	previewNoBrowser    bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <char> [family...]",
	Short: "Serve a page previewing a character in each family",
	Long: "Builds one preview block per family (in the order given, duplicates kept) and serves the page\n" +
		"on a local address until interrupted. <char> is a single character or a code point like U+4E2D.",
	Args: cobra.MinimumNArgs(1),
	RunE: runPreview,
}

func init() {
	f := previewCmd.Flags()
	f.StringVarP(&previewFamiliesFile, "families-file", "f", "", "read more families from a file, one per line")
	f.BoolVarP(&previewWatch, "watch", "w", false, "rebuild the page when the families file changes")
	f.BoolVar(&previewNoBrowser, "no-browser", false, "print the URL without opening a browser")
	f.String("addr", "", "listen address (port 0 picks a free port)")
	f.Duration("grace", 0, "how long to wait for in-flight responses on shutdown")

	bindFlag(previewCmd, config.KeyAddr, "addr")
	bindFlag(previewCmd, config.KeyGracePeriod, "grace")
}

func runPreview(cmd *cobra.Command, args []string) error {
	c, err := app.ParseChar(args[0])
	if err != nil {
		return err
	}
	families := make([]ports.Family, 0, len(args)-1)
	for _, name := range args[1:] {
		families = append(families, ports.NewFamily(name))
	}

	var history ports.HistoryStore
	if cfg.HistoryPath != "" {
		store, err := bbolt.NewStore(cfg.HistoryPath)
		if err != nil {
			// Another fontpreview may hold the lock; previewing still works.
			logger.Warn("history disabled", "path", cfg.HistoryPath, "err", err)
		} else {
			defer store.Close()
			history = store
		}
	}

	a := app.New(app.Config{
		Addr:        cfg.Addr,
		GracePeriod: cfg.GracePeriod,
		Logger:      logger,
		History:     history,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req := app.Request{
		Char:         c,
		Families:     families,
		FamiliesFile: previewFamiliesFile,
		Watch:        previewWatch,
	}
	openBrowser := cfg.OpenBrowser && !previewNoBrowser

	err = a.Preview(ctx, req, func(url string) {
		fmt.Print(formatServing(string(c), url, previewWatch))
		if !openBrowser {
			return
		}
		if err := (browser.Opener{}).Open(url); err != nil {
			fmt.Printf("  (could not open browser: %v)\n", err)
		}
	})
	if err != nil {
		var bindErr *web.BindError
		if errors.As(err, &bindErr) {
			return fmt.Errorf("cannot serve preview: %w", err)
		}
		return err
	}

	fmt.Println("\n⚡ preview stopped")
	return nil
}
