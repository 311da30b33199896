package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pivolan/case_dashboard/ai"
	"github.com/pivolan/case_dashboard/config"
	"github.com/pivolan/case_dashboard/dataset"
	"github.com/pivolan/case_dashboard/logging"
)

const sessionTTL = 2 * time.Hour

var (
	noAI       bool
	copyRows   string
	copyFormat string
	copyPlain  bool
	copyPrint  bool
	markdown   bool
)

var rootCmd = &cobra.Command{
	Use:   "case_dashboard",
	Short: "Browse CSV case exports as paginated tables and analytics",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()
		cleanup, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		cobra.OnFinalize(cleanup)
		return nil
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP API",
	RunE:  runServe,
}

var summaryCmd = &cobra.Command{
	Use:   "summary <csv>",
	Short: "Print case analytics of a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

var profileCmd = &cobra.Command{
	Use:   "profile <csv>",
	Short: "Print per-column statistics of a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

var copyCmd = &cobra.Command{
	Use:   "copy <csv>",
	Short: "Copy selected rows of a CSV file to the clipboard",
	Long: `Copy rows of a CSV file to the system clipboard.

Rows are 1-based numbers or ranges, for example --rows 1,4,10-12.
The text starts with the header row; TSV output gets a leading "#" column.`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

func init() {
	serveCmd.Flags().BoolVar(&noAI, "no-ai", false, "start without the completion relay")

	profileCmd.Flags().BoolVar(&markdown, "markdown", false, "render a markdown table")

	copyCmd.Flags().StringVar(&copyRows, "rows", "", "rows to copy, e.g. 1,3,5-9")
	copyCmd.Flags().StringVar(&copyFormat, "format", "tsv", "tsv or csv")
	copyCmd.Flags().BoolVar(&copyPlain, "no-numbers", false, "leave out the row number column")
	copyCmd.Flags().BoolVar(&copyPrint, "print", false, "print to stdout instead of the clipboard")
	_ = copyCmd.MarkFlagRequired("rows")

	rootCmd.AddCommand(serveCmd, summaryCmd, profileCmd, copyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	var completer ai.Completer
	if !noAI {
		if cfg.OpenAIKey == "" {
			return errors.New("OPENAI_API_KEY is not set, use --no-ai to run without the relay")
		}
		completer = ai.NewOpenAI(ai.Options{
			APIKey:      cfg.OpenAIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: cfg.FetchTimeout}
	registry := dataset.NewRegistry(cfg.Datasets, dataset.NewSource(cfg.DataDir, client))
	registry.FetchTimeout = cfg.FetchTimeout
	server := NewServer(cfg, registry, completer)

	go func() {
		preload, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
		if err := registry.LoadAll(preload); err != nil {
			logging.Warnf("Preloading datasets failed: %v", err)
		}
		for _, ds := range registry.List() {
			logging.Infof("Tab %s: %s, %d rows %s", ds.ID, ds.State, len(ds.Records), ds.Error)
		}
	}()

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := server.sessions.Prune(sessionTTL); n > 0 {
					logging.Debugf("Pruned %d idle sessions", n)
				}
			}
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("Backend server running on http://localhost%s", cfg.Addr())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Infof("Shutting down")
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdown)
}

func runSummary(cmd *cobra.Command, args []string) error {
	ds, err := loadFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), summaryText(ds))
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	ds, err := loadFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), profileText(ds, markdown))
	return nil
}

func runCopy(cmd *cobra.Command, args []string) error {
	ds, err := loadFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	text, n, err := selectionText(ds, copyRows, copyFormat, !copyPlain)
	if err != nil {
		return err
	}
	if copyPrint {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d selected rows copied!\n", n)
	return nil
}
