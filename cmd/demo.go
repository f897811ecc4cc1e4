package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydeck/internal/demoserver"
	"github.com/abhisek/studydeck/internal/llm"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Study a sample session against a built-in server",
	Long: "Start an in-memory session server on a local port, seeded with a sample\n" +
		"session, and open it. With --serve the server runs until interrupted instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		serveOnly, _ := cmd.Flags().GetBool("serve")
		useLLM, _ := cmd.Flags().GetBool("llm")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		cfg.ServerURL = "http://" + ln.Addr().String()

		e, err := setupWith(cmd, cfg)
		if err != nil {
			_ = ln.Close()
			return err
		}
		defer e.Close()

		sample := demoserver.SampleSession()
		backend := demoserver.New(e.log.Named("demoserver"), sample)
		if useLLM {
			lcfg, ok := llm.ConfigFromEnv()
			if !ok {
				_ = ln.Close()
				return fmt.Errorf("--llm needs STUDYDECK_LLM_PROVIDER or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")
			}
			provider, err := llm.New(cmd.Context(), lcfg, e.log.Named("llm"))
			if err != nil {
				_ = ln.Close()
				return err
			}
			backend.UseGenerator(demoserver.LLMGenerator{Provider: provider})
			e.log.Infow("demo server generating with model", "provider", lcfg.Provider, "model", provider.ModelID())
		}
		srv := &http.Server{
			Handler:           backend,
			ReadHeaderTimeout: 10 * time.Second,
		}
		serveErr := make(chan error, 1)
		go func() {
			serveErr <- srv.Serve(ln)
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				e.log.Warnw("demo server shutdown", "error", err)
			}
		}()

		e.log.Infow("demo server listening", "url", cfg.ServerURL)

		if serveOnly {
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s (session %q). Press Ctrl+C to stop.\n", cfg.ServerURL, sample.ID)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			select {
			case <-ctx.Done():
				return nil
			case err := <-serveErr:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		}

		return runStudy(e, sample.ID)
	},
}

func init() {
	demoCmd.Flags().String("addr", "127.0.0.1:0", "Listen address for the demo server")
	demoCmd.Flags().Bool("serve", false, "Only run the server")
	demoCmd.Flags().Bool("llm", false, "Generate questions with a language model (reads provider keys from the environment)")
}
