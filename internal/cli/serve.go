package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	wherrors "github.com/knaebel/wheelhouse/pkg/errors"
)

// serveCommand creates the serve command for previewing a generated site.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated index locally for testing",
		Long: `Serve the generated static site over HTTP so pip can install from it
before the site is deployed:

  wheelhouse serve
  pip install <package> --find-links http://localhost:8080/

The server shuts down cleanly on Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dir") {
				dir = cfg.Output
			}

			if _, err := os.Stat(dir); err != nil {
				return wherrors.New(wherrors.ErrCodeNotFound,
					"site directory %s does not exist; run `wheelhouse generate` first", dir)
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           c.siteHandler(dir),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			printInfo("Serving %s at http://%s/", dir, displayAddr(addr))
			printDetail("pip install <package> --find-links http://%s/", displayAddr(addr))

			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:8080", "address to listen on")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "site directory to serve (defaults to the configured output)")

	return cmd
}

// siteHandler builds the router serving a generated site directory.
func (c *CLI) siteHandler(dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(c.requestLogger)
	r.Handle("/*", http.FileServer(http.Dir(dir)))
	return r
}

// requestLogger logs each request through the CLI logger at debug level.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		c.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// displayAddr rewrites a bare ":port" listen address into something clickable.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
