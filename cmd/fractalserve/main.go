// Command fractalserve serves the interactive fractal viewer over WebSocket.
//
// Open http://localhost:8080 in a browser. Drag to pan, scroll or pinch to
// zoom, and use the keys shown on the page for the other commands.
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/integration/wsview"
)

//go:embed index.html
var indexHTML []byte

func main() {
	var (
		listen  = flag.String("listen", ":8080", "listen address")
		origins = flag.String("origins", "", "comma-separated extra origin patterns for cross-origin clients")
		width   = flag.Int("width", 640, "initial canvas width")
		height  = flag.Int("height", 480, "initial canvas height")
		workers = flag.Int("workers", 0, "escape-time workers per session (0 = GOMAXPROCS, 1 = sequential)")
		cacheMB = flag.Int64("cache", 32, "frame cache per session and variant in MiB (0 = 64)")
		seed    = flag.Uint64("seed", 1, "fern sample seed")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts := []wsview.Option{
		wsview.WithInitialDimensions(fractal.Dimensions{Width: *width, Height: *height}),
		wsview.WithEngineOptions(func() []fractal.EngineOption {
			escape := fractal.NewEscapeTimeRenderer(fractal.WithWorkers(*workers))
			fern := fractal.NewIFSRenderer(fractal.WithSeed(*seed, *seed^0x9e3779b97f4a7c15))
			return []fractal.EngineOption{
				fractal.WithEscapeTimeRenderer(fractal.NewCachedRenderer(escape, *cacheMB<<20)),
				fractal.WithIFSRenderer(fractal.NewCachedRenderer(fern, *cacheMB<<20)),
			}
		}),
	}
	if *origins != "" {
		opts = append(opts, wsview.WithOriginPatterns(strings.Split(*origins, ",")...))
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", wsview.NewServer(opts...))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sessions run on hijacked connections that Shutdown does not track;
	// they end when the base context is cancelled.
	srv := &http.Server{
		Addr:              *listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", *listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
