// Command fractaldemo renders one fractal view and saves it without overlay.
//
//	fractaldemo -variant barnsley -width 400 -height 600 -zoom 0.4 -cy 5
//	fractaldemo -zoom 200 -cx -0.7436 -cy 0.1318 -budget 512 -format jpeg
package main

import (
	"bytes"
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/text/language"

	"github.com/gogpu/fractal"
)

func main() {
	var (
		variant = flag.String("variant", "mandelbrot", "fractal variant: mandelbrot or barnsley")
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		zoom    = flag.Float64("zoom", 1, "zoom factor")
		cx      = flag.Float64("cx", 0, "view center x")
		cy      = flag.Float64("cy", 0, "view center y")
		budget  = flag.Int("budget", fractal.DefaultIterationBudget, "iteration budget (power of two, 2..512)")
		format  = flag.String("format", "png", "output format: png, jpeg, bmp or tiff")
		outDir  = flag.String("out", ".", "output directory")
		workers = flag.Int("workers", 0, "escape-time workers (0 = GOMAXPROCS, 1 = sequential)")
		status  = flag.Bool("status", false, "also save the presented frame with the status overlay")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	v, err := fractal.ParseVariant(*variant)
	if err != nil {
		log.Fatal(err)
	}
	f, err := fractal.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}
	view := fractal.ViewState{
		Zoom:            *zoom,
		Center:          fractal.Point{X: *cx, Y: *cy},
		IterationBudget: *budget,
		Variant:         v,
	}
	if err := view.Validate(); err != nil {
		log.Fatal(err)
	}
	dims := fractal.Dimensions{Width: *width, Height: *height}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	overlay := fractal.Overlays{fractal.DefaultReticle()}
	if *status {
		st, err := fractal.NewStatusText(12, language.English)
		if err != nil {
			log.Fatal(err)
		}
		overlay = append(overlay, st)
	}

	var shown *fractal.Pixmap
	engine := fractal.NewEngine(
		fractal.DisplayFunc(func(frame *fractal.Pixmap) error {
			shown = frame
			return nil
		}),
		fractal.WithEscapeTimeRenderer(fractal.NewEscapeTimeRenderer(fractal.WithWorkers(*workers))),
		fractal.WithOverlay(overlay),
	)
	defer engine.Close()

	sink := fractal.FileSink{Dir: *outDir}
	capture := fractal.NewCaptureCoordinator(engine, fractal.WithFormat(f))

	start := time.Now()
	name, err := capture.Export(ctx, view, dims, sink)
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}
	log.Printf("%s saved to %s/%s (%dx%d, %v)", v.Title(), *outDir, name, *width, *height, time.Since(start).Round(time.Millisecond))

	if *status && shown != nil {
		// Export restores the overlaid frame on the display.
		var buf bytes.Buffer
		if err := fractal.Encode(&buf, shown, f); err != nil {
			log.Fatal(err)
		}
		overlayName := v.String() + "-overlay." + f.Ext()
		if err := sink.Save(overlayName, buf.Bytes()); err != nil {
			log.Fatal(err)
		}
		log.Printf("overlay frame saved to %s/%s", *outDir, overlayName)
	}
}
