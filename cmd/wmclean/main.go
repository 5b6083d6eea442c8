package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	watermark "github.com/overlaykit/watermark-remover-go"
)

// wmclean removes the overlay watermark from single images or whole
// directories.
//
//	wmclean -in image.png
//	wmclean -in image.jpg -out cleaned.png
//	wmclean -dir ./shots -outdir ./cleaned -jobs 4
//	wmclean -in image.png -detect

var log = logrus.New()

func main() {
	input := flag.String("in", "", "path to a watermarked image (png/jpg/webp)")
	output := flag.String("out", "", "output path (defaults to <name><suffix>.png)")
	dir := flag.String("dir", "", "process every image in this directory instead of a single file")
	outDir := flag.String("outdir", "", "output directory for batch mode (defaults to the input directory)")
	jobs := flag.Int("jobs", 0, "parallel workers in batch mode (defaults to NumCPU)")
	configPath := flag.String("config", "", "optional YAML config file")
	detectOnly := flag.Bool("detect", false, "report watermark presence and geometry, do not modify")
	force := flag.Bool("force", false, "remove even when detection reports no watermark")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("read config")
	}
	if *jobs > 0 {
		cfg.Jobs = *jobs
	}
	if *force {
		cfg.Force = true
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	if *input == "" && *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	engine, err := watermark.New(ctx)
	if err != nil {
		log.WithError(err).Fatal("initialize engine")
	}

	if *dir != "" {
		if failed := processDir(ctx, engine, cfg, *dir, *outDir, *detectOnly); failed > 0 {
			log.Errorf("%d file(s) failed", failed)
			os.Exit(1)
		}
		return
	}

	outPath := *output
	if outPath == "" {
		outPath = derivedOutputPath(*input, cfg.Suffix)
	}
	if err := processFile(ctx, engine, cfg, *input, outPath, *detectOnly); err != nil {
		log.WithError(err).WithField("file", *input).Fatal("processing failed")
	}
}

// processDir runs the per-file pipeline over every image in dir with a
// bounded worker pool. Failed files are logged and skipped; the queue
// keeps moving. Returns the number of failures.
func processDir(ctx context.Context, engine *watermark.Engine, cfg Config, dir, outDir string, detectOnly bool) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.WithError(err).Fatal("read input directory")
	}
	if outDir == "" {
		outDir = dir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.WithError(err).Fatal("create output directory")
	}

	paths := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for i := 0; i < cfg.Jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				outPath := filepath.Join(outDir, base+cfg.Suffix+".png")
				if err := processFile(ctx, engine, cfg, path, outPath, detectOnly); err != nil {
					log.WithError(err).WithField("file", path).Error("processing failed")
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}
		}()
	}

	for _, entry := range entries {
		if entry.IsDir() || !isImagePath(entry.Name()) {
			continue
		}
		paths <- filepath.Join(dir, entry.Name())
	}
	close(paths)
	wg.Wait()

	return failed
}

func processFile(ctx context.Context, engine *watermark.Engine, cfg Config, inPath, outPath string, detectOnly bool) error {
	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	img, format, err := watermark.Decode(f)
	if err != nil {
		return fmt.Errorf("decode input: %w", err)
	}

	det, err := engine.Detect(img)
	if err != nil {
		return fmt.Errorf("detect watermark: %w", err)
	}

	present := det.Present
	if cfg.Threshold > 0 {
		present = det.Score > cfg.Threshold
	}

	entry := log.WithFields(logrus.Fields{
		"file":   inPath,
		"format": format,
		"score":  fmt.Sprintf("%.2f", det.Score),
		"region": det.Region.Rect(),
	})

	if detectOnly {
		entry.WithField("present", present).Info("detection result")
		return nil
	}

	if !present && !cfg.Force {
		entry.Info("no watermark detected, skipping")
		return nil
	}

	cleaned, err := engine.Remove(ctx, img)
	if err != nil {
		return fmt.Errorf("remove watermark: %w", err)
	}

	if err := imaging.Save(cleaned, outPath); err != nil {
		return fmt.Errorf("save output: %w", err)
	}

	entry.WithField("out", outPath).Info("cleaned")
	return nil
}

func derivedOutputPath(inPath, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	return filepath.Join(filepath.Dir(inPath), base+suffix+".png")
}

func isImagePath(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return true
	}
	return false
}
