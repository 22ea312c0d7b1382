package main

// One-shot CLI: extract a CV file, run the standardization pipeline, and
// write the styled PDF.
//
//   go run ./cmd/standardize -in cv.docx -out cv.pdf

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cv-standardizer/internal/bootstrap"
	"cv-standardizer/internal/extract"
	"cv-standardizer/internal/shared/config"
)

func main() {
	inPath := flag.String("in", "", "input CV file (.txt, .docx, .pdf)")
	outPath := flag.String("out", "output.pdf", "output PDF path")
	mdPath := flag.String("md", "", "optional path to also write the final markdown")
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*inPath, *outPath, *mdPath); err != nil {
		log.Fatalf("standardize: %v", err)
	}
}

func run(inPath, outPath, mdPath string) error {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	format, err := extract.FormatForFile(inPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	text, err := extract.Text(ctx, data, format)
	if err != nil {
		return err
	}
	log.Printf("extracted %d characters from %s", len(text), inPath)

	result, err := app.Pipeline.Standardize(ctx, text)
	if err != nil {
		return err
	}
	if mdPath != "" {
		if err := os.WriteFile(mdPath, []byte(result.Final), 0o644); err != nil {
			return err
		}
	}

	pdf, err := app.Renderer.Render(ctx, result.Final, cfg.LogoURL, time.Now())
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, pdf, 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d bytes)\n", outPath, len(pdf))
	return nil
}
