package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sceneguard/internal/config"
	"sceneguard/internal/logger"
	"sceneguard/internal/model"
	"sceneguard/internal/reasoning"
	"sceneguard/internal/repository/sqlite"
	"sceneguard/internal/service/ai"
	"sceneguard/internal/service/analysis"
	"sceneguard/internal/service/capture"
	"sceneguard/internal/service/storage"
)

func main() {
	device := flag.String("device", "0", "Camera device index or stream URL (ignored when image files are given)")
	name := flag.String("name", "local", "Camera name used in the report")
	near := flag.Float64("near", reasoning.NearThresholdStatic, "Near/far distance threshold in pixels")
	outDir := flag.String("out", "", "Directory for the annotated snapshot (defaults to IMAGE_DIR)")
	dbPath := flag.String("db", "", "Archive the report into this sqlite database")
	tablesPath := flag.String("tables", "", "Reference tables overrides file")
	verbose := flag.Bool("v", false, "Write logs to stdout and LOG_DIR")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [image ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Load()
	cfg.NearThreshold = *near
	if *outDir != "" {
		cfg.ImageDirectory = *outDir
	}
	if *tablesPath != "" {
		cfg.TablesPath = *tablesPath
	}

	logs := logger.NewDiscard()
	if *verbose {
		logs = logger.NewLogger(cfg)
	}
	defer logs.Close()

	tables, err := cfg.LoadTables()
	if err != nil {
		log.Fatalf("Failed to load reference tables: %v", err)
	}

	detector := ai.NewDetectorService(cfg, logs)
	defer detector.Close()
	if !detector.Ready() {
		log.Fatalf("Detection network not available (MODEL_PATH=%s, CONFIG_PATH=%s)", cfg.ModelPath, cfg.ConfigPath)
	}

	source, err := openSource(*device, flag.Args())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer source.Close()

	frames, err := fillBuffer(source, *name, cfg.BufferSize)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("Analyzing %d frames...\n\n", len(frames))
	aggregator := analysis.NewAggregator(detector, tables, cfg, logs)
	report, err := aggregator.Analyze(*name, frames)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	annotated, err := detector.DrawObjects(report.Objects, frames[len(frames)-1].Data)
	if err != nil {
		log.Printf("⚠️  Failed to annotate snapshot: %v", err)
	} else {
		filename, err := storage.NewSnapshotStore(cfg, logs).Save(report, annotated)
		if err != nil {
			log.Printf("⚠️  Failed to save snapshot: %v", err)
		} else {
			report.SnapshotFile = filename
		}
	}

	fmt.Print(analysis.FormatReport(report))
	if report.SnapshotFile != "" {
		fmt.Printf("\nSaved analysis result to %s/%s\n", cfg.ImageDirectory, report.SnapshotFile)
	}

	if *dbPath != "" {
		if err := archive(*dbPath, report); err != nil {
			log.Fatalf("Failed to archive report: %v", err)
		}
		fmt.Printf("📦 Report %s archived to %s\n", report.ID, *dbPath)
	}
}

func openSource(device string, images []string) (capture.Source, error) {
	if len(images) > 0 {
		return capture.OpenFiles(images...)
	}
	return capture.OpenCamera(device)
}

// fillBuffer reads frames until the buffer is full and returns its snapshot.
func fillBuffer(source capture.Source, camera string, size int) ([]model.Frame, error) {
	buffer := storage.NewFrameBuffer(size)
	fmt.Println("Buffer filling... wait a moment.")

	for !buffer.IsFull() {
		data, err := source.Next()
		if err != nil {
			return nil, err
		}
		buffer.Push(model.Frame{Camera: camera, Timestamp: time.Now(), Data: data})
	}

	frames, err := buffer.Snapshot()
	if errors.Is(err, storage.ErrBufferNotReady) {
		return nil, fmt.Errorf("buffer not ready after %d frames", buffer.Len())
	}
	return frames, err
}

func archive(dbPath string, report *model.Report) error {
	db, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	return sqlite.NewReportRepository(db).Insert(report)
}
