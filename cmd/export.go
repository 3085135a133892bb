package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/coreybb/quill/ebook"
	"github.com/coreybb/quill/models"
)

type exportArgs struct {
	BookPath      string
	Format        string
	Preset        string
	OutputDir     string
	IncludeImages bool
	ChromePath    string
}

var eArgs exportArgs

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a book JSON file as epub, kindle, pdf, docx or print-ready",
	Long:  "Export a book JSON file as epub, kindle, pdf, docx or print-ready. Print formats use a local Chrome when one is available and fall back to printable HTML otherwise.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&eArgs.BookPath, "book", "b", "", "path to a book JSON file")
	exportCmd.Flags().StringVarP(&eArgs.Format, "format", "f", "", "export format")
	exportCmd.Flags().StringVar(&eArgs.Preset, "preset", "", "named export preset (kindle, paperback, hardcover, epub)")
	exportCmd.Flags().StringVarP(&eArgs.OutputDir, "out", "o", ".", "output directory")
	exportCmd.Flags().BoolVar(&eArgs.IncludeImages, "include-images", false, "embed the book cover when it can be fetched")
	exportCmd.Flags().StringVar(&eArgs.ChromePath, "chrome-path", os.Getenv("CHROME_PATH"), "Chrome/Chromium executable for PDF output")
	_ = exportCmd.MarkFlagRequired("book")
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(eArgs.BookPath)
	if err != nil {
		return fmt.Errorf("failed to read book file: %w", err)
	}
	var book models.Book
	if err := json.Unmarshal(raw, &book); err != nil {
		return fmt.Errorf("failed to parse book file %s: %w", eArgs.BookPath, err)
	}

	var opts models.ExportOptions
	if eArgs.Preset != "" {
		preset, ok := ebook.LookupPreset(eArgs.Preset)
		if !ok {
			return fmt.Errorf("unknown preset %q", eArgs.Preset)
		}
		opts = preset.Options
	}
	if eArgs.Format != "" {
		opts.Format = models.ExportFormat(eArgs.Format)
	}
	if cmd.Flags().Changed("include-images") {
		opts.IncludeImages = eArgs.IncludeImages
	}

	packager := ebook.NewPackager(
		ebook.NewChromePrinter(eArgs.ChromePath, defaultPrintTimeout),
		ebook.NewHTTPCoverFetcher(defaultCoverFetchTimeout, defaultCoverFetchRetries),
	)
	start := time.Now()
	artifact, err := packager.Export(cmd.Context(), &book, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(eArgs.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outPath := filepath.Join(eArgs.OutputDir, artifact.FileName)
	if err := os.WriteFile(outPath, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	if artifact.Fallback {
		log.Printf("WARN: PDF printing unavailable, wrote printable HTML instead")
	}
	fmt.Printf("wrote %s (%d bytes) in %s\n", outPath, len(artifact.Data), time.Since(start).Round(time.Millisecond))
	return nil
}
