package routehandlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/coreybb/quill/auth"
	"github.com/coreybb/quill/ingestion"
	"github.com/coreybb/quill/storage"
	"github.com/coreybb/quill/webutil"
)

const (
	uploadFormField     = "file"
	defaultMaxUploadMB  = 25
	multipartMemoryMB   = 8
	anonymousUploaderID = "anonymous"
)

type DocumentIngestor interface {
	Ingest(ctx context.Context, fileName string, data []byte) (*ingestion.Result, error)
}

type Summarizer interface {
	SummarizeDocument(ctx context.Context, text string) (string, error)
}

type UploadHandler struct {
	Storer     storage.ContentStorer
	Ingestor   DocumentIngestor
	Summarizer Summarizer // optional
	MaxBytes   int64
}

type uploadResponse struct {
	*ingestion.Result
	SourceFile string `json:"sourceFile"`
}

func NewUploadHandler(storer storage.ContentStorer, ingestor DocumentIngestor, summarizer Summarizer, maxUploadMB int) *UploadHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = defaultMaxUploadMB
	}
	return &UploadHandler{
		Storer:     storer,
		Ingestor:   ingestor,
		Summarizer: summarizer,
		MaxBytes:   int64(maxUploadMB) << 20,
	}
}

func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(multipartMemoryMB << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return webutil.ErrTooLarge(fmt.Sprintf("Upload exceeds %d MB", h.MaxBytes>>20))
		}
		return webutil.ErrBadRequestWrap("Invalid multipart upload: "+err.Error(), err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		return webutil.ErrBadRequestWrap("No file uploaded", err)
	}
	defer file.Close()

	fileName := filepath.Base(header.Filename)
	if !ingestion.ValidateFileType(fileName) {
		return webutil.ErrBadRequest(fmt.Sprintf("Unsupported file type. Supported: %s",
			strings.Join(ingestion.SupportedExtensions(), ", ")))
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read upload %s: %w", fileName, err)
	}

	ownerID := anonymousUploaderID
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		ownerID = claims.UserID
	}
	sourcePath, err := h.Storer.Store(ownerID, fileName, data)
	if err != nil {
		return fmt.Errorf("failed to store upload %s: %w", fileName, err)
	}
	log.Printf("INFO (UploadHandler): Stored '%s' (%d bytes) at %s", fileName, len(data), sourcePath)

	result, err := h.Ingestor.Ingest(r.Context(), fileName, data)
	if err != nil {
		if errors.Is(err, ingestion.ErrUnsupportedFileType) {
			return webutil.ErrBadRequestWrap("Unsupported file type", err)
		}
		return fmt.Errorf("failed to ingest %s: %w", fileName, err)
	}

	if !result.ExtractionDegraded && h.Summarizer != nil {
		summary, err := h.Summarizer.SummarizeDocument(r.Context(), result.Text)
		if err != nil {
			log.Printf("WARN (UploadHandler): AI summary failed for '%s', keeping local summary: %v", fileName, err)
		} else if summary != "" {
			result.Summary = summary
		}
	}

	webutil.RespondWithJSON(w, http.StatusOK, uploadResponse{Result: result, SourceFile: sourcePath})
	return nil
}
