package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/coreybb/quill/webutil"
)

// defaultUploadDir is the base directory for stored manuscripts.
const defaultUploadDir = "_uploads"

// ContentStorer stores uploaded manuscripts.
type ContentStorer interface {
	// Store saves the content and returns the path relative to the storage root.
	// Identical content for the same owner is stored once.
	Store(ownerID, fileName string, content []byte) (relativeStoragePath string, err error)
	// Load reads content previously returned by Store.
	Load(relativeStoragePath string) ([]byte, error)
}

// LocalFileStorer implements ContentStorer for saving content to the local file system.
type LocalFileStorer struct {
	basePath string
}

// NewLocalFileStorer creates a new LocalFileStorer.
// If basePath is empty, it defaults to defaultUploadDir.
func NewLocalFileStorer(basePath string) *LocalFileStorer {
	if basePath == "" {
		basePath = defaultUploadDir
	}
	return &LocalFileStorer{basePath: basePath}
}

// Store saves content to <basePath>/manuscripts/<ownerID>/<sha256>.<ext> and returns
// manuscripts/<ownerID>/<sha256>.<ext>. The extension is taken from fileName.
func (lfs *LocalFileStorer) Store(ownerID, fileName string, content []byte) (string, error) {
	if ownerID == "" {
		ownerID = "anonymous"
	}
	if strings.ContainsAny(ownerID, `/\`) || ownerID == "." || ownerID == ".." {
		return "", fmt.Errorf("invalid owner id %q", ownerID)
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	if ext == "" || ext == "." {
		return "", fmt.Errorf("file name %q has no extension", fileName)
	}

	hash, err := webutil.GenerateHash(content)
	if err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}

	relativeDir := filepath.Join("manuscripts", ownerID)
	storedName := hash + ext
	relativeStoragePath := filepath.ToSlash(filepath.Join(relativeDir, storedName))

	fullStorageDir := filepath.Join(lfs.basePath, relativeDir)
	fullStoragePath := filepath.Join(fullStorageDir, storedName)

	if _, err := os.Stat(fullStoragePath); err == nil {
		log.Printf("INFO (LocalFileStorer): Content already stored at %s, skipping write", fullStoragePath)
		return relativeStoragePath, nil
	}

	if err := os.MkdirAll(fullStorageDir, 0o755); err != nil {
		log.Printf("ERROR (LocalFileStorer): Failed to create storage directory '%s': %v", fullStorageDir, err)
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	if err := os.WriteFile(fullStoragePath, content, 0o644); err != nil {
		log.Printf("ERROR (LocalFileStorer): Failed to write manuscript to '%s': %v", fullStoragePath, err)
		return "", fmt.Errorf("failed to save manuscript: %w", err)
	}

	log.Printf("INFO (LocalFileStorer): Saved manuscript '%s' to: %s (%d bytes)", fileName, fullStoragePath, len(content))
	return relativeStoragePath, nil
}

func (lfs *LocalFileStorer) Load(relativeStoragePath string) ([]byte, error) {
	clean := filepath.Clean(filepath.FromSlash(relativeStoragePath))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("invalid storage path %q", relativeStoragePath)
	}
	data, err := os.ReadFile(filepath.Join(lfs.basePath, clean))
	if err != nil {
		return nil, fmt.Errorf("failed to read stored manuscript: %w", err)
	}
	return data, nil
}
