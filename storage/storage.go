package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// DocumentArchive stores the raw content of ingested knowledge documents,
// keyed by document id, so the original text can be retrieved after chunking
type DocumentArchive interface {
	// Save stores the raw content and returns the archive path
	Save(ctx context.Context, docID string, content []byte) (string, error)

	// Load retrieves the raw content of an archived document
	Load(ctx context.Context, docID string) ([]byte, error)
}

// ErrNotArchived indicates no archived content exists for a document id
var ErrNotArchived = errors.New("document not archived")

// ArchiveType represents the archive backend type
type ArchiveType string

const (
	ArchiveTypeLocal ArchiveType = "local"
	ArchiveTypeS3    ArchiveType = "s3"
)

// ArchiveConfig holds configuration for the document archive
type ArchiveConfig struct {
	Type         ArchiveType
	LocalPath    string // for local archive
	S3Bucket     string // for S3 archive
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewArchive creates a document archive based on configuration
func NewArchive(cfg ArchiveConfig) (DocumentArchive, error) {
	switch cfg.Type {
	case ArchiveTypeLocal:
		return NewLocalArchive(cfg.LocalPath)
	case ArchiveTypeS3:
		return NewS3Archive(cfg)
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Type)
	}
}

// NewArchiveFromEnv creates a document archive from environment variables
func NewArchiveFromEnv() (DocumentArchive, error) {
	archiveType := os.Getenv("STORAGE_TYPE")
	if archiveType == "" {
		archiveType = "local" // Default to local for development
	}

	cfg := ArchiveConfig{
		Type: ArchiveType(archiveType),
	}

	switch cfg.Type {
	case ArchiveTypeLocal:
		localPath := os.Getenv("STORAGE_LOCAL_PATH")
		if localPath == "" {
			localPath = "./storage/documents"
		}
		cfg.LocalPath = localPath
		return NewLocalArchive(cfg.LocalPath)

	case ArchiveTypeS3:
		cfg.S3Bucket = os.Getenv("AWS_S3_BUCKET")
		cfg.S3Region = os.Getenv("AWS_REGION")
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		cfg.AWSAccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		cfg.AWSSecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 archive")
		}

		return NewS3Archive(cfg)

	default:
		return nil, fmt.Errorf("unknown archive type: %s", archiveType)
	}
}

// archivePath shards archived documents by id prefix
func archivePath(docID string) string {
	prefix := docID
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return fmt.Sprintf("%s/%s.txt", prefix, docID)
}
