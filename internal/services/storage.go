package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeText = "text/plain"
)

var resumeExtensions = map[string]string{
	ContentTypePDF:  ".pdf",
	ContentTypeDOCX: ".docx",
	ContentTypeText: ".txt",
}

type StoredFile struct {
	Filename    string
	Path        string
	ContentType string
}

type StorageService interface {
	SaveResume(file *multipart.FileHeader) (*StoredFile, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveResume sniffs the upload content and stores it under a fresh uuid name.
// Only PDF, DOCX and plain text are accepted, regardless of the client's
// filename or declared content type.
func (s *storageService) SaveResume(file *multipart.FileHeader) (*StoredFile, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	contentType, err := DetectResumeType(data)
	if err != nil {
		return nil, err
	}

	uniqueFilename := fmt.Sprintf("resume_%s%s", uuid.New().String(), resumeExtensions[contentType])
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredFile{
		Filename:    uniqueFilename,
		Path:        filePath,
		ContentType: contentType,
	}, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// DetectResumeType maps sniffed content to one of the accepted resume types.
func DetectResumeType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: uploaded file is empty", models.ErrInvalidArgument)
	}

	mime := mimetype.Detect(data)
	for _, accepted := range []string{ContentTypePDF, ContentTypeDOCX, ContentTypeText} {
		if mime.Is(accepted) {
			return accepted, nil
		}
	}

	return "", fmt.Errorf("%w: unsupported resume type %s", models.ErrInvalidArgument, mime.String())
}
