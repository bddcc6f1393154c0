package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/hirehub/internal/apperrors"
)

var pdfMagic = []byte("%PDF")

type StorageService interface {
	SaveFile(file *multipart.FileHeader, fileType string) (string, error)
	DeleteFile(filePath string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath  string
	maxFileSize int64
}

func NewStorageService(uploadPath string, maxFileSize int64) StorageService {
	return &storageService{
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveFile stores a PDF upload under a unique name and returns its path.
// Size and extension are checked before the upload is opened.
func (s *storageService) SaveFile(file *multipart.FileHeader, fileType string) (string, error) {
	if file.Size > s.maxFileSize {
		return "", &apperrors.ValidationError{
			Message: fmt.Sprintf("File too large. Max size: %d bytes", s.maxFileSize),
			Fields:  []apperrors.FieldError{{Field: fileType, Message: "exceeds maximum size"}},
		}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", apperrors.Validation("Only PDF files are accepted",
			apperrors.FieldError{Field: fileType, Message: "must be a .pdf file"})
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(src, header); err != nil || !bytes.Equal(header, pdfMagic) {
		return "", apperrors.Validation("Only PDF files are accepted",
			apperrors.FieldError{Field: fileType, Message: "is not a valid PDF"})
	}

	uniqueFilename := fmt.Sprintf("%s_%s%s", fileType, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	// Copy the header back in front of the rest of the stream, capped at the size limit.
	body := io.MultiReader(bytes.NewReader(header), io.LimitReader(src, s.maxFileSize))
	if _, err := io.Copy(dst, body); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *storageService) DeleteFile(filePath string) error {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
