package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// FileService is the part of Service the downloader needs.
type FileService interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
	ExportFile(ctx context.Context, fileID, mimeType string, w io.Writer) error
	FindFolderByPath(ctx context.Context, path string) (string, error)
}

// DownloadOptions controls how files are pulled from Google Drive.
// FolderPath is resolved when FolderID is empty. Match filters on the local
// file name, after Google Sheets got their .xlsx extension.
type DownloadOptions struct {
	FolderID    string
	FolderPath  string
	DownloadDir string
	Match       func(name string) bool
}

// MatchExt accepts names ending in ext, case-insensitively.
func MatchExt(ext string) func(string) bool {
	ext = strings.ToLower(ext)
	return func(name string) bool {
		return strings.ToLower(filepath.Ext(name)) == ext
	}
}

// MatchPrefixExt accepts names like CUPOM_2024-01.xlsx.
func MatchPrefixExt(prefix, ext string) func(string) bool {
	byExt := MatchExt(ext)
	return func(name string) bool {
		return strings.HasPrefix(name, prefix) && byExt(name)
	}
}

// Downloader wraps Service to download files from a specific folder.
type Downloader struct {
	service FileService
}

func NewDownloader(s FileService) *Downloader {
	return &Downloader{service: s}
}

// DownloadFolder copies every matching file of the folder into DownloadDir and
// returns the local paths in Drive listing order. Google Sheets are exported
// as XLSX. Files are written to a temporary name first, so an interrupted run
// never leaves a truncated input behind.
func (d *Downloader) DownloadFolder(ctx context.Context, opts DownloadOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	folderID := opts.FolderID
	if folderID == "" && opts.FolderPath != "" {
		id, err := d.service.FindFolderByPath(ctx, opts.FolderPath)
		if err != nil {
			return nil, err
		}
		folderID = id
	}

	files, err := d.service.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.MimeType == FolderMimeType {
			continue
		}

		name := localName(f)
		if opts.Match != nil && !opts.Match(name) {
			continue
		}

		localPath := filepath.Join(opts.DownloadDir, name)
		if err := d.fetch(ctx, f, localPath); err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", f.Name, err)
		}
		log.Info().Str("file", f.Name).Str("path", localPath).Msg("downloaded from drive")
		localPaths = append(localPaths, localPath)
	}

	return localPaths, nil
}

func (d *Downloader) fetch(ctx context.Context, f *File, localPath string) error {
	tmp := localPath + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", tmp, err)
	}

	if f.IsSpreadsheet() {
		err = d.service.ExportFile(ctx, f.ID, XLSXMimeType, out)
	} else {
		err = d.service.DownloadFile(ctx, f.ID, out)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, localPath)
}

func localName(f *File) string {
	name := filepath.Base(f.Name)
	if f.IsSpreadsheet() && !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		name += ".xlsx"
	}
	return name
}
