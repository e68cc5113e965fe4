// Package fileinfo provides display helpers for item metadata.
package fileinfo

import (
	"fmt"
	"strings"
)

// FormatSize formats a byte count as a human-readable string.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// IconFor returns an icon name for a file's content type. Folders are
// handled by the caller; this only classifies file types.
func IconFor(fileType string) string {
	switch {
	case strings.HasPrefix(fileType, "image/"):
		return "image"
	case strings.HasPrefix(fileType, "video/"):
		return "video"
	case strings.HasPrefix(fileType, "audio/"):
		return "audio"
	case fileType == "application/pdf":
		return "pdf"
	case strings.Contains(fileType, "spreadsheet") || strings.Contains(fileType, "excel"):
		return "spreadsheet"
	case strings.Contains(fileType, "document") || strings.Contains(fileType, "word"):
		return "document"
	case strings.Contains(fileType, "presentation") || strings.Contains(fileType, "powerpoint"):
		return "presentation"
	case strings.Contains(fileType, "zip") || strings.Contains(fileType, "compressed") || strings.Contains(fileType, "archive"):
		return "archive"
	default:
		return "file"
	}
}
