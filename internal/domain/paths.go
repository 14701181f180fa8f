package domain

import (
	"path"
	"strings"
)

// Blob store layout, per album:
//
//	albums/<albumId>/photo-original/<fileName>
//	albums/<albumId>/photo-watermarked/<fileName>
//	albums/<albumId>/watermark-png/<overlay>.png
//
// Empty folders hold a single ".keep" marker object.
const (
	AlbumsRoot = "albums"

	FolderOriginal       = "photo-original"
	FolderWatermarked    = "photo-watermarked"
	FolderWatermarkImage = "watermark-png"

	KeepMarker = ".keep"
)

func AlbumPrefix(albumID string) string {
	return AlbumsRoot + "/" + albumID + "/"
}

func OriginalFolder(albumID string) string {
	return path.Join(AlbumsRoot, albumID, FolderOriginal)
}

func WatermarkedFolder(albumID string) string {
	return path.Join(AlbumsRoot, albumID, FolderWatermarked)
}

func WatermarkImageFolder(albumID string) string {
	return path.Join(AlbumsRoot, albumID, FolderWatermarkImage)
}

func OriginalPath(albumID, fileName string) string {
	return path.Join(OriginalFolder(albumID), fileName)
}

// WatermarkedPath derives the destination for a processed file. Only the
// folder segment differs from the original path; the file name is preserved.
func WatermarkedPath(albumID, fileName string) string {
	return path.Join(WatermarkedFolder(albumID), fileName)
}

func DefaultFolders(albumID string) Folders {
	return Folders{
		Original:       OriginalFolder(albumID),
		Watermarked:    WatermarkedFolder(albumID),
		WatermarkImage: WatermarkImageFolder(albumID),
	}
}

// IsOriginalPath reports whether an object path references the original
// folder of some album.
func IsOriginalPath(p string) bool {
	return strings.Contains(p, "/"+FolderOriginal+"/")
}

func FileNameFromPath(p string) string {
	return path.Base(p)
}

// AlbumIDFromPath extracts the album id from any object path under the
// conventional layout.
func AlbumIDFromPath(p string) (string, bool) {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	if len(parts) < 3 || parts[0] != AlbumsRoot || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
