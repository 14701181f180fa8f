package domain

import "testing"

func TestWatermarkedPathDerivation(t *testing.T) {
	cases := []struct {
		albumID  string
		fileName string
		want     string
	}{
		{"A", "F.jpg", "albums/A/photo-watermarked/F.jpg"},
		{"a1b2", "sunset.jpg", "albums/a1b2/photo-watermarked/sunset.jpg"},
		{"a1b2", "with space.jpeg", "albums/a1b2/photo-watermarked/with space.jpeg"},
	}

	for _, tc := range cases {
		got := WatermarkedPath(tc.albumID, tc.fileName)
		if got != tc.want {
			t.Errorf("WatermarkedPath(%q, %q) = %q, want %q", tc.albumID, tc.fileName, got, tc.want)
		}

		orig := OriginalPath(tc.albumID, tc.fileName)
		if FileNameFromPath(orig) != tc.fileName {
			t.Errorf("FileNameFromPath(%q) = %q, want %q", orig, FileNameFromPath(orig), tc.fileName)
		}
		if WatermarkedPath(tc.albumID, FileNameFromPath(orig)) != tc.want {
			t.Errorf("round trip through original path broke for %q", tc.fileName)
		}
	}
}

func TestIsOriginalPath(t *testing.T) {
	if !IsOriginalPath("albums/A/photo-original/F.jpg") {
		t.Error("expected original path to be recognized")
	}
	if IsOriginalPath("albums/A/photo-watermarked/F.jpg") {
		t.Error("watermarked path must not pass the original check")
	}
	if IsOriginalPath("albums/A/watermark-png/overlay.png") {
		t.Error("watermark image path must not pass the original check")
	}
	if IsOriginalPath("F.jpg") {
		t.Error("bare file name must not pass the original check")
	}
}

func TestAlbumIDFromPath(t *testing.T) {
	id, ok := AlbumIDFromPath("albums/a1b2/photo-original/F.jpg")
	if !ok || id != "a1b2" {
		t.Fatalf("AlbumIDFromPath = %q, %v", id, ok)
	}

	if _, ok := AlbumIDFromPath("other/a1b2/photo-original/F.jpg"); ok {
		t.Error("path outside albums root must not yield an id")
	}
	if _, ok := AlbumIDFromPath("albums"); ok {
		t.Error("truncated path must not yield an id")
	}
}

func TestDefaultFoldersComplete(t *testing.T) {
	f := DefaultFolders("A1")
	if !f.Complete() {
		t.Fatal("default folders must be complete")
	}
	if f.Original != "albums/A1/photo-original" {
		t.Errorf("unexpected original folder %q", f.Original)
	}
	if f.Watermarked != "albums/A1/photo-watermarked" {
		t.Errorf("unexpected watermarked folder %q", f.Watermarked)
	}
	if f.WatermarkImage != "albums/A1/watermark-png" {
		t.Errorf("unexpected watermark image folder %q", f.WatermarkImage)
	}

	if (Folders{Original: "x", Watermarked: "y"}).Complete() {
		t.Error("folders with a missing prefix must not be complete")
	}
}

func TestEffectiveOpacity(t *testing.T) {
	s := WatermarkSettings{Opacity: 0.3}
	if got := s.EffectiveOpacity(); got != 0.3 {
		t.Errorf("EffectiveOpacity = %v, want 0.3", got)
	}

	s.IsHidden = true
	if got := s.EffectiveOpacity(); got != HiddenWatermarkOpacity {
		t.Errorf("hidden EffectiveOpacity = %v, want %v", got, HiddenWatermarkOpacity)
	}

	s = WatermarkSettings{}
	if got := s.EffectiveOpacity(); got != DefaultWatermarkOpacity {
		t.Errorf("zero EffectiveOpacity = %v, want default %v", got, DefaultWatermarkOpacity)
	}

	s = WatermarkSettings{Opacity: 1.5}
	if got := s.EffectiveOpacity(); got != DefaultWatermarkOpacity {
		t.Errorf("out-of-range EffectiveOpacity = %v, want default", got)
	}
}
