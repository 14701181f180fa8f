package album

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"photo-gallery/internal/domain"
	album_repo "photo-gallery/internal/repository/album"
	file_repo "photo-gallery/internal/repository/file"

	"github.com/wb-go/wbf/zlog"
)

type stubAlbums struct {
	mu     sync.Mutex
	albums map[string]*domain.Album

	photoRecordsDeleted []string
}

func newStubAlbums(albums ...*domain.Album) *stubAlbums {
	s := &stubAlbums{albums: make(map[string]*domain.Album)}
	for _, a := range albums {
		s.albums[a.ID] = a
	}
	return s
}

func (s *stubAlbums) Create(_ context.Context, album *domain.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.albums[album.ID]; ok {
		return album_repo.ErrAlbumExists
	}
	copied := *album
	s.albums[album.ID] = &copied
	return nil
}

func (s *stubAlbums) GetByID(_ context.Context, id string) (*domain.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.albums[id]
	if !ok {
		return nil, album_repo.ErrAlbumNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *stubAlbums) List(_ context.Context, publicOnly bool) ([]domain.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Album
	for _, a := range s.albums {
		if publicOnly && !a.IsPublic {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (s *stubAlbums) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.albums[id]; !ok {
		return album_repo.ErrAlbumNotFound
	}
	delete(s.albums, id)
	return nil
}

func (s *stubAlbums) SetFolders(_ context.Context, id string, folders domain.Folders) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.albums[id]
	if !ok {
		return album_repo.ErrAlbumNotFound
	}
	a.Folders = folders
	return nil
}

func (s *stubAlbums) SetWatermarkSettings(_ context.Context, id string, settings domain.WatermarkSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.albums[id]
	if !ok {
		return album_repo.ErrAlbumNotFound
	}
	a.WatermarkSettings = settings
	return nil
}

func (s *stubAlbums) AppendPhoto(_ context.Context, id string, entry domain.PhotoEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.albums[id]
	if !ok {
		return album_repo.ErrAlbumNotFound
	}
	a.Photos = append(a.Photos, entry)
	return nil
}

func (s *stubAlbums) ResetStatus(_ context.Context, albumID, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.albums[albumID]
	if !ok {
		return album_repo.ErrAlbumNotFound
	}
	for i := range a.ProcessingStatus {
		if a.ProcessingStatus[i].FileName == fileName {
			a.ProcessingStatus[i].Status = domain.StatusPending
			a.ProcessingStatus[i].Error = ""
			return nil
		}
	}
	a.ProcessingStatus = append(a.ProcessingStatus, domain.ProcessingStatus{
		FileName: fileName,
		Status:   domain.StatusPending,
	})
	return nil
}

func (s *stubAlbums) DeletePhotoRecords(_ context.Context, albumID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photoRecordsDeleted = append(s.photoRecordsDeleted, albumID)
	return nil
}

type stubFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	markers []string
}

func newStubFiles() *stubFiles {
	return &stubFiles{objects: make(map[string][]byte)}
}

func (s *stubFiles) SaveObject(_ context.Context, path string, data io.Reader, _ int64, _ string) error {
	buf, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = buf
	return nil
}

func (s *stubFiles) GetObject(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, file_repo.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubFiles) ObjectExists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok, nil
}

func (s *stubFiles) CreateFolderMarker(_ context.Context, folder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = append(s.markers, folder)
	s.objects[folder+"/"+domain.KeepMarker] = nil
	return nil
}

func (s *stubFiles) RemoveObjectsWithPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path := range s.objects {
		if strings.HasPrefix(path, prefix) {
			delete(s.objects, path)
		}
	}
	return nil
}

func (s *stubFiles) ObjectURL(path string) string {
	return "http://localhost:9000/gallery/" + path
}

type stubJobs struct {
	mu   sync.Mutex
	jobs []*domain.WatermarkJob
	err  error
}

func (s *stubJobs) SendJob(_ context.Context, job *domain.WatermarkJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func newTestUsecase(albums *stubAlbums, files *stubFiles, jobs *stubJobs) *AlbumUsecase {
	zlog.Init()
	return NewAlbumUsecase(albums, files, jobs, "", &zlog.Logger)
}

func TestCreateAlbumInitializesStructure(t *testing.T) {
	albums := newStubAlbums()
	files := newStubFiles()
	uc := newTestUsecase(albums, files, &stubJobs{})

	album := &domain.Album{
		Name:   "Wedding",
		Author: domain.Author{UID: "u1", DisplayName: "Sam"},
	}
	if err := uc.CreateAlbum(context.Background(), album); err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}

	if album.ID == "" {
		t.Fatal("album ID not assigned")
	}
	if !album.Folders.Complete() {
		t.Errorf("folders incomplete: %+v", album.Folders)
	}
	if len(files.markers) != 3 {
		t.Errorf("folder markers = %d, want 3", len(files.markers))
	}

	stored, err := albums.GetByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	// Absent settings collapse to the defaults.
	if stored.WatermarkSettings.Type != domain.WatermarkTypeText {
		t.Errorf("default type = %q, want text", stored.WatermarkSettings.Type)
	}
	if stored.WatermarkSettings.Text != domain.DefaultWatermarkText {
		t.Errorf("default text = %q", stored.WatermarkSettings.Text)
	}
}

func TestCreateAlbumKeepsProvidedSettings(t *testing.T) {
	albums := newStubAlbums()
	uc := newTestUsecase(albums, newStubFiles(), &stubJobs{})

	album := &domain.Album{
		Name:   "Expo",
		Author: domain.Author{UID: "u1"},
		WatermarkSettings: domain.WatermarkSettings{
			Enabled: true,
			Text:    "© Expo 2026",
			Opacity: 0.7,
		},
	}
	if err := uc.CreateAlbum(context.Background(), album); err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}

	stored, _ := albums.GetByID(context.Background(), album.ID)
	if !stored.WatermarkSettings.Enabled {
		t.Error("enabled flag lost")
	}
	if stored.WatermarkSettings.Text != "© Expo 2026" {
		t.Errorf("text = %q", stored.WatermarkSettings.Text)
	}
	if stored.WatermarkSettings.Opacity != 0.7 {
		t.Errorf("opacity = %v", stored.WatermarkSettings.Opacity)
	}
	// Unset fields default.
	if stored.WatermarkSettings.Type != domain.WatermarkTypeText {
		t.Errorf("type = %q, want text", stored.WatermarkSettings.Type)
	}
}

func TestCreateAlbumUsesConfiguredDefaultText(t *testing.T) {
	albums := newStubAlbums()
	zlog.Init()
	uc := NewAlbumUsecase(albums, newStubFiles(), &stubJobs{}, "© Studio Nine", &zlog.Logger)

	album := &domain.Album{Name: "Expo", Author: domain.Author{UID: "u1"}}
	if err := uc.CreateAlbum(context.Background(), album); err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}

	stored, _ := albums.GetByID(context.Background(), album.ID)
	if stored.WatermarkSettings.Text != "© Studio Nine" {
		t.Errorf("text = %q, want configured default", stored.WatermarkSettings.Text)
	}

	// An explicit album-level text still wins over the configured default.
	override := &domain.Album{
		Name:              "Expo 2",
		Author:            domain.Author{UID: "u1"},
		WatermarkSettings: domain.WatermarkSettings{Text: "© Client"},
	}
	if err := uc.CreateAlbum(context.Background(), override); err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}
	stored, _ = albums.GetByID(context.Background(), override.ID)
	if stored.WatermarkSettings.Text != "© Client" {
		t.Errorf("text = %q, want album override", stored.WatermarkSettings.Text)
	}
}

func TestInitStructureIdempotent(t *testing.T) {
	albums := newStubAlbums(&domain.Album{ID: "a1"})
	files := newStubFiles()
	uc := newTestUsecase(albums, files, &stubJobs{})
	ctx := context.Background()

	first, _, err := uc.InitStructure(ctx, "a1", nil)
	if err != nil {
		t.Fatalf("InitStructure: %v", err)
	}
	second, _, err := uc.InitStructure(ctx, "a1", nil)
	if err != nil {
		t.Fatalf("InitStructure (repeat): %v", err)
	}

	if first != second {
		t.Errorf("folders changed across runs: %+v vs %+v", first, second)
	}
	// Markers are overwritten, not duplicated as objects.
	if len(files.objects) != 3 {
		t.Errorf("marker objects = %d, want 3", len(files.objects))
	}
}

func TestInitStructureAlbumMissing(t *testing.T) {
	files := newStubFiles()
	uc := newTestUsecase(newStubAlbums(), files, &stubJobs{})

	_, _, err := uc.InitStructure(context.Background(), "ghost", nil)
	if !errors.Is(err, ErrAlbumNotFound) {
		t.Errorf("err = %v, want ErrAlbumNotFound", err)
	}

	// An unknown album must not leave orphan markers behind.
	if len(files.objects) != 0 || len(files.markers) != 0 {
		t.Errorf("markers created for missing album: %v", files.markers)
	}
}

func TestGetAlbumRepairsFolders(t *testing.T) {
	albums := newStubAlbums(&domain.Album{ID: "a1"})
	uc := newTestUsecase(albums, newStubFiles(), &stubJobs{})

	album, err := uc.GetAlbum(context.Background(), "a1")
	if err != nil {
		t.Fatalf("GetAlbum: %v", err)
	}
	if !album.Folders.Complete() {
		t.Errorf("folders not repaired: %+v", album.Folders)
	}

	stored, _ := albums.GetByID(context.Background(), "a1")
	if !stored.Folders.Complete() {
		t.Error("repair not persisted")
	}
}

func TestDeleteAlbumCascades(t *testing.T) {
	albums := newStubAlbums(&domain.Album{ID: "a1"})
	files := newStubFiles()
	files.objects[domain.OriginalPath("a1", "x.jpg")] = []byte("x")
	files.objects[domain.WatermarkedPath("a1", "x.jpg")] = []byte("y")
	files.objects[domain.OriginalPath("other", "z.jpg")] = []byte("z")

	uc := newTestUsecase(albums, files, &stubJobs{})

	if err := uc.DeleteAlbum(context.Background(), "a1"); err != nil {
		t.Fatalf("DeleteAlbum: %v", err)
	}

	if _, err := albums.GetByID(context.Background(), "a1"); !errors.Is(err, album_repo.ErrAlbumNotFound) {
		t.Error("album document not deleted")
	}
	if len(files.objects) != 1 {
		t.Errorf("remaining objects = %d, want 1 (other album untouched)", len(files.objects))
	}
	if len(albums.photoRecordsDeleted) != 1 || albums.photoRecordsDeleted[0] != "a1" {
		t.Errorf("photo records cascade = %v", albums.photoRecordsDeleted)
	}
}

func TestDeleteAlbumMissing(t *testing.T) {
	uc := newTestUsecase(newStubAlbums(), newStubFiles(), &stubJobs{})

	if err := uc.DeleteAlbum(context.Background(), "ghost"); !errors.Is(err, ErrAlbumNotFound) {
		t.Errorf("err = %v, want ErrAlbumNotFound", err)
	}
}

func TestUploadPhotoSeedsPendingAndPublishesJob(t *testing.T) {
	settings := domain.DefaultWatermarkSettings()
	settings.Enabled = true
	albums := newStubAlbums(&domain.Album{
		ID:                "a1",
		Folders:           domain.DefaultFolders("a1"),
		WatermarkSettings: settings,
	})
	files := newStubFiles()
	jobs := &stubJobs{}
	uc := newTestUsecase(albums, files, jobs)

	entry, err := uc.UploadPhoto(context.Background(), "a1", "sunset.jpg", "image/jpeg", "u1", []byte("not-a-real-jpeg"))
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}

	if entry.FileName != "sunset.jpg" || entry.URL == "" {
		t.Errorf("entry = %+v", entry)
	}

	originalPath := domain.OriginalPath("a1", "sunset.jpg")
	if _, ok := files.objects[originalPath]; !ok {
		t.Errorf("original not stored at %s", originalPath)
	}

	stored, _ := albums.GetByID(context.Background(), "a1")
	status, ok := stored.StatusFor("sunset.jpg")
	if !ok || status.Status != domain.StatusPending {
		t.Errorf("status = %+v, want pending", status)
	}

	if len(jobs.jobs) != 1 {
		t.Fatalf("published jobs = %d, want 1", len(jobs.jobs))
	}
	if jobs.jobs[0].FilePath != originalPath {
		t.Errorf("job file path = %q, want %q", jobs.jobs[0].FilePath, originalPath)
	}
}

func TestUploadPhotoDisabledPublishesNothing(t *testing.T) {
	albums := newStubAlbums(&domain.Album{ID: "a1", Folders: domain.DefaultFolders("a1")})
	jobs := &stubJobs{}
	uc := newTestUsecase(albums, newStubFiles(), jobs)

	if _, err := uc.UploadPhoto(context.Background(), "a1", "x.jpg", "", "u1", []byte("data")); err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	if len(jobs.jobs) != 0 {
		t.Errorf("published jobs = %d, want 0", len(jobs.jobs))
	}
}

func TestUploadPhotoPublishFailureLeavesPending(t *testing.T) {
	settings := domain.DefaultWatermarkSettings()
	settings.Enabled = true
	albums := newStubAlbums(&domain.Album{
		ID:                "a1",
		Folders:           domain.DefaultFolders("a1"),
		WatermarkSettings: settings,
	})
	jobs := &stubJobs{err: errors.New("broker down")}
	uc := newTestUsecase(albums, newStubFiles(), jobs)

	if _, err := uc.UploadPhoto(context.Background(), "a1", "x.jpg", "", "u1", []byte("data")); err != nil {
		t.Fatalf("UploadPhoto should tolerate publish failure, got %v", err)
	}

	stored, _ := albums.GetByID(context.Background(), "a1")
	if status, ok := stored.StatusFor("x.jpg"); !ok || status.Status != domain.StatusPending {
		t.Errorf("status = %+v, want pending", status)
	}
}

func TestGetPhotoPrefersWatermarked(t *testing.T) {
	albums := newStubAlbums(&domain.Album{ID: "a1"})
	files := newStubFiles()
	files.objects[domain.OriginalPath("a1", "x.jpg")] = []byte("original")
	files.objects[domain.WatermarkedPath("a1", "x.jpg")] = []byte("watermarked")

	uc := newTestUsecase(albums, files, &stubJobs{})

	rc, contentType, err := uc.GetPhoto(context.Background(), "a1", "x.jpg")
	if err != nil {
		t.Fatalf("GetPhoto: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "watermarked" {
		t.Errorf("served %q, want watermarked variant", data)
	}
	if contentType != "image/jpeg" {
		t.Errorf("content type = %q", contentType)
	}
}

func TestGetPhotoFallsBackToOriginal(t *testing.T) {
	albums := newStubAlbums(&domain.Album{ID: "a1"})
	files := newStubFiles()
	files.objects[domain.OriginalPath("a1", "x.png")] = []byte("original")

	uc := newTestUsecase(albums, files, &stubJobs{})

	rc, contentType, err := uc.GetPhoto(context.Background(), "a1", "x.png")
	if err != nil {
		t.Fatalf("GetPhoto: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "original" {
		t.Errorf("served %q, want original", data)
	}
	if contentType != "image/png" {
		t.Errorf("content type = %q, want image/png", contentType)
	}
}

func TestGetPhotoMissing(t *testing.T) {
	uc := newTestUsecase(newStubAlbums(), newStubFiles(), &stubJobs{})

	_, _, err := uc.GetPhoto(context.Background(), "a1", "ghost.jpg")
	if !errors.Is(err, ErrPhotoNotFound) {
		t.Errorf("err = %v, want ErrPhotoNotFound", err)
	}
}

func TestGetStatus(t *testing.T) {
	albums := newStubAlbums(&domain.Album{
		ID: "a1",
		ProcessingStatus: []domain.ProcessingStatus{
			{FileName: "x.jpg", Status: domain.StatusCompleted, Attempt: 2},
		},
	})
	uc := newTestUsecase(albums, newStubFiles(), &stubJobs{})

	status, err := uc.GetStatus(context.Background(), "a1", "x.jpg")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Status != domain.StatusCompleted || status.Attempt != 2 {
		t.Errorf("status = %+v", status)
	}

	if _, err := uc.GetStatus(context.Background(), "a1", "unknown.jpg"); !errors.Is(err, ErrNoStatus) {
		t.Errorf("err = %v, want ErrNoStatus", err)
	}
}
