// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/spotsync/internal/models"
)

// MockGateway is a test double for [gateway.Gateway] with canned responses,
// per-operation call counts, and per-operation error injection.
type MockGateway struct {
	mu sync.Mutex

	Accounts    *models.AccountsResponse
	Devices     *models.DevicesResponse
	CastDevices *models.CastDevicesResponse
	Player      *models.PlayerResponse
	View        *models.ViewResponse
	Tracks      *models.TracksResponse
	Liked       *models.LikedMedia
	Categories  *models.CategoriesResponse
	Playlists   *models.PlaylistsResponse
	Results     *models.SearchResponse

	// Errs maps an operation name to the error it should return.
	Errs map[string]error

	Calls      map[string]int
	PlayedURIs []string
	LikedURIs  [][]string
	// Arguments of the last FetchTracks call.
	LastTracksPlaylist string
}

// NewMockGateway returns a gateway double with minimal valid responses.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Accounts: &models.AccountsResponse{Accounts: []models.Account{
			{EntryID: "entry_1", SpotifyID: "user_1", Name: "Main", IsDefault: true},
		}},
		Devices:     &models.DevicesResponse{Devices: []models.Device{{ID: "d1", Name: "Speaker"}}},
		CastDevices: &models.CastDevicesResponse{Devices: []models.CastDevice{{UUID: "c1", FriendlyName: "Cast"}}},
		Player:      &models.PlayerResponse{},
		View:        &models.ViewResponse{Playlists: []models.PlaylistEntry{{ID: "p1", Name: "Mix", URI: "spotify:playlist:1"}}},
		Tracks:      &models.TracksResponse{Tracks: []models.Track{{ID: "t1", Name: "Song", URI: "spotify:track:1"}}},
		Liked:       &models.LikedMedia{},
		Errs:        map[string]error{},
		Calls:       map[string]int{},
	}
}

func (m *MockGateway) op(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = map[string]int{}
	}
	m.Calls[name]++
	return m.Errs[name]
}

// CallCount returns how many times the named operation ran.
func (m *MockGateway) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

func (m *MockGateway) FetchAccounts(ctx context.Context) (*models.AccountsResponse, error) {
	if err := m.op("accounts"); err != nil {
		return nil, err
	}
	return m.Accounts, nil
}

func (m *MockGateway) FetchDevices(ctx context.Context, account string) (*models.DevicesResponse, error) {
	if err := m.op("devices"); err != nil {
		return nil, err
	}
	return m.Devices, nil
}

func (m *MockGateway) FetchCastDevices(ctx context.Context) (*models.CastDevicesResponse, error) {
	if err := m.op("castdevices"); err != nil {
		return nil, err
	}
	return m.CastDevices, nil
}

func (m *MockGateway) FetchPlayer(ctx context.Context, account string) (*models.PlayerResponse, error) {
	if err := m.op("player"); err != nil {
		return nil, err
	}
	return m.Player, nil
}

func (m *MockGateway) FetchView(ctx context.Context, account, url string, limit int) (*models.ViewResponse, error) {
	if err := m.op("view"); err != nil {
		return nil, err
	}
	return m.View, nil
}

func (m *MockGateway) FetchTracks(ctx context.Context, account, playlistID string) (*models.TracksResponse, error) {
	if err := m.op("tracks"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.LastTracksPlaylist = playlistID
	m.mu.Unlock()
	return m.Tracks, nil
}

func (m *MockGateway) FetchLikedMedia(ctx context.Context, account string) (*models.LikedMedia, error) {
	if err := m.op("liked_media"); err != nil {
		return nil, err
	}
	return m.Liked, nil
}

func (m *MockGateway) FetchCategories(ctx context.Context, account string) (*models.CategoriesResponse, error) {
	if err := m.op("categories"); err != nil {
		return nil, err
	}
	return m.Categories, nil
}

func (m *MockGateway) FetchPlaylists(ctx context.Context, account, category string) (*models.PlaylistsResponse, error) {
	if err := m.op("playlists"); err != nil {
		return nil, err
	}
	return m.Playlists, nil
}

func (m *MockGateway) Search(ctx context.Context, account, query, searchType string) (*models.SearchResponse, error) {
	if err := m.op("search"); err != nil {
		return nil, err
	}
	return m.Results, nil
}

func (m *MockGateway) PlayMedia(ctx context.Context, uri, account string) error {
	if err := m.op("play_media"); err != nil {
		return err
	}
	m.mu.Lock()
	m.PlayedURIs = append(m.PlayedURIs, uri)
	m.mu.Unlock()
	return nil
}

func (m *MockGateway) LikeMedia(ctx context.Context, uris []string) error {
	if err := m.op("like_media"); err != nil {
		return err
	}
	m.mu.Lock()
	m.LikedURIs = append(m.LikedURIs, uris)
	m.mu.Unlock()
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if err == nil && !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return dir
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}
