package formatter

import (
	"strings"
	"testing"

	"github.com/desertthunder/spotsync/internal/models"
	th "github.com/desertthunder/spotsync/internal/testing"
)

var testPlaylist = models.PlaylistEntry{
	ID:          "test123",
	Name:        "Test Playlist",
	URI:         "spotify:playlist:test123",
	Description: "A test playlist",
}

var testTracks = []models.Track{
	{
		ID:         "track1",
		Name:       "Song One",
		Artists:    []models.Artist{{Name: "Artist One"}},
		Album:      models.Album{Name: "Album One"},
		DurationMS: 180000,
		URI:        "spotify:track:1",
	},
	{
		ID:         "track2",
		Name:       "Song Two",
		Artists:    []models.Artist{{Name: "Artist Two"}, {Name: "Artist Three"}},
		DurationMS: 240000,
		URI:        "spotify:track:2",
	},
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testTracks)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Name,Artists,Album,Duration,URI") {
			t.Errorf("CSV missing headers, got: %s", output)
		}

		if !strings.Contains(output, "track1") {
			t.Errorf("CSV missing track1 ID")
		}
		if !strings.Contains(output, "Song One") {
			t.Errorf("CSV missing track1 name")
		}
		if !strings.Contains(output, "Artist One") {
			t.Errorf("CSV missing track1 artist")
		}
		if !strings.Contains(output, `"Artist Two, Artist Three"`) {
			t.Errorf("CSV missing quoted multi-artist field, got: %s", output)
		}
		if !strings.Contains(output, "spotify:track:1") {
			t.Errorf("CSV missing track1 URI")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testPlaylist, testTracks, "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)

			if !strings.Contains(output, "# Test Playlist") {
				t.Errorf("Markdown missing title")
			}

			if !strings.Contains(output, "**Description**: A test playlist") {
				t.Errorf("Markdown missing description")
			}
			if !strings.Contains(output, "**Tracks**: 2") {
				t.Errorf("Markdown missing track count")
			}
			if !strings.Contains(output, "**URI**: `spotify:playlist:test123`") {
				t.Errorf("Markdown missing playlist URI")
			}

			if !strings.Contains(output, "## Tracks") {
				t.Errorf("Markdown missing tracks section")
			}
			if !strings.Contains(output, "1. Artist One - Song One (Album One) [3:00]") {
				t.Errorf("Markdown missing track1, got: %s", output)
			}
			if !strings.Contains(output, "2. Artist Two, Artist Three - Song Two [4:00]") {
				t.Errorf("Markdown missing track2 (no album)")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testPlaylist, testTracks, "test_cover.jpg")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)

			if !strings.Contains(output, "![Cover](test_cover.jpg)") {
				t.Errorf("Markdown missing cover image reference")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testPlaylist, testTracks)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Playlist: Test Playlist") {
			t.Errorf("Text missing playlist name")
		}
		if !strings.Contains(output, "Description: A test playlist") {
			t.Errorf("Text missing description")
		}
		if !strings.Contains(output, "Tracks: 2") {
			t.Errorf("Text missing track count")
		}

		if !strings.Contains(output, "1. Artist One - Song One") {
			t.Errorf("Text missing track1")
		}
		if !strings.Contains(output, "2. Artist Two, Artist Three - Song Two") {
			t.Errorf("Text missing track2")
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(testPlaylist)
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, `"id": "test123"`) {
			t.Errorf("JSON missing id field, got: %s", output)
		}
		if !strings.Contains(output, `"name": "Test Playlist"`) {
			t.Errorf("JSON missing name field, got: %s", output)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		_, err := DownloadImage("")
		if err == nil {
			t.Error("DownloadImage with empty URL should return error")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			result, err := WriteCSVExport(testPlaylist, testTracks, "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.TracksFile != "test123_tracks.csv" {
				t.Errorf("Expected tracks file 'test123_tracks.csv', got '%s'", result.TracksFile)
			}
			if result.MetadataFile != "test123_metadata.json" {
				t.Errorf("Expected metadata file 'test123_metadata.json', got '%s'", result.MetadataFile)
			}

			th.AssertFileExists(t, result.TracksFile)
			th.AssertFileExists(t, result.MetadataFile)

			csvContent := th.MustReadFile(t, result.TracksFile)
			if !strings.Contains(csvContent, "ID,Name,Artists,Album,Duration,URI") {
				t.Errorf("CSV missing headers")
			}
			if !strings.Contains(csvContent, "track1") || !strings.Contains(csvContent, "Song One") {
				t.Errorf("CSV missing track data")
			}

			metadataContent := th.MustReadFile(t, result.MetadataFile)
			if !strings.Contains(metadataContent, "test123") || !strings.Contains(metadataContent, "Test Playlist") {
				t.Errorf("Metadata JSON missing expected fields")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			result, err := WriteCSVExport(testPlaylist, testTracks, "custom_export")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.TracksFile != "custom_export_tracks.csv" {
				t.Errorf("Expected 'custom_export_tracks.csv', got '%s'", result.TracksFile)
			}
			if result.MetadataFile != "custom_export_metadata.json" {
				t.Errorf("Expected 'custom_export_metadata.json', got '%s'", result.MetadataFile)
			}

			th.AssertFileExists(t, result.TracksFile)
			th.AssertFileExists(t, result.MetadataFile)
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("WithDefaultDirectory", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			result, err := WriteMarkdownExport(testPlaylist, testTracks, "", "")
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if result.Directory != "test123" {
				t.Errorf("Expected directory 'test123', got '%s'", result.Directory)
			}
			th.AssertDirExists(t, result.Directory)

			readmePath := result.Directory + "/README.md"
			th.AssertFileExists(t, readmePath)

			content := th.MustReadFile(t, readmePath)
			if !strings.Contains(content, "# Test Playlist") {
				t.Errorf("Markdown missing title")
			}
			if !strings.Contains(content, "1. Artist One - Song One (Album One)") {
				t.Errorf("Markdown missing track listing")
			}

			if result.CoverImage != "" {
				t.Errorf("Expected no cover image, got '%s'", result.CoverImage)
			}
		})

		t.Run("WithCustomDirectory", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			result, err := WriteMarkdownExport(testPlaylist, testTracks, "custom_playlist", "")
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if result.Directory != "custom_playlist" {
				t.Errorf("Expected directory 'custom_playlist', got '%s'", result.Directory)
			}
			th.AssertDirExists(t, result.Directory)
			th.AssertFileExists(t, result.Directory+"/README.md")
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			filepath, err := WriteTextExport(testPlaylist, testTracks, "")
			if err != nil {
				t.Fatalf("WriteTextExport failed: %v", err)
			}

			if filepath != "test123_tracks.txt" {
				t.Errorf("Expected 'test123_tracks.txt', got '%s'", filepath)
			}

			th.AssertFileExists(t, filepath)

			content := th.MustReadFile(t, filepath)
			if !strings.Contains(content, "Playlist: Test Playlist") {
				t.Errorf("Text missing playlist name")
			}
			if !strings.Contains(content, "1. Artist One - Song One") {
				t.Errorf("Text missing track listing")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			filepath, err := WriteTextExport(testPlaylist, testTracks, "my_playlist.txt")
			if err != nil {
				t.Fatalf("WriteTextExport failed: %v", err)
			}

			if filepath != "my_playlist.txt" {
				t.Errorf("Expected 'my_playlist.txt', got '%s'", filepath)
			}

			th.AssertFileExists(t, filepath)
		})
	})
}
