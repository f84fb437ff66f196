package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJournalSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    JournalSettings
	}{
		{
			name: "no file",
			want: DefaultJournalSettings(),
		},
		{
			name: "full file",
			content: `author_name: Ada
author_email: ada@example.com
branch: trunk
remote_timeout: 5s
`,
			want: JournalSettings{
				AuthorName:    "Ada",
				AuthorEmail:   "ada@example.com",
				Branch:        "trunk",
				RemoteTimeout: 5 * time.Second,
			},
		},
		{
			name:    "partial file keeps defaults",
			content: "branch: notes\n",
			want: JournalSettings{
				AuthorName:    DefaultAuthorName,
				AuthorEmail:   DefaultAuthorEmail,
				Branch:        "notes",
				RemoteTimeout: DefaultRemoteTimeout,
			},
		},
		{
			name:    "malformed file",
			content: "author_name: [unterminated\n",
			want:    DefaultJournalSettings(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, JournalSettingsFile), []byte(tt.content), 0644))
			}
			assert.Equal(t, tt.want, LoadJournalSettings(dir))
		})
	}
}

func TestLoadJournalSettings_EmptySavePath(t *testing.T) {
	assert.Equal(t, DefaultJournalSettings(), LoadJournalSettings(""))
}

func TestWriteJournalSettings_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal")
	want := JournalSettings{
		AuthorName:    "Grace",
		AuthorEmail:   "grace@example.com",
		Branch:        "main",
		RemoteTimeout: 90 * time.Second,
	}

	require.NoError(t, WriteJournalSettings(dir, want))
	assert.Equal(t, want, LoadJournalSettings(dir))
}
