package backup_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/minddump/pkg/backup"
	"github.com/aretw0/minddump/pkg/core"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu    sync.Mutex
	notes []core.Note
}

func (r *memRepo) Initialize(ctx context.Context) error { return nil }

func (r *memRepo) Load(ctx context.Context) ([]core.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Note(nil), r.notes...), nil
}

func (r *memRepo) Save(ctx context.Context, notes []core.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append([]core.Note(nil), notes...)
	return nil
}

func newStore(t *testing.T) *core.Store {
	t.Helper()
	s := core.NewStore(&memRepo{})
	require.NoError(t, s.Load(context.Background()))
	return s
}

func seed(t *testing.T, s *core.Store) {
	t.Helper()
	ctx := context.Background()
	_, err := s.AddNote(ctx, core.Note{Title: "Plain", Content: "hello", Tags: []string{"a"}})
	require.NoError(t, err)
	_, err = s.AddNote(ctx, core.Note{Title: "List", Type: core.TypeBullets, Content: "one\ntwo", Pinned: true, Color: core.ColorRed})
	require.NoError(t, err)
	_, err = s.AddNote(ctx, core.Note{Title: "Drawing", Type: core.TypeSketch, SketchPayload: []byte{0, 1, 2, 250}})
	require.NoError(t, err)
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("Round Trip Into Empty Store", func(t *testing.T) {
		src := newStore(t)
		seed(t, src)

		data, err := backup.Export(ctx, src, now)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"version": 1`)
		assert.Contains(t, string(data), `"exportedAt": "2024-03-01T09:30:00Z"`)

		dst := newStore(t)
		imported, err := backup.Import(ctx, dst, data)
		require.NoError(t, err)
		require.Len(t, imported, 3)

		want := src.Notes()
		got := dst.Notes()
		for i := range want {
			assert.NotEqual(t, want[i].ID, got[i].ID)
			assert.Equal(t, want[i].Title, got[i].Title)
			assert.Equal(t, want[i].Content, got[i].Content)
			assert.Equal(t, want[i].Type, got[i].Type)
			assert.Equal(t, want[i].Color, got[i].Color)
			assert.Equal(t, want[i].Pinned, got[i].Pinned)
			assert.Equal(t, want[i].Tags, got[i].Tags)
			assert.Equal(t, want[i].SketchPayload, got[i].SketchPayload)
			assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
			assert.True(t, want[i].LastEditedAt.Equal(got[i].LastEditedAt))
		}
	})

	t.Run("Import Appends", func(t *testing.T) {
		src := newStore(t)
		seed(t, src)
		data, err := backup.Export(ctx, src, now)
		require.NoError(t, err)

		_, err = backup.Import(ctx, src, data)
		require.NoError(t, err)
		assert.Equal(t, 6, src.Len())
	})

	t.Run("Empty Collection", func(t *testing.T) {
		data, err := backup.Export(ctx, newStore(t), now)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"notes": []`)

		notes, err := backup.Decode(data)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})
}

func TestImportRejects(t *testing.T) {
	ctx := context.Background()
	valid := `{"id":"x","title":"t","content":"","color":"default","type":"basic","isPinned":false,"tags":[],"sketchPayload":null,"createdDate":"2024-01-01T00:00:00Z","lastEditedDate":"2024-01-01T00:00:00Z"}`

	cases := map[string]string{
		"Empty":         ``,
		"Not JSON":      `not json`,
		"Wrong Version": `{"version":2,"exportedAt":"2024-01-01T00:00:00Z","notes":[]}`,
		"Missing Notes": `{"version":1,"exportedAt":"2024-01-01T00:00:00Z"}`,
		"Unknown Field": `{"version":1,"exportedAt":"2024-01-01T00:00:00Z","notes":[],"extra":true}`,
		"Trailing Data": `{"version":1,"exportedAt":"2024-01-01T00:00:00Z","notes":[]} {}`,
		"Bad Color":     `{"version":1,"exportedAt":"2024-01-01T00:00:00Z","notes":[` + valid + `,{"id":"y","title":"t","content":"","color":"plaid","type":"basic","isPinned":false,"tags":[],"sketchPayload":null,"createdDate":"2024-01-01T00:00:00Z","lastEditedDate":"2024-01-01T00:00:00Z"}]}`,
		"Bad Payload":   `{"version":1,"exportedAt":"2024-01-01T00:00:00Z","notes":[{"id":"y","title":"t","content":"","color":"default","type":"sketch","isPinned":false,"tags":[],"sketchPayload":"%%%","createdDate":"2024-01-01T00:00:00Z","lastEditedDate":"2024-01-01T00:00:00Z"}]}`,
		"Bad Tag":       `{"version":1,"exportedAt":"2024-01-01T00:00:00Z","notes":[{"id":"y","title":"t","content":"","color":"default","type":"basic","isPinned":false,"tags":["has space"],"sketchPayload":null,"createdDate":"2024-01-01T00:00:00Z","lastEditedDate":"2024-01-01T00:00:00Z"}]}`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			_, err := backup.Import(ctx, s, []byte(input))

			var ierr *core.ImportError
			require.ErrorAs(t, err, &ierr)
			assert.Zero(t, s.Len(), "no notes may be added on failure")
		})
	}
}

func TestImportWithoutVersion(t *testing.T) {
	s := newStore(t)
	doc := `{"notes":[{"id":"x","title":"Bare","content":"body","color":"default","type":"basic","isPinned":false,"tags":["home"],"sketchPayload":null,"createdDate":"2024-01-01T00:00:00Z","lastEditedDate":"2024-01-02T00:00:00Z"}]}`

	added, err := backup.Import(context.Background(), s, []byte(doc))
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "Bare", added[0].Title)
	assert.Equal(t, []string{"home"}, added[0].Tags)
	assert.Equal(t, 1, s.Len())
}

func TestFiles(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultFilename", func(t *testing.T) {
		name := backup.DefaultFilename(time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC))
		assert.Equal(t, "mind_dump_notes_2024-03-01.json", name)
	})

	t.Run("WriteFile ReadFile and List", func(t *testing.T) {
		dir := t.TempDir()
		src := newStore(t)
		seed(t, src)

		older, err := backup.WriteFile(ctx, src, dir, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		newer, err := backup.WriteFile(ctx, src, dir, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte("{}"), 0644))

		found, err := backup.List(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{newer, older}, found)

		dst := newStore(t)
		_, err = backup.ReadFile(ctx, dst, older)
		require.NoError(t, err)
		assert.Equal(t, 3, dst.Len())
	})

	t.Run("ReadFile Missing", func(t *testing.T) {
		_, err := backup.ReadFile(ctx, newStore(t), filepath.Join(t.TempDir(), "nope.json"))
		var ierr *core.ImportError
		assert.ErrorAs(t, err, &ierr)
	})
}

// fakeObjects is an in-memory ObjectAPI.
type fakeObjects struct {
	objects map[string][]byte
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Sink(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{objects: map[string][]byte{}}
	sink := backup.NewS3SinkWithClient(objects, "notes", "backups/")

	src := newStore(t)
	seed(t, src)
	data, err := backup.Export(ctx, src, time.Now())
	require.NoError(t, err)

	require.NoError(t, sink.Upload(ctx, "today.json", data))
	assert.Contains(t, objects.objects, "notes/backups/today.json")

	got, err := sink.Download(ctx, "today.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = sink.Download(ctx, "missing.json")
	assert.Error(t, err)
}
