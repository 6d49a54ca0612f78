// Package storagetest holds the behavioural checks shared by every
// storage.Provider implementation.
package storagetest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/habitown/internal/storage"
)

// RunProviderTests exercises an initialized provider. newProvider must
// return a store on which Init has already succeeded.
func RunProviderTests(t *testing.T, newProvider func(t *testing.T) storage.Provider) {
	t.Helper()
	ctx := context.Background()

	t.Run("default settings", func(t *testing.T) {
		p := newProvider(t)
		settings, err := p.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings() error = %v", err)
		}
		if settings != storage.DefaultSettings() {
			t.Errorf("GetSettings() = %+v, want %+v", settings, storage.DefaultSettings())
		}
	})

	t.Run("save settings", func(t *testing.T) {
		p := newProvider(t)
		want := storage.Settings{Timezone: "Asia/Tokyo"}
		if err := p.SaveSettings(want); err != nil {
			t.Fatalf("SaveSettings() error = %v", err)
		}
		got, err := p.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings() error = %v", err)
		}
		if got != want {
			t.Errorf("GetSettings() = %+v, want %+v", got, want)
		}
	})

	t.Run("missing blob", func(t *testing.T) {
		p := newProvider(t)
		_, err := p.GetBlob(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetBlob() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("put and get", func(t *testing.T) {
		p := newProvider(t)
		stamp := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
		err := p.PutBlobs(ctx,
			storage.Blob{Name: "a", Version: 1, Data: []byte(`{"x":1}`), UpdatedAt: stamp},
			storage.Blob{Name: "b", Version: 2, Data: []byte(`[1,2,3]`)},
		)
		if err != nil {
			t.Fatalf("PutBlobs() error = %v", err)
		}

		a, err := p.GetBlob(ctx, "a")
		if err != nil {
			t.Fatalf("GetBlob(a) error = %v", err)
		}
		if a.Version != 1 {
			t.Errorf("a.Version = %d, want 1", a.Version)
		}
		if !a.UpdatedAt.Equal(stamp) {
			t.Errorf("a.UpdatedAt = %v, want %v", a.UpdatedAt, stamp)
		}
		assertJSONEqual(t, a.Data, `{"x":1}`)

		b, err := p.GetBlob(ctx, "b")
		if err != nil {
			t.Fatalf("GetBlob(b) error = %v", err)
		}
		if b.UpdatedAt.IsZero() {
			t.Error("b.UpdatedAt is zero, want stamped on write")
		}
		assertJSONEqual(t, b.Data, `[1,2,3]`)
	})

	t.Run("overwrite", func(t *testing.T) {
		p := newProvider(t)
		if err := p.PutBlobs(ctx, storage.Blob{Name: "a", Version: 1, Data: []byte(`{"x":1}`)}); err != nil {
			t.Fatalf("PutBlobs() error = %v", err)
		}
		if err := p.PutBlobs(ctx, storage.Blob{Name: "a", Version: 3, Data: []byte(`{"x":2}`)}); err != nil {
			t.Fatalf("PutBlobs() error = %v", err)
		}
		a, err := p.GetBlob(ctx, "a")
		if err != nil {
			t.Fatalf("GetBlob() error = %v", err)
		}
		if a.Version != 3 {
			t.Errorf("Version = %d, want 3", a.Version)
		}
		assertJSONEqual(t, a.Data, `{"x":2}`)
	})

	t.Run("list returns metadata sorted by name", func(t *testing.T) {
		p := newProvider(t)
		err := p.PutBlobs(ctx,
			storage.Blob{Name: "town", Version: 1, Data: []byte(`{}`)},
			storage.Blob{Name: "habits", Version: 1, Data: []byte(`{}`)},
		)
		if err != nil {
			t.Fatalf("PutBlobs() error = %v", err)
		}
		blobs, err := p.ListBlobs(ctx)
		if err != nil {
			t.Fatalf("ListBlobs() error = %v", err)
		}
		if len(blobs) != 2 {
			t.Fatalf("ListBlobs() returned %d blobs, want 2", len(blobs))
		}
		if blobs[0].Name != "habits" || blobs[1].Name != "town" {
			t.Errorf("ListBlobs() order = %s, %s", blobs[0].Name, blobs[1].Name)
		}
		for _, b := range blobs {
			if b.Data != nil {
				t.Errorf("ListBlobs() blob %s carries data", b.Name)
			}
		}
	})

	t.Run("delete", func(t *testing.T) {
		p := newProvider(t)
		err := p.PutBlobs(ctx,
			storage.Blob{Name: "a", Version: 1, Data: []byte(`{}`)},
			storage.Blob{Name: "b", Version: 1, Data: []byte(`{}`)},
		)
		if err != nil {
			t.Fatalf("PutBlobs() error = %v", err)
		}
		if err := p.DeleteBlobs(ctx, "a", "missing"); err != nil {
			t.Fatalf("DeleteBlobs() error = %v", err)
		}
		if _, err := p.GetBlob(ctx, "a"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetBlob(a) after delete error = %v, want ErrNotFound", err)
		}
		if _, err := p.GetBlob(ctx, "b"); err != nil {
			t.Errorf("GetBlob(b) error = %v", err)
		}
	})
}

func assertJSONEqual(t *testing.T, got []byte, want string) {
	t.Helper()
	var g, w bytes.Buffer
	if err := json.Compact(&g, got); err != nil {
		t.Fatalf("stored data is not JSON: %v (%q)", err, got)
	}
	if err := json.Compact(&w, []byte(want)); err != nil {
		t.Fatalf("bad expectation %q: %v", want, err)
	}
	if g.String() != w.String() {
		t.Errorf("data = %s, want %s", g.String(), w.String())
	}
}
