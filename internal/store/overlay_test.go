package store

import (
	"errors"
	"testing"
)

func TestOverlayRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Overlays()

	o := &Overlay{Name: "fox", Path: "images/fox.png", Width: 120, Height: 90}
	if err := repo.Create(o); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if o.ID == "" {
		t.Fatal("Create() should assign an ID")
	}
	if o.CreatedAt.IsZero() {
		t.Error("Create() should set CreatedAt")
	}

	got, err := repo.GetByID(o.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != o.Name || got.Path != o.Path || got.Width != 120 || got.Height != 90 {
		t.Errorf("GetByID() = %+v, want %+v", got, o)
	}
}

func TestOverlayRepository_KeepsGivenID(t *testing.T) {
	s := newTestStore(t)

	o := &Overlay{ID: "custom", Name: "mask", Path: "mask.png"}
	if err := s.Overlays().Create(o); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if o.ID != "custom" {
		t.Errorf("ID = %q, want custom", o.ID)
	}
}

func TestOverlayRepository_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	repo := s.Overlays()

	if err := repo.Create(&Overlay{Name: "mask", Path: "a.png"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(&Overlay{Name: "mask", Path: "b.png"}); err == nil {
		t.Error("expected error for duplicate name")
	}
}

func TestOverlayRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Overlays().GetByID("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestOverlayRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Overlays()

	empty, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("List() on empty store = %d overlays", len(empty))
	}

	for _, name := range []string{"alpha", "beta", "gamma"} {
		if err := repo.Create(&Overlay{Name: name, Path: name + ".png"}); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() = %d overlays, want 3", len(list))
	}
	for i, want := range []string{"alpha", "beta", "gamma"} {
		if list[i].Name != want {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Name, want)
		}
	}
}

func TestOverlayRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Overlays()

	o := &Overlay{Name: "mask", Path: "mask.png"}
	repo.Create(o)

	if err := repo.Delete(o.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(o.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(o.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
