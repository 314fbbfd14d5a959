package services

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/google/uuid"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/types"
)

func TestComputeInitials(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "first and last", in: "Ada Lovelace", want: "AL"},
		{name: "middle names skipped", in: "John Ronald Reuel Tolkien", want: "JT"},
		{name: "single word", in: "Plato", want: "P"},
		{name: "lowercase input", in: "ada lovelace", want: "AL"},
		{name: "extra whitespace", in: "  Ada   Lovelace  ", want: "AL"},
		{name: "unicode", in: "Åsa Öberg", want: "ÅÖ"},
		{name: "empty", in: "", want: "?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeInitials(tt.in); got != tt.want {
				t.Fatalf("computeInitials(%q): want=%q got=%q", tt.in, tt.want, got)
			}
		})
	}
}

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already normal", in: "#2D6A4F", want: "#2D6A4F"},
		{name: "lowercase", in: "#2d6a4f", want: "#2D6A4F"},
		{name: "missing hash", in: "2d6a4f", want: "#2D6A4F"},
		{name: "padded", in: "  #2D6A4F  ", want: "#2D6A4F"},
		{name: "too short", in: "#2D6", want: ""},
		{name: "not hex", in: "#ZZZZZZ", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeHex(tt.in); got != tt.want {
				t.Fatalf("normalizeHex(%q): want=%q got=%q", tt.in, tt.want, got)
			}
		})
	}
}

func TestGenerateUserAvatarProducesPNG(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc, err := NewAvatarService(log, t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("NewAvatarService: %v", err)
	}

	user := &types.User{ID: uuid.New(), Name: "Ada Lovelace"}
	buf, err := svc.GenerateUserAvatar(user)
	if err != nil {
		t.Fatalf("GenerateUserAvatar: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 512 {
		t.Fatalf("avatar size: want=512x512 got=%dx%d", b.Dx(), b.Dy())
	}
	if user.AvatarColor == "" {
		t.Fatalf("avatar color not assigned")
	}
}

func TestCreateUserAvatarWritesFileAndSetsURL(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	dir := t.TempDir()
	svc, err := NewAvatarService(log, dir, "/media/")
	if err != nil {
		t.Fatalf("NewAvatarService: %v", err)
	}

	user := &types.User{ID: uuid.New(), Name: "Ada Lovelace"}
	if err := svc.CreateUserAvatar(user); err != nil {
		t.Fatalf("CreateUserAvatar: %v", err)
	}
	if user.AvatarKey == "" {
		t.Fatalf("avatar key not set")
	}
	if want := "/media/" + user.AvatarKey; user.AvatarURL != want {
		t.Fatalf("avatar url: want=%q got=%q", want, user.AvatarURL)
	}
}
