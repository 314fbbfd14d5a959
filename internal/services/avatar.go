package services

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/types"
)

// AvatarService renders the default initials avatar and stores it under the
// local media directory. Generation failures never block registration.
type AvatarService interface {
	CreateUserAvatar(user *types.User) error
	GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	log        *logger.Logger
	mediaDir   string
	publicBase string

	bgColors   []color.NRGBA
	colorByHex map[string]color.NRGBA

	fontFace font.Face
}

var defaultAvatarColors = []color.NRGBA{
	{R: 0x2D, G: 0x6A, B: 0x4F, A: 0xFF},
	{R: 0x1D, G: 0x35, B: 0x57, A: 0xFF},
	{R: 0x7F, G: 0x2C, B: 0xCB, A: 0xFF},
	{R: 0xB0, G: 0x41, B: 0x3E, A: 0xFF},
	{R: 0xC9, G: 0x7B, B: 0x1C, A: 0xFF},
	{R: 0x0E, G: 0x7C, B: 0x86, A: 0xFF},
	{R: 0x5A, G: 0x3E, B: 0x85, A: 0xFF},
	{R: 0x3A, G: 0x5A, B: 0x40, A: 0xFF},
}

func NewAvatarService(log *logger.Logger, mediaDir, publicBase string) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	bgColors := defaultAvatarColors
	if colorsJSONPath := strings.TrimSpace(os.Getenv("AVATAR_COLORS_JSON_PATH")); colorsJSONPath != "" {
		serviceLog.Info("Loading avatar colors", "path", colorsJSONPath)
		loaded, err := loadColorsFromFile(colorsJSONPath)
		if err != nil {
			return nil, fmt.Errorf("could not load avatar colors: %w", err)
		}
		if len(loaded) == 0 {
			return nil, fmt.Errorf("avatar colors list is empty")
		}
		bgColors = loaded
	}

	colorByHex := make(map[string]color.NRGBA, len(bgColors))
	for _, c := range bgColors {
		colorByHex[strings.ToUpper(nrgbaToHex(c))] = c
	}

	fontBytes := goregular.TTF
	if fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT")); fontPath != "" {
		serviceLog.Info("Loading avatar font", "font", fontPath)
		raw, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		fontBytes = raw
	}
	face, err := loadFontFace(fontBytes, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		log:        serviceLog,
		mediaDir:   mediaDir,
		publicBase: strings.TrimRight(publicBase, "/"),
		bgColors:   bgColors,
		colorByHex: colorByHex,
		fontFace:   face,
	}, nil
}

func (as *avatarService) CreateUserAvatar(user *types.User) error {
	as.ensureUserAvatarColor(user)

	buf, err := as.GenerateUserAvatar(user)
	if err != nil {
		return err
	}

	// Save old key so we can delete after success
	oldKey := strings.TrimSpace(user.AvatarKey)

	// Versioned key so browsers never serve a stale cached avatar
	newKey := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())

	fullPath := filepath.Join(as.mediaDir, filepath.FromSlash(newKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create avatar dir: %w", err)
	}
	if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write user avatar: %w", err)
	}

	user.AvatarKey = newKey
	user.AvatarURL = as.publicBase + "/" + newKey

	// Best-effort delete old AFTER we have a new one
	if oldKey != "" && oldKey != newKey {
		oldPath := filepath.Join(as.mediaDir, filepath.FromSlash(oldKey))
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
		}
	}

	return nil
}

func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
	const size = 512
	as.ensureUserAvatarColor(user)

	dc := gg.NewContext(size, size)

	// Clip to circle
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	// Fill bg
	base := as.pickColor(user.AvatarColor)
	dc.SetColor(base)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(user.Name)

	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// -------------------- Color helpers --------------------

func (as *avatarService) ensureUserAvatarColor(user *types.User) {
	// keep if valid
	if strings.TrimSpace(user.AvatarColor) != "" {
		n := normalizeHex(user.AvatarColor)
		if n != "" {
			if _, ok := as.colorByHex[n]; ok {
				user.AvatarColor = n
				return
			}
		}
	}

	// pick allowed random and store as hex
	pick := as.bgColors[rand.Intn(len(as.bgColors))]
	user.AvatarColor = nrgbaToHex(pick)
}

func (as *avatarService) pickColor(hexStr string) color.NRGBA {
	h := normalizeHex(hexStr)
	if h != "" {
		if c, ok := as.colorByHex[h]; ok {
			return c
		}
	}
	return as.bgColors[rand.Intn(len(as.bgColors))]
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	s = strings.ToUpper(s)
	if len(s) != 7 {
		return ""
	}
	_, _, _, err := parseHexRGB(s)
	if err != nil {
		return ""
	}
	return s
}

func parseHexRGB(s string) (r, g, b uint8, err error) {
	if strings.HasPrefix(s, "#") {
		s = s[1:]
	}
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("expected 6 hex chars")
	}

	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid hex")
	}
	return raw[0], raw[1], raw[2], nil
}

func nrgbaToHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// -------------------- Misc helpers --------------------

// computeInitials takes the first letter of the first and last words of the
// display name. Single-word names get a single initial.
func computeInitials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "?"
	}
	first := []rune(words[0])
	out := strings.ToUpper(string(first[0]))
	if len(words) > 1 {
		last := []rune(words[len(words)-1])
		out += strings.ToUpper(string(last[0]))
	}
	return out
}

func loadColorsFromFile(jsonPath string) ([]color.NRGBA, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read file error: %w", err)
	}
	var colors []color.NRGBA
	if err := json.Unmarshal(data, &colors); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	return colors, nil
}

func loadFontFace(fontBytes []byte, size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
