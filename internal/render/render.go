package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"stampbook/internal/models"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

const (
	minLineHeight   = 18
	padding         = 16
	defaultFontSize = 20
)

var (
	colorPanel  = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	colorText   = color.NRGBA{R: 40, G: 40, B: 48, A: 255}
	colorDimmed = color.NRGBA{R: 255, G: 255, B: 255, A: 190}
	colorEmpty  = color.NRGBA{R: 236, G: 236, B: 240, A: 255}
	colorBlank  = color.NRGBA{R: 250, G: 248, B: 244, A: 255}
)

type Renderer struct {
	Width    int
	Height   int
	Columns  int
	CellSize int
	// Face draws every text line; basicfont covers ASCII only.
	Face font.Face

	mu sync.Mutex
}

func New() *Renderer {
	return &Renderer{Width: 960, Height: 540, Columns: 6, CellSize: 120, Face: basicfont.Face7x13}
}

// LoadFace reads a TrueType/OpenType font, or the first font of a collection.
func LoadFace(path string, size float64) (font.Face, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f *opentype.Font
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		collection, err := opentype.ParseCollection(b)
		if err != nil {
			return nil, err
		}
		f, err = collection.Font(0)
		if err != nil {
			return nil, err
		}
	default:
		f, err = opentype.Parse(b)
		if err != nil {
			return nil, err
		}
	}

	if size <= 0 {
		size = defaultFontSize
	}
	return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

func (r *Renderer) face() font.Face {
	if r.Face == nil {
		return basicfont.Face7x13
	}
	return r.Face
}

func (r *Renderer) lineHeight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.faceLineHeight()
}

// faceLineHeight expects r.mu to be held; opentype faces are not safe for
// concurrent use.
func (r *Renderer) faceLineHeight() int {
	return max(minLineHeight, r.face().Metrics().Height.Ceil()+4)
}

func signLines(result *models.SignResult) []string {
	lines := []string{
		result.UserName,
		fmt.Sprintf("affection +%d  (total %d)", result.Affection, result.AffectionTotal),
		fmt.Sprintf("stamp %s", result.Stamp.ID),
		fmt.Sprintf("rank #%d", result.Rank),
	}
	if result.Todo != "" {
		lines = append(lines, fmt.Sprintf("todo: %s", result.Todo))
	}
	if result.Hitokoto != "" {
		lines = append(lines, result.Hitokoto)
	}
	return lines
}

// Sign composes the sign-in card: background, the drawn stamp, the numbers,
// the to-do and the quote.
func (r *Renderer) Sign(result *models.SignResult) ([]byte, error) {
	canvas := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{colorBlank}, image.Point{}, draw.Src)

	if result.Background != "" {
		background, err := decodeFile(result.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		cover(canvas, canvas.Bounds(), background)
	}

	stampSize := r.Height / 2
	stampRect := image.Rect(r.Width-stampSize-2*padding, padding, r.Width-2*padding, padding+stampSize)
	if len(result.Stamp.Data) > 0 {
		stamp, _, err := image.Decode(bytes.NewReader(result.Stamp.Data))
		if err != nil {
			return nil, fmt.Errorf("stamp %s: %w", result.Stamp.ID, err)
		}
		contain(canvas, stampRect, stamp)
	}

	panelWidth := r.Width * 2 / 3
	lines := r.wrap(signLines(result), panelWidth-2*padding)
	lh := r.lineHeight()
	panel := image.Rect(padding, r.Height-padding-len(lines)*lh-padding, panelWidth, r.Height-padding)
	draw.Draw(canvas, panel, &image.Uniform{colorPanel}, image.Point{}, draw.Over)
	r.writeLines(canvas, panel.Min.Add(image.Pt(padding/2, padding/2)), lines)

	return encode(canvas)
}

// Album draws the whole pool in a grid; stamps not collected yet are dimmed.
func (r *Renderer) Album(view *models.AlbumView, pool []models.Stamp) ([]byte, error) {
	columns := r.Columns
	if columns <= 0 {
		columns = 1
	}
	rows := (len(pool) + columns - 1) / columns
	if rows == 0 {
		rows = 1
	}
	header := 2*r.lineHeight() + padding

	width := columns*r.CellSize + (columns+1)*padding
	height := header + rows*r.CellSize + (rows+1)*padding
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{colorBlank}, image.Point{}, draw.Src)

	rank := "unranked"
	if view.Rank > 0 {
		rank = fmt.Sprintf("rank #%d", view.Rank)
	}
	r.writeLines(canvas, image.Pt(padding, padding/2), []string{
		fmt.Sprintf("album of %s", view.UserID),
		fmt.Sprintf("%d/%d collected  %s", len(view.Stamps), len(pool), rank),
	})

	collected := make(map[string]bool, len(view.Stamps))
	for _, id := range view.Stamps {
		collected[id] = true
	}

	for i, stamp := range pool {
		x := padding + (i%columns)*(r.CellSize+padding)
		y := header + padding + (i/columns)*(r.CellSize+padding)
		cell := image.Rect(x, y, x+r.CellSize, y+r.CellSize)
		draw.Draw(canvas, cell, &image.Uniform{colorEmpty}, image.Point{}, draw.Src)

		if len(stamp.Data) > 0 {
			img, _, err := image.Decode(bytes.NewReader(stamp.Data))
			if err != nil {
				return nil, fmt.Errorf("stamp %s: %w", stamp.ID, err)
			}
			contain(canvas, cell, img)
		}
		if !collected[stamp.ID] {
			draw.Draw(canvas, cell, &image.Uniform{colorDimmed}, image.Point{}, draw.Over)
		}
	}

	return encode(canvas)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// cover scales src to fill rect, cropping what overflows.
func cover(dst draw.Image, rect image.Rectangle, src image.Image) {
	sb := src.Bounds()
	if sb.Empty() {
		return
	}
	scale := max(float64(rect.Dx())/float64(sb.Dx()), float64(rect.Dy())/float64(sb.Dy()))
	w, h := int(float64(sb.Dx())*scale+0.5), int(float64(sb.Dy())*scale+0.5)
	target := image.Rect(0, 0, w, h).Add(rect.Min).Sub(image.Pt((w-rect.Dx())/2, (h-rect.Dy())/2))

	scaled := image.NewNRGBA(target)
	xdraw.CatmullRom.Scale(scaled, target, src, sb, xdraw.Src, nil)
	draw.Draw(dst, rect, scaled, rect.Min, draw.Over)
}

// contain scales src to fit inside rect, keeping its aspect ratio.
func contain(dst draw.Image, rect image.Rectangle, src image.Image) {
	sb := src.Bounds()
	if sb.Empty() {
		return
	}
	scale := min(float64(rect.Dx())/float64(sb.Dx()), float64(rect.Dy())/float64(sb.Dy()))
	w, h := int(float64(sb.Dx())*scale), int(float64(sb.Dy())*scale)
	if w == 0 || h == 0 {
		return
	}
	offset := image.Pt((rect.Dx()-w)/2, (rect.Dy()-h)/2)
	target := image.Rect(0, 0, w, h).Add(rect.Min).Add(offset)
	xdraw.ApproxBiLinear.Scale(dst, target, src, sb, xdraw.Over, nil)
}

// wrap breaks every line into pieces no wider than width, rune by rune.
func (r *Renderer) wrap(lines []string, width int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	face := r.face()
	limit := fixed.I(width)
	var out []string
	for _, line := range lines {
		var current []rune
		for _, c := range line {
			next := append(current, c)
			if len(current) > 0 && font.MeasureString(face, string(next)) > limit {
				out = append(out, string(current))
				next = []rune{c}
			}
			current = next
		}
		out = append(out, string(current))
	}
	return out
}

func (r *Renderer) writeLines(dst draw.Image, at image.Point, lines []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lh := r.faceLineHeight()
	d := &font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{colorText},
		Face: r.face(),
	}
	for i, line := range lines {
		d.Dot = fixed.P(at.X, at.Y+(i+1)*lh)
		d.DrawString(line)
	}
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
