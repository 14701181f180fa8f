package operations

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"photo-gallery/internal/domain"

	"github.com/disintegration/imaging"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// TextOverlay renders diagonal text watermarks. The font is parsed once at
// construction and shared; Render is safe for concurrent use.
type TextOverlay struct {
	font *truetype.Font
}

func NewTextOverlay() (*TextOverlay, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &TextOverlay{font: f}, nil
}

type TextParams struct {
	Text      string
	Width     int
	Height    int
	FontSize  float64
	Opacity   float64
	Hidden    bool
	FontColor string
}

// Render produces a transparent canvas of exactly Width x Height with the
// text centered and rotated 45 degrees about its own center. Output is
// deterministic for identical params.
func (t *TextOverlay) Render(p TextParams) (*image.NRGBA, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("invalid overlay dimensions %dx%d", p.Width, p.Height)
	}

	text := p.Text
	if text == "" {
		text = domain.DefaultWatermarkText
	}

	fontSize := p.FontSize
	if fontSize <= 0 {
		fontSize = domain.DefaultFontHeightRatio * float64(p.Height)
	}
	if fontSize < 1 {
		fontSize = 1
	}

	opacity := domain.WatermarkSettings{Opacity: p.Opacity, IsHidden: p.Hidden}.EffectiveOpacity()
	col := parseColor(p.FontColor, opacity)

	// Draw onto a tight canvas first so rotation pivots around the text itself.
	textWidth := int(float64(len(text))*fontSize*0.6) + 4
	textHeight := int(fontSize*1.4) + 4
	tight := image.NewNRGBA(image.Rect(0, 0, textWidth, textHeight))

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(t.font)
	c.SetFontSize(fontSize)
	c.SetClip(tight.Bounds())
	c.SetDst(tight)
	c.SetSrc(image.NewUniform(col))
	c.SetHinting(font.HintingFull)

	if _, err := c.DrawString(text, freetype.Pt(2, 2+int(fontSize))); err != nil {
		return nil, fmt.Errorf("failed to draw watermark text: %w", err)
	}

	rotated := imaging.Rotate(tight, 45, color.NRGBA{})

	canvas := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	return imaging.PasteCenter(canvas, rotated), nil
}

func parseColor(colorStr string, opacity float64) color.NRGBA {
	alpha := uint8(255 * opacity)
	fallback := color.NRGBA{255, 255, 255, alpha}

	colorStr = strings.ReplaceAll(colorStr, " ", "")
	parts := strings.Split(colorStr, ",")
	if len(parts) != 3 {
		return fallback
	}

	r, err1 := strconv.Atoi(parts[0])
	g, err2 := strconv.Atoi(parts[1])
	b, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return fallback
	}

	return color.NRGBA{
		R: uint8(clamp(r, 0, 255)),
		G: uint8(clamp(g, 0, 255)),
		B: uint8(clamp(b, 0, 255)),
		A: alpha,
	}
}

func clamp(value, min, max int) int {
	return int(math.Max(float64(min), math.Min(float64(max), float64(value))))
}
