package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/san-kum/gyrosim/internal/export"
)

const (
	cellW, cellH  = 8, 16
	maxGIFFrames  = 900
	gifFrameDelay = 2 // hundredths of a second
	snapshotScale = 3.0
	snapshotFG    = "#00e5ff"
	snapshotBG    = "#0a0a0a"
)

// Recorder rasterises canvas frames into a palette image sequence for GIF
// output. Frames beyond maxGIFFrames are dropped.
type Recorder struct {
	frames  []*image.Paletted
	palette color.Palette
}

func NewRecorder() *Recorder {
	palette := color.Palette{color.Black}
	// One grey per canvas level so the trail fades in the GIF too.
	for i := 1; i < 8; i++ {
		v := uint8(60 + i*195/7)
		palette = append(palette, color.RGBA{v, v, v, 255})
	}
	return &Recorder{palette: palette}
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Capture(c *Canvas) {
	if len(r.frames) >= maxGIFFrames {
		return
	}
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), r.palette)
	dotW, dotH := cellW/2, cellH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := c.Grid[row][col] - brailleBase
			if pattern <= 0 {
				continue
			}
			idx := uint8(min(int(c.Level[row][col]), len(r.palette)-1))
			if idx == 0 {
				idx = 1
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					x0, y0 := col*cellW+dx*dotW, row*cellH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(x0+px, y0+py, idx)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the captured frames as a looping GIF and clears the buffer.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range r.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, gifFrameDelay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	r.frames = r.frames[:0]
	return f.Close()
}

// SaveSnapshot writes the current canvas as an SVG of dots.
func SaveSnapshot(c *Canvas, path string) error {
	svg := export.BrailleToSVG(c.Grid, snapshotScale, snapshotFG, snapshotBG)
	return os.WriteFile(path, []byte(svg), 0644)
}
