// Package diagram renders positions as SVG and PNG board diagrams.
package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/hailam/chesssearch/internal/board"
)

// squareUnits is the side of one square in SVG user units; glyphs are drawn
// in a box of this size.
const squareUnits = 45

// Options controls colors and orientation.
type Options struct {
	Light, Dark string // square fills
	Highlight   string // last-move squares; empty disables
	Flip        bool   // Black at the bottom
}

// DefaultOptions returns the classic brown board with last-move highlight.
func DefaultOptions() Options {
	return Options{Light: "#f0d9b5", Dark: "#b58863", Highlight: "#cdd26a"}
}

// glyphs are piece outlines in a 45x45 box, indexed by PieceType.
var glyphs = [6]string{
	// pawn
	`<circle cx="22.5" cy="14" r="5"/><path d="M15 37 L30 37 L27 24 L18 24 Z"/>`,
	// knight
	`<path d="M14 37 L33 37 L31 22 L27 10 L20 12 L12 20 L15 24 L21 21 L17 30 Z"/>`,
	// bishop
	`<circle cx="22.5" cy="10" r="3"/><path d="M14 37 L31 37 L27 28 L30 20 L22.5 13 L15 20 L18 28 Z"/>`,
	// rook
	`<path d="M12 37 L33 37 L33 33 L30 33 L30 20 L33 20 L33 12 L29 12 L29 15 L25 15 L25 12 L20 12 L20 15 L16 15 L16 12 L12 12 L12 20 L15 20 L15 33 L12 33 Z"/>`,
	// queen
	`<path d="M11 37 L34 37 L36 15 L29 26 L26 12 L22.5 25 L19 12 L16 26 L9 15 Z"/>` +
		`<circle cx="9" cy="13" r="2"/><circle cx="19" cy="10" r="2"/><circle cx="26" cy="10" r="2"/><circle cx="36" cy="13" r="2"/>`,
	// king
	`<path d="M21 6 L24 6 L24 9 L27 9 L27 12 L24 12 L24 15 L21 15 L21 12 L18 12 L18 9 L21 9 Z"/>` +
		`<path d="M12 37 L33 37 L35 22 L28 17 L22.5 21 L17 17 L10 22 Z"/>`,
}

// SVG returns a diagram of pos as an SVG document.
func SVG(pos *board.Position, opts Options) []byte {
	var highlighted board.Bitboard
	if last := pos.LastMove(); last != board.NoMove && opts.Highlight != "" {
		highlighted = board.SquareBB(last.From()) | board.SquareBB(last.To())
	}

	side := 8 * squareUnits
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`, side, side, side, side)
	sb.WriteByte('\n')

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			file, rank := col, 7-row
			if opts.Flip {
				file, rank = 7-col, row
			}
			sq := board.NewSquare(file, rank)
			x, y := col*squareUnits, row*squareUnits

			fill := opts.Light
			if (file+rank)%2 == 0 {
				fill = opts.Dark
			}
			if highlighted.IsSet(sq) {
				fill = opts.Highlight
			}
			fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`, x, y, squareUnits, squareUnits, fill)
			sb.WriteByte('\n')

			if piece := pos.PieceAt(sq); piece != board.NoPiece {
				writePiece(&sb, piece, x, y)
			}
		}
	}

	sb.WriteString("</svg>\n")
	return []byte(sb.String())
}

func writePiece(sb *strings.Builder, piece board.Piece, x, y int) {
	fill := "#ffffff"
	if piece.Color() == board.Black {
		fill = "#222222"
	}
	fmt.Fprintf(sb, `<g transform="translate(%d,%d)" fill="%s" stroke="#000000" stroke-width="1.5">%s</g>`,
		x, y, fill, glyphs[piece.Type()])
	sb.WriteByte('\n')
}

// renderScale is how much larger than the target the SVG is rasterised
// before downscaling.
const renderScale = 3

// Image rasterises the diagram at size x size pixels.
func Image(pos *board.Position, size int, opts Options) (image.Image, error) {
	if size < 8 {
		return nil, fmt.Errorf("diagram: size %d too small", size)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(SVG(pos, opts)))
	if err != nil {
		return nil, fmt.Errorf("diagram: parse svg: %w", err)
	}

	renderSize := size * renderScale
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))
	rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), rgba, rgba.Bounds(), draw.Src, nil)
	return dst, nil
}

// PNG writes the diagram as a PNG of size x size pixels.
func PNG(w io.Writer, pos *board.Position, size int, opts Options) error {
	img, err := Image(pos, size, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WriteFile writes an SVG or PNG diagram, chosen by the path's extension.
func WriteFile(path string, pos *board.Position, size int, opts Options) error {
	if strings.HasSuffix(strings.ToLower(path), ".svg") {
		return os.WriteFile(path, SVG(pos, opts), 0644)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := PNG(f, pos, size, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
