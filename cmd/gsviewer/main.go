// main.go - ebiten scanout viewer for recorded GS command streams
// (SPEC_FULL.md §4.10)
//
// Grounded on video_backend_ebiten.go's EbitenOutput: a frame-buffer
// byte slice behind a mutex, presented once per ebiten Draw call.
// Generalized here to pull its frame from the software backend's
// scanout image instead of a host-pushed buffer, since this viewer's
// pixels originate from the translator's own render passes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	gs "github.com/intuitionamiga/gsxlate"
	"github.com/intuitionamiga/gsxlate/backend/software"
	"github.com/intuitionamiga/gsxlate/internal/trace"
)

type game struct {
	tl      *gs.Translator
	backend *software.Backend
	r       *trace.Reader
	done    bool
	width   int
	height  int
}

func (g *game) Update() error {
	if g.done {
		return nil
	}
	for i := 0; i < 4096; i++ {
		ev, err := g.r.Next()
		if err != nil {
			g.done = true
			return nil
		}
		switch ev.Op {
		case trace.OpRegisterWrite:
			g.tl.WriteRegister(gs.RegAddr(ev.RegAddr), ev.RegValue)
		case trace.OpGIFPacket:
			g.tl.GIFTransfer(ev.GIFPath, ev.GIFData)
		case trace.OpVSync:
			g.tl.VSync(gs.VSyncInfo{
				DisplayBasePage: 0,
				DisplayPSM:      gs.PSMCT32,
				DisplayStride:   g.width / 64,
				Width:           g.width,
				Height:          g.height,
			})
			return nil
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	img := g.backend.Scanout()
	if img == nil {
		ebitenutil.DebugPrint(screen, "waiting for first frame")
		return
	}
	opts := &ebiten.DrawImageOptions{}
	ebitenImg := ebiten.NewImageFromImage(img)
	screen.DrawImage(ebitenImg, opts)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func main() {
	width := flag.Int("width", 640, "scanout width in pixels")
	height := flag.Int("height", 448, "scanout height in pixels")
	opts := gs.OptionsFromFlags(flag.CommandLine)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: gsviewer [flags] <trace-file>")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("gsviewer: %v", err)
	}
	defer f.Close()

	r, err := trace.NewReader(f)
	if err != nil {
		log.Fatalf("gsviewer: %v", err)
	}

	tl := gs.NewTranslator(*opts)
	backend := software.New(tl.VRAM())
	tl.AttachBackend(backend)

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("gsviewer")

	g := &game{tl: tl, backend: backend, r: r, width: *width, height: *height}
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("gsviewer: %v", err)
	}
}
