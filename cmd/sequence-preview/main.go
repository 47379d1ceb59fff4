// Command sequence-preview shows a flipbook sequence in an Ebitengine window and rebuilds it
// whenever its YAML config changes on disk.
//
// Keys: B toggles batching, R reseeds, arrows pan, +/- zoom, Esc quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Carmen-Shannon/oxy-flipbook/common"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/game_object"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/preview"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/scene"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/sequence"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	prefabName   = "quad"
	panStep      = 0.5
	zoomFactor   = 1.1
)

var errQuit = errors.New("quit")

type game struct {
	configPath string
	cfg        sequence.Config
	lib        *sequence.Library
	pv         preview.Preview
	sc         scene.Scene
	events     <-chan string
	watchErrs  <-chan error

	centerX, centerH, zoom float32
	reloads                int
	lastErr                error
}

func main() {
	configPath := flag.String("config", "configs/fire.yaml", "sequence config file")
	atlasPath := flag.String("atlas", "", "flipbook atlas image (PNG or JPEG); empty draws white quads")
	additive := flag.Bool("additive", false, "draw with additive blending")
	flag.Parse()

	absPath, err := filepath.Abs(*configPath)
	if err != nil {
		log.Fatalf("failed to resolve %s: %v", *configPath, err)
	}
	cfg, err := sequence.LoadConfig(absPath)
	if err != nil {
		log.Fatalf("failed to load %s: %v", absPath, err)
	}

	lib := sequence.NewLibrary()
	lib.AddPrefab(mesh.NewQuad(prefabName))
	lib.AddMaterial(newMaterial(cfg.Material, *atlasPath, *additive))

	watcher, err := sequence.NewWatcher(filepath.Dir(absPath))
	if err != nil {
		log.Fatalf("failed to watch %s: %v", filepath.Dir(absPath), err)
	}
	defer watcher.Close()

	g := &game{
		configPath: absPath,
		lib:        lib,
		events:     watcher.Events,
		watchErrs:  watcher.Errors,
		zoom:       screenHeight / (cfg.PositionRange.Y + cfg.PositionRange.Z + 10),
		centerX:    cfg.PositionRange.X / 2,
		centerH:    (cfg.PositionRange.Y + cfg.PositionRange.Z) / 2,
	}
	g.pv = preview.NewPreview(preview.WithView(g.centerX, g.centerH, g.zoom))
	g.sc = scene.NewScene("preview", scene.WithActive(true))
	defer g.sc.Release()

	if err := g.load(cfg); err != nil {
		log.Fatalf("failed to build sequence: %v", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Sequence Preview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}

// load builds a sequence from cfg, uploads it and swaps it into the scene.
// On failure the running sequence is left in place.
func (g *game) load(cfg sequence.Config) error {
	if cfg.SpritePrefab == "" {
		cfg.SpritePrefab = prefabName
	}
	seq, err := sequence.NewSequenceFromConfig(cfg, g.lib, g.pv)
	if err != nil {
		return err
	}
	if err := seq.Initialize(); err != nil {
		return err
	}

	old := g.sc.Get(g.cfg.Name)
	g.sc.Replace(g.cfg.Name, seq)
	if old != nil {
		g.forget(old)
	}
	g.cfg = cfg
	return nil
}

func (g *game) forget(seq sequence.Sequence) {
	if seq.Root() == nil {
		return
	}
	seq.Root().Walk(func(obj game_object.GameObject) {
		if obj.Mesh() != nil {
			g.pv.Forget(obj.Mesh())
		}
	})
}

func (g *game) reload() {
	cfg, err := sequence.LoadConfig(g.configPath)
	if err == nil {
		err = g.load(cfg)
	}
	g.lastErr = err
	if err != nil {
		log.Printf("[Preview] reload rejected: %v", err)
		return
	}
	g.reloads++
	log.Printf("[Preview] reloaded %s: %d sprites, batched=%v", cfg.Name, cfg.Amount, cfg.UseBatching)
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

watch:
	for {
		select {
		case path, ok := <-g.events:
			if !ok {
				g.events = nil
				continue
			}
			if path == g.configPath {
				g.reload()
			}
		case err, ok := <-g.watchErrs:
			if !ok {
				g.watchErrs = nil
				continue
			}
			log.Printf("[Preview] watcher: %v", err)
		default:
			break watch
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		next := g.cfg
		next.UseBatching = !next.UseBatching
		g.lastErr = g.load(next)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		next := g.cfg
		next.Seed = time.Now().UnixNano()
		g.lastErr = g.load(next)
	}
	g.handleView()

	g.sc.Tick(float32(1.0 / float64(ebiten.TPS())))
	return nil
}

func (g *game) handleView() {
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		g.centerX -= panStep
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		g.centerX += panStep
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		g.centerH += panStep
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		g.centerH -= panStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.zoom *= zoomFactor
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.zoom /= zoomFactor
	}
	g.pv.SetView(g.centerX, g.centerH, g.zoom)
}

func (g *game) Draw(screen *ebiten.Image) {
	_ = g.pv.BeginFrame()
	if err := g.sc.DrawCalls(g.pv); err != nil {
		g.lastErr = err
	}
	g.pv.EndFrame()
	g.pv.Present()
	g.pv.Draw(screen)

	status := fmt.Sprintf("%s  sprites %d  batched %v  speed %.2f  draw calls %d  reloads %d  TPS %.0f  FPS %.0f",
		g.cfg.Name, g.cfg.Amount, g.cfg.UseBatching, g.cfg.AnimSpeed, g.pv.Batches(), g.reloads, ebiten.ActualTPS(), ebiten.ActualFPS())
	if g.lastErr != nil {
		status += "\nerror: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrint(screen, status)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func newMaterial(name, atlasPath string, additive bool) material.Material {
	opts := []material.MaterialBuilderOption{material.WithName(name)}
	if atlasPath != "" {
		opts = append(opts, material.WithAtlas(&common.ImportedTexture{Name: name, Path: atlasPath}))
	}
	if additive {
		opts = append(opts, material.WithBlendMode(material.BlendAdditive))
	}
	return material.NewMaterial(opts...)
}
