// Command sequence-demo renders a flipbook sequence from a YAML config in a GLFW window using WebGPU.
//
// Keys: arrows/WASD orbit, scroll zooms, +/- change animation speed, B toggles batching,
// R reseeds, Space pauses the camera spin, Esc quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-flipbook/common"
	"github.com/Carmen-Shannon/oxy-flipbook/engine"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/camera"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/game_object"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/profiler"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/renderer"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/scene"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/sequence"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/window"
)

const (
	orbitStep     = 0.05
	speedFactor   = 1.25
	spinRate      = 0.15
	zoomSpeed     = 1.5
	prefabName    = "quad"
	inputCapacity = 64
)

// inputEvent carries window input from the main thread to the tick goroutine.
type inputEvent struct {
	key    window.Key
	scroll float32
	resize [2]int
}

func main() {
	configPath := flag.String("config", "configs/fire.yaml", "sequence config file")
	atlasPath := flag.String("atlas", "", "flipbook atlas image (PNG or JPEG); empty draws white quads")
	additive := flag.Bool("additive", false, "draw with additive blending")
	uncapped := flag.Bool("uncapped", false, "disable vsync")
	profile := flag.Bool("profile", false, "log FPS and memory")
	profileEvery := flag.Duration("profile-interval", time.Second, "time between profiler reports")
	msaa := flag.Int("msaa", 4, "multisample count: 1, 4 or 8")
	software := flag.Bool("software", false, "use the software fallback adapter")
	nearest := flag.Bool("nearest", false, "sample the atlas with nearest filtering")
	flag.Parse()

	cfg, err := sequence.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load %s: %v", *configPath, err)
	}

	// ── Window + Renderer ───────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(title(cfg)),
		window.WithSize(1280, 720),
		window.WithMinSize(640, 360),
	)

	presentMode := renderer.PresentModeVSync
	if *uncapped {
		presentMode = renderer.PresentModeUncapped
	}
	sampler := renderer.AtlasSampler
	if *nearest {
		sampler = renderer.PixelArtSampler
	}
	samples, err := msaaCount(*msaa)
	if err != nil {
		log.Fatal(err)
	}
	r, err := renderer.NewRenderer(win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(samples),
		renderer.WithForceSoftwareRenderer(*software),
		renderer.WithAtlasSampler(sampler),
		renderer.WithClearColor([4]float64{0.02, 0.02, 0.04, 1}),
	)
	if err != nil {
		log.Fatalf("failed to create renderer: %v", err)
	}
	defer r.Release()

	// ── Resources ───────────────────────────────────────────────────
	lib := sequence.NewLibrary()
	lib.AddPrefab(mesh.NewQuad(prefabName))
	lib.AddMaterial(newMaterial(cfg.Material, *atlasPath, *additive))
	if cfg.SpritePrefab == "" {
		cfg.SpritePrefab = prefabName
	}

	seq, err := sequence.NewSequenceFromConfig(cfg, lib, r)
	if err != nil {
		log.Fatalf("failed to resolve %s: %v", *configPath, err)
	}
	sc := scene.NewScene(cfg.Name, scene.WithSequences(seq), scene.WithActive(true))
	defer sc.Release()
	if err := sc.Initialize(); err != nil {
		log.Fatalf("failed to initialize sequence: %v", err)
	}

	// ── Camera ──────────────────────────────────────────────────────
	cx, cy, cz := cfg.PositionRange.X/2, cfg.PositionRange.Y/2, cfg.PositionRange.Z/2
	cam := camera.NewCamera(
		camera.WithFov(float32(60.0*math.Pi/180.0)),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithClipPlanes(0.1, 1000),
		camera.WithController(camera.NewOrbitController(
			camera.WithTarget(cx, cy, cz),
			camera.WithRadius(2*float32(math.Max(float64(cfg.PositionRange.X), float64(cfg.PositionRange.Z)))+10),
			camera.WithZoomSpeed(zoomSpeed),
			camera.WithAutoRotate(spinRate),
		)),
	)

	// ── Engine ──────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithProfiler(profiler.NewProfiler(profiler.WithInterval(*profileEvery))),
		engine.WithProfiling(*profile),
		engine.WithTickRate(60),
		engine.WithMessageLoop(win),
		engine.WithRenderer(r),
		engine.WithScene(0, sc),
	)

	input := make(chan inputEvent, inputCapacity)
	push := func(ev inputEvent) {
		select {
		case input <- ev:
		default:
		}
	}
	win.SetKeyDownCallback(func(k window.Key) { push(inputEvent{key: k}) })
	win.SetScrollCallback(func(delta float32) { push(inputEvent{scroll: delta}) })
	win.SetResizeCallback(func(width, height int) {
		r.Resize(width, height)
		push(inputEvent{resize: [2]int{width, height}})
	})

	d := &demo{cfg: cfg, lib: lib, r: r, sc: sc, cam: cam, spin: true}
	eng.SetTickCallback(func(dt float32) {
	drain:
		for {
			select {
			case ev := <-input:
				d.handle(ev)
			default:
				break drain
			}
		}
		if d.spin {
			cam.Controller().Spin(dt)
		}
		cam.Update()
		if err := r.SetCamera(cam); err != nil {
			log.Printf("camera update failed: %v", err)
		}
	})
	// Replaced meshes are released between frames, never while a frame may still draw them.
	eng.SetRenderCallback(func(float32) {
		d.retired.Release(r)
	})

	log.Printf("[Demo] %s: %d sprites, %dx%d grid, batched=%v", cfg.Name, cfg.Amount, cfg.Grid.Columns, cfg.Grid.Rows, cfg.UseBatching)
	start := time.Now()
	eng.Run()
	log.Printf("[Demo] ran for %v", time.Since(start).Round(time.Millisecond))
}

// demo holds the state the tick goroutine mutates in response to input.
type demo struct {
	cfg  sequence.Config
	lib  *sequence.Library
	r    renderer.Renderer
	sc   scene.Scene
	cam  camera.Camera
	spin bool

	retired mesh.ReleaseQueue
}

func (d *demo) handle(ev inputEvent) {
	ctrl := d.cam.Controller()
	switch {
	case ev.resize[0] > 0 && ev.resize[1] > 0:
		d.cam.SetAspect(float32(ev.resize[0]) / float32(ev.resize[1]))
	case ev.scroll != 0:
		ctrl.Zoom(ev.scroll)
	}

	switch ev.key {
	case window.KeyLeft:
		ctrl.Orbit(-orbitStep, 0)
	case window.KeyRight:
		ctrl.Orbit(orbitStep, 0)
	case window.KeyUp:
		ctrl.Orbit(0, orbitStep)
	case window.KeyDown:
		ctrl.Orbit(0, -orbitStep)
	case window.KeySpace:
		d.spin = !d.spin
	case window.KeyEqual:
		d.rebuild(func(c *sequence.Config) { c.AnimSpeed *= speedFactor })
	case window.KeyMinus:
		d.rebuild(func(c *sequence.Config) { c.AnimSpeed /= speedFactor })
	case window.KeyB:
		d.rebuild(func(c *sequence.Config) { c.UseBatching = !c.UseBatching })
	case window.KeyR:
		d.rebuild(func(c *sequence.Config) { c.Seed = time.Now().UnixNano() })
	}
}

// rebuild replaces the running sequence with one built from an edited config and
// retires the old one's meshes.
func (d *demo) rebuild(edit func(c *sequence.Config)) {
	next := d.cfg
	edit(&next)

	seq, err := sequence.NewSequenceFromConfig(next, d.lib, d.r)
	if err != nil {
		log.Printf("rebuild rejected: %v", err)
		return
	}
	if err := seq.Initialize(); err != nil {
		log.Printf("rebuild rejected: %v", err)
		return
	}

	old := d.sc.Get(d.cfg.Name)
	d.sc.Replace(d.cfg.Name, seq)
	if old != nil && old.Root() != nil {
		old.Root().Walk(func(obj game_object.GameObject) {
			d.retired.Add(obj.Mesh())
		})
	}

	d.cfg = next
	log.Printf("[Demo] %s: speed %.2f, batched=%v, seed %d", next.Name, next.AnimSpeed, next.UseBatching, next.Seed)
}

func title(cfg sequence.Config) string {
	return fmt.Sprintf("Sequence Demo: %s (%d sprites)", cfg.Name, cfg.Amount)
}

// newMaterial builds the material the config names. An empty atlas path leaves it untextured.
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

func msaaCount(n int) (renderer.MSAASampleCount, error) {
	switch n {
	case 1:
		return renderer.MSAAOff, nil
	case 4:
		return renderer.MSAA4x, nil
	case 8:
		return renderer.MSAA8x, nil
	}
	return 0, fmt.Errorf("unsupported -msaa %d: use 1, 4 or 8", n)
}
