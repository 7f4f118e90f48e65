package motion

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events are forwarded to the ECS. Stores
// that also implement EventSink receive animation lifecycle events.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
	// Wheel fields (valid for EventWheel)
	WheelX float64
	WheelY float64
}

// SceneConfig configures NewScene. Zero fields take defaults.
type SceneConfig struct {
	// Width and Height size the viewport. Default 640x480.
	Width, Height float64
	// Engine configures the scene's animation engine. A nil Engine.Logger
	// gets a stderr logger whose level follows SetDebugMode.
	Engine Config
}

// Scene is the top-level object that owns the node tree, the viewport, the
// animation engine, and input state. Nodes under the root are the document
// that scroll bindings measure.
type Scene struct {
	root     *Node
	viewport *Viewport
	engine   *Engine
	store    EntityStore
	log      *slog.Logger
	logLevel *slog.LevelVar
	debug    bool

	// ClearColor fills the screen before each Draw. The zero value leaves the
	// screen untouched.
	ClearColor Color

	updateFn  func() error
	nodeIDs   uint32
	layoutRev uint64

	// Input state
	handlers     handlerRegistry
	pointer      pointerState
	captured     *Node
	hitBuf       []hitEntry
	dragDeadZone float64
	// WheelScale converts wheel ticks to scroll pixels.
	WheelScale  float64
	deviceInput bool
	injectQueue []syntheticEvent
	testRunner  *TestRunner

	// Render state
	commands []drawCommand
	pixel    *ebiten.Image
	frame    uint64

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir   string
	screenshotQueue []string
}

// NewScene creates a scene with a root container, a viewport of the
// configured size, and an engine already attached to that viewport.
func NewScene(cfg SceneConfig) *Scene {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	s := &Scene{
		viewport:      NewViewport(cfg.Width, cfg.Height),
		dragDeadZone:  defaultDragDeadZone,
		WheelScale:    defaultWheelScale,
		ScreenshotDir: "screenshots",
		commands:      make([]drawCommand, 0, defaultCommandCap),
	}
	if cfg.Engine.Logger == nil {
		s.logLevel = new(slog.LevelVar)
		s.logLevel.Set(slog.LevelWarn)
		cfg.Engine.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: s.logLevel}))
	}
	s.log = cfg.Engine.Logger.With("pkg", "motion")
	s.engine = NewEngine(cfg.Engine)
	if err := s.engine.Init(s.viewport); err != nil {
		panic("motion: " + err.Error())
	}

	s.root = NewContainer("root")
	s.root.Interactable = true
	s.root.idGen = &s.nodeIDs
	assignIDs(s.root, &s.nodeIDs)
	s.layoutRev = s.root.layoutRev
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Viewport returns the scene's viewport.
func (s *Scene) Viewport() *Viewport {
	return s.viewport
}

// Engine returns the scene's animation engine.
func (s *Scene) Engine() *Engine {
	return s.engine
}

// Animate registers spec with the scene's engine.
func (s *Scene) Animate(spec Spec) (Handle, error) {
	return s.engine.Register(spec)
}

// ResolveTarget finds a node under the root by name.
func (s *Scene) ResolveTarget(name string) (Target, bool) {
	n := s.root.FindByName(name)
	if n == nil {
		return nil, false
	}
	return n, true
}

// LoadAnimations parses a YAML animation document, resolves its targets by
// node name, and registers every animation. Nothing stays registered if any
// entry fails.
func (s *Scene) LoadAnimations(data []byte) ([]Handle, error) {
	doc, err := LoadDocument(data)
	if err != nil {
		return nil, fmt.Errorf("load animations: %w", err)
	}
	specs, err := doc.Specs(s)
	if err != nil {
		return nil, fmt.Errorf("load animations: %w", err)
	}
	handles := make([]Handle, 0, len(specs))
	for i, spec := range specs {
		h, err := s.engine.Register(spec)
		if err != nil {
			for _, prev := range handles {
				prev.Kill()
			}
			return nil, fmt.Errorf("load animations: animation %d: %w", i, err)
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// SetUpdateFunc sets a function called once per frame before the engine
// ticks. An error stops Run.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFn = fn
}

// Update advances the scene by one ebiten tick.
func (s *Scene) Update() error {
	return s.UpdateDelta(time.Second / time.Duration(ebiten.TPS()))
}

// UpdateDelta advances the scene by dt: scripted and device input, viewport
// scrolling, layout change detection, the update func, then one engine tick.
func (s *Scene) UpdateDelta(dt time.Duration) error {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	if s.testRunner != nil {
		s.testRunner.step(s)
	}

	updateWorldTransform(s.root, identity, 1, false)
	s.processInput()
	s.viewport.update(dt)

	if s.root.layoutRev != s.layoutRev {
		s.layoutRev = s.root.layoutRev
		s.viewport.NotifyLayout()
	}

	if s.updateFn != nil {
		if err := s.updateFn(); err != nil {
			return err
		}
	}
	s.engine.Update(dt)

	if s.debug {
		s.debugLogUpdate(time.Since(t0))
	}
	return nil
}

// Dispose kills every animation, releases the engine's viewport
// subscription, and disposes the node tree.
func (s *Scene) Dispose() {
	s.engine.Dispose()
	s.handlers = handlerRegistry{}
	s.root.Dispose()
	if s.pixel != nil {
		s.pixel.Deallocate()
		s.pixel = nil
	}
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
	if sink, ok := store.(EventSink); ok {
		s.engine.SetEventSink(sink)
	} else {
		s.engine.SetEventSink(nil)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame
// timings and tree warnings are logged at debug level, and the default
// logger is lowered to show them.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	if s.logLevel == nil {
		return
	}
	if enabled {
		s.logLevel.Set(slog.LevelDebug)
	} else {
		s.logLevel.Set(slog.LevelWarn)
	}
}

// RunConfig configures Run.
type RunConfig struct {
	Title string
	// Width and Height size the window. Zero uses the viewport size.
	Width, Height int
	// Resizable lets the user resize the window; the viewport follows.
	Resizable bool
	ShowFPS   bool
}

// ErrQuit can be returned from an update func to end Run without error.
var ErrQuit = errors.New("motion: quit")

// Run opens a window and drives the scene until the window closes or the
// update func fails. Device input is read only under Run.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		size := scene.viewport.ViewportSize()
		cfg.Width, cfg.Height = int(size.X), int(size.Y)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	scene.deviceInput = true
	err := ebiten.RunGame(&game{scene: scene, cfg: cfg})
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	cfg   RunConfig
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.cfg.ShowFPS {
		drawFPS(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.cfg.Resizable {
		g.scene.viewport.Resize(float64(outsideWidth), float64(outsideHeight))
		return outsideWidth, outsideHeight
	}
	return g.cfg.Width, g.cfg.Height
}
