package ebiten

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/ecs/debugui"
	debugui_ebiten "github.com/plus3/ooftn-logic/ecs/debugui/ebiten"
)

// Game implements ebiten.Game over a logic pipeline. Imgui and UI are optional;
// when set, the pipeline runs inside an ImGui frame and clicks captured by
// ImGui are not forwarded to rules.
type Game struct {
	Pipeline *ecs.Pipeline
	Keys     KeyMap
	Camera   Camera
	Imgui    *debugui_ebiten.ImguiBackend
	UI       *debugui.ImguiSystem

	// Render replaces the default box renderer when set.
	Render func(screen *ebiten.Image, store *ecs.Store, cam Camera)

	width  int
	height int
}

// NewGame creates a game with the default key map and a 32 px per unit camera.
func NewGame(p *ecs.Pipeline) *Game {
	return &Game{
		Pipeline: p,
		Keys:     DefaultKeyMap(),
		Camera:   Camera{Scale: 32},
		width:    1280,
		height:   720,
	}
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	in := Poll(g.Keys, g.Camera, g.width, g.height)
	if g.UI != nil && g.UI.InputState.WantCaptureMouse {
		in.Click = nil
	}
	g.Pipeline.SetInput(in)

	if g.Imgui != nil {
		g.Imgui.BeginFrame()
	}
	g.Pipeline.ExecuteFrame(1.0 / float64(ebiten.TPS()))
	if g.Imgui != nil {
		g.Imgui.EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{245, 245, 240, 255})
	if g.Render != nil {
		g.Render(screen, g.Pipeline.Store(), g.Camera)
	} else {
		DrawBoxes(screen, g.Pipeline.Store(), g.Camera)
	}
	if g.Imgui != nil {
		g.Imgui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	if g.Imgui != nil {
		g.Imgui.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

var palette = []color.RGBA{
	{255, 179, 186, 255},
	{179, 229, 252, 255},
	{255, 223, 186, 255},
	{186, 255, 201, 255},
	{217, 186, 255, 255},
}

// DrawBoxes draws every active entity as a box scaled by its transform.
// Entities that only carry ImGui panels are skipped.
func DrawBoxes(screen *ebiten.Image, store *ecs.Store, cam Camera) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	size := float32(cam.scale())
	for e := range store.Entities() {
		if !e.Active || store.HasComponent(e.ID, debugui.ItemType) {
			continue
		}
		sx, sy := cam.ToScreen(e.Transform.X, e.Transform.Y, w, h)
		bw, bh := size*float32(e.Transform.ScaleX), size*float32(e.Transform.ScaleY)
		c := palette[int(e.ID)%len(palette)]
		vector.DrawFilledRect(screen, sx-bw/2, sy-bh/2, bw, bh, c, false)
		vector.StrokeRect(screen, sx-bw/2, sy-bh/2, bw, bh, 1, color.RGBA{90, 90, 90, 255}, false)
	}
}
