// Package ebiten feeds a logic pipeline from an Ebiten game loop: keyboard and
// pointer state become ecs.InputState snapshots and entities are drawn as boxes.
package ebiten

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/ooftn-logic/ecs"
)

// KeyMap binds physical keys to the logical key names rules test with
// KeyPressed. Several keys may share a name.
type KeyMap map[ebiten.Key]string

// DefaultKeyMap binds the arrows, WASD and space to the well known names.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ebiten.KeyArrowLeft:  ecs.KeyLeft,
		ebiten.KeyA:          ecs.KeyLeft,
		ebiten.KeyArrowRight: ecs.KeyRight,
		ebiten.KeyD:          ecs.KeyRight,
		ebiten.KeyArrowUp:    ecs.KeyUp,
		ebiten.KeyW:          ecs.KeyUp,
		ebiten.KeyArrowDown:  ecs.KeyDown,
		ebiten.KeyS:          ecs.KeyDown,
		ebiten.KeySpace:      ecs.KeyJump,
	}
}

// Camera maps screen pixels to world units. Scale is pixels per unit and the
// origin is the world point drawn at the screen center.
type Camera struct {
	OriginX float64
	OriginY float64
	Scale   float64
}

func (c Camera) scale() float64 {
	if c.Scale <= 0 {
		return 1
	}
	return c.Scale
}

// ToWorld converts a screen position on a screen of size w×h to world coordinates.
func (c Camera) ToWorld(x, y, w, h int) (float64, float64) {
	s := c.scale()
	return c.OriginX + (float64(x)-float64(w)/2)/s, c.OriginY + (float64(y)-float64(h)/2)/s
}

// ToScreen converts a world position to screen pixels.
func (c Camera) ToScreen(x, y float64, w, h int) (float32, float32) {
	s := c.scale()
	return float32((x-c.OriginX)*s + float64(w)/2), float32((y-c.OriginY)*s + float64(h)/2)
}

// Poll reads the current Ebiten input state.
func Poll(keys KeyMap, cam Camera, w, h int) ecs.InputState {
	mx, my := ebiten.CursorPosition()
	wx, wy := cam.ToWorld(mx, my, w, h)
	clicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	return stateFrom(inpututil.AppendPressedKeys(nil), keys, ecs.Vector2{X: wx, Y: wy}, clicked)
}

// stateFrom builds a snapshot. Every held key is also reported under its
// lowercase Ebiten name so rules can test keys outside the map.
func stateFrom(pressed []ebiten.Key, keys KeyMap, mouse ecs.Vector2, clicked bool) ecs.InputState {
	in := ecs.InputState{Keys: make(map[string]bool, len(pressed)), Mouse: mouse}
	for _, k := range pressed {
		in.Keys[strings.ToLower(k.String())] = true
		if name, ok := keys[k]; ok {
			in.Keys[name] = true
		}
	}
	if clicked {
		in.Click = &ecs.Click{X: mouse.X, Y: mouse.Y}
	}
	return in
}
