package ebiten

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/ooftn-logic/ecs"
)

func TestStateFromMapsKeys(t *testing.T) {
	in := stateFrom([]ebiten.Key{ebiten.KeyA, ebiten.KeySpace, ebiten.KeyE}, DefaultKeyMap(), ecs.Vector2{X: 1, Y: 2}, false)

	assert.True(t, in.Left())
	assert.True(t, in.Jump())
	assert.False(t, in.Right())
	assert.True(t, in.Pressed("e"))
	assert.True(t, in.Pressed("space"))
	assert.Nil(t, in.Click)
	assert.Equal(t, ecs.Vector2{X: 1, Y: 2}, in.Mouse)
}

func TestStateFromClick(t *testing.T) {
	in := stateFrom(nil, DefaultKeyMap(), ecs.Vector2{X: 3, Y: -1}, true)

	require.NotNil(t, in.Click)
	assert.Equal(t, 3.0, in.Click.X)
	assert.Equal(t, -1.0, in.Click.Y)
	assert.Empty(t, in.Keys)
}

func TestCameraRoundTrip(t *testing.T) {
	cam := Camera{OriginX: 10, OriginY: 5, Scale: 20}

	x, y := cam.ToWorld(640, 360, 1280, 720)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 5.0, y)

	x, y = cam.ToWorld(680, 340, 1280, 720)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 4.0, y)

	sx, sy := cam.ToScreen(12, 4, 1280, 720)
	assert.Equal(t, float32(680), sx)
	assert.Equal(t, float32(340), sy)

	x, _ = Camera{}.ToWorld(1, 0, 0, 0)
	assert.Equal(t, 1.0, x)
}
