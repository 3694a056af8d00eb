package greetcard

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
	assert.Same(t, resource2, Resource[MockResource2](app))
}

func TestApp_addResourcesRejectsValues(t *testing.T) {
	app := NewApp()
	assert.Panics(t, func() { app.addResources(MockResource1{}) })
}

func TestApp_SystemInjection(t *testing.T) {
	app := NewApp()
	res := NewMockResource1("injected")
	app.addResources(res)

	var got *MockResource1
	var sawCommands bool
	app.UseSystem(System(func(cmd *Commands, r *MockResource1) {
		got = r
		sawCommands = cmd != nil
	}))
	app.Step()

	assert.Same(t, res, got)
	assert.True(t, sawCommands)
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(r *MockResource2) {}))
	assert.Panics(t, app.Step)
}

func TestApp_StagesRunInOrder(t *testing.T) {
	app := NewApp()
	var order []string
	for _, s := range []Stage{Finale, Update, Prelude, Render} {
		stage := s
		app.UseSystem(System(func() { order = append(order, stage.Name) }).InStage(stage))
	}
	app.Step()
	assert.Equal(t, []string{"Prelude", "Update", "Render", "Finale"}, order)
}

func TestApp_EntitiesVisibleAfterStageFlush(t *testing.T) {
	app := NewApp()
	seen := 0
	app.UseSystem(System(func(cmd *Commands) {
		if app.Frame() == 0 {
			cmd.AddEntity(&NameComponent{Name: "a"})
		}
	}).InStage(PreUpdate))
	app.UseSystem(System(func(cmd *Commands) {
		seen = 0
		MakeQuery1[NameComponent](cmd).Map(func(EntityId, *NameComponent) bool {
			seen++
			return true
		})
	}).InStage(Update))

	app.Step()
	assert.Equal(t, 1, seen)
}

func TestApp_RunFramesStopsOnExit(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(cmd *Commands) {
		if app.Frame() == 2 {
			cmd.Exit()
		}
	}))
	app.RunFrames(10)
	assert.Equal(t, uint64(3), app.Frame())
	assert.True(t, app.ExitRequested())
}

func TestApp_ShutdownRunsHooksOnceInReverse(t *testing.T) {
	app := NewApp()
	var calls []int
	app.OnShutdown(func() { calls = append(calls, 1) })
	app.OnShutdown(func() { calls = append(calls, 2) })

	app.Shutdown()
	app.Shutdown()
	assert.Equal(t, []int{2, 1}, calls)
}

func TestApp_UseStage(t *testing.T) {
	app := NewApp()
	custom := Stage{Name: "Custom"}
	app.UseStage(custom, AfterStage(Update))

	var order []string
	app.UseSystem(System(func() { order = append(order, "custom") }).InStage(custom))
	app.UseSystem(System(func() { order = append(order, "post") }).InStage(PostUpdate))
	app.UseSystem(System(func() { order = append(order, "update") }).InStage(Update))
	app.Step()

	assert.Equal(t, []string{"update", "custom", "post"}, order)
	assert.Panics(t, func() { app.UseStage(Stage{Name: "x"}, BeforeStage(Stage{Name: "missing"})) })
}

func TestTime_FixedStep(t *testing.T) {
	app := NewApp().UseModules(TimeModule{FixedStep: 100 * time.Millisecond})
	app.RunFrames(3)

	clock := Resource[Time](app)
	require.NotNil(t, clock)
	assert.InDelta(t, 0.3, clock.Elapsed, 1e-5)
	assert.InDelta(t, 0.1, clock.Dt, 1e-5)
	assert.Equal(t, uint64(3), clock.Frame)
}
