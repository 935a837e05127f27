package meadow

import (
	"bytes"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name  string
	calls int
}
type MockResource2 struct {
	name string
}

func TestApp_changeState(t *testing.T) {
	app := &App{
		stateful:     true,
		initialState: 1,
		state:        1,
		finalState:   2,
	}

	app.changeState(2)
	assert.Equal(t, State(2), app.nextState)
	assert.True(t, app.stateTransitioning)

	app.executeChangeState(2)
	assert.Equal(t, State(2), app.state)
}

func TestApp_addResources(t *testing.T) {
	app := newApp()

	resource1 := &MockResource1{name: "Resource1"}
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem())

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})
	require.Panics(t, func() { app.addResources(MockResource2{}) }, "values are rejected")

	resource2 := &MockResource2{name: "Resource2"}
	app.addResources(resource2)
	got, ok := Resource[MockResource2](app)
	require.True(t, ok)
	assert.Same(t, resource2, got)

	_, ok = Resource[Time](app)
	assert.False(t, ok)
}

func TestApp_RunInjectsResourcesInStageOrder(t *testing.T) {
	var order []string
	r1 := &MockResource1{name: "one"}

	app := NewAppBuilder().MaxFrames(3).Build()
	app.addResources(r1)
	app.UseSystem(System(func(r *MockResource1) {
		r.calls++
		order = append(order, "render")
	}).InStage(Render))
	app.UseSystem(System(func(r *MockResource1, cmd *Commands) {
		order = append(order, "prelude")
	}).InStage(Prelude))

	app.Run()

	assert.Equal(t, 3, app.Frames())
	assert.Equal(t, 3, r1.calls)
	assert.Equal(t, []string{"prelude", "render", "prelude", "render", "prelude", "render"}, order)
}

func TestApp_QuitAndShutdownHooks(t *testing.T) {
	var hooks []int
	app := NewAppBuilder().Build()
	cmd := app.Commands()
	cmd.OnShutdown(func() { hooks = append(hooks, 1) })
	cmd.OnShutdown(func() { hooks = append(hooks, 2) })

	frames := 0
	cmd.UseSystem(System(func(cmd *Commands) {
		frames++
		if frames == 2 {
			cmd.Quit()
		}
	}))

	app.Run()
	assert.Equal(t, 2, app.Frames())
	assert.Equal(t, []int{2, 1}, hooks)
}

func TestApp_StatefulRun(t *testing.T) {
	const (
		loading State = iota
		running
		done
	)
	var trace []string

	app := NewAppBuilder().UseStates(loading, done).Build()
	app.UseSystem(System(func() { trace = append(trace, "enter loading") }).InState(OnEnter(loading)))
	app.UseSystem(System(func(cmd *Commands) {
		trace = append(trace, "loading")
		cmd.ChangeState(running)
	}).InState(OnExecute(loading)))
	app.UseSystem(System(func() { trace = append(trace, "exit loading") }).InState(OnExit(loading)))
	app.UseSystem(System(func(cmd *Commands) {
		trace = append(trace, "running")
		cmd.ChangeState(done)
	}).InState(OnExecute(running)))
	app.UseSystem(System(func() { trace = append(trace, "enter done") }).InState(OnEnter(done)))

	app.Run()
	assert.Equal(t, []string{"enter loading", "loading", "exit loading", "running", "enter done"}, trace)
}

func TestApp_UseSystemPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.Panics(t, func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "Nowhere"}))
	})
	assert.Panics(t, func() {
		app.UseSystem(System(func() {}).InState(OnEnter(1)))
	}, "stateful system in stateless app")
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	var buf bytes.Buffer
	app := NewAppBuilder().MaxFrames(1).Build()
	app.addResources(NewWriterLogger("", false, &buf, &buf))
	app.UseSystem(System(func(*MockResource2) {}))

	assert.Panics(t, app.Run)
	assert.Contains(t, buf.String(), "Unable to resolve System dependency")
}

func TestApp_UseStage(t *testing.T) {
	custom := Stage{Name: "Simulate"}
	app := NewAppBuilder().Build()
	app.UseStage(custom, AfterStage(PreUpdate))

	names := make([]string, len(app.stages))
	for i, s := range app.stages {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Prelude", "PreUpdate", "Simulate", "Update", "PostUpdate", "PreRender", "Render", "PostRender", "Finale"}, names)
	assert.NotPanics(t, func() { app.UseSystem(System(func() {}).InStage(custom)) })
	assert.Panics(t, func() { app.UseStage(Stage{Name: "X"}, BeforeStage(Stage{Name: "Missing"})) })
}

func TestTimeModule(t *testing.T) {
	app := NewAppBuilder().UseModule(TimeModule{}).MaxFrames(4).Build()
	app.Run()

	tm, ok := Resource[Time](app)
	require.True(t, ok)
	assert.Equal(t, 4, tm.Frame)
	assert.GreaterOrEqual(t, tm.Dt.Nanoseconds(), int64(0))
}
