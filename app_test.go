package backdrop

import (
	"fmt"
	"reflect"
	"testing"

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

func TestApp_changeState(t *testing.T) {
	app := NewAppBuilder().Build()
	app.state = StateLoading

	// Test changing state
	app.changeState(StateMounted)
	if app.nextState != StateMounted {
		t.Errorf("The nextState should be set correctly.")
	}
	if !app.stateTransitioning {
		t.Errorf("The stateTransitioning flag should be true.")
	}

	// Test executing state change
	app.executeChangeState(StateMounted)
	if app.state != StateMounted {
		t.Errorf("The app state should change correctly.")
	}

	assert.Panics(t, func() { app.changeState(State(42)) })
}

func TestApp_addResources(t *testing.T) {
	// Test setup
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	// Add a resource
	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)

	// Check that the resource was added
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	// Expect panic when trying to add the same type of resource again
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1) // Try adding resource1 again, should panic
	})

	// Add a resource
	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)

	// Check that the resource was added
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
	assert.Same(t, resource2, Resource[MockResource2](app))

	assert.Panics(t, func() { app.addResources(MockResource1{}) }, "non-pointer resources are rejected")
}

type phaseRecorder struct {
	calls []string
}

type recorderModule struct{}

func (recorderModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&phaseRecorder{})
	record := func(name string) func(r *phaseRecorder) {
		return func(r *phaseRecorder) { r.calls = append(r.calls, name) }
	}
	app.UseSystem(System(record("always")).InStage(Update).RunAlways())
	app.UseSystem(System(record("enter loading")).InStage(Update).InState(OnEnter(StateLoading)))
	app.UseSystem(System(func(r *phaseRecorder, cmd *Commands) {
		r.calls = append(r.calls, "loading")
		cmd.ChangeState(StateMounted)
	}).InStage(Update).InState(OnExecute(StateLoading)))
	app.UseSystem(System(record("exit loading")).InStage(Update).InState(OnExit(StateLoading)))
	app.UseSystem(System(record("enter mounted")).InStage(Update).InState(OnEnter(StateMounted)))
	app.UseSystem(System(func(r *phaseRecorder, cmd *Commands) {
		r.calls = append(r.calls, "mounted")
		cmd.ChangeState(StateUnmounted)
	}).InStage(Update).InState(OnExecute(StateMounted)))
	app.UseSystem(System(record("exit mounted")).InStage(Update).InState(OnExit(StateMounted)))
	app.UseSystem(System(record("enter unmounted")).InStage(Update).InState(OnEnter(StateUnmounted)))
	app.UseSystem(System(record("exit unmounted")).InStage(Update).InState(OnExit(StateUnmounted)))
}

func TestApp_StepLifecycle(t *testing.T) {
	app := NewAppBuilder().UseModule(recorderModule{}).Build()
	rec := Resource[phaseRecorder](app)

	assert.True(t, app.Step())
	assert.Equal(t, StateMounted, app.State())
	assert.False(t, app.Step())
	assert.False(t, app.Step(), "a finished app stays finished")

	assert.Equal(t, []string{
		"enter loading",
		"always", "loading",
		"exit loading", "enter mounted",
		"always", "mounted",
		"exit mounted", "enter unmounted",
		"exit unmounted",
	}, rec.calls)
	assert.Equal(t, 2, app.Frames())
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(*MockResource1) {}).InStage(Update).RunAlways())
	assert.Panics(t, func() { app.Step() })
}

func TestApp_UnknownStagePanics(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.Panics(t, func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "Physics"}).RunAlways())
	})
}
