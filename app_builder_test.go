package backdrop

import "testing"

type MockModule struct {
	installed bool
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
}

func TestAppBuilder_DefaultStates(t *testing.T) {
	builder := NewAppBuilder()
	app := builder.Build()

	if app.initialState != StateLoading {
		t.Errorf("Expected initialState to be %v, got %v", StateLoading, app.initialState)
	}
	if app.finalState != StateUnmounted {
		t.Errorf("Expected finalState to be %v, got %v", StateUnmounted, app.finalState)
	}
	if len(app.stages) != len(defaultStages) {
		t.Errorf("Expected %d stages, got %d", len(defaultStages), len(app.stages))
	}
}

func TestAppBuilder_UseStates(t *testing.T) {
	builder := NewAppBuilder()
	builder.UseStates(StateMounted, StateUnmounted)

	app := builder.Build()

	if app.initialState != StateMounted {
		t.Errorf("Expected initialState to be %v, got %v", StateMounted, app.initialState)
	}
	if app.finalState != StateUnmounted {
		t.Errorf("Expected finalState to be %v, got %v", StateUnmounted, app.finalState)
	}
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	if len(builder.modules) != 1 {
		t.Errorf("Expected modules to contain 1 module, got %v", len(builder.modules))
	}
	if mockModule.installed {
		t.Errorf("Install should wait for Build")
	}
}

func TestAppBuilder_Build_WithMultipleModules(t *testing.T) {
	module1 := &MockModule{}
	module2 := &MockModule{}

	builder := NewAppBuilder()
	builder.UseModule(module1)
	builder.UseModule(module2)

	builder.Build()

	if len(builder.modules) != 2 {
		t.Errorf("Expected 2 modules, got %v", len(builder.modules))
	}
	if !module1.installed {
		t.Errorf("Expected Install to be called on the module 1, but it was not")
	}
	if !module2.installed {
		t.Errorf("Expected Install to be called on the module 2, but it was not")
	}
}
