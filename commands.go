package backdrop

type Commands struct {
	app *App
}

// ChangeState switches the page state at the end of the current frame.
func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) State() State { return cmd.app.state }

func (cmd *Commands) Logger() Logger { return cmd.app.Logger() }
