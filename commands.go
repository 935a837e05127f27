package meadow

// Commands is the handle modules and systems use to change the App.
type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(s SystemSchedule) *Commands {
	cmd.app.UseSystem(s)
	return cmd
}

// OnShutdown registers fn to run once Run returns from its frame loop.
func (cmd *Commands) OnShutdown(fn func()) *Commands {
	cmd.app.onShutdown = append(cmd.app.onShutdown, fn)
	return cmd
}

// Quit stops Run after the current frame.
func (cmd *Commands) Quit() {
	cmd.app.quit = true
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
