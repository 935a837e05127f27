package meadow

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: newApp()}
}

func (b *AppBuilder) UseStates(initialState State, finalState State) *AppBuilder {
	b.app.stateful = true
	b.app.initialState = initialState
	b.app.finalState = finalState
	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

// MaxFrames stops Run after n frames. Zero runs until Quit.
func (b *AppBuilder) MaxFrames(n int) *AppBuilder {
	b.app.maxFrames = n
	return b
}

// Build creates the default stages and installs modules in the order given.
func (b *AppBuilder) Build() *App {
	app := b.app
	app.stages = defaultStages()
	for _, stage := range app.stages {
		app.initStage(stage)
	}

	commands := app.Commands()
	for _, module := range b.modules {
		module.Install(app, commands)
	}
	return app
}
