package meadow

import (
	"fmt"
	"slices"
)

type State int

// Stage is a named step of a frame. Systems run stage by stage in order.
type Stage struct {
	Name string
}

var (
	Prelude    = Stage{Name: "Prelude"}
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	PreRender  = Stage{Name: "PreRender"}
	Render     = Stage{Name: "Render"}
	PostRender = Stage{Name: "PostRender"}
	Finale     = Stage{Name: "Finale"}
)

func defaultStages() []Stage {
	return []Stage{Prelude, PreUpdate, Update, PostUpdate, PreRender, Render, PostRender, Finale}
}

type statePhase int

const (
	enter statePhase = iota
	execute
	exit
)

type stateSchedule struct {
	state  State
	phase  statePhase
	always bool
}

func OnEnter(state State) stateSchedule   { return stateSchedule{state: state, phase: enter} }
func OnExecute(state State) stateSchedule { return stateSchedule{state: state, phase: execute} }
func OnExit(state State) stateSchedule    { return stateSchedule{state: state, phase: exit} }
func Always() stateSchedule               { return stateSchedule{always: true} }

// SystemSchedule places a system function in a stage and, for stateful apps,
// in a state phase. Build one with System.
type SystemSchedule struct {
	system   systemFn
	stage    Stage
	state    stateSchedule
	hasState bool
}

// System schedules fn in the Update stage of every frame. fn takes pointers to
// resources and/or *Commands.
func System(fn systemFn) SystemSchedule {
	return SystemSchedule{system: fn, stage: Update}
}

func (s SystemSchedule) InStage(stage Stage) SystemSchedule {
	s.stage = stage
	return s
}

func (s SystemSchedule) InState(state stateSchedule) SystemSchedule {
	s.state = state
	s.hasState = true
	return s
}

func (s SystemSchedule) RunAlways() SystemSchedule {
	s.state = Always()
	return s
}

func (s SystemSchedule) stateless() bool {
	return !s.hasState || s.state.always
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type StagePosition struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) StagePosition { return StagePosition{position: stageBefore, target: s} }
func AfterStage(s Stage) StagePosition  { return StagePosition{position: stageAfter, target: s} }

// UseStage inserts a custom stage relative to an existing one.
func (app *App) UseStage(stage Stage, where StagePosition) *App {
	idx := slices.IndexFunc(app.stages, func(s Stage) bool { return s.Name == where.target.Name })
	if idx == -1 {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}
	if where.position == stageAfter {
		idx++
	}
	app.stages = slices.Insert(app.stages, idx, stage)
	app.initStage(stage)
	return app
}

// UseSystem registers a scheduled system. It panics on unknown stages or states.
func (app *App) UseSystem(s SystemSchedule) *App {
	if s.stateless() {
		if _, ok := app.systemsStateless[s.stage.Name]; !ok {
			panic(fmt.Sprintf("Stage %v doesn't exist", s.stage.Name))
		}
		app.systemsStateless[s.stage.Name] = append(app.systemsStateless[s.stage.Name], s.system)
		return app
	}

	if !app.stateful {
		panic("Trying to use a stateful system in a stateless app.")
	}
	inStage, ok := app.systems[s.stage.Name]
	if !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", s.stage.Name))
	}
	inState, ok := inStage[s.state.state]
	if !ok {
		panic(fmt.Sprintf("State %v doesn't exist", s.state.state))
	}
	inState[s.state.phase] = append(inState[s.state.phase], s.system)
	return app
}

func (app *App) initStage(stage Stage) {
	app.systemsStateless[stage.Name] = nil
	if !app.stateful {
		return
	}
	app.systems[stage.Name] = make(map[State]map[statePhase][]systemFn)
	for state := app.initialState; state <= app.finalState; state++ {
		app.systems[stage.Name][state] = map[statePhase][]systemFn{enter: nil, execute: nil, exit: nil}
	}
}
