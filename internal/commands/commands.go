package commands

import (
	"github.com/keshon/dispatchkit/pkg/dispatch"
)

// Definitions returns every command wired with its dependencies and the
// usage-log middleware. reg is the registry the definitions will be
// registered into; help reads it lazily at invocation time.
func Definitions(d Deps, reg *dispatch.Registry) []*dispatch.Command {
	defs := []*dispatch.Command{
		pingCommand(d),
		helpCommand(d, reg),
		rollCommand(d),
		sayCommand(d),
		userinfoCommand(d),
		prefixCommand(d),
		taskCommand(d),
		taskRolesCommand(d),
		feedbackCommand(d),
		historyCommand(d),
	}
	for _, c := range defs {
		c.Run = dispatch.Chain(c.Run, WithUsageLog(d.Store, c.Name))
	}
	return defs
}

// Components returns the exact-id and pattern component handlers.
func Components(d Deps, reg *dispatch.Registry) ([]*dispatch.Component, []*dispatch.PatternComponent) {
	exact := []*dispatch.Component{
		helpCategoryComponent(d, reg),
		taskDoneComponent(d),
		taskFailComponent(d),
		feedbackModalComponent(d),
	}
	patterns := []*dispatch.PatternComponent{
		helpPageComponent(d, reg),
	}
	return exact, patterns
}
