// Package report summarizes a recorded session for humans.
package report

import (
	"sort"

	"github.com/fakeyudi/stepsrec/internal/session"
)

// topApps is how many applications the usage table lists.
const topApps = 5

// Summary is the derived view of a finished session.
type Summary struct {
	Session    string  `json:"session"`
	Dir        string  `json:"dir"`
	TotalSteps int     `json:"total_steps"`
	Actions    []Count `json:"actions"`
	Apps       []Count `json:"apps"`
}

// Count pairs a name with a number of steps.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summarize derives the report summary from a step list. Actions are sorted
// by action name; apps by step count, ties in order of first appearance.
func Summarize(name, dir string, steps []session.Step) Summary {
	byAction := make(map[session.ActionType]int)
	appCounts := make(map[string]int)
	var appOrder []string

	for _, s := range steps {
		byAction[s.Action]++
		if s.Application == nil || s.Application.Name == "" {
			continue
		}
		app := s.Application.Name
		if _, seen := appCounts[app]; !seen {
			appOrder = append(appOrder, app)
		}
		appCounts[app]++
	}

	actions := make([]Count, 0, len(byAction))
	for a, n := range byAction {
		actions = append(actions, Count{Name: string(a), Count: n})
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].Name < actions[j].Name })

	apps := make([]Count, 0, len(appOrder))
	for _, app := range appOrder {
		apps = append(apps, Count{Name: app, Count: appCounts[app]})
	}
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].Count > apps[j].Count })
	if len(apps) > topApps {
		apps = apps[:topApps]
	}

	return Summary{
		Session:    name,
		Dir:        dir,
		TotalSteps: len(steps),
		Actions:    actions,
		Apps:       apps,
	}
}
