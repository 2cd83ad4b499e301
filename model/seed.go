package model

import (
	"time"
)

// Seed load a small demo dataset. Existing rows are kept, the demo
// rows are inserted with fixed ids so reseeding is idempotent.
func (store *Store) Seed() error {

	projects := []Project{
		{ProjectID: "prj-tower", Name: "Shanti Tower", Latitude: 27.7172, Longitude: 85.3240},
		{ProjectID: "prj-bridge", Name: "Bagmati Bridge", Latitude: 27.6933, Longitude: 85.3424},
		{ProjectID: "prj-plant", Name: "Hetauda Plant", Latitude: 27.4280, Longitude: 85.0322},
	}
	for _, project := range projects {
		if _, err := store.SaveProject(project); err != nil {
			return err
		}
	}

	today := time.Now()
	plans := []Plan{
		{PlanID: "pln-footing", Task: "Pour footing concrete, block B", StartDate: today, ProjectID: "prj-tower"},
		{PlanID: "pln-rebar", Task: "Rebar inspection, deck 3", StartDate: today, ProjectID: "prj-bridge"},
		{PlanID: "pln-survey", Task: "Site survey for access road", StartDate: today.AddDate(0, 0, 1), ProjectID: "prj-plant"},
	}
	for _, plan := range plans {
		if _, err := store.SavePlan(plan); err != nil {
			return err
		}
	}

	workflows := []Workflow{
		{WorkflowID: "wf-permits", Name: "Permit renewal", Status: StatusDelayed, ProjectID: "prj-tower"},
		{WorkflowID: "wf-steel", Name: "Steel delivery", Status: StatusDelayed, ProjectID: "prj-bridge"},
		{WorkflowID: "wf-hiring", Name: "Crew onboarding", Status: StatusOngoing, ProjectID: "prj-plant"},
	}
	for _, workflow := range workflows {
		if _, err := store.SaveWorkflow(workflow); err != nil {
			return err
		}
	}

	return nil
}
