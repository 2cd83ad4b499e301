package model

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yaoapp/xun/capsule"

	_ "github.com/mattn/go-sqlite3"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "nirman_test.db")
	manager := capsule.New()
	manager.AddConnection("primary", "sqlite3", dsn, false)
	manager.SetAsGlobal()

	store, err := New(Setting{Prefix: "__unit_test_"})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Drop(); err != nil {
		t.Fatal(err)
	}

	if err := store.Migrate(); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { store.Drop() })
	return store
}

func TestMigrate(t *testing.T) {
	store := newTestStore(t)

	for _, table := range []string{"__unit_test_plans", "__unit_test_workflows", "__unit_test_projects", "__unit_test_users"} {
		has, err := store.schema.HasTable(table)
		if err != nil {
			t.Fatal(err)
		}
		assert.True(t, has, table)
	}

	// Migrate is idempotent
	assert.Nil(t, store.Migrate())
}

func TestPlansOnFiltersByDay(t *testing.T) {
	store := newTestStore(t)

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
	_, err := store.SavePlan(Plan{Task: "Pour footing", StartDate: day.Add(9 * time.Hour), ProjectID: "prj-1"})
	assert.Nil(t, err)
	_, err = store.SavePlan(Plan{Task: "Rebar inspection", StartDate: day.Add(16 * time.Hour), ProjectID: "prj-1"})
	assert.Nil(t, err)
	_, err = store.SavePlan(Plan{Task: "Yesterday task", StartDate: day.AddDate(0, 0, -1), ProjectID: "prj-1"})
	assert.Nil(t, err)
	_, err = store.SavePlan(Plan{Task: "Tomorrow task", StartDate: day.AddDate(0, 0, 1), ProjectID: "prj-2"})
	assert.Nil(t, err)
	// last moment of the day, still today
	_, err = store.SavePlan(Plan{Task: "Night pour", StartDate: day.AddDate(0, 0, 1).Add(-500 * time.Millisecond), ProjectID: "prj-1"})
	assert.Nil(t, err)

	plans, err := store.PlansOn(day)
	assert.Nil(t, err)
	assert.Len(t, plans, 3)
	assert.Equal(t, "Pour footing", plans[0].Task)
	assert.Equal(t, "Rebar inspection", plans[1].Task)
	assert.Equal(t, "Night pour", plans[2].Task)
}

func TestSavePlanUpdateAndDelete(t *testing.T) {
	store := newTestStore(t)

	day := time.Date(2026, 8, 30, 8, 0, 0, 0, time.Local)
	id, err := store.SavePlan(Plan{Task: "Pour footing", StartDate: day, ProjectID: "prj-1"})
	assert.Nil(t, err)
	assert.NotEmpty(t, id)

	_, err = store.SavePlan(Plan{PlanID: id, Task: "Pour footing, block B", StartDate: day, ProjectID: "prj-1"})
	assert.Nil(t, err)

	plans, err := store.PlansOn(day)
	assert.Nil(t, err)
	assert.Len(t, plans, 1)
	assert.Equal(t, "Pour footing, block B", plans[0].Task)

	assert.Nil(t, store.DeletePlan(id))
	assert.NotNil(t, store.DeletePlan(id))

	plans, err = store.PlansOn(day)
	assert.Nil(t, err)
	assert.Len(t, plans, 0)
}

func TestDelayedWorkflows(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveWorkflow(Workflow{Name: "Permit renewal", Status: StatusDelayed, ProjectID: "prj-1"})
	assert.Nil(t, err)
	_, err = store.SaveWorkflow(Workflow{Name: "Steel delivery", Status: StatusDelayed, ProjectID: "prj-2"})
	assert.Nil(t, err)
	_, err = store.SaveWorkflow(Workflow{Name: "Crew onboarding", Status: StatusOngoing, ProjectID: "prj-1"})
	assert.Nil(t, err)
	_, err = store.SaveWorkflow(Workflow{Name: "Handover", Status: StatusCompleted, ProjectID: "prj-2"})
	assert.Nil(t, err)

	delayed, err := store.DelayedWorkflows()
	assert.Nil(t, err)
	assert.Len(t, delayed, 2)
	for _, workflow := range delayed {
		assert.Equal(t, StatusDelayed, workflow.Status)
	}
}

func TestMarkers(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveProject(Project{Name: "Shanti Tower", Latitude: 27.7172, Longitude: 85.3240})
	assert.Nil(t, err)
	_, err = store.SaveProject(Project{Name: "Bagmati Bridge", Latitude: 27.6933, Longitude: 85.3424})
	assert.Nil(t, err)
	// invalid coordinates are skipped
	_, err = store.SaveProject(Project{Name: "Null Island Site", Latitude: 0, Longitude: 0})
	assert.Nil(t, err)
	_, err = store.SaveProject(Project{Name: "Broken Site", Latitude: 120.5, Longitude: 85.0})
	assert.Nil(t, err)

	markers, err := store.Markers()
	assert.Nil(t, err)
	assert.Len(t, markers, 2)
	assert.Equal(t, "Shanti Tower", markers[0].Popup)
	assert.Equal(t, "Bagmati Bridge", markers[1].Popup)
}

func TestProjectMarkersCount(t *testing.T) {
	projects := []Project{}
	for i := 0; i < 5; i++ {
		projects = append(projects, Project{Name: "Site", Latitude: 27.7, Longitude: 85.3 + float64(i)})
	}
	assert.Len(t, ProjectMarkers(projects), len(projects))
}

func TestProgressSeries(t *testing.T) {
	store := newTestStore(t)

	day := time.Date(2026, 8, 1, 10, 0, 0, 0, time.Local)
	for i := 0; i < 4; i++ {
		_, err := store.SavePlan(Plan{Task: "Task", StartDate: day.AddDate(0, 0, i/2), ProjectID: "prj-1"})
		assert.Nil(t, err)
	}

	series, err := store.ProgressSeries()
	assert.Nil(t, err)
	assert.Len(t, series, 2)
	assert.Equal(t, 2, series[0].Planned)
	assert.Equal(t, 2, series[0].Cumulative)
	assert.Equal(t, 4, series[1].Cumulative)
	assert.Equal(t, 100.0, series[1].Percent)
}

func TestSubscribeReceivesChangeEvents(t *testing.T) {
	store := newTestStore(t)

	events, cancel := store.Subscribe("plans", 8)
	defer cancel()

	id, err := store.SavePlan(Plan{Task: "Pour footing", StartDate: time.Now(), ProjectID: "prj-1"})
	assert.Nil(t, err)

	event := <-events
	assert.Equal(t, "plans", event.Table)
	assert.Equal(t, OpInsert, event.Op)
	assert.Equal(t, id, event.Row["plan_id"])

	// other tables do not reach a plans subscriber
	_, err = store.SaveProject(Project{Name: "Shanti Tower", Latitude: 27.7, Longitude: 85.3})
	assert.Nil(t, err)

	assert.Nil(t, store.DeletePlan(id))
	event = <-events
	assert.Equal(t, OpDelete, event.Op)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)

	id, err := store.CreateUser("Asha Manandhar", "asha@example.com", "secret-pass")
	assert.Nil(t, err)
	assert.NotEmpty(t, id)

	user, err := store.FindUserByEmail("asha@example.com")
	assert.Nil(t, err)
	assert.Equal(t, id, user.UserID)
	assert.NotEqual(t, "secret-pass", user.Password)

	_, err = store.FindUserByEmail("nobody@example.com")
	assert.NotNil(t, err)

	oauthUser, err := store.FindOrCreateOAuthUser("bibek@example.com", "Bibek Shrestha")
	assert.Nil(t, err)
	assert.Equal(t, "Bibek Shrestha", oauthUser.Name)
	again, err := store.FindOrCreateOAuthUser("bibek@example.com", "Bibek Shrestha")
	assert.Nil(t, err)
	assert.Equal(t, oauthUser.UserID, again.UserID)
}
