package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/yaoapp/xun/dbal/schema"
)

// Project a construction project with its site coordinate
type Project struct {
	ProjectID string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Marker a map marker for one project site
type Marker struct {
	ProjectID string  `json:"id"`
	Popup     string  `json:"popup"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (store *Store) initProjectTable() error {
	table := store.projectTable()
	has, err := store.schema.HasTable(table)
	if err != nil {
		return err
	}

	if !has {
		err = store.schema.CreateTable(table, func(table schema.Blueprint) {
			table.ID("id")
			table.String("project_id", 200).Unique().Index()
			table.String("name", 600)
			table.Float("latitude")
			table.Float("longitude")
			table.TimestampTz("created_at").Null()
			table.TimestampTz("updated_at").Null()
		})
		if err != nil {
			return err
		}
	}

	return store.validateColumns(table, []string{"id", "project_id", "name", "latitude", "longitude"})
}

// Projects all the projects
func (store *Store) Projects() ([]Project, error) {
	rows, err := store.newQuery(store.projectTable()).
		Select("project_id", "name", "latitude", "longitude").
		OrderBy("id", "asc").
		Get()
	if err != nil {
		return nil, err
	}

	projects := []Project{}
	for _, row := range rows {
		projects = append(projects, Project{
			ProjectID: cast.ToString(row.Get("project_id")),
			Name:      cast.ToString(row.Get("name")),
			Latitude:  cast.ToFloat64(row.Get("latitude")),
			Longitude: cast.ToFloat64(row.Get("longitude")),
		})
	}
	return projects, nil
}

// Markers one map marker per project with a valid coordinate pair.
// Projects with an out-of-range coordinate are skipped.
func (store *Store) Markers() ([]Marker, error) {
	projects, err := store.Projects()
	if err != nil {
		return nil, err
	}
	return ProjectMarkers(projects), nil
}

// ProjectMarkers build the marker list from a project collection.
// The popup text is the project name.
func ProjectMarkers(projects []Project) []Marker {
	markers := []Marker{}
	for _, project := range projects {
		if !validCoordinate(project.Latitude, project.Longitude) {
			continue
		}
		markers = append(markers, Marker{
			ProjectID: project.ProjectID,
			Popup:     project.Name,
			Latitude:  project.Latitude,
			Longitude: project.Longitude,
		})
	}
	return markers
}

func validCoordinate(lat float64, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 && !(lat == 0 && lng == 0)
}

// SaveProject create or update a project, dispatching a change event
func (store *Store) SaveProject(project Project) (string, error) {
	if project.Name == "" {
		return "", fmt.Errorf("project name is required")
	}

	if project.ProjectID == "" {
		project.ProjectID = uuid.New().String()
	}

	exists, err := store.newQuery(store.projectTable()).
		Where("project_id", project.ProjectID).
		Exists()
	if err != nil {
		return "", err
	}

	values := map[string]interface{}{
		"project_id": project.ProjectID,
		"name":       project.Name,
		"latitude":   project.Latitude,
		"longitude":  project.Longitude,
	}

	if exists {
		values["updated_at"] = time.Now()
		_, err := store.newQuery(store.projectTable()).
			Where("project_id", project.ProjectID).
			Update(values)
		if err != nil {
			return "", err
		}
		store.dispatch("projects", OpUpdate, values)
		return project.ProjectID, nil
	}

	values["created_at"] = time.Now()
	err = store.newQuery(store.projectTable()).Insert(values)
	if err != nil {
		return "", err
	}
	store.dispatch("projects", OpInsert, values)
	return project.ProjectID, nil
}

// DeleteProject remove a project, dispatching a change event
func (store *Store) DeleteProject(projectID string) error {
	nums, err := store.newQuery(store.projectTable()).
		Where("project_id", projectID).
		Delete()
	if err != nil {
		return err
	}
	if nums == 0 {
		return fmt.Errorf("project %s does not exist", projectID)
	}
	store.dispatch("projects", OpDelete, map[string]interface{}{"project_id": projectID})
	return nil
}
