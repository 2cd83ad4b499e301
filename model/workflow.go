package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/yaoapp/xun/dbal/schema"
)

// Workflow statuses. Only delayed workflows surface on the dashboard.
const (
	StatusPending   = "pending"
	StatusOngoing   = "ongoing"
	StatusDelayed   = "delayed"
	StatusCompleted = "completed"
)

// Workflow a site workflow of one project
type Workflow struct {
	WorkflowID string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	ProjectID  string `json:"project_id"`
}

func (store *Store) initWorkflowTable() error {
	table := store.workflowTable()
	has, err := store.schema.HasTable(table)
	if err != nil {
		return err
	}

	if !has {
		err = store.schema.CreateTable(table, func(table schema.Blueprint) {
			table.ID("id")
			table.String("workflow_id", 200).Unique().Index()
			table.String("name", 600)
			table.String("status", 50).Index()
			table.String("project_id", 200).Index()
			table.TimestampTz("created_at").Null()
			table.TimestampTz("updated_at").Null()
		})
		if err != nil {
			return err
		}
	}

	return store.validateColumns(table, []string{"id", "workflow_id", "name", "status", "project_id"})
}

// DelayedWorkflows the workflows whose status is delayed
func (store *Store) DelayedWorkflows() ([]Workflow, error) {
	return store.WorkflowsByStatus(StatusDelayed)
}

// WorkflowsByStatus the workflows filtered by one status
func (store *Store) WorkflowsByStatus(status string) ([]Workflow, error) {
	rows, err := store.newQuery(store.workflowTable()).
		Select("workflow_id", "name", "status", "project_id").
		Where("status", "=", status).
		OrderBy("id", "asc").
		Get()
	if err != nil {
		return nil, err
	}

	workflows := []Workflow{}
	for _, row := range rows {
		workflows = append(workflows, Workflow{
			WorkflowID: cast.ToString(row.Get("workflow_id")),
			Name:       cast.ToString(row.Get("name")),
			Status:     cast.ToString(row.Get("status")),
			ProjectID:  cast.ToString(row.Get("project_id")),
		})
	}
	return workflows, nil
}

// SaveWorkflow create or update a workflow, dispatching a change event
func (store *Store) SaveWorkflow(workflow Workflow) (string, error) {
	if workflow.Name == "" {
		return "", fmt.Errorf("workflow name is required")
	}

	if workflow.Status == "" {
		workflow.Status = StatusPending
	}

	if workflow.WorkflowID == "" {
		workflow.WorkflowID = uuid.New().String()
	}

	exists, err := store.newQuery(store.workflowTable()).
		Where("workflow_id", workflow.WorkflowID).
		Exists()
	if err != nil {
		return "", err
	}

	values := map[string]interface{}{
		"workflow_id": workflow.WorkflowID,
		"name":        workflow.Name,
		"status":      workflow.Status,
		"project_id":  workflow.ProjectID,
	}

	if exists {
		values["updated_at"] = time.Now()
		_, err := store.newQuery(store.workflowTable()).
			Where("workflow_id", workflow.WorkflowID).
			Update(values)
		if err != nil {
			return "", err
		}
		store.dispatch("workflows", OpUpdate, values)
		return workflow.WorkflowID, nil
	}

	values["created_at"] = time.Now()
	err = store.newQuery(store.workflowTable()).Insert(values)
	if err != nil {
		return "", err
	}
	store.dispatch("workflows", OpInsert, values)
	return workflow.WorkflowID, nil
}

// DeleteWorkflow remove a workflow, dispatching a change event
func (store *Store) DeleteWorkflow(workflowID string) error {
	nums, err := store.newQuery(store.workflowTable()).
		Where("workflow_id", workflowID).
		Delete()
	if err != nil {
		return err
	}
	if nums == 0 {
		return fmt.Errorf("workflow %s does not exist", workflowID)
	}
	store.dispatch("workflows", OpDelete, map[string]interface{}{"workflow_id": workflowID})
	return nil
}
