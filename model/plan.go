package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/yaoapp/xun/dbal/schema"
)

// Plan a scheduled task of one project
type Plan struct {
	PlanID    string    `json:"id"`
	Task      string    `json:"task"`
	StartDate time.Time `json:"start_date"`
	ProjectID string    `json:"project_id"`
}

func (store *Store) initPlanTable() error {
	table := store.planTable()
	has, err := store.schema.HasTable(table)
	if err != nil {
		return err
	}

	if !has {
		err = store.schema.CreateTable(table, func(table schema.Blueprint) {
			table.ID("id")
			table.String("plan_id", 200).Unique().Index()
			table.String("task", 600)
			table.TimestampTz("start_date").Index()
			table.String("project_id", 200).Index()
			table.TimestampTz("created_at").Null()
			table.TimestampTz("updated_at").Null()
		})
		if err != nil {
			return err
		}
	}

	return store.validateColumns(table, []string{"id", "plan_id", "task", "start_date", "project_id"})
}

// PlansOn the plans whose start date falls on the given day
func (store *Store) PlansOn(day time.Time) ([]Plan, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	rows, err := store.newQuery(store.planTable()).
		Select("plan_id", "task", "start_date", "project_id").
		Where("start_date", ">=", from).
		Where("start_date", "<", to).
		OrderBy("start_date", "asc").
		Get()
	if err != nil {
		return nil, err
	}

	plans := []Plan{}
	for _, row := range rows {
		plans = append(plans, Plan{
			PlanID:    cast.ToString(row.Get("plan_id")),
			Task:      cast.ToString(row.Get("task")),
			StartDate: toTime(row.Get("start_date")),
			ProjectID: cast.ToString(row.Get("project_id")),
		})
	}
	return plans, nil
}

// TodayPlans the plans scheduled for today
func (store *Store) TodayPlans() ([]Plan, error) {
	return store.PlansOn(time.Now())
}

// SavePlan create or update a plan, dispatching a change event.
// A new plan id is generated when the given one is empty.
func (store *Store) SavePlan(plan Plan) (string, error) {
	if plan.Task == "" {
		return "", fmt.Errorf("plan task is required")
	}

	if plan.PlanID == "" {
		plan.PlanID = uuid.New().String()
	}

	exists, err := store.newQuery(store.planTable()).
		Where("plan_id", plan.PlanID).
		Exists()
	if err != nil {
		return "", err
	}

	values := map[string]interface{}{
		"plan_id":    plan.PlanID,
		"task":       plan.Task,
		"start_date": plan.StartDate,
		"project_id": plan.ProjectID,
	}

	if exists {
		values["updated_at"] = time.Now()
		_, err := store.newQuery(store.planTable()).
			Where("plan_id", plan.PlanID).
			Update(values)
		if err != nil {
			return "", err
		}
		store.dispatch("plans", OpUpdate, values)
		return plan.PlanID, nil
	}

	values["created_at"] = time.Now()
	err = store.newQuery(store.planTable()).Insert(values)
	if err != nil {
		return "", err
	}
	store.dispatch("plans", OpInsert, values)
	return plan.PlanID, nil
}

// DeletePlan remove a plan, dispatching a change event
func (store *Store) DeletePlan(planID string) error {
	nums, err := store.newQuery(store.planTable()).
		Where("plan_id", planID).
		Delete()
	if err != nil {
		return err
	}
	if nums == 0 {
		return fmt.Errorf("plan %s does not exist", planID)
	}
	store.dispatch("plans", OpDelete, map[string]interface{}{"plan_id": planID})
	return nil
}

// toTime coerce a driver value to time.Time. sqlite returns strings,
// mysql and postgres return time.Time.
func toTime(value interface{}) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	default:
		return cast.ToTime(v)
	}
}
