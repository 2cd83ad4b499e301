package model

import (
	"fmt"

	"github.com/yaoapp/xun/capsule"
	"github.com/yaoapp/xun/dbal/query"
	"github.com/yaoapp/xun/dbal/schema"
)

// Store provides access to the project-management tables.
//
// It owns four tables:
//   - plans: scheduled tasks, filtered to "today" on the dashboard
//   - workflows: site workflows with an open status enumeration
//   - projects: construction projects with a geographic coordinate
//   - users: dashboard accounts for email and OAuth sign-in
//
// Every mutation dispatches a change event to the registered
// subscribers, which is the source of the realtime channel.
type Store struct {
	query   query.Query
	schema  schema.Schema
	setting Setting
	events  *dispatcher
}

// Setting the store options
type Setting struct {
	Prefix string // table name prefix, used by tests to isolate tables
}

// New create a store on the global capsule connection
func New(setting Setting) (*Store, error) {
	if capsule.Global == nil {
		return nil, fmt.Errorf("database connection was not established")
	}
	return &Store{
		query:   capsule.Global.Query(),
		schema:  capsule.Global.Schema(),
		setting: setting,
		events:  newDispatcher(),
	}, nil
}

// Migrate create the tables that do not exist yet and validate their columns
func (store *Store) Migrate() error {
	if err := store.initPlanTable(); err != nil {
		return err
	}
	if err := store.initWorkflowTable(); err != nil {
		return err
	}
	if err := store.initProjectTable(); err != nil {
		return err
	}
	return store.initUserTable()
}

// Drop remove all the store tables, used by tests
func (store *Store) Drop() error {
	for _, table := range []string{store.planTable(), store.workflowTable(), store.projectTable(), store.userTable()} {
		if err := store.schema.DropTableIfExists(table); err != nil {
			return err
		}
	}
	return nil
}

func (store *Store) planTable() string     { return store.setting.Prefix + "plans" }
func (store *Store) workflowTable() string { return store.setting.Prefix + "workflows" }
func (store *Store) projectTable() string  { return store.setting.Prefix + "projects" }
func (store *Store) userTable() string     { return store.setting.Prefix + "users" }

func (store *Store) newQuery(table string) query.Query {
	qb := store.query.New()
	qb.Table(table)
	return qb
}

func (store *Store) validateColumns(table string, fields []string) error {
	tab, err := store.schema.GetTable(table)
	if err != nil {
		return err
	}
	for _, field := range fields {
		if !tab.HasColumn(field) {
			return fmt.Errorf("%s.%s is required", table, field)
		}
	}
	return nil
}
