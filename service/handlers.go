package service

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/nirman-app/nirman/model"
)

// getDashboard the joint load of all four panels. A partial failure
// still returns the panels that succeeded; the failures ride along in
// the errors field.
func (service *Service) getDashboard(c *gin.Context) {
	snapshot, _ := service.loader.Load(c.Request.Context())
	c.JSON(200, snapshot)
}

func (service *Service) getTodayPlans(c *gin.Context) {
	plans, err := service.store.TodayPlans()
	if err != nil {
		abort(c, 500, err)
		return
	}
	c.JSON(200, plans)
}

func (service *Service) getDelayedWorkflows(c *gin.Context) {
	workflows, err := service.store.DelayedWorkflows()
	if err != nil {
		abort(c, 500, err)
		return
	}
	c.JSON(200, workflows)
}

func (service *Service) getProjects(c *gin.Context) {
	projects, err := service.store.Projects()
	if err != nil {
		abort(c, 500, err)
		return
	}
	c.JSON(200, projects)
}

func (service *Service) getMarkers(c *gin.Context) {
	markers, err := service.store.Markers()
	if err != nil {
		abort(c, 500, err)
		return
	}
	c.JSON(200, markers)
}

func (service *Service) getProgress(c *gin.Context) {
	series, err := service.store.ProgressSeries()
	if err != nil {
		abort(c, 500, err)
		return
	}
	c.JSON(200, series)
}

func (service *Service) getWeather(c *gin.Context) {
	city := c.Query("city")
	var snapshot interface{}
	var err error
	if city != "" {
		snapshot, err = service.weather.CurrentFor(c.Request.Context(), city)
	} else {
		snapshot, err = service.weather.Current(c.Request.Context())
	}
	if err != nil {
		abort(c, 502, err)
		return
	}
	c.JSON(200, snapshot)
}

func (service *Service) savePlan(c *gin.Context) {
	plan := model.Plan{}
	if err := c.ShouldBindJSON(&plan); err != nil {
		abort(c, 400, err)
		return
	}

	id, err := service.store.SavePlan(plan)
	if err != nil {
		abort(c, 500, err)
		return
	}
	c.JSON(200, gin.H{"id": id})
}

func (service *Service) deletePlan(c *gin.Context) {
	if err := service.store.DeletePlan(c.Param("id")); err != nil {
		abort(c, 404, err)
		return
	}
	c.JSON(200, gin.H{"id": c.Param("id")})
}

func (service *Service) saveWorkflow(c *gin.Context) {
	workflow := model.Workflow{}
	if err := c.ShouldBindJSON(&workflow); err != nil {
		abort(c, 400, err)
		return
	}

	id, err := service.store.SaveWorkflow(workflow)
	if err != nil {
		abort(c, 500, err)
		return
	}
	c.JSON(200, gin.H{"id": id})
}

func (service *Service) deleteWorkflow(c *gin.Context) {
	if err := service.store.DeleteWorkflow(c.Param("id")); err != nil {
		abort(c, 404, err)
		return
	}
	c.JSON(200, gin.H{"id": c.Param("id")})
}

func (service *Service) saveProject(c *gin.Context) {
	project := model.Project{}
	if err := c.ShouldBindJSON(&project); err != nil {
		abort(c, 400, err)
		return
	}

	id, err := service.store.SaveProject(project)
	if err != nil {
		abort(c, 500, err)
		return
	}
	c.JSON(200, gin.H{"id": id})
}

func (service *Service) deleteProject(c *gin.Context) {
	if err := service.store.DeleteProject(c.Param("id")); err != nil {
		abort(c, 404, err)
		return
	}
	c.JSON(200, gin.H{"id": c.Param("id")})
}

// subscribe upgrade to a websocket on one table's change channel
func (service *Service) subscribe(c *gin.Context) {
	table := c.Param("table")
	switch table {
	case "plans", "workflows", "projects":
		service.hub.Serve(c.Writer, c.Request, table)
	default:
		abort(c, 404, fmt.Errorf("unknown table %s", table))
	}
}

// abort report one failure. The message is the underlying error text,
// forwarded verbatim.
func abort(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{"code": code, "message": err.Error()})
	c.Abort()
}
