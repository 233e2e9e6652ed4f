package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devpulse/devpulse/internal/team"
	"github.com/devpulse/devpulse/internal/triage"
)

func (app *application) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

func (app *application) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics": app.metrics.Snapshot(),
		"caches": gin.H{
			"team_summaries":  app.teams.CacheStats(),
			"triage_backlogs": app.backlog.CacheStats(),
		},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleTriage serves a project's prioritized backlog. Degraded upstreams
// still produce a 200 with fallback data; only a broken aggregation maps to
// a 500.
func (app *application) handleTriage(c *gin.Context) {
	projectKey := c.Param("project")
	if projectKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project key is required"})
		return
	}

	resp := app.backlog.PrioritizeBacklog(c.Request.Context(), projectKey)
	if resp.Error != "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": resp.Error})
		return
	}

	c.JSON(http.StatusOK, resp.Data)
}

func (app *application) handleTeamSummary(c *gin.Context) {
	teamID := c.Param("team")
	if teamID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team id is required"})
		return
	}

	resp := app.teams.FetchSummary(c.Request.Context(), teamID)
	if resp.Error != "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": resp.Error})
		return
	}

	c.JSON(http.StatusOK, resp.Data)
}

// handleCacheClear invalidates cached results. With no parameters it clears
// both caches; scoping to a project or team clears just that entry.
func (app *application) handleCacheClear(c *gin.Context) {
	var req struct {
		Project string `json:"project"`
		Team    string `json:"team"`
	}
	// An empty body is a valid full clear.
	_ = c.ShouldBindJSON(&req)

	cleared := make([]string, 0, 2)
	switch {
	case req.Project != "":
		app.backlog.ClearCache(triage.BacklogCacheKey(req.Project))
		cleared = append(cleared, triage.BacklogCacheKey(req.Project))
	case req.Team != "":
		app.teams.ClearCache(team.SummaryCacheKey(req.Team))
		cleared = append(cleared, team.SummaryCacheKey(req.Team))
	default:
		app.backlog.ClearCache("")
		app.teams.ClearCache("")
		cleared = append(cleared, "all")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "cache cleared",
		"cleared": cleared,
	})
}
