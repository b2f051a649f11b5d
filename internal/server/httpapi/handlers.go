package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/taskpulse/internal/server/services"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "TaskPulse API online",
		"env":     s.env,
	})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := s.sessions.Register(c.Request.Context(), req.Email, req.Password); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registered"})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := s.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (s *HTTPServer) refresh(c *gin.Context) {
	pair, err := s.sessions.Refresh(c.Request.Context(), c.GetString(ginRefreshTokenKey))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (s *HTTPServer) logout(c *gin.Context) {
	if err := s.sessions.Logout(c.Request.Context(), c.GetString(ginUserIDKey)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (s *HTTPServer) listTasks(c *gin.Context) {
	items, err := s.tasks.List(c.Request.Context(), c.GetString(ginUserIDKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *HTTPServer) createTask(c *gin.Context) {
	var in services.TaskInput
	if !bindJSON(c, &in) {
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), c.GetString(ginUserIDKey), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *HTTPServer) updateTask(c *gin.Context) {
	var patch services.TaskPatch
	if !bindJSON(c, &patch) {
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), c.GetString(ginUserIDKey), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *HTTPServer) deleteTask(c *gin.Context) {
	if err := s.tasks.Delete(c.Request.Context(), c.GetString(ginUserIDKey), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
