package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskboard/internal/application"
	"github.com/oksasatya/taskboard/internal/domain/entity"
	"github.com/oksasatya/taskboard/internal/interface/middleware"
	"github.com/oksasatya/taskboard/pkg/response"
)

type TaskHandler struct {
	Svc *application.TaskService
}

func NewTaskHandler(svc *application.TaskService) *TaskHandler {
	return &TaskHandler{Svc: svc}
}

// Owner fields in the body are not part of these payloads and are dropped
// by decoding.
type createTaskRequest struct {
	Title       string `json:"title" mod:"trim" validate:"required,max=200"`
	Description string `json:"description" mod:"trim" validate:"max=1000"`
	Status      string `json:"status" mod:"trim" validate:"omitempty,taskstatus"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" mod:"trim" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" mod:"trim" validate:"omitnil,max=1000"`
	Status      *string `json:"status" mod:"trim" validate:"omitnil,taskstatus"`
}

type taskResponse struct {
	Task *entity.Task `json:"task"`
}

func (h *TaskHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	res, err := h.Svc.List(c.Request.Context(), middleware.Caller(c).ID, application.ListTasksQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		fail(c, err, "")
		return
	}
	response.Success(c, http.StatusOK, res, "")
}

func (h *TaskHandler) Create(c *gin.Context) {
	req, ok := bind[createTaskRequest](c)
	if !ok {
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), middleware.Caller(c).ID, application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.TaskStatus(req.Status),
	})
	if err != nil {
		fail(c, err, "")
		return
	}
	response.Success(c, http.StatusCreated, taskResponse{Task: t}, "Task created successfully")
}

func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), middleware.Caller(c).ID, c.Param("id"))
	if err != nil {
		fail(c, err, "")
		return
	}
	response.Success(c, http.StatusOK, taskResponse{Task: t}, "")
}

func (h *TaskHandler) Update(c *gin.Context) {
	req, ok := bind[updateTaskRequest](c)
	if !ok {
		return
	}
	in := application.UpdateTaskInput{Title: req.Title, Description: req.Description}
	if req.Status != nil {
		st := entity.TaskStatus(*req.Status)
		in.Status = &st
	}
	t, err := h.Svc.Update(c.Request.Context(), middleware.Caller(c).ID, c.Param("id"), in)
	if err != nil {
		fail(c, err, "")
		return
	}
	response.Success(c, http.StatusOK, taskResponse{Task: t}, "Task updated successfully")
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.Caller(c).ID, c.Param("id")); err != nil {
		fail(c, err, "")
		return
	}
	response.Message(c, http.StatusOK, "Task deleted successfully")
}
