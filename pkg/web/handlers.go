// Package web exposes the handoff protocol over HTTP for producers that
// cannot reach the shared directory tree directly.
package web

import (
	"errors"

	"github.com/dukex/agentics/pkg/handoff"
	"github.com/dukex/agentics/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

var errConfigNotPersisted = errors.New("failed to persist execution config")

type APIHandlers struct {
	service  *handoff.Service
	validate *validator.Validate
}

func NewAPIHandlers(service *handoff.Service, validate *validator.Validate) *APIHandlers {
	return &APIHandlers{
		service:  service,
		validate: validate,
	}
}

// CreateExecution publishes a new task onto the agentics tree.
func (h *APIHandlers) CreateExecution(c fiber.Ctx) error {
	var req ExecuteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, "task_id is required")
	}

	state := &models.TaskState{
		TaskID: req.TaskID,
		Stages: req.Stages,
		Extra:  req.Fields,
	}

	published, err := h.service.ExecuteWorkflow(c.Context(), state)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(ExecuteResponse{
		TaskID:        published.TaskID,
		ExecutionMode: published.ExecutionMode,
		Status:        string(published.WorkflowStatus),
		TriggerFile:   handoff.TriggerFileName(published.TaskID),
	})
}

// GetExecution reports a task's current status. The poll never errors;
// unknown tasks come back as found=false with status "initializing".
func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	return c.JSON(h.service.GetExecutionStatus(c.Context(), c.Params("id")))
}

// StopExecution writes the cooperative cancellation sentinel.
func (h *APIHandlers) StopExecution(c fiber.Ctx) error {
	result := h.service.StopExecution(c.Context(), c.Params("id"))
	if !result.Success {
		return c.Status(fiber.StatusBadGateway).JSON(result)
	}

	return c.JSON(result)
}

// DeleteExecution removes the task's trigger marker, best-effort.
func (h *APIHandlers) DeleteExecution(c fiber.Ctx) error {
	h.service.CleanupExecution(c.Context(), c.Params("id"))

	return c.SendStatus(fiber.StatusNoContent)
}

// GetConfig returns the persisted execution configuration.
func (h *APIHandlers) GetConfig(c fiber.Ctx) error {
	return c.JSON(h.service.ExecutionConfig(c.Context()))
}

// PutConfig overwrites the execution configuration wholesale.
func (h *APIHandlers) PutConfig(c fiber.Ctx) error {
	var config models.ExecutionConfig
	if err := c.Bind().JSON(&config); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validate.Struct(&config); err != nil {
		return badRequest(c, "pollingInterval must be positive")
	}

	if !h.service.SaveExecutionConfig(c.Context(), config) {
		return internalError(c, errConfigNotPersisted)
	}

	return c.JSON(config)
}

// Supported reports whether the configured root can host the agentics
// tree. Capability problems are a feature flag here, not an error.
func (h *APIHandlers) Supported(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"supported": h.service.AutoExecutionSupported(c.Context()),
	})
}
