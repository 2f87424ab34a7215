package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/employee"
)

const readyTimeout = 2 * time.Second

type handlers struct {
	registrar Registrar
	searcher  Searcher
	store     employee.Store
	logger    *zap.Logger
}

type registerRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *handlers) health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

func (h *handlers) ready(c *fiber.Ctx) error {
	pinger, ok := h.store.(employee.Pinger)
	if !ok {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ready"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	defer cancel()
	if err := pinger.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "not_ready",
			"details": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ready"})
}

func (h *handlers) registerEmployee(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "request body must be a JSON object with name and description")
	}

	missing := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		missing["name"] = "required"
	}
	if strings.TrimSpace(req.Description) == "" {
		missing["description"] = "required"
	}
	if len(missing) > 0 {
		return fieldError(c, "please fill in both the name and the self-introduction", missing)
	}

	res, err := h.registrar.Register(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return h.workflowError(c, err)
	}

	return JSON(c, fiber.StatusCreated, fmt.Sprintf("%s was registered", res.Record.Name), res)
}

func (h *handlers) search(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "request body must be a JSON object with a query")
	}
	if strings.TrimSpace(req.Query) == "" {
		return fieldError(c, "please describe who you are looking for", map[string]string{"query": "required"})
	}

	res, err := h.searcher.Search(c.UserContext(), req.Query)
	if err != nil {
		return h.workflowError(c, err)
	}

	if res.NoMatch() {
		return JSON(c, fiber.StatusOK, "no employees matched the query", res)
	}
	return JSON(c, fiber.StatusOK, fmt.Sprintf("%d employee(s) matched", len(res.Results)), res)
}

func (h *handlers) listEmployees(c *fiber.Ctx) error {
	records, err := h.store.ListAll(c.UserContext())
	if err != nil {
		return h.workflowError(c, err)
	}
	return JSON(c, fiber.StatusOK, fmt.Sprintf("%d employee(s)", len(records)), records)
}

func (h *handlers) workflowError(c *fiber.Ctx, err error) error {
	var storeErr *employee.StoreError
	switch {
	case errors.Is(err, employee.ErrMissingInput), errors.Is(err, employee.ErrInvalidName):
		return Error(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &storeErr):
		h.logger.Error("record store request failed", zap.Error(err))
		return Error(c, fiber.StatusBadGateway, "the employee database is unavailable, nothing was saved")
	default:
		return err
	}
}
