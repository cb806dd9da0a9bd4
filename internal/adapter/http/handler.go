package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"shelterverse/internal/app/archive"
	"shelterverse/internal/app/command"
	"shelterverse/internal/app/found"
	"shelterverse/internal/app/ports"
	"shelterverse/internal/app/replay"
	"shelterverse/internal/app/simulate"
	"shelterverse/internal/app/status"
	"shelterverse/internal/domain/colony"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const idempotencyKeyHeader = "Idempotency-Key"

type Handler struct {
	FoundUC    found.UseCase
	SimulateUC simulate.UseCase
	CommandUC  command.UseCase
	StatusUC   status.UseCase
	ReplayUC   replay.UseCase
	ArchiveUC  archive.UseCase
	KPI        kpiSnapshotProvider
	// AllowOrigin is the CORS origin; empty allows any.
	AllowOrigin string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowOrigin))

	api := s.Group("/api/colony")
	api.POST("", h.found)
	api.POST("/:id/advance", h.advance)
	api.POST("/:id/command", h.command)
	api.GET("/:id/status", h.status)
	api.GET("/:id/replay", h.replay)
	api.GET("/:id/archive", h.archiveTicks)
	api.GET("/:id/archive/:tick", h.archiveSnapshot)

	s.GET("/ops/kpi", h.kpi)
}

type foundRequest struct {
	Seed uint64 `json:"seed,omitempty"`
}

type advanceRequest struct {
	RealMillis int64   `json:"real_millis"`
	Speed      float64 `json:"speed,omitempty"`
}

type commandRequest struct {
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	command.Command
}

func (h Handler) found(c context.Context, ctx *app.RequestContext) {
	var body foundRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.FoundUC.Execute(c, found.Request{Seed: body.Seed})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) advance(c context.Context, ctx *app.RequestContext) {
	var body advanceRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SimulateUC.Execute(c, simulate.Request{
		ColonyID:   ctx.Param("id"),
		RealMillis: body.RealMillis,
		Speed:      body.Speed,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) command(c context.Context, ctx *app.RequestContext) {
	var body commandRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	key := strings.TrimSpace(string(ctx.GetHeader(idempotencyKeyHeader)))
	if key == "" {
		key = body.IdempotencyKey
	}
	resp, err := h.CommandUC.Execute(c, command.Request{
		ColonyID:       ctx.Param("id"),
		IdempotencyKey: key,
		Command:        body.Command,
	})
	if err != nil {
		if writeCommandRejected(ctx, resp, err) {
			return
		}
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c, status.Request{ColonyID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	fromTick, _ := strconv.ParseInt(string(ctx.Query("from_tick")), 10, 64)
	toTick, _ := strconv.ParseInt(string(ctx.Query("to_tick")), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		ColonyID: ctx.Param("id"),
		Limit:    limit,
		FromTick: fromTick,
		ToTick:   toTick,
		Type:     string(ctx.Query("type")),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) archiveTicks(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ArchiveUC.Ticks(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) archiveSnapshot(c context.Context, ctx *app.RequestContext) {
	tick, err := strconv.ParseInt(ctx.Param("tick"), 10, 64)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "tick must be an integer")
		return
	}
	resp, err := h.ArchiveUC.Snapshot(c, ctx.Param("id"), tick)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, command.ErrUnsupportedCommand):
		writeErrorBody(ctx, consts.StatusBadRequest, "unsupported_command", err.Error())
	case errors.Is(err, command.ErrInvalidCommandParams):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_command_params", err.Error())
	case errors.Is(err, command.ErrInvalidRequest),
		errors.Is(err, found.ErrInvalidRequest),
		errors.Is(err, simulate.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, archive.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, archive.ErrNotConfigured):
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// writeCommandRejected answers a command the engine refused. The colony is
// unchanged, so the response carries the rejection event and, for resource
// shortfalls, the exact missing quantities.
func writeCommandRejected(ctx *app.RequestContext, resp command.Response, err error) bool {
	var rejected *command.RejectedError
	if !errors.As(err, &rejected) {
		return false
	}
	var details map[string]any
	var shortfall *colony.InsufficientResourcesError
	if errors.As(err, &shortfall) {
		details = map[string]any{"missing": shortfall.Missing}
	}
	ctx.JSON(consts.StatusConflict, map[string]any{
		"result_code": command.ResultRejected,
		"tick":        resp.Tick,
		"version":     resp.Version,
		"events":      resp.Events,
		"error": map[string]any{
			"code":    rejected.Code,
			"message": rejected.Err.Error(),
			"details": details,
		},
	})
	return true
}
