package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	HeaderActorID     = "X-Actor-ID"
	HeaderActorRole   = "X-Actor-Role"
	HeaderActorActive = "X-Actor-Active"

	actorKey = "actor"
)

// Authenticate turns the headers set by the auth gateway into an Actor.
// Identity is trusted; only its shape is checked here.
func Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			act, err := actorFromHeaders(c.Request().Header)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, Error{
					Code:    http.StatusUnauthorized,
					Message: err.Error(),
				})
			}
			c.Set(actorKey, act)
			return next(c)
		}
	}
}

func actorFromHeaders(h http.Header) (actor.Actor, error) {
	id, err := kernel.UUIDFromString(h.Get(HeaderActorID))
	if err != nil {
		return actor.Actor{}, fmt.Errorf("%s: %w", HeaderActorID, err)
	}

	role, err := actor.ParseRole(h.Get(HeaderActorRole))
	if err != nil {
		return actor.Actor{}, fmt.Errorf("%s: %w", HeaderActorRole, err)
	}

	active := true
	if raw := h.Get(HeaderActorActive); raw != "" {
		if active, err = strconv.ParseBool(raw); err != nil {
			return actor.Actor{}, fmt.Errorf("%s: %w", HeaderActorActive, err)
		}
	}

	return actor.New(id, role, active)
}

func currentActor(c echo.Context) actor.Actor {
	act, _ := c.Get(actorKey).(actor.Actor)
	return act
}

// Trace opens a server span per request, continuing any trace the caller
// propagated.
func Trace(serviceName string) echo.MiddlewareFunc {
	tracer := otel.Tracer("marketplace/http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))

			route := c.Path()
			ctx, span := tracer.Start(ctx, req.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPMethodKey.String(req.Method),
					semconv.HTTPRouteKey.String(route),
					attribute.String("service", serviceName),
				),
			)
			defer span.End()

			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
			return nil
		}
	}
}

// AccessLog logs one line per request.
func AccessLog(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("route", c.Path()),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
			}
			if act := currentActor(c); act.ID().Validate() == nil {
				fields = append(fields, zap.String("actor", act.ID().String()), zap.String("role", string(act.Role())))
			}

			switch {
			case res.Status >= http.StatusInternalServerError:
				log.Error("request", fields...)
			case res.Status >= http.StatusBadRequest:
				log.Info("request", fields...)
			default:
				log.Debug("request", fields...)
			}
			return nil
		}
	}
}
