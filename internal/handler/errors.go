package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// usecaseのエラー種別→HTTPステータス（変換はここだけ）
func statusOf(kind usecase.Kind) int {
	switch kind {
	case usecase.KindValidation, usecase.KindInsufficientStock:
		return http.StatusBadRequest
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindUnauthorized:
		return http.StatusUnauthorized
	case usecase.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	e, ok := usecase.AsError(err)
	if !ok || e.Kind == usecase.KindStorage {
		//500（原因はログにだけ残す）
		middleware.Logger(c).Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	return c.JSON(statusOf(e.Kind), ErrorResponse{Error: e.Message})
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
