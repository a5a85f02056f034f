package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
)

// writeError traduce un error de la capa de aplicación a la respuesta HTTP.
// Los errores sin kind de dominio se tratan como fallo interno.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch domain.KindOf(err) {
	case domain.ErrInvalidInput:
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case domain.ErrNotFound:
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case domain.ErrConflict:
		status, code = fiber.StatusConflict, "CONFLICT"
	case domain.ErrInsufficientQuantity:
		status, code = fiber.StatusConflict, "INSUFFICIENT_QUANTITY"
	case domain.ErrDependencyConflict:
		status, code = fiber.StatusConflict, "DEPENDENCY_CONFLICT"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: domain.MessageOf(err)})
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
}

func missingID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
}

// decodeStrict decodifica el cuerpo JSON rechazando campos desconocidos y cuerpos con
// más de un documento.
func decodeStrict(c *fiber.Ctx, out any) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("cuerpo vacío")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("cuerpo inválido: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("cuerpo inválido: contenido extra después del JSON")
	}
	return nil
}
