package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Cada uno es un "kind" estable que
// la capa HTTP traduce a un código de respuesta.
var (
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInsufficientQuantity = errors.New("cantidad insuficiente")
	ErrDependencyConflict   = errors.New("el recurso tiene dependencias")
)

// Error es un error estructurado: Kind es uno de los sentinels de arriba y Message
// el detalle legible. errors.Is(err, domain.ErrNotFound) funciona a través de Unwrap.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf construye un *Error del kind indicado con mensaje formateado.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf devuelve el sentinel de dominio que envuelve err, o nil si es un error de infraestructura.
func KindOf(err error) error {
	for _, k := range []error{ErrInvalidInput, ErrConflict, ErrNotFound, ErrInsufficientQuantity, ErrDependencyConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// MessageOf devuelve el mensaje del *Error si existe; si no, err.Error().
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}
