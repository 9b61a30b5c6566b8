package plants

import (
	"errors"
	"fmt"
)

// ErrNotFound lo devuelven los repositorios cuando no hay fila para el id.
var ErrNotFound = errors.New("not found")

// Kind clasifica los errores que ve el usuario.
type Kind string

const (
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindBackend    Kind = "backend"
	KindNotFound   Kind = "not_found"
	KindBusy       Kind = "busy"
)

// Error es el resultado de error tipado del dominio: Kind + mensaje para mostrar.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf devuelve el Kind de err, o KindBackend si no es un *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}

// MessageOf devuelve el mensaje para mostrar en el banner.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

func validationError(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Message: msg}
}

func backendError(op, msg string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return &Error{Kind: KindNotFound, Op: op, Message: "plant not found", Err: err}
	}
	return &Error{Kind: KindBackend, Op: op, Message: msg, Err: err}
}
