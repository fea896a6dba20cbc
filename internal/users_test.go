package internal

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserWritesAudit(t *testing.T) {
	s, mock := newTestServer(t)
	s.Router.Post("/users", s.createUser)

	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO usuarios").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(5), created, created))
	mock.ExpectExec("INSERT INTO logs_auditoria").
		WithArgs("Desconocido", "CREAR", "Usuario ana@corp.pe (soporte)", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"email":"ana@corp.pe","password":"secret123","roles":["soporte"]}`
	w := doRequest(s, "POST", "/users", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserWritesAudit(t *testing.T) {
	s, mock := newTestServer(t)
	s.Router.Delete("/users/{id}", s.deleteUser)

	mock.ExpectQuery("SELECT roles FROM usuarios").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"roles"}).AddRow("{soporte}"))
	mock.ExpectExec("DELETE FROM usuarios").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO logs_auditoria").
		WithArgs("Desconocido", "BORRAR", "Usuario id 5", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := doRequest(s, "DELETE", "/users/5", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
