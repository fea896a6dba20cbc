package models

// AuditEntry is one append-only record of a mutating action.
type AuditEntry struct {
	ID      int64  `json:"id"`
	Usuario string `json:"usuario"`
	Accion  string `json:"accion"`
	Detalle string `json:"detalle"`
	Fecha   string `json:"fecha"`
}

// Audit action tags written by the API.
const (
	AuditCreate = "CREAR"
	AuditEdit   = "EDITAR"
	AuditDelete = "BORRAR"
	AuditImport = "IMPORTAR"
)
