package entity

import (
	"fmt"
	"strings"
)

// QualityState estado de calidad de una unidad de repuesto.
// Enumeración cerrada: cualquier estado nuevo obliga a actualizar la tabla de transiciones en domain/stock.
type QualityState string

const (
	QualityAccepted   QualityState = "A" // utilizable en órdenes de trabajo
	QualityQuarantine QualityState = "Q" // pendiente de disposición de calidad
	QualityRejected   QualityState = "R" // fuera del stock activo, solo trazabilidad
)

// QualityStates devuelve todos los estados en orden estable.
func QualityStates() []QualityState {
	return []QualityState{QualityAccepted, QualityQuarantine, QualityRejected}
}

// ParseQualityState acepta el código de una letra o el nombre largo (sin distinguir mayúsculas).
func ParseQualityState(s string) (QualityState, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "ACCEPTED", "ACEPTADO":
		return QualityAccepted, nil
	case "Q", "QUARANTINE", "CUARENTENA":
		return QualityQuarantine, nil
	case "R", "REJECTED", "RECHAZADO":
		return QualityRejected, nil
	}
	return "", fmt.Errorf("estado de calidad desconocido: %q", s)
}

// Valid indica si el valor es uno de los tres estados definidos.
func (s QualityState) Valid() bool {
	switch s {
	case QualityAccepted, QualityQuarantine, QualityRejected:
		return true
	}
	return false
}

// Name nombre legible del estado.
func (s QualityState) Name() string {
	switch s {
	case QualityAccepted:
		return "ACCEPTED"
	case QualityQuarantine:
		return "QUARANTINE"
	case QualityRejected:
		return "REJECTED"
	}
	return "UNKNOWN"
}

func (s QualityState) String() string { return string(s) }
