package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de transacción de caja.
const (
	TransaccionIngreso = "Ingreso"
	TransaccionEgreso  = "Egreso"
)

// NormalizarTipoTransaccion matches t case-insensitively against {Ingreso, Egreso}.
func NormalizarTipoTransaccion(t string) (string, bool) {
	for _, v := range []string{TransaccionIngreso, TransaccionEgreso} {
		if strings.EqualFold(v, t) {
			return v, true
		}
	}
	return "", false
}

// Caja is a cash register session spanning one shift. At most one caja may
// have CerradaEn == nil at any time (service guard + partial unique index).
// MontoApertura carries over from the previous session's MontoCierre.
type Caja struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupervisorID  uuid.UUID        `gorm:"type:uuid;not null"`
	MontoApertura decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	MontoCierre   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Diferencia = MontoCierre - (MontoApertura + ingresos - egresos), persisted at close.
	Diferencia *decimal.Decimal `gorm:"type:decimal(12,2)"`
	AbiertaEn  time.Time        `gorm:"not null"`
	CerradaEn  *time.Time

	Supervisor    *Usuario          `gorm:"foreignKey:SupervisorID"`
	Transacciones []TransaccionCaja `gorm:"foreignKey:CajaID"`
}

func (Caja) TableName() string { return "cajas" }

// TransaccionCaja is an immutable event in the register ledger.
// Transactions are NEVER modified or deleted.
type TransaccionCaja struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo        string          `gorm:"type:varchar(20);not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion *string
	CreatedAt   time.Time
}

func (TransaccionCaja) TableName() string { return "transacciones_caja" }
