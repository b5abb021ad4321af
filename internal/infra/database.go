package infra

import (
	"fmt"

	"fondapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes, CHECK constraints).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Categoria{},
		&model.Producto{},
		&model.Inventario{},
		&model.Platillo{},
		&model.PlatilloIngrediente{},
		&model.Mesa{},
		&model.Pedido{},
		&model.PedidoDetalle{},
		&model.PedidoPago{},
		&model.Caja{},
		&model.TransaccionCaja{},
		&model.MovimientoInventario{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS / catalog guards so re-running on an
// already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one caja with cerrada_en IS NULL, enforced at the DB level
		// in addition to the service-layer guard.
		{"partial unique index: una sola caja abierta", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_cajas_abierta') THEN
    CREATE UNIQUE INDEX uni_cajas_abierta ON cajas ((cerrada_en IS NULL)) WHERE cerrada_en IS NULL;
  END IF;
END $$`},
		// Stock never goes negative, whatever bug slips past the services.
		{"check: cantidad_disponible >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventarios_cantidad_no_negativa') THEN
    ALTER TABLE inventarios
      ADD CONSTRAINT chk_inventarios_cantidad_no_negativa CHECK (cantidad_disponible >= 0);
  END IF;
END $$`},
		// One recipe row per (platillo, producto) pair.
		{"unique index: ingrediente por platillo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_platillo_producto') THEN
    CREATE UNIQUE INDEX uni_platillo_producto ON platillo_ingredientes (platillo_id, producto_id);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
