package worker

// alerta_worker.go
// Processes low-stock alerts emitted after order creation drains inventory
// to or below the product's stock_minimo.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fondapos/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertaStockPayload carries the inventory snapshot at the moment the
// threshold was crossed. Quantities travel as strings to keep decimal
// precision across the wire.
type AlertaStockPayload struct {
	ProductoID string `json:"producto_id"`
	Producto   string `json:"producto"`
	Cantidad   string `json:"cantidad"`
	Minimo     string `json:"minimo"`
}

type AlertaStockWorker struct {
	mailer       *infra.Mailer
	alertasEmail string
}

func NewAlertaStockWorker(mailer *infra.Mailer, alertasEmail string) *AlertaStockWorker {
	return &AlertaStockWorker{mailer: mailer, alertasEmail: alertasEmail}
}

func (w *AlertaStockWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return err
	}
	if w.alertasEmail == "" {
		log.Warn().Str("producto", payload.Producto).Msg("alerta_worker: ALERTAS_EMAIL not configured — skipping")
		return errors.New("sin destinatario")
	}

	subject := fmt.Sprintf("Stock bajo: %s", payload.Producto)
	body := fmt.Sprintf(
		"El producto %s (%s) quedó en %s unidades, por debajo del mínimo configurado (%s).\nReponer inventario.",
		payload.Producto, payload.ProductoID, payload.Cantidad, payload.Minimo)

	if err := w.mailer.Send(w.alertasEmail, subject, body); err != nil {
		log.Error().Err(err).Str("producto", payload.Producto).Msg("alerta_worker: failed to send alert")
		return err
	}
	log.Info().Str("producto", payload.Producto).Str("cantidad", payload.Cantidad).Msg("alerta_worker: alert sent")
	return nil
}
