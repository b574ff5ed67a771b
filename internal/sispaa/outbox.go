package sispaa

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gestaozabele/lapor/internal/kv"
	"github.com/gestaozabele/lapor/internal/report"
)

// Chaves da fila durável de envio. O item de trabalho é persistido no
// mesmo store do registro; um crash entre persistir e enviar é
// recuperado no próximo drain.
const (
	queueKey           = "sispaa:outbox"
	attemptsKeyPrefix  = "sispaa:attempts:"
	attemptsCounterTTL = 24 * time.Hour
)

type reportStore interface {
	GetByID(ctx context.Context, reportID string) (*report.Report, error)
	Update(ctx context.Context, reportID string, input report.UpdateInput) (*report.Report, error)
}

type submitter interface {
	SubmitReport(ctx context.Context, rep *report.Report) Result
}

// Outbox é o worker durável que leva denúncias pendentes ao SISPAA e
// registra o resultado como transição de status.
type Outbox struct {
	store       kv.Store
	reports     reportStore
	client      submitter
	interval    time.Duration
	maxAttempts int
	logger      zerolog.Logger

	kick   chan struct{}
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

// NewOutbox cria o worker. interval <= 0 usa 30s; maxAttempts <= 0 usa 5.
func NewOutbox(store kv.Store, reports reportStore, client submitter, interval time.Duration, maxAttempts int, logger zerolog.Logger) *Outbox {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Outbox{
		store:       store,
		reports:     reports,
		client:      client,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logger,
		kick:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
}

// Enqueue persiste o item de trabalho e acorda o worker. A resposta ao
// cidadão nunca espera o envio.
func (o *Outbox) Enqueue(ctx context.Context, reportID string) error {
	if err := o.store.RPush(ctx, queueKey, reportID); err != nil {
		return err
	}
	o.Kick()
	return nil
}

// Kick acorda o worker sem bloquear.
func (o *Outbox) Kick() {
	select {
	case o.kick <- struct{}{}:
	default:
	}
}

// Start inicia o loop do worker. Safe para chamar múltiplas vezes.
func (o *Outbox) Start(parent context.Context) {
	o.once.Do(func() {
		ctx, cancel := context.WithCancel(parent)
		o.cancel = cancel
		go o.runLoop(ctx)
	})
}

// Stop encerra o loop e aguarda o drain corrente terminar.
func (o *Outbox) Stop() {
	if o.cancel != nil {
		o.cancel()
		<-o.done
	}
}

func (o *Outbox) runLoop(ctx context.Context) {
	defer close(o.done)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	o.logger.Info().Dur("interval", o.interval).Msg("sispaa: worker iniciado")

	// drain inicial recupera itens deixados por uma execução anterior
	if err := o.Drain(ctx); err != nil {
		o.logger.Error().Err(err).Msg("sispaa: drain inicial falhou")
	}

	for {
		select {
		case <-ctx.Done():
			o.logger.Info().Msg("sispaa: worker encerrado")
			return
		case <-ticker.C:
			if err := o.Drain(ctx); err != nil {
				o.logger.Error().Err(err).Msg("sispaa: drain periódico falhou")
			}
		case <-o.kick:
			if err := o.Drain(ctx); err != nil {
				o.logger.Error().Err(err).Msg("sispaa: drain falhou")
			}
		}
	}
}

// Drain processa a fila até esvaziar. Reenvios voltam para a fila só
// depois do drain, para o próximo ciclo.
func (o *Outbox) Drain(ctx context.Context) error {
	var retries []string

	for {
		if ctx.Err() != nil {
			break
		}

		reportID, err := o.store.LPop(ctx, queueKey)
		if err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				break
			}
			return err
		}

		retry, err := o.process(ctx, reportID)
		if err != nil {
			// erro de store não descarta o item de trabalho: volta para
			// a fila e o próximo ciclo tenta de novo. Um envio aceito
			// cuja transição de status não foi gravada pode repetir; o
			// payload leva o report_id de origem para deduplicação no
			// destino.
			o.logger.Error().Err(err).Str("report_id", reportID).Msg("sispaa: processamento falhou, reenfileirando")
			retries = append(retries, reportID)
			continue
		}
		if retry {
			retries = append(retries, reportID)
		}
	}

	if len(retries) > 0 {
		if err := o.store.RPush(ctx, queueKey, retries...); err != nil {
			return err
		}
	}
	return nil
}

// process envia uma denúncia e aplica a transição de status. Retorna
// true quando o item deve voltar para a fila.
func (o *Outbox) process(ctx context.Context, reportID string) (bool, error) {
	rep, err := o.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			// denúncia removida enquanto aguardava envio
			return false, nil
		}
		return false, err
	}

	// idempotente e retomável: estados terminais não são reenviados
	if report.IsTerminalStatus(rep.Status) {
		return false, nil
	}

	result := o.client.SubmitReport(ctx, rep)
	if result.Success {
		if _, err := o.setStatus(ctx, reportID, report.StatusSubmitted); err != nil {
			return false, err
		}
		o.logger.Info().Str("report_id", reportID).Str("reference_id", result.ReferenceID).Msg("sispaa: denúncia enviada")
		return false, nil
	}

	if _, err := o.setStatus(ctx, reportID, report.StatusFailed); err != nil {
		return false, err
	}

	attempts, err := o.store.Incr(ctx, attemptsKeyPrefix+reportID, attemptsCounterTTL)
	if err != nil {
		return false, err
	}
	if attempts >= int64(o.maxAttempts) {
		o.logger.Error().Str("report_id", reportID).Int64("attempts", attempts).Str("error", result.Error).
			Msg("sispaa: tentativas esgotadas, denúncia permanece como failed")
		return false, nil
	}

	o.logger.Warn().Str("report_id", reportID).Int64("attempts", attempts).Str("error", result.Error).
		Msg("sispaa: envio falhou, reenfileirando")
	return true, nil
}

func (o *Outbox) setStatus(ctx context.Context, reportID, status string) (*report.Report, error) {
	return o.reports.Update(ctx, reportID, report.UpdateInput{Status: &status})
}
