package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DepositMetrics contains all metrics of the webhook crediting pipeline.
type DepositMetrics struct {
	DepositsCreditedTotal       prometheus.CounterVec
	DepositsCreditedAmountTotal prometheus.CounterVec
	DepositsCreditedUSDTotal    prometheus.Counter

	DepositsRejectedTotal   prometheus.CounterVec
	DuplicateCallbacksTotal prometheus.Counter
	SignatureFailuresTotal  prometheus.Counter

	ReferralCommissionTotal prometheus.CounterVec

	WebhookProcessingDuration prometheus.HistogramVec

	NotificationFailuresTotal prometheus.Counter
}

func NewDepositMetrics() *DepositMetrics {
	return &DepositMetrics{
		DepositsCreditedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deposits_credited_total",
				Help: "Количество успешно зачисленных депозитов",
			},
			[]string{"currency"},
		),

		DepositsCreditedAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deposits_credited_amount_total",
				Help: "Сумма зачисленных депозитов в криптовалюте",
			},
			[]string{"currency"},
		),

		DepositsCreditedUSDTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "deposits_credited_usd_total",
				Help: "Сумма зачисленных депозитов в USD",
			},
		),

		DepositsRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deposits_rejected_total",
				Help: "Количество отклоненных депозитов по причинам",
			},
			[]string{"reason"},
		),

		DuplicateCallbacksTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "duplicate_callbacks_total",
				Help: "Количество повторных callback-ов шлюза",
			},
		),

		SignatureFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "signature_failures_total",
				Help: "Количество callback-ов с неверной HMAC подписью",
			},
		),

		ReferralCommissionTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "referral_commission_total",
				Help: "Сумма реферальных комиссий по валютам",
			},
			[]string{"currency"},
		),

		WebhookProcessingDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webhook_processing_duration_seconds",
				Help:    "Время обработки webhook в секундах",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms, 20ms, 40ms...
			},
			[]string{"outcome"},
		),

		NotificationFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notification_failures_total",
				Help: "Количество неудачных уведомлений пользователей",
			},
		),
	}
}

// RecordDepositCredited записывает успешно зачисленный депозит
func (m *DepositMetrics) RecordDepositCredited(currency string, amount, amountUSD float64) {
	m.DepositsCreditedTotal.WithLabelValues(currency).Inc()
	m.DepositsCreditedAmountTotal.WithLabelValues(currency).Add(amount)
	m.DepositsCreditedUSDTotal.Add(amountUSD)
}

// RecordDepositRejected записывает отклоненный депозит
func (m *DepositMetrics) RecordDepositRejected(reason string) {
	m.DepositsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordDuplicateCallback записывает повторный callback
func (m *DepositMetrics) RecordDuplicateCallback() {
	m.DuplicateCallbacksTotal.Inc()
}

// RecordSignatureFailure записывает неверную подпись
func (m *DepositMetrics) RecordSignatureFailure() {
	m.SignatureFailuresTotal.Inc()
}

// RecordReferralCommission записывает выплаченную комиссию
func (m *DepositMetrics) RecordReferralCommission(currency string, amount float64) {
	m.ReferralCommissionTotal.WithLabelValues(currency).Add(amount)
}

// RecordWebhookDuration записывает длительность обработки webhook
func (m *DepositMetrics) RecordWebhookDuration(outcome string, durationSeconds float64) {
	m.WebhookProcessingDuration.WithLabelValues(outcome).Observe(durationSeconds)
}

// RecordNotificationFailure записывает неудачную отправку уведомления
func (m *DepositMetrics) RecordNotificationFailure() {
	m.NotificationFailuresTotal.Inc()
}
