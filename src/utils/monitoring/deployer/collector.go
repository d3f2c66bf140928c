package monitor_deployer

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	TipHeight *prometheus.Desc

	DeploymentsStarted     *prometheus.Desc
	TransactionsBuilt      *prometheus.Desc
	TransactionsSigned     *prometheus.Desc
	TransactionsSubmitted  *prometheus.Desc
	ConfirmationsCommitted *prometheus.Desc
	RecordsSaved           *prometheus.Desc

	RpcError             *prometheus.Desc
	CollectError         *prometheus.Desc
	BuildError           *prometheus.Desc
	SignError            *prometheus.Desc
	SubmitError          *prometheus.Desc
	ConfirmationRejected *prometheus.Desc
	ConfirmationTimeout  *prometheus.Desc
	PersistError         *prometheus.Desc
}

func NewCollector() *Collector {
	return &Collector{
		TipHeight: prometheus.NewDesc("tip_height", "", nil, nil),

		DeploymentsStarted:     prometheus.NewDesc("deployments_started", "", nil, nil),
		TransactionsBuilt:      prometheus.NewDesc("transactions_built", "", nil, nil),
		TransactionsSigned:     prometheus.NewDesc("transactions_signed", "", nil, nil),
		TransactionsSubmitted:  prometheus.NewDesc("transactions_submitted", "", nil, nil),
		ConfirmationsCommitted: prometheus.NewDesc("confirmations_committed", "", nil, nil),
		RecordsSaved:           prometheus.NewDesc("records_saved", "", nil, nil),

		RpcError:             prometheus.NewDesc("error_rpc", "", nil, nil),
		CollectError:         prometheus.NewDesc("error_collect", "", nil, nil),
		BuildError:           prometheus.NewDesc("error_build", "", nil, nil),
		SignError:            prometheus.NewDesc("error_sign", "", nil, nil),
		SubmitError:          prometheus.NewDesc("error_submit", "", nil, nil),
		ConfirmationRejected: prometheus.NewDesc("error_confirmation_rejected", "", nil, nil),
		ConfirmationTimeout:  prometheus.NewDesc("error_confirmation_timeout", "", nil, nil),
		PersistError:         prometheus.NewDesc("error_persist", "", nil, nil),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.TipHeight

	ch <- self.DeploymentsStarted
	ch <- self.TransactionsBuilt
	ch <- self.TransactionsSigned
	ch <- self.TransactionsSubmitted
	ch <- self.ConfirmationsCommitted
	ch <- self.RecordsSaved

	ch <- self.RpcError
	ch <- self.CollectError
	ch <- self.BuildError
	ch <- self.SignError
	ch <- self.SubmitError
	ch <- self.ConfirmationRejected
	ch <- self.ConfirmationTimeout
	ch <- self.PersistError
}

func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	state := &self.monitor.Report.Deployer.State
	errors := &self.monitor.Report.Deployer.Errors

	ch <- prometheus.MustNewConstMetric(self.TipHeight, prometheus.GaugeValue, float64(self.monitor.Report.NetworkInfo.TipHeight.Load()))

	ch <- prometheus.MustNewConstMetric(self.DeploymentsStarted, prometheus.CounterValue, float64(state.DeploymentsStarted.Load()))
	ch <- prometheus.MustNewConstMetric(self.TransactionsBuilt, prometheus.CounterValue, float64(state.TransactionsBuilt.Load()))
	ch <- prometheus.MustNewConstMetric(self.TransactionsSigned, prometheus.CounterValue, float64(state.TransactionsSigned.Load()))
	ch <- prometheus.MustNewConstMetric(self.TransactionsSubmitted, prometheus.CounterValue, float64(state.TransactionsSubmitted.Load()))
	ch <- prometheus.MustNewConstMetric(self.ConfirmationsCommitted, prometheus.CounterValue, float64(state.ConfirmationsCommitted.Load()))
	ch <- prometheus.MustNewConstMetric(self.RecordsSaved, prometheus.CounterValue, float64(state.RecordsSaved.Load()))

	ch <- prometheus.MustNewConstMetric(self.RpcError, prometheus.CounterValue, float64(errors.RpcError.Load()))
	ch <- prometheus.MustNewConstMetric(self.CollectError, prometheus.CounterValue, float64(errors.CollectError.Load()))
	ch <- prometheus.MustNewConstMetric(self.BuildError, prometheus.CounterValue, float64(errors.BuildError.Load()))
	ch <- prometheus.MustNewConstMetric(self.SignError, prometheus.CounterValue, float64(errors.SignError.Load()))
	ch <- prometheus.MustNewConstMetric(self.SubmitError, prometheus.CounterValue, float64(errors.SubmitError.Load()))
	ch <- prometheus.MustNewConstMetric(self.ConfirmationRejected, prometheus.CounterValue, float64(errors.ConfirmationRejected.Load()))
	ch <- prometheus.MustNewConstMetric(self.ConfirmationTimeout, prometheus.CounterValue, float64(errors.ConfirmationTimeout.Load()))
	ch <- prometheus.MustNewConstMetric(self.PersistError, prometheus.CounterValue, float64(errors.PersistError.Load()))
}
