package deploy

import (
	"sync"
	"time"

	"github.com/votesecure/deployer/src/utils/config"
	"github.com/votesecure/deployer/src/utils/model"
	"github.com/votesecure/deployer/src/utils/monitoring"
	"github.com/votesecure/deployer/src/utils/task"

	"github.com/gammazero/deque"
)

// Store persists deployment records: the JSON config file consumed by
// the mobile app and the local deployment history database.
type Store struct {
	*task.Task

	input   chan *model.DeploymentRecord
	history *model.History
	monitor monitoring.Monitor

	mtx   sync.Mutex
	queue deque.Deque[*model.DeploymentRecord]
}

func NewStore(config *config.Config) (self *Store) {
	self = new(Store)

	self.Task = task.NewTask(config, "store").
		WithSubtaskFunc(self.run).
		WithWorkerPool(1).
		WithOnAfterStop(func() {
			if self.history != nil {
				err := self.history.Close()
				if err != nil {
					self.Log.WithError(err).Error("Failed to close history database")
				}
			}
		})

	return
}

func (self *Store) WithInputChannel(input chan *model.DeploymentRecord) *Store {
	self.input = input
	return self
}

func (self *Store) WithHistory(history *model.History) *Store {
	self.history = history
	return self
}

func (self *Store) WithMonitor(monitor monitoring.Monitor) *Store {
	self.monitor = monitor
	return self
}

func (self *Store) run() (err error) {
	for record := range self.input {
		self.mtx.Lock()
		self.queue.PushBack(record)
		self.mtx.Unlock()

		self.SubmitToWorker(self.flush)
	}
	return nil
}

func (self *Store) flush() {
	for {
		self.mtx.Lock()
		if self.queue.Len() == 0 {
			self.mtx.Unlock()
			return
		}
		record := self.queue.PopFront()
		self.mtx.Unlock()

		self.save(record)
	}
}

func (self *Store) save(record *model.DeploymentRecord) {
	err := task.NewRetry().
		WithContext(self.Ctx).
		WithMaxElapsedTime(30 * time.Second).
		WithOnError(func(err error) error {
			self.monitor.GetReport().Deployer.Errors.PersistError.Inc()
			self.Log.WithError(err).WithField("id", record.Id).
				Warn("Failed to save deployment record, retrying")
			return err
		}).
		Run(func() error {
			err := record.Save(self.Config.Deployer.RecordPath)
			if err != nil {
				return err
			}
			return self.history.Put(record)
		})
	if err != nil {
		self.Log.WithError(err).WithField("id", record.Id).
			Error("Failed to save deployment record")
		return
	}

	self.monitor.GetReport().Deployer.State.RecordsSaved.Inc()
	self.Log.WithField("path", self.Config.Deployer.RecordPath).
		WithField("id", record.Id).
		Info("Deployment record saved")
}
