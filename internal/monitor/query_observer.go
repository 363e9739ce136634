package monitor

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meridianpay/wallet-platform-backend/db"
)

// QueryObserver routes document store command durations into the monitor
// service, splitting successful and failed commands into separate series.
type QueryObserver struct {
	monitorService MonitorServiceInterface
}

func NewQueryObserver(monitorService MonitorServiceInterface) *QueryObserver {
	return &QueryObserver{monitorService: monitorService}
}

func (o *QueryObserver) ObserveQuery(commandName string, duration time.Duration, success bool) {
	tag := SuccessfulQueryDurationTag
	if !success {
		tag = FailureQueryDurationTag
	}

	err := o.monitorService.MonitorDBQueryDuration(duration, tag, DBQueryLabels{QueryType: commandName})
	if err != nil {
		logrus.Errorf("recording db query duration: %v", err)
	}
}

var _ db.QueryObserver = (*QueryObserver)(nil)
