package event

import (
	"caseflow/persistence"

	"github.com/sirupsen/logrus"
)

// TaskSubmitFunc is the executor used for detached work. The default spawns a
// goroutine; deployments and tests may inject their own.
var TaskSubmitFunc = func(task func()) { go task() }

var SubmitFunc = Submit

// Submit dispatches an audit record off the request path: persist, then invoke
// handlers. The caller never waits on the result; failures are captured here
// at ERROR and go no further.
func Submit(record *EventRecord) {
	TaskSubmitFunc(func() {
		defer func() {
			if ret := recover(); ret != nil {
				logrus.Errorf("audit event dispatch panic: source %s/%s: %v",
					record.SourceType, record.SourceId, ret)
			}
		}()

		db := persistence.ActiveDataSourceManager.GormDB(nil)
		if err := EventPersistCreateFunc(record, db); err != nil {
			logrus.Errorf("failed to persist audit event: source %s/%s: %v",
				record.SourceType, record.SourceId, err)
			return
		}
		if InvokeHandlersFunc != nil {
			InvokeHandlersFunc(record)
		}
	})
}
