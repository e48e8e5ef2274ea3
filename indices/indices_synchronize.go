package indices

import (
	"caseflow/authority"
	"caseflow/bizerror"
	"caseflow/client/es"
	"caseflow/domain"
	"caseflow/domain/transaction"
	"caseflow/event"
	"caseflow/session"
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	TransactionIndexEventHandlerName = "transactionIndexer"

	indexRobot = &session.Session{
		Identity: session.Identity{ID: "index-robot", Name: "index-robot"},
		Perms:    authority.Permissions{"agency:transaction:view"},
	}

	lock    sync.Mutex
	running bool

	IndicesFullSyncFunc    = IndicesFullSync
	ScheduleNewSyncRunFunc = ScheduleNewSyncRun

	SyncBatchSize = 500
	// keep bulk reindexing from starving the cluster
	syncLimiter = rate.NewLimiter(rate.Limit(10), 10)
)

func ScheduleNewSyncRun(sec *session.Session) (bool, error) {
	if !authority.IsAllowedFunc("manage-indices", "transaction", sec.Perms) {
		return false, bizerror.ErrForbidden
	}

	lock.Lock()
	if running {
		lock.Unlock()
		return false, nil
	}
	running = true
	lock.Unlock()

	waitRunning := sync.WaitGroup{}
	waitRunning.Add(1)
	go func() {
		waitRunning.Done()
		defer func() {
			lock.Lock()
			running = false
			lock.Unlock()
		}()
		IndicesFullSyncFunc()
	}()
	waitRunning.Wait()
	return true, nil
}

func IndicesFullSync() (err error) {
	defer func() {
		if ret := recover(); ret != nil {
			e, ok := ret.(error)
			if ok {
				err = e
			} else {
				err = fmt.Errorf("error on indices full sync: %v", ret)
			}
		}
	}()

	page := 1
	for {
		if err := syncLimiter.Wait(context.Background()); err != nil {
			return err
		}

		transactions, err := transaction.LoadTransactionsFunc(page, SyncBatchSize)
		if err != nil {
			logrus.Warnf("indices fully sync: error on retrieve transactions(page = %d, pageSize = %d): %v", page, SyncBatchSize, err)
			return err
		}

		if len(transactions) == 0 {
			logrus.Infof("indices fully sync: there are no more transactions to index")
			return nil // loop exit
		}

		if err := IndexTransactions(transactions); err != nil {
			logrus.Warnf("indices fully sync: error on index transactions(page = %d, pageSize = %d): %v", page, SyncBatchSize, err)
		}
		page++
	}
}

func IndexTransactionEventHandle(e *event.EventRecord) *event.EventHandleResult {
	if e.SourceType != event.SourceTypeTransaction {
		return nil
	}

	if e.EventCategory == event.EventCategoryDeleted {
		err := es.DeleteDocumentByIdFunc(TransactionIndexName, e.Event.SourceId, context.Background())
		if err != nil {
			return &event.EventHandleResult{
				Message:           fmt.Sprintf("delete transaction index %s, %v", e.Event.SourceId, err),
				HandlerIdentifier: TransactionIndexEventHandlerName,
			}
		}
		return &event.EventHandleResult{Success: true, HandlerIdentifier: TransactionIndexEventHandlerName}
	}

	id, err := uuid.Parse(e.Event.SourceId)
	if err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("invalid transaction id %s, %v", e.Event.SourceId, err),
			HandlerIdentifier: TransactionIndexEventHandlerName,
		}
	}
	t, err := transaction.FindTransactionFunc(id, indexRobot)
	if err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("detail transaction when index %s, %v", e.Event.SourceId, err),
			HandlerIdentifier: TransactionIndexEventHandlerName,
		}
	}
	if err := IndexTransactions([]domain.Transaction{*t}); err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("index transaction %s, %v", e.Event.SourceId, err),
			HandlerIdentifier: TransactionIndexEventHandlerName,
		}
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: TransactionIndexEventHandlerName}
}
