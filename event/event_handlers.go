package event

import (
	"github.com/sirupsen/logrus"
)

// EventHandler returns nil when the record is not of its concern.
type EventHandler func(e *EventRecord) *EventHandleResult

type EventHandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

var EventHandlers []EventHandler

var InvokeHandlersFunc = invokeHandlers

func invokeHandlers(record *EventRecord) []EventHandleResult {
	results := []EventHandleResult{}
	for _, handler := range EventHandlers {
		r := handler(record)
		if r == nil {
			continue
		}

		results = append(results, *r)
		if r.Success {
			logrus.Infof("event handled: handler %s, source %s %s",
				r.HandlerIdentifier, record.SourceType, record.SourceId)
		} else {
			logrus.Errorf("event handling failed: handler %s, source %s %s: %s",
				r.HandlerIdentifier, record.SourceType, record.SourceId, r.Message)
		}
	}
	return results
}
