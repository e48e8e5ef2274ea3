package event

import (
	"caseflow/idgen"
	"caseflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

var eventIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

func NewEventRecord(sourceType, sourceId, sourceDesc string, category EventCategory,
	updatedProperties []UpdatedProperty, identity *session.Identity) *EventRecord {

	return &EventRecord{
		ID: idgen.NextID(eventIdWorker),
		Event: Event{
			SourceType: sourceType,
			SourceId:   sourceId,
			SourceDesc: sourceDesc,

			EventCategory:     category,
			UpdatedProperties: updatedProperties,

			CreatorId:   identity.ID,
			CreatorName: identity.Name,
		},
		Synced:    false,
		Timestamp: types.CurrentTimestamp(),
	}
}
