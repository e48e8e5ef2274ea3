package message

import (
	"caseflow/authority"
	"caseflow/bizerror"
	"caseflow/domain/transaction"
	"caseflow/event"
	"caseflow/idgen"
	"caseflow/persistence"
	"caseflow/session"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sony/sonyflake"
	"golang.org/x/time/rate"
)

var (
	messageIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	PostMessageFunc  = PostMessage
	ListMessagesFunc = ListMessages

	// one limiter per sender; idle senders expire with their cache entry
	senderLimiters   = cache.New(10*time.Minute, 1*time.Minute)
	messagesPerBurst = 5
	messageRate      = rate.Every(10 * time.Second)
)

// Message is a conversation note on a transaction, owned by it.
type Message struct {
	ID            types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	TransactionID string   `json:"transactionId" gorm:"index:idx_message_transaction;type:varchar(36)"`

	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Body       string `json:"body" sql:"type:TEXT"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (m *Message) TableName() string {
	return "transaction_messages"
}

type MessagePosting struct {
	Body string `json:"body" binding:"required"`
}

func senderLimiter(senderID string) *rate.Limiter {
	if cached, found := senderLimiters.Get(senderID); found {
		return cached.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(messageRate, messagesPerBurst)
	senderLimiters.Set(senderID, limiter, cache.DefaultExpiration)
	return limiter
}

func PostMessage(transactionID uuid.UUID, p *MessagePosting, s *session.Session) (*Message, error) {
	t, err := transaction.FindTransactionFunc(transactionID, s)
	if err != nil {
		return nil, err
	}
	if !authority.IsAllowedForInstanceFunc("view", t, s.Identity.ID, s.Perms) {
		return nil, bizerror.ErrForbidden
	}

	if !senderLimiter(s.Identity.ID).Allow() {
		return nil, bizerror.ErrTooManyRequests
	}

	m := Message{
		ID:            idgen.NextID(messageIdWorker),
		TransactionID: t.ID.String(),
		SenderID:      s.Identity.ID,
		SenderName:    s.Identity.Name,
		Body:          p.Body,
		CreateTime:    types.CurrentTimestamp(),
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Create(&m).Error; err != nil {
		return nil, err
	}

	event.SubmitFunc(event.NewEventRecord(event.SourceTypeMessage, m.ID.String(),
		t.ID.String(), event.EventCategoryCreated, nil, &s.Identity))

	return &m, nil
}

func ListMessages(transactionID uuid.UUID, s *session.Session) ([]Message, error) {
	t, err := transaction.FindTransactionFunc(transactionID, s)
	if err != nil {
		return nil, err
	}
	if !authority.IsAllowedForInstanceFunc("view", t, s.Identity.ID, s.Perms) {
		return nil, bizerror.ErrForbidden
	}

	messages := []Message{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Where(&Message{TransactionID: t.ID.String()}).Order("create_time ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
