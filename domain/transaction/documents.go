package transaction

import (
	"caseflow/authority"
	"caseflow/bizerror"
	"caseflow/client/s3"
	"caseflow/domain"
	"caseflow/session"
	"io"

	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
)

var (
	UploadCustomerDocumentFunc   = UploadCustomerDocument
	DownloadCustomerDocumentFunc = DownloadCustomerDocument
)

// UploadCustomerDocument stores the content in the document bucket and links
// it onto the transaction. Documents are composition-owned by the transaction.
func UploadCustomerDocument(transactionID uuid.UUID, path string, content io.Reader, s *session.Session) (*domain.CustomerDocument, error) {
	t, err := FindTransactionFunc(transactionID, s)
	if err != nil {
		return nil, err
	}
	if !authority.IsAllowedForInstanceFunc("update", t, s.Identity.ID, s.Perms) {
		return nil, bizerror.ErrForbidden
	}

	doc := domain.CustomerDocument{
		ID:         uuid.New().String(),
		Path:       path,
		UploadedBy: s.Identity.ID,
		UploadTime: types.CurrentTimestamp(),
	}
	doc.ObjectKey = "transactions/" + t.ID.String() + "/" + doc.ID

	if err := s3.PutObjectFunc(doc.ObjectKey, content, s); err != nil {
		return nil, err
	}

	t.Documents = append(t.Documents, doc)
	t.LastUpdatedBy = s.Identity.ID
	t.LastUpdateTime = types.CurrentTimestamp()
	if err := SaveTransactionFunc(t, s); err != nil {
		return nil, err
	}

	return &doc, nil
}

func DownloadCustomerDocument(transactionID uuid.UUID, documentID string, s *session.Session) (io.ReadCloser, error) {
	t, err := FindTransactionFunc(transactionID, s)
	if err != nil {
		return nil, err
	}
	if !authority.IsAllowedForInstanceFunc("view", t, s.Identity.ID, s.Perms) {
		return nil, bizerror.ErrForbidden
	}

	for _, doc := range t.Documents {
		if doc.ID == documentID {
			return s3.GetObjectFunc(doc.ObjectKey, s)
		}
	}
	return nil, bizerror.ErrNotFound
}
