package indices

import (
	"caseflow/client/es"
	"caseflow/domain"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	TransactionIndexName = "transactions"
)

type TransactionDocument struct {
	domain.Transaction
}

type BatchActionError map[string]error

func (e BatchActionError) Error() string {
	return fmt.Sprintf("%v", map[string]error(e))
}

func IndexTransactions(transactions []domain.Transaction) error {
	docs := make([]TransactionDocument, 0, len(transactions))
	for _, t := range transactions {
		docs = append(docs, TransactionDocument{Transaction: t})
	}

	if err := saveTransactionDocuments(docs); err != nil {
		return err
	}
	return nil
}

func saveTransactionDocuments(docs []TransactionDocument) BatchActionError {
	errs := BatchActionError{}

	for _, doc := range docs {
		id := doc.ID.String()
		if err := es.IndexFunc(TransactionIndexName, id, doc, context.Background()); err != nil {
			errs[id] = err
			logrus.Warnf("index transaction %s %s\n", id, err)
		} else {
			logrus.Infof("index transaction %s successfully\n", id)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
