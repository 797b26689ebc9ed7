package gateway

import (
	"context"
	"sync"

	"gatepass/entity"
)

type ClientMock struct {
	mock sync.Mutex

	Transactions map[string]entity.Transaction
	VerifyErr    error

	VerifiedIDs []string
}

func (c *ClientMock) VerifyTransaction(ctx context.Context, transactionID string) (entity.Transaction, error) {
	c.mock.Lock()
	defer c.mock.Unlock()

	c.VerifiedIDs = append(c.VerifiedIDs, transactionID)

	if c.VerifyErr != nil {
		return entity.Transaction{}, c.VerifyErr
	}

	tx, ok := c.Transactions[transactionID]
	if !ok {
		return entity.Transaction{}, entity.ErrNotFound
	}

	return tx, nil
}
