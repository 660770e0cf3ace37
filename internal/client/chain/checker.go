package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/protocolbanks/x402-api/internal/logger"
)

// ReceiptChecker confirms transaction execution against chain RPC nodes.
// Clients are dialed lazily per chain and reused.
type ReceiptChecker struct {
	mu      sync.Mutex
	clients map[int64]*ethclient.Client
	rpcURLs map[int64]string
	logger  *zap.Logger
}

// NewReceiptChecker creates a checker over a chainID -> RPC URL map.
func NewReceiptChecker(rpcURLs map[int64]string) *ReceiptChecker {
	return &ReceiptChecker{
		clients: make(map[int64]*ethclient.Client),
		rpcURLs: rpcURLs,
		logger:  logger.Log,
	}
}

// ConfirmTransaction reports whether txHash has a successful receipt on
// the given chain. A missing receipt is not an error: the transaction may
// simply not be mined yet.
func (c *ReceiptChecker) ConfirmTransaction(ctx context.Context, chainID int64, txHash string) (bool, error) {
	client, err := c.clientFor(chainID)
	if err != nil {
		return false, err
	}

	receipt, err := client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to fetch receipt for %s: %w", txHash, err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		c.logger.Warn("Transaction reverted on-chain",
			zap.Int64("chain_id", chainID),
			zap.String("tx_hash", txHash))
		return false, nil
	}

	return true, nil
}

func (c *ReceiptChecker) clientFor(chainID int64) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[chainID]; ok {
		return client, nil
	}

	rpcURL, ok := c.rpcURLs[chainID]
	if !ok {
		return nil, fmt.Errorf("no RPC URL configured for chain id %d", chainID)
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain %d RPC: %w", chainID, err)
	}

	c.clients[chainID] = client
	return client, nil
}
