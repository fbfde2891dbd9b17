package chain

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"mempoolScope/internal/model"
)

// Subscription exposes the lifecycle of an upstream feed subscription.
// Reconnection is the feed operator's concern, not this client's.
type Subscription interface {
	Err() <-chan error
	Unsubscribe()
}

// Client wraps go-ethereum RPC and provides the pending-transaction feed and
// token metadata lookups.
type Client struct {
	rpcClient  *rpc.Client
	ethClient  *ethclient.Client
	gethClient *gethclient.Client

	mu      sync.Mutex
	chainID *big.Int
}

// NewClient creates a new chain client from the RPC URL. Pending-transaction
// subscriptions require a WebSocket endpoint.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient:  rpcClient,
		ethClient:  ethclient.NewClient(rpcClient),
		gethClient: gethclient.New(rpcClient),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// ChainID returns the chain ID, cached after the first call.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chainID != nil {
		return new(big.Int).Set(c.chainID), nil
	}

	id, err := c.ethClient.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	c.chainID = id
	return new(big.Int).Set(id), nil
}

// SubscribePendingTransactions subscribes to full pending-transaction objects
// and converts them into RawPendingTx records. The returned channel closes
// when the subscription ends.
func (c *Client) SubscribePendingTransactions(ctx context.Context) (<-chan model.RawPendingTx, Subscription, error) {
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get chain id: %w", err)
	}
	signer := types.LatestSignerForChainID(chainID)

	txCh := make(chan *types.Transaction, 256)
	sub, err := c.gethClient.SubscribeFullPendingTransactions(ctx, txCh)
	if err != nil {
		return nil, nil, fmt.Errorf("subscribe pending transactions: %w", err)
	}

	// The subscription never closes txCh; the converter owns closing out so
	// downstream consumers observe end-of-feed when the context ends.
	out := make(chan model.RawPendingTx, 256)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case tx, ok := <-txCh:
				if !ok {
					return
				}
				if tx == nil {
					continue
				}
				record, built := buildRawPendingTx(signer, tx)
				if !built {
					continue
				}
				select {
				case out <- record:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, sub, nil
}

func buildRawPendingTx(signer types.Signer, tx *types.Transaction) (model.RawPendingTx, bool) {
	from, err := types.Sender(signer, tx)
	if err != nil {
		return model.RawPendingTx{}, false
	}

	to := ""
	if tx.To() != nil {
		to = tx.To().Hex()
	}

	gasPrice := ""
	if tx.GasPrice() != nil {
		gasPrice = tx.GasPrice().String()
	}

	value := "0"
	if tx.Value() != nil {
		value = tx.Value().String()
	}

	return model.RawPendingTx{
		Hash:       tx.Hash().Hex(),
		From:       from.Hex(),
		To:         to,
		Value:      value,
		Input:      hexutil.Encode(tx.Data()),
		Gas:        tx.Gas(),
		GasPrice:   gasPrice,
		ObservedAt: time.Now().UTC(),
	}, true
}

// TokenMeta loads ERC20 symbol and name for a token contract, trying the
// string ABI first and falling back to bytes32 returns for legacy tokens.
func (c *Client) TokenMeta(ctx context.Context, token common.Address) (model.TokenMetadata, error) {
	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		return model.TokenMetadata{}, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20ABIBytes32Instance()
	if err != nil {
		return model.TokenMetadata{}, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	symbol, err := c.callStringMethod(ctx, token, "symbol", stringABI, bytes32ABI)
	if err != nil {
		return model.TokenMetadata{}, err
	}
	name, err := c.callStringMethod(ctx, token, "name", stringABI, bytes32ABI)
	if err != nil {
		return model.TokenMetadata{}, err
	}
	if symbol == "" && name == "" {
		return model.TokenMetadata{}, fmt.Errorf("token %s has no symbol or name", token.Hex())
	}

	return model.TokenMetadata{
		Address:    token.Hex(),
		Symbol:     symbol,
		Name:       name,
		Found:      true,
		ResolvedAt: time.Now().UTC(),
	}, nil
}

func (c *Client) callStringMethod(ctx context.Context, token common.Address, method string, stringABI, bytes32ABI abi.ABI) (string, error) {
	if values, err := c.callTokenMethod(ctx, token, stringABI, method); err == nil {
		if s, ok := values[0].(string); ok {
			return s, nil
		}
	}

	values, err := c.callTokenMethod(ctx, token, bytes32ABI, method)
	if err != nil {
		return "", fmt.Errorf("call %s on %s: %w", method, token.Hex(), err)
	}
	if s, ok := bytes32ToString(values[0]); ok {
		return s, nil
	}
	return "", fmt.Errorf("call %s on %s: unexpected return type %T", method, token.Hex(), values[0])
}

func (c *Client) callTokenMethod(ctx context.Context, token common.Address, parsed abi.ABI, method string) ([]interface{}, error) {
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &token, Data: data}
	resp, err := c.ethClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("call %s: empty return", method)
	}
	return values, nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}
