package dex

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"mempoolScope/internal/model"
)

var (
	// ErrNotRouterCall marks transactions addressed to anything but the
	// monitored router. Expected and high-frequency; not a parse failure.
	ErrNotRouterCall = errors.New("not a router call")

	// ErrMalformed marks router calls whose call data cannot be decoded
	// against the supported swap layouts.
	ErrMalformed = errors.New("malformed router call")
)

// Decoder turns raw pending-transaction call data into a SwapIntent. Pure and
// stateless after construction; safe for concurrent use.
type Decoder struct {
	router    common.Address
	routerABI abi.ABI
	layouts   map[[4]byte]methodLayout
}

// NewDecoder builds a decoder for the given router address.
func NewDecoder(router common.Address) (*Decoder, error) {
	routerABI, err := V2RouterABI()
	if err != nil {
		return nil, fmt.Errorf("parse router abi: %w", err)
	}

	layouts := make(map[[4]byte]methodLayout, len(swapLayouts))
	for _, layout := range swapLayouts {
		method, ok := routerABI.Methods[layout.Name]
		if !ok {
			return nil, fmt.Errorf("router abi missing method %s", layout.Name)
		}
		var selector [4]byte
		copy(selector[:], method.ID)
		layouts[selector] = layout
	}

	return &Decoder{
		router:    router,
		routerABI: routerABI,
		layouts:   layouts,
	}, nil
}

// Decode extracts a SwapIntent from a pending transaction. It returns
// ErrNotRouterCall for transactions not addressed to the router and
// ErrMalformed (wrapped with detail) for router calls that do not decode.
func (d *Decoder) Decode(tx model.RawPendingTx) (model.SwapIntent, error) {
	if tx.To == "" || !common.IsHexAddress(tx.To) {
		return model.SwapIntent{}, ErrNotRouterCall
	}
	if common.HexToAddress(tx.To) != d.router {
		return model.SwapIntent{}, ErrNotRouterCall
	}

	input, err := hexutil.Decode(tx.Input)
	if err != nil {
		return model.SwapIntent{}, fmt.Errorf("%w: bad input encoding: %v", ErrMalformed, err)
	}
	if len(input) < 4 {
		return model.SwapIntent{}, fmt.Errorf("%w: input shorter than selector", ErrMalformed)
	}

	var selector [4]byte
	copy(selector[:], input[:4])

	layout, ok := d.layouts[selector]
	if !ok {
		return model.SwapIntent{}, fmt.Errorf("%w: unsupported selector %s", ErrMalformed, hexutil.Encode(selector[:]))
	}

	args := input[4:]
	if len(args)%32 != 0 {
		return model.SwapIntent{}, fmt.Errorf("%w: misaligned argument region (%d bytes)", ErrMalformed, len(args))
	}

	values, err := d.routerABI.Methods[layout.Name].Inputs.Unpack(args)
	if err != nil {
		return model.SwapIntent{}, fmt.Errorf("%w: %s arguments: %v", ErrMalformed, layout.Name, err)
	}

	path, err := pathArg(values, layout.PathArg)
	if err != nil {
		return model.SwapIntent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(path) < 2 {
		return model.SwapIntent{}, fmt.Errorf("%w: path has %d hops", ErrMalformed, len(path))
	}

	recipient, err := addressArg(values, layout.ToArg)
	if err != nil {
		return model.SwapIntent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	deadline, err := bigArg(values, layout.DeadlineArg)
	if err != nil {
		return model.SwapIntent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	amountIn := tx.ValueWei()
	if layout.AmountInArg >= 0 {
		amountIn, err = bigArg(values, layout.AmountInArg)
		if err != nil {
			return model.SwapIntent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	amountOut, err := bigArg(values, layout.AmountOutArg)
	if err != nil {
		return model.SwapIntent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return model.SwapIntent{
		Selector:     selector,
		Method:       layout.Name,
		Variant:      layout.Variant,
		Path:         hexPath(path),
		AmountIn:     amountIn,
		AmountOutMin: amountOut,
		Deadline:     deadline,
		Recipient:    recipient.Hex(),
	}, nil
}

func pathArg(values []interface{}, idx int) ([]common.Address, error) {
	if idx < 0 || idx >= len(values) {
		return nil, fmt.Errorf("path argument index %d out of range", idx)
	}
	path, ok := values[idx].([]common.Address)
	if !ok {
		return nil, fmt.Errorf("path argument has type %T", values[idx])
	}
	return path, nil
}

func addressArg(values []interface{}, idx int) (common.Address, error) {
	if idx < 0 || idx >= len(values) {
		return common.Address{}, fmt.Errorf("address argument index %d out of range", idx)
	}
	addr, ok := values[idx].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("address argument has type %T", values[idx])
	}
	return addr, nil
}

func bigArg(values []interface{}, idx int) (*big.Int, error) {
	if idx < 0 || idx >= len(values) {
		return nil, fmt.Errorf("uint256 argument index %d out of range", idx)
	}
	v, ok := values[idx].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("uint256 argument has type %T", values[idx])
	}
	return new(big.Int).Set(v), nil
}

func hexPath(path []common.Address) []string {
	out := make([]string, 0, len(path))
	for _, hop := range path {
		out = append(out, hop.Hex())
	}
	return out
}
