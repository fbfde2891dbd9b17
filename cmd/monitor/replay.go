package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mempoolScope/internal/config"
	"mempoolScope/internal/dex"
	"mempoolScope/internal/model"
	"mempoolScope/internal/monitor"
)

// runReplay pushes captured pending transactions through decode and classify
// offline. No RPC connection is made, so token metadata stays unresolved.
func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}
	if cfg.Errors == "" {
		return fmt.Errorf("errors path is required")
	}
	if !common.IsHexAddress(cfg.Router) {
		return fmt.Errorf("invalid router address: %s", cfg.Router)
	}
	if !common.IsHexAddress(cfg.WrappedNative) {
		return fmt.Errorf("invalid wrapped-native address: %s", cfg.WrappedNative)
	}

	decoder, err := dex.NewDecoder(common.HexToAddress(cfg.Router))
	if err != nil {
		return err
	}
	classifier := dex.NewClassifier(common.HexToAddress(cfg.WrappedNative))
	ledger := monitor.NewLedger(0)

	inputFile, err := os.Open(cfg.In)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer inputFile.Close()

	outWriter, err := newJSONLWriter(cfg.Out, false)
	if err != nil {
		return err
	}
	defer outWriter.Close()

	errWriter, err := newJSONLWriter(cfg.Errors, false)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	logger.Info("replay start",
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
		zap.String("router", cfg.Router),
	)

	scanner := bufio.NewScanner(inputFile)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var total, classified, skipped, duplicates, failed int
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record model.RawPendingTx
		if err := json.Unmarshal(line, &record); err != nil {
			failed++
			writeDecodeFailure(logger, errWriter, model.DecodeFailure{Error: err.Error()})
			continue
		}

		intent, err := decoder.Decode(record)
		if err != nil {
			if errors.Is(err, dex.ErrNotRouterCall) {
				skipped++
				continue
			}
			failed++
			writeDecodeFailure(logger, errWriter, decodeFailureFromRecord(record, err))
			continue
		}

		direction := classifier.Classify(intent, record.ValueWei())
		if !ledger.Observe(record.Hash) {
			duplicates++
			continue
		}

		tokenAddr := classifier.TokenOf(intent, direction)
		meta := model.UnknownTokenMetadata(tokenAddr, time.Now().UTC())

		observedAt := record.ObservedAt
		if observedAt.IsZero() {
			observedAt = time.Now().UTC()
		}

		event := model.ClassifiedEvent{
			TxHash:       record.Hash,
			Direction:    direction,
			TokenAddress: tokenAddr,
			TokenSymbol:  meta.Symbol,
			TokenName:    meta.Name,
			NativeWei:    record.ValueWei().String(),
			Sender:       record.From,
			ObservedAt:   observedAt,
		}

		if err := outWriter.Write(event); err != nil {
			return err
		}
		classified++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	logger.Info("replay complete",
		zap.Int("total", total),
		zap.Int("classified", classified),
		zap.Int("skipped", skipped),
		zap.Int("duplicates", duplicates),
		zap.Int("failed", failed),
	)

	return nil
}

type jsonlWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func newJSONLWriter(path string, appendMode bool) (*jsonlWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &jsonlWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (w *jsonlWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	if w == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func decodeFailureFromRecord(record model.RawPendingTx, err error) model.DecodeFailure {
	selector := record.Input
	if len(selector) > 10 {
		selector = selector[:10]
	}

	return model.DecodeFailure{
		TxHash:   record.Hash,
		To:       record.To,
		Selector: selector,
		Error:    err.Error(),
	}
}

func writeDecodeFailure(logger *zap.Logger, writer *jsonlWriter, failure model.DecodeFailure) {
	if writer == nil {
		return
	}
	if err := writer.Write(failure); err != nil {
		logger.Warn("decode failure record write failed",
			zap.String("tx_hash", failure.TxHash),
			zap.Error(err),
		)
	}
}
