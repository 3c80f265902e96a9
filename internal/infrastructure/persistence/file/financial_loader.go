package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/turtacn/jalak-hijau/internal/config"
	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/monitoring"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// FinancialLoader loads transactions and companies from CSV files, falling
// back to the synthetic generator when either file is missing.
type FinancialLoader struct {
	cfg     *config.DataConfig
	logger  logger.Logger
	metrics *monitoring.Metrics

	mu     sync.Mutex
	cached *repository.FinancialDataset
}

var _ repository.FinancialDataRepository = (*FinancialLoader)(nil)

// NewFinancialLoader creates a FinancialLoader.
func NewFinancialLoader(cfg *config.DataConfig, log logger.Logger, metrics *monitoring.Metrics) *FinancialLoader {
	return &FinancialLoader{
		cfg:     cfg,
		logger:  log.WithComponent("financial-loader"),
		metrics: metrics,
	}
}

// Load returns the financial dataset, reading files on first use.
func (l *FinancialLoader) Load(ctx context.Context) (*repository.FinancialDataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil {
		return l.cached, nil
	}

	txnPath := filepath.Join(l.cfg.Dir, l.cfg.TxnFile)
	companyPath := filepath.Join(l.cfg.Dir, l.cfg.CompanyFile)

	if !fileExists(txnPath) || !fileExists(companyPath) {
		l.logger.Warn(ctx, "financial files missing, generating synthetic dataset", logger.Fields{
			"txn_file":     txnPath,
			"company_file": companyPath,
		})
		ds := syntheticFinancialDataset(l.cfg.SyntheticSeed)
		if l.metrics != nil {
			l.metrics.RecordDatasetReload("financial", "synthetic")
		}
		l.cached = ds
		return ds, nil
	}

	companies, err := loadCompanies(companyPath)
	if err != nil {
		return nil, err
	}
	txns, err := loadTransactions(txnPath)
	if err != nil {
		return nil, err
	}

	ds := &repository.FinancialDataset{
		Transactions: txns,
		Companies:    companies,
		Version:      fileVersion(txnPath, companyPath),
	}
	if l.metrics != nil {
		l.metrics.RecordDatasetReload("financial", "file")
	}
	l.logger.Info(ctx, "financial dataset loaded", logger.Fields{
		"transactions": len(txns),
		"companies":    len(companies),
		"version":      ds.Version,
	})
	l.cached = ds
	return ds, nil
}

// Invalidate drops the cached dataset so the next Load re-reads the files.
func (l *FinancialLoader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

// loadTransactions reads transactions.csv with the header
// id,timestamp,sender_id,receiver_id,amount_idr. Timestamps are RFC 3339.
func loadTransactions(path string) ([]models.Transaction, error) {
	rows, err := readCSV(path, 5)
	if err != nil {
		return nil, err
	}

	txns := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		ts, err := time.Parse(time.RFC3339, row[1])
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidArgument,
				fmt.Sprintf("bad timestamp at %s row %d", filepath.Base(path), i+2))
		}
		amount, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidArgument,
				fmt.Sprintf("bad amount at %s row %d", filepath.Base(path), i+2))
		}
		txns = append(txns, models.Transaction{
			ID:         row[0],
			Timestamp:  ts,
			SenderID:   row[2],
			ReceiverID: row[3],
			AmountIDR:  amount,
		})
	}
	return txns, nil
}

// loadCompanies reads companies.csv with the header id,name,region,type.
func loadCompanies(path string) ([]models.Company, error) {
	rows, err := readCSV(path, 4)
	if err != nil {
		return nil, err
	}

	companies := make([]models.Company, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, models.Company{
			ID:     row[0],
			Name:   row[1],
			Region: row[2],
			Type:   constants.CompanyType(row[3]),
		})
	}
	return companies, nil
}

// readCSV reads all data rows of a CSV file, skipping the header row and
// enforcing a minimum column count.
func readCSV(path string, minCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to open "+path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidArgument, "malformed CSV in "+path)
		}
		if first {
			first = false
			continue
		}
		if len(row) < minCols {
			return nil, errors.New(errors.CodeInvalidArgument,
				fmt.Sprintf("short row in %s: got %d columns, want %d", filepath.Base(path), len(row), minCols))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
