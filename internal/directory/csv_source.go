package directory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/banking/merchant-firewall/internal/domain"
)

// CSVSource reads the merchant master dataset and the company-name corpus
// from CSV files. It resolves columns by header name so column order in
// the exported datasets does not matter.
type CSVSource struct {
	MasterPath  string
	CompanyPath string
}

// MerchantRows reads the master dataset
func (s *CSVSource) MerchantRows(ctx context.Context) ([]Row, error) {
	records, err := readCSV(s.MasterPath)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", domain.ErrConfiguration, s.MasterPath)
	}

	col := headerIndex(records[0])
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows = append(rows, Row{
			MerchantID:            strings.TrimSpace(field(rec, col, "merchant_id")),
			MerchantName:          strings.TrimSpace(field(rec, col, "merchant_name")),
			TrustScore:            parseFloat(field(rec, col, "merchant_trust_score"), 50),
			RiskScore:             parseFloat(field(rec, col, "risk_score"), 0.5),
			RenameSimilarityScore: int(parseFloat(field(rec, col, "rename_similarity_score"), 0)),
			PatternsDetected:      field(rec, col, "patterns_detected"),
			FinalDecision:         field(rec, col, "final_decision"),
			ClosestCompanyMatch:   strings.TrimSpace(field(rec, col, "closest_company_match")),
			MicrochargeRate:       parseFloat(field(rec, col, "microcharge_rate"), 0),
			SpikeRatio:            parseFloat(field(rec, col, "spike_ratio"), 0),
			AnomalyScore:          parseFloat(field(rec, col, "anomaly_score"), 0),
		})
	}
	return rows, nil
}

// CompanyNames reads the corpus file, taking the first column whose header
// mentions "name" or "company", falling back to the first column.
func (s *CSVSource) CompanyNames(ctx context.Context) ([]string, error) {
	records, err := readCSV(s.CompanyPath)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", domain.ErrConfiguration, s.CompanyPath)
	}

	nameCol := 0
	for i, h := range records[0] {
		h = strings.ToLower(strings.TrimSpace(h))
		if strings.Contains(h, "name") || strings.Contains(h, "company") {
			nameCol = i
			break
		}
	}

	names := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if nameCol < len(rec) {
			names = append(names, rec[nameCol])
		}
	}
	return names, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func field(rec []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}
