// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"stock_dashboard/internal/feature/symbollist/domain/entity"
	"stock_dashboard/internal/feature/symbollist/usecase"
)

// symbolCSV はSymbolRepositoryインターフェースのCSVファイル実装です。
// ユニバースは構築時に一度だけ読み込み、以降はメモリ上のコピーを返します。
type symbolCSV struct {
	symbols []entity.Symbol
}

var _ usecase.SymbolRepository = (*symbolCSV)(nil)

// NewSymbolRepository は指定されたCSVファイルからユニバースを読み込みます。
// ファイルは code,name のヘッダー行を持ちます。空行と空のコードは読み飛ばし、
// 重複するコードは最初の行を採用します。
func NewSymbolRepository(path string) (*symbolCSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe file: %w", err)
	}
	defer f.Close()

	symbols, err := parseUniverse(f)
	if err != nil {
		return nil, fmt.Errorf("parse universe file %s: %w", path, err)
	}
	return &symbolCSV{symbols: symbols}, nil
}

// ListActive はユニバースの全銘柄をファイルの記載順で返します。
func (r *symbolCSV) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	out := make([]entity.Symbol, len(r.symbols))
	copy(out, r.symbols)
	return out, nil
}

// ListActiveCodes はユニバースの銘柄コードのみをファイルの記載順で返します。
func (r *symbolCSV) ListActiveCodes(ctx context.Context) ([]string, error) {
	codes := make([]string, 0, len(r.symbols))
	for _, s := range r.symbols {
		codes = append(codes, s.Code)
	}
	return codes, nil
}

func parseUniverse(r io.Reader) ([]entity.Symbol, error) {
	cr := csv.NewReader(r)
	// 名前の列は省略可能なので列数は固定しない
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	symbols := make([]entity.Symbol, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		code := strings.TrimSpace(record[0])
		// ヘッダー行はコード列の値で判定する
		if i == 0 && strings.EqualFold(code, "code") {
			continue
		}
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}

		name := ""
		if len(record) > 1 {
			name = strings.TrimSpace(record[1])
		}
		if name == "" {
			// 表示名がない場合はコードをそのまま表示に使う
			name = code
		}
		symbols = append(symbols, entity.Symbol{Code: code, Name: name})
	}
	return symbols, nil
}
