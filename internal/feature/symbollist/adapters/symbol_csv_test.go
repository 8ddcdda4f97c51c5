package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/symbollist/domain/entity"
)

// writeUniverse はテスト用のユニバースCSVファイルを作成してパスを返します。
func writeUniverse(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "universe.csv")
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err, "failed to write universe file")

	return path
}

// TestNewSymbolRepository はNewSymbolRepositoryコンストラクタが正しくインスタンスを生成することを検証します。
func TestNewSymbolRepository(t *testing.T) {
	t.Parallel()

	path := writeUniverse(t, "code,name\nRELIANCE.NS,Reliance Industries\n")
	repo, err := NewSymbolRepository(path)

	require.NoError(t, err)
	assert.NotNil(t, repo, "repository should not be nil")
}

// TestNewSymbolRepository_FileNotFound は存在しないファイルを指定した場合にエラーが返されることを検証します。
func TestNewSymbolRepository_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewSymbolRepository(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

// TestNewSymbolRepository_MalformedCSV は引用符が閉じていないCSVでエラーが返されることを検証します。
func TestNewSymbolRepository_MalformedCSV(t *testing.T) {
	t.Parallel()

	path := writeUniverse(t, "code,name\n\"RELIANCE.NS,Reliance\n")
	_, err := NewSymbolRepository(path)
	assert.Error(t, err)
}

// TestSymbolCSV_ListActive はユニバースがファイルの記載順で読み込まれることを検証します。
func TestSymbolCSV_ListActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []entity.Symbol
	}{
		{
			name:    "success: returns symbols in file order",
			content: "code,name\nRELIANCE.NS,Reliance Industries\nTCS.NS,Tata Consultancy Services\n",
			expected: []entity.Symbol{
				{Code: "RELIANCE.NS", Name: "Reliance Industries"},
				{Code: "TCS.NS", Name: "Tata Consultancy Services"},
			},
		},
		{
			name:     "success: header only yields empty universe",
			content:  "code,name\n",
			expected: []entity.Symbol{},
		},
		{
			name:    "success: skips blank lines and blank codes",
			content: "code,name\n\nRELIANCE.NS,Reliance Industries\n,Orphan Name\n   ,\nTCS.NS,Tata Consultancy Services\n",
			expected: []entity.Symbol{
				{Code: "RELIANCE.NS", Name: "Reliance Industries"},
				{Code: "TCS.NS", Name: "Tata Consultancy Services"},
			},
		},
		{
			name:    "success: keeps first row for duplicated codes",
			content: "code,name\nRELIANCE.NS,Reliance Industries\nRELIANCE.NS,Duplicate Row\n",
			expected: []entity.Symbol{
				{Code: "RELIANCE.NS", Name: "Reliance Industries"},
			},
		},
		{
			name:    "success: missing name falls back to code",
			content: "code,name\nRELIANCE.NS\nTCS.NS,\n",
			expected: []entity.Symbol{
				{Code: "RELIANCE.NS", Name: "RELIANCE.NS"},
				{Code: "TCS.NS", Name: "TCS.NS"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, err := NewSymbolRepository(writeUniverse(t, tt.content))
			require.NoError(t, err)

			symbols, err := repo.ListActive(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, symbols)
		})
	}
}

// TestSymbolCSV_ListActiveCodes は銘柄コードのみが記載順で返されることを検証します。
func TestSymbolCSV_ListActiveCodes(t *testing.T) {
	t.Parallel()

	repo, err := NewSymbolRepository(writeUniverse(t,
		"code,name\nRELIANCE.NS,Reliance Industries\nTCS.NS,Tata Consultancy Services\nHDFCBANK.NS,HDFC Bank\n"))
	require.NoError(t, err)

	codes, err := repo.ListActiveCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS"}, codes)
}

// TestSymbolCSV_ListActive_ReturnsCopy は返されたスライスを書き換えても内部状態が変わらないことを検証します。
func TestSymbolCSV_ListActive_ReturnsCopy(t *testing.T) {
	t.Parallel()

	repo, err := NewSymbolRepository(writeUniverse(t, "code,name\nRELIANCE.NS,Reliance Industries\n"))
	require.NoError(t, err)

	first, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	first[0].Code = "MUTATED"

	second, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "RELIANCE.NS", second[0].Code)
}
