package csvexport

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtures(t *testing.T) ([]models.Transaction, []models.Verdict) {
	t.Helper()
	d := time.Date(2024, time.December, 5, 0, 0, 0, 0, time.UTC)
	a, ok := models.NewTransaction("TIM HORTONS, #123", d, decimal.RequireFromString("4.5"))
	require.True(t, ok)
	b, ok := models.NewTransaction("PAYMENT THANK YOU", d, decimal.RequireFromString("500"))
	require.True(t, ok)
	return []models.Transaction{a, b}, []models.Verdict{models.Assign(models.CategorySchoolMeals), models.Ignore}
}

func TestWrite(t *testing.T) {
	txs, verdicts := fixtures(t)
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, txs, verdicts))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,merchant,amount,category,ignored", lines[0])
	assert.Equal(t, `2024-12-05,"TIM HORTONS, #123",4.50,school meals,false`, lines[1])
	assert.Equal(t, "2024-12-05,PAYMENT THANK YOU,500.00,,true", lines[2])
}

func TestWrite_LengthMismatch(t *testing.T) {
	txs, _ := fixtures(t)
	assert.Error(t, Write(&bytes.Buffer{}, txs, nil))
}

func TestWriteFile(t *testing.T) {
	txs, verdicts := fixtures(t)
	path := filepath.Join(t.TempDir(), "dump.csv")

	require.NoError(t, WriteFile(path, txs, verdicts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "date,merchant,amount,category,ignored\n"))
}
