package db_test

import (
	"testing"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/db"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/dbtest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_BackfillsSearchText(t *testing.T) {
	gdb := dbtest.Open(t)

	p := model.Product{SellerID: 1, Title: "Straße Map", Price: decimal.NewFromInt(3), Condition: model.ConditionGood, Quantity: 1}
	require.NoError(t, gdb.Create(&p).Error)
	// 列追加前の状態を再現
	require.NoError(t, gdb.Model(&model.Product{}).Where("id = ?", p.ID).UpdateColumn("search_text", "").Error)

	require.NoError(t, db.Migrate(gdb))

	var got model.Product
	require.NoError(t, gdb.First(&got, p.ID).Error)
	assert.Equal(t, "strasse map", got.SearchText)
}
